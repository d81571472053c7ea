package expression

import (
	"fmt"
	"strings"

	"github.com/jar398/bayeslite/sql"
)

// Function is the application of a named SQL function (scalar or aggregate)
// to a sequence of arguments.
type Function struct {
	Name     string
	Distinct bool
	Args     []sql.Expression
}

// NewFunction creates a new function application.
func NewFunction(name string, distinct bool, args ...sql.Expression) *Function {
	return &Function{Name: name, Distinct: distinct, Args: args}
}

func (f *Function) String() string {
	args := make([]string, len(f.Args))
	for i, e := range f.Args {
		args[i] = e.String()
	}

	name := f.Name
	if f.Distinct {
		name += " DISTINCT"
	}
	if s, ok := treeString(fmt.Sprintf("Function(%s)", name), args); ok {
		return s
	}

	if f.Distinct {
		return fmt.Sprintf("%s(DISTINCT %s)", f.Name, strings.Join(args, ", "))
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(args, ", "))
}

// Children implements the Expression interface.
func (f *Function) Children() []sql.Expression {
	return f.Args
}

// WithChildren implements the Expression interface.
func (f *Function) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != len(f.Args) {
		return nil, sql.ErrInvalidChildrenNumber.New(f, len(children), len(f.Args))
	}
	nf := *f
	nf.Args = children
	return &nf, nil
}

// FunctionStar is the application of a function to all the columns of a row,
// like COUNT(*).
type FunctionStar struct {
	Name string
}

// NewFunctionStar creates a new FunctionStar.
func NewFunctionStar(name string) *FunctionStar {
	return &FunctionStar{Name: name}
}

func (f *FunctionStar) String() string {
	return f.Name + "(*)"
}

// Children implements the Expression interface.
func (*FunctionStar) Children() []sql.Expression {
	return nil
}

// WithChildren implements the Expression interface.
func (f *FunctionStar) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(f, len(children), 0)
	}
	return f, nil
}
