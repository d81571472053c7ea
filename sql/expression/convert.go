package expression

import (
	"fmt"

	"github.com/jar398/bayeslite/sql"
)

// Cast converts the value of an expression to a named SQL type.
type Cast struct {
	Child sql.Expression
	Type  string
}

// NewCast creates a new Cast expression.
func NewCast(child sql.Expression, typ string) *Cast {
	return &Cast{Child: child, Type: typ}
}

func (c *Cast) String() string {
	var r refs
	return r.tree(fmt.Sprintf("CAST(%s AS %s)", r.ref(c.Child), c.Type))
}

// Children implements the Expression interface.
func (c *Cast) Children() []sql.Expression {
	return []sql.Expression{c.Child}
}

// WithChildren implements the Expression interface.
func (c *Cast) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 1)
	}
	return NewCast(children[0], c.Type), nil
}
