package plan

import (
	"github.com/jar398/bayeslite/sql"
)

// SimCol is a named output of a simulate operation.
type SimCol struct {
	Expression sql.Expression
	Name       string
}

// NewSimCol creates a new simulate output column.
func NewSimCol(e sql.Expression, name string) SimCol {
	return SimCol{Expression: e, Name: name}
}

func (c SimCol) String() string {
	return aliased(c.Expression.String(), c.Name)
}

// SimulateModelsExpr is a request to simulate arbitrary expressions under
// the joint posterior of a generator. It is a macro: its columns may combine
// several estimators with ordinary arithmetic, and it must be hoisted into a
// SimulateModels before execution.
type SimulateModelsExpr struct {
	Columns    []SimCol
	Population string
	Generator  string
}

// NewSimulateModelsExpr creates a new SimulateModelsExpr macro.
func NewSimulateModelsExpr(columns []SimCol, population, generator string) *SimulateModelsExpr {
	return &SimulateModelsExpr{Columns: columns, Population: population, Generator: generator}
}

func (s *SimulateModelsExpr) String() string {
	return simulateString("SimulateModelsExpr", s.Columns, s.Population, s.Generator)
}

// Children implements the Node interface.
func (*SimulateModelsExpr) Children() []sql.Node {
	return nil
}

// WithChildren implements the Node interface.
func (s *SimulateModelsExpr) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 0)
	}
	return s, nil
}

// Expressions implements the sql.Expressioner interface.
func (s *SimulateModelsExpr) Expressions() []sql.Expression {
	return simColExpressions(s.Columns)
}

// WithExpressions implements the sql.Expressioner interface.
func (s *SimulateModelsExpr) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != len(s.Columns) {
		return nil, sql.ErrInvalidExpressionNumber.New(s, len(exprs), len(s.Columns))
	}
	ns := *s
	ns.Columns = withSimColExpressions(s.Columns, exprs)
	return &ns, nil
}

// SimulateModels is a simulate operation whose columns are all atomic
// estimators, directly answerable by the sampler of a generator. It is
// executed as a table-valued function returning one row per simulated draw.
type SimulateModels struct {
	Columns    []SimCol
	Population string
	Generator  string
}

// NewSimulateModels creates a new SimulateModels.
func NewSimulateModels(columns []SimCol, population, generator string) *SimulateModels {
	return &SimulateModels{Columns: columns, Population: population, Generator: generator}
}

func (s *SimulateModels) String() string {
	return simulateString("SimulateModels", s.Columns, s.Population, s.Generator)
}

// Children implements the Node interface.
func (*SimulateModels) Children() []sql.Node {
	return nil
}

// WithChildren implements the Node interface.
func (s *SimulateModels) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 0)
	}
	return s, nil
}

// Expressions implements the sql.Expressioner interface.
func (s *SimulateModels) Expressions() []sql.Expression {
	return simColExpressions(s.Columns)
}

// WithExpressions implements the sql.Expressioner interface.
func (s *SimulateModels) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != len(s.Columns) {
		return nil, sql.ErrInvalidExpressionNumber.New(s, len(exprs), len(s.Columns))
	}
	ns := *s
	ns.Columns = withSimColExpressions(s.Columns, exprs)
	return &ns, nil
}

func simulateString(name string, columns []SimCol, population, generator string) string {
	p := sql.NewTreePrinter()
	if generator == "" {
		_ = p.WriteNode("%s(%s)", name, population)
	} else {
		_ = p.WriteNode("%s(%s, %s)", name, population, generator)
	}

	children := make([]string, len(columns))
	for i, c := range columns {
		children[i] = c.String()
	}
	_ = p.WriteChildren(children...)
	return p.String()
}

func simColExpressions(columns []SimCol) []sql.Expression {
	exprs := make([]sql.Expression, len(columns))
	for i, c := range columns {
		exprs[i] = c.Expression
	}
	return exprs
}

func withSimColExpressions(columns []SimCol, exprs []sql.Expression) []SimCol {
	out := make([]SimCol, len(columns))
	for i, c := range columns {
		out[i] = SimCol{Expression: exprs[i], Name: c.Name}
	}
	return out
}

var (
	_ sql.Expressioner = (*SimulateModelsExpr)(nil)
	_ sql.Expressioner = (*SimulateModels)(nil)
)
