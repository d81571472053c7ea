package expression

import (
	"strings"

	"github.com/jar398/bayeslite/sql"
)

// Subquery is a query used as a scalar expression.
type Subquery struct {
	Query sql.Node
}

// NewSubquery returns a new subquery expression.
func NewSubquery(node sql.Node) *Subquery {
	return &Subquery{Query: node}
}

func (s *Subquery) String() string {
	return nestedString("Subquery", s.Query)
}

// WithChildren implements the Expression interface.
func (s *Subquery) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 0)
	}
	return s, nil
}

// Children implements the Expression interface.
func (s *Subquery) Children() []sql.Expression {
	return nil
}

// NestedQuery implements the sql.QueryExpression interface.
func (s *Subquery) NestedQuery() sql.Node {
	return s.Query
}

// WithQuery returns the subquery with the query node changed.
func (s *Subquery) WithQuery(node sql.Node) sql.Expression {
	ns := *s
	ns.Query = node
	return &ns
}

// Exists is an EXISTS (query) predicate.
type Exists struct {
	Query sql.Node
}

// NewExists returns a new Exists expression.
func NewExists(node sql.Node) *Exists {
	return &Exists{Query: node}
}

func (e *Exists) String() string {
	return nestedString("Exists", e.Query)
}

// WithChildren implements the Expression interface.
func (e *Exists) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 0)
	}
	return e, nil
}

// Children implements the Expression interface.
func (e *Exists) Children() []sql.Expression {
	return nil
}

// NestedQuery implements the sql.QueryExpression interface.
func (e *Exists) NestedQuery() sql.Node {
	return e.Query
}

// WithQuery returns the predicate with the query node changed.
func (e *Exists) WithQuery(node sql.Node) sql.Expression {
	ne := *e
	ne.Query = node
	return &ne
}

// nestedString renders a query wrapped by an expression as a small tree, so
// that it indents correctly when the expression is itself a tree child.
func nestedString(name string, query sql.Node) string {
	p := sql.NewTreePrinter()
	_ = p.WriteNode(name)
	_ = p.WriteChildren(query.String())
	return strings.TrimSuffix(p.String(), "\n")
}

var _ sql.QueryExpression = (*Subquery)(nil)
var _ sql.QueryExpression = (*Exists)(nil)
