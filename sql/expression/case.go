package expression

import (
	"strings"

	"github.com/jar398/bayeslite/sql"
)

// CaseBranch is one WHEN arm of a CASE.
type CaseBranch struct {
	Cond  sql.Expression
	Value sql.Expression
}

// Case is a CASE expression. With a Key, each arm's Cond is compared to it;
// without one, Cond is a boolean condition. Key and Else may be nil.
type Case struct {
	Key      sql.Expression
	Branches []CaseBranch
	Else     sql.Expression
}

// NewCase creates a new Case expression.
func NewCase(key sql.Expression, branches []CaseBranch, elseExpr sql.Expression) *Case {
	return &Case{Key: key, Branches: branches, Else: elseExpr}
}

func (c *Case) String() string {
	var r refs
	var sb strings.Builder

	sb.WriteString("CASE")
	if c.Key != nil {
		sb.WriteString(" " + r.ref(c.Key))
	}
	for _, b := range c.Branches {
		sb.WriteString(" WHEN " + r.ref(b.Cond) + " THEN " + r.ref(b.Value))
	}
	if c.Else != nil {
		sb.WriteString(" ELSE " + r.ref(c.Else))
	}
	sb.WriteString(" END")

	return r.tree(sb.String())
}

// Children implements the Expression interface. The key comes first, then
// the condition and value of every arm, then the ELSE value.
func (c *Case) Children() []sql.Expression {
	children := optional(c.Key)
	for _, b := range c.Branches {
		children = append(children, b.Cond, b.Value)
	}
	return append(children, optional(c.Else)...)
}

// WithChildren implements the Expression interface.
func (c *Case) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if expected := len(c.Children()); len(children) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), expected)
	}

	nc := *c
	nc.Key, children = takeOptional(c.Key, children)
	if len(c.Branches) > 0 {
		nc.Branches = make([]CaseBranch, len(c.Branches))
		for i := range c.Branches {
			nc.Branches[i] = CaseBranch{Cond: children[0], Value: children[1]}
			children = children[2:]
		}
	}
	nc.Else, _ = takeOptional(c.Else, children)
	return &nc, nil
}
