package expression

import (
	"github.com/jar398/bayeslite/sql"
)

// Column is a reference to a column, optionally qualified by a table name.
type Column struct {
	Table string
	Name  string
}

// NewColumn creates a new column reference. An empty table means the column
// is unqualified.
func NewColumn(table, name string) *Column {
	return &Column{Table: table, Name: name}
}

func (c *Column) String() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

// Children implements the Expression interface.
func (*Column) Children() []sql.Expression {
	return nil
}

// WithChildren implements the Expression interface.
func (c *Column) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 0)
	}
	return c, nil
}

// Star represents the selection of all available fields, optionally from a
// single table.
type Star struct {
	Table string
}

// NewStar returns a new Star expression.
func NewStar() *Star {
	return new(Star)
}

// NewQualifiedStar returns a new Star expression selecting all the fields of
// the given table.
func NewQualifiedStar(table string) *Star {
	return &Star{Table: table}
}

func (s *Star) String() string {
	if s.Table != "" {
		return s.Table + ".*"
	}
	return "*"
}

// Children implements the Expression interface.
func (*Star) Children() []sql.Expression {
	return nil
}

// WithChildren implements the Expression interface.
func (s *Star) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 0)
	}
	return s, nil
}
