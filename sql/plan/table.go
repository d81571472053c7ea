package plan

import (
	"github.com/jar398/bayeslite/sql"
)

// TableName is a reference to a named base table or view.
type TableName struct {
	Name string
}

// NewTableName creates a new table reference.
func NewTableName(name string) *TableName {
	return &TableName{Name: name}
}

func (t *TableName) String() string {
	return t.Name
}

// Children implements the Node interface.
func (*TableName) Children() []sql.Node {
	return nil
}

// WithChildren implements the Node interface.
func (t *TableName) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(t, len(children), 0)
	}
	return t, nil
}

// CreateTableAs is a CREATE [TEMP] TABLE [IF NOT EXISTS] name AS query
// statement.
type CreateTableAs struct {
	Temp        bool
	IfNotExists bool
	Name        string
	Query       sql.Node
}

// NewCreateTableAs creates a new CreateTableAs statement.
func NewCreateTableAs(temp, ifNotExists bool, name string, query sql.Node) *CreateTableAs {
	return &CreateTableAs{Temp: temp, IfNotExists: ifNotExists, Name: name, Query: query}
}

func (c *CreateTableAs) String() string {
	p := sql.NewTreePrinter()
	flags := ""
	if c.Temp {
		flags += ", temp"
	}
	if c.IfNotExists {
		flags += ", if not exists"
	}
	_ = p.WriteNode("CreateTableAs(%s%s)", c.Name, flags)
	_ = p.WriteChildren(c.Query.String())
	return p.String()
}

// Children implements the Node interface.
func (c *CreateTableAs) Children() []sql.Node {
	return []sql.Node{c.Query}
}

// WithChildren implements the Node interface.
func (c *CreateTableAs) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 1)
	}
	nc := *c
	nc.Query = children[0]
	return &nc, nil
}
