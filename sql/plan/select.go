package plan

import (
	"fmt"
	"strings"

	"github.com/jar398/bayeslite/sql"
)

// Quantifier of a SELECT, ALL or DISTINCT.
type Quantifier int

const (
	// All keeps duplicate rows.
	All Quantifier = iota
	// Distinct removes duplicate rows.
	Distinct
)

func (q Quantifier) String() string {
	if q == Distinct {
		return "DISTINCT"
	}
	return "ALL"
}

// SelectColumn is an output column of a SELECT: an expression and an
// optional alias.
type SelectColumn struct {
	Expression sql.Expression
	Alias      string
}

// NewSelectColumn creates a new output column. An empty alias means none.
func NewSelectColumn(e sql.Expression, alias string) SelectColumn {
	return SelectColumn{Expression: e, Alias: alias}
}

func (c SelectColumn) String() string {
	return aliased(c.Expression.String(), c.Alias)
}

// aliased renders s AS alias, using a small tree when s spans several lines.
func aliased(s, alias string) string {
	if alias == "" {
		return s
	}

	if !strings.Contains(strings.TrimSuffix(s, "\n"), "\n") {
		return strings.TrimSuffix(s, "\n") + " AS " + alias
	}

	p := sql.NewTreePrinter()
	_ = p.WriteNode("As(%s)", alias)
	_ = p.WriteChildren(s)
	return p.String()
}

// TableRef is an entry of the FROM clause: a table source and an optional
// alias. The source is a TableName, a nested query or a simulate operation.
type TableRef struct {
	Table sql.Node
	Alias string
}

// NewTableRef creates a new FROM clause entry. An empty alias means none.
func NewTableRef(table sql.Node, alias string) TableRef {
	return TableRef{Table: table, Alias: alias}
}

func (t TableRef) String() string {
	return aliased(t.Table.String(), t.Alias)
}

// SortField is an ORDER BY term.
type SortField struct {
	Expression sql.Expression
	Descending bool
}

func (s SortField) String() string {
	order := "ASC"
	if s.Descending {
		order = "DESC"
	}

	e := s.Expression.String()
	if !strings.Contains(e, "\n") {
		return e + " " + order
	}

	p := sql.NewTreePrinter()
	_ = p.WriteNode("Sort(%s)", order)
	_ = p.WriteChildren(e)
	return strings.TrimSuffix(p.String(), "\n")
}

// Limit is the LIMIT clause of a SELECT, with an optional offset.
type Limit struct {
	Count  sql.Expression
	Offset sql.Expression
}

func (l *Limit) String() string {
	if l.Offset != nil {
		return fmt.Sprintf("Limit(%s OFFSET %s)", l.Count, l.Offset)
	}
	return fmt.Sprintf("Limit(%s)", l.Count)
}

// Select is a SELECT statement. Nil Where, Having and Limit mean the clause
// is absent.
type Select struct {
	Quantifier Quantifier
	Columns    []SelectColumn
	Tables     []TableRef
	Where      sql.Expression
	GroupBy    []sql.Expression
	Having     sql.Expression
	OrderBy    []SortField
	Limit      *Limit
}

// NewSelect creates a new Select with only the output columns and the FROM
// clause set.
func NewSelect(q Quantifier, columns []SelectColumn, tables []TableRef) *Select {
	return &Select{Quantifier: q, Columns: columns, Tables: tables}
}

func (s *Select) String() string {
	p := sql.NewTreePrinter()
	_ = p.WriteNode("Select(%s)", s.Quantifier)

	var children []string

	project := sql.NewTreePrinter()
	_ = project.WriteNode("Project")
	columns := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		columns[i] = c.String()
	}
	_ = project.WriteChildren(columns...)
	children = append(children, project.String())

	if len(s.Tables) > 0 {
		from := sql.NewTreePrinter()
		_ = from.WriteNode("From")
		tables := make([]string, len(s.Tables))
		for i, t := range s.Tables {
			tables[i] = t.String()
		}
		_ = from.WriteChildren(tables...)
		children = append(children, from.String())
	}

	if s.Where != nil {
		children = append(children, clauseString("Where", s.Where.String()))
	}

	if len(s.GroupBy) > 0 {
		group := make([]string, len(s.GroupBy))
		for i, e := range s.GroupBy {
			group[i] = e.String()
		}
		children = append(children, clauseString("GroupBy", group...))
	}

	if s.Having != nil {
		children = append(children, clauseString("Having", s.Having.String()))
	}

	if len(s.OrderBy) > 0 {
		order := make([]string, len(s.OrderBy))
		for i, f := range s.OrderBy {
			order[i] = f.String()
		}
		children = append(children, clauseString("OrderBy", order...))
	}

	if s.Limit != nil {
		children = append(children, s.Limit.String())
	}

	_ = p.WriteChildren(children...)
	return p.String()
}

func clauseString(name string, children ...string) string {
	p := sql.NewTreePrinter()
	_ = p.WriteNode(name)
	_ = p.WriteChildren(children...)
	return p.String()
}

// Children implements the Node interface.
func (s *Select) Children() []sql.Node {
	children := make([]sql.Node, len(s.Tables))
	for i, t := range s.Tables {
		children[i] = t.Table
	}
	return children
}

// WithChildren implements the Node interface.
func (s *Select) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != len(s.Tables) {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), len(s.Tables))
	}

	ns := *s
	ns.Tables = make([]TableRef, len(s.Tables))
	for i, t := range s.Tables {
		ns.Tables[i] = TableRef{Table: children[i], Alias: t.Alias}
	}
	return &ns, nil
}

// Expressions implements the sql.Expressioner interface. The expressions are
// returned in clause order: output columns, WHERE, GROUP BY, HAVING,
// ORDER BY, LIMIT and OFFSET.
func (s *Select) Expressions() []sql.Expression {
	var exprs []sql.Expression
	for _, c := range s.Columns {
		exprs = append(exprs, c.Expression)
	}

	if s.Where != nil {
		exprs = append(exprs, s.Where)
	}

	exprs = append(exprs, s.GroupBy...)

	if s.Having != nil {
		exprs = append(exprs, s.Having)
	}

	for _, f := range s.OrderBy {
		exprs = append(exprs, f.Expression)
	}

	if s.Limit != nil {
		exprs = append(exprs, s.Limit.Count)
		if s.Limit.Offset != nil {
			exprs = append(exprs, s.Limit.Offset)
		}
	}

	return exprs
}

// WithExpressions implements the sql.Expressioner interface.
func (s *Select) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if expected := len(s.Expressions()); len(exprs) != expected {
		return nil, sql.ErrInvalidExpressionNumber.New(s, len(exprs), expected)
	}

	ns := *s

	ns.Columns = make([]SelectColumn, len(s.Columns))
	for i, c := range s.Columns {
		ns.Columns[i] = SelectColumn{Expression: exprs[0], Alias: c.Alias}
		exprs = exprs[1:]
	}

	if s.Where != nil {
		ns.Where, exprs = exprs[0], exprs[1:]
	}

	if len(s.GroupBy) > 0 {
		ns.GroupBy = make([]sql.Expression, len(s.GroupBy))
		copy(ns.GroupBy, exprs)
		exprs = exprs[len(s.GroupBy):]
	}

	if s.Having != nil {
		ns.Having, exprs = exprs[0], exprs[1:]
	}

	if len(s.OrderBy) > 0 {
		ns.OrderBy = make([]SortField, len(s.OrderBy))
		for i, f := range s.OrderBy {
			ns.OrderBy[i] = SortField{Expression: exprs[0], Descending: f.Descending}
			exprs = exprs[1:]
		}
	}

	if s.Limit != nil {
		l := &Limit{Count: exprs[0]}
		exprs = exprs[1:]
		if s.Limit.Offset != nil {
			l.Offset = exprs[0]
		}
		ns.Limit = l
	}

	return &ns, nil
}

var _ sql.Expressioner = (*Select)(nil)
