// Package encoding reads statement trees from YAML or JSON documents, the
// form in which an external BQL parser hands them over.
//
// Every node of a document is a mapping with a single key naming the kind of
// the node, whose value holds the fields of the node:
//
//	select:
//	  columns:
//	    - expr: {probest: {expr: {mutinf: {columns0: [a], columns1: [b]}}, population: p}}
//	      alias: mi
//	  from:
//	    - {table: t}
package encoding

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v2"

	"github.com/jar398/bayeslite/sql"
	"github.com/jar398/bayeslite/sql/expression"
	"github.com/jar398/bayeslite/sql/plan"
)

var (
	// ErrInvalidDocument is returned when a document is not valid YAML or JSON.
	ErrInvalidDocument = errors.NewKind("invalid statement document: %s")

	// ErrUnknownNodeKind is returned for a node whose kind is unknown.
	ErrUnknownNodeKind = errors.NewKind("%s: unknown node kind %q")

	// ErrInvalidField is returned when a field of a node is missing, unknown
	// or has a value of the wrong shape.
	ErrInvalidField = errors.NewKind("%s: %s")
)

// Decode reads a statement from a YAML or JSON document.
func Decode(data []byte) (sql.Node, error) {
	doc, err := unmarshal(data)
	if err != nil {
		return nil, err
	}
	return decodeNode("$", doc)
}

// DecodeExpression reads an expression from a YAML or JSON document.
func DecodeExpression(data []byte) (sql.Expression, error) {
	doc, err := unmarshal(data)
	if err != nil {
		return nil, err
	}
	return decodeExpr("$", doc)
}

func unmarshal(data []byte) (interface{}, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ErrInvalidDocument.Wrap(err, err.Error())
	}

	if doc == nil {
		return nil, ErrInvalidDocument.New("empty document")
	}
	return doc, nil
}

// kindOf splits a single-key mapping into its kind and body.
func kindOf(path string, v interface{}) (string, interface{}, error) {
	m, err := cast.ToStringMapE(v)
	if err != nil || len(m) != 1 {
		return "", nil, ErrInvalidField.New(path, "expected a mapping with a single key naming the node kind")
	}

	for k, body := range m {
		return k, body, nil
	}
	panic("unreachable")
}

func decodeNode(path string, v interface{}) (sql.Node, error) {
	kind, body, err := kindOf(path, v)
	if err != nil {
		return nil, err
	}

	path = path + "." + kind
	switch kind {
	case "select":
		return decodeSelect(path, body)
	case "simulate_models":
		return decodeSimulate(path, body)
	case "create_table_as":
		return decodeCreateTableAs(path, body)
	case "table":
		name, err := cast.ToStringE(body)
		if err != nil || name == "" {
			return nil, ErrInvalidField.New(path, "expected a table name")
		}
		return plan.NewTableName(name), nil
	default:
		return nil, ErrUnknownNodeKind.New(path, kind)
	}
}

func decodeSelect(path string, body interface{}) (sql.Node, error) {
	f, err := newFields(path, body,
		"quantifier", "columns", "from", "where", "group_by", "having", "order_by", "limit")
	if err != nil {
		return nil, err
	}

	q := plan.All
	quantifier, err := f.str("quantifier", false)
	if err != nil {
		return nil, err
	}
	switch strings.ToUpper(quantifier) {
	case "", "ALL":
	case "DISTINCT":
		q = plan.Distinct
	default:
		return nil, f.invalid("quantifier", "expected ALL or DISTINCT")
	}

	items, err := f.list("columns", true)
	if err != nil {
		return nil, err
	}

	columns := make([]plan.SelectColumn, len(items))
	for i, item := range items {
		p := fmt.Sprintf("%s.columns[%d]", path, i)
		e, alias, err := decodeAliased(p, item, "expr", "alias", decodeExpr)
		if err != nil {
			return nil, err
		}
		columns[i] = plan.NewSelectColumn(e, alias)
	}

	items, err = f.list("from", false)
	if err != nil {
		return nil, err
	}

	var tables []plan.TableRef
	for i, item := range items {
		p := fmt.Sprintf("%s.from[%d]", path, i)
		n, alias, err := decodeAliased(p, item, "source", "alias", decodeNode)
		if err != nil {
			return nil, err
		}
		tables = append(tables, plan.NewTableRef(n, alias))
	}

	s := plan.NewSelect(q, columns, tables)

	if s.Where, err = f.optExpr("where"); err != nil {
		return nil, err
	}

	if s.GroupBy, err = f.exprs("group_by"); err != nil {
		return nil, err
	}

	if s.Having, err = f.optExpr("having"); err != nil {
		return nil, err
	}

	items, err = f.list("order_by", false)
	if err != nil {
		return nil, err
	}

	for i, item := range items {
		p := fmt.Sprintf("%s.order_by[%d]", path, i)
		sf, err := decodeSortField(p, item)
		if err != nil {
			return nil, err
		}
		s.OrderBy = append(s.OrderBy, sf)
	}

	if f.has("limit") {
		lf, err := newFields(path+".limit", f.m["limit"], "count", "offset")
		if err != nil {
			return nil, err
		}

		count, err := lf.expr("count")
		if err != nil {
			return nil, err
		}

		offset, err := lf.optExpr("offset")
		if err != nil {
			return nil, err
		}
		s.Limit = &plan.Limit{Count: count, Offset: offset}
	}

	return s, nil
}

// decodeAliased reads either a {key: value, alias: name} mapping or a bare
// value without alias.
func decodeAliased[T any](
	path string,
	v interface{},
	key, aliasKey string,
	decode func(string, interface{}) (T, error),
) (T, string, error) {
	var zero T

	m, err := cast.ToStringMapE(v)
	if err != nil {
		return zero, "", ErrInvalidField.New(path, "expected a mapping")
	}

	if _, ok := m[key]; !ok {
		value, err := decode(path, v)
		return value, "", err
	}

	f, err := newFields(path, m, key, aliasKey)
	if err != nil {
		return zero, "", err
	}

	value, err := decode(path+"."+key, m[key])
	if err != nil {
		return zero, "", err
	}

	alias, err := f.str(aliasKey, false)
	if err != nil {
		return zero, "", err
	}
	return value, alias, nil
}

func decodeSortField(path string, v interface{}) (plan.SortField, error) {
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return plan.SortField{}, ErrInvalidField.New(path, "expected a mapping")
	}

	if _, ok := m["expr"]; !ok {
		e, err := decodeExpr(path, v)
		return plan.SortField{Expression: e}, err
	}

	f, err := newFields(path, m, "expr", "desc")
	if err != nil {
		return plan.SortField{}, err
	}

	e, err := f.expr("expr")
	if err != nil {
		return plan.SortField{}, err
	}

	desc, err := f.boolean("desc")
	if err != nil {
		return plan.SortField{}, err
	}
	return plan.SortField{Expression: e, Descending: desc}, nil
}

func decodeSimulate(path string, body interface{}) (sql.Node, error) {
	f, err := newFields(path, body, "columns", "population", "generator")
	if err != nil {
		return nil, err
	}

	items, err := f.list("columns", false)
	if err != nil {
		return nil, err
	}

	var columns []plan.SimCol
	for i, item := range items {
		p := fmt.Sprintf("%s.columns[%d]", path, i)
		cf, err := newFields(p, item, "expr", "name")
		if err != nil {
			return nil, err
		}

		e, err := cf.expr("expr")
		if err != nil {
			return nil, err
		}

		name, err := cf.str("name", true)
		if err != nil {
			return nil, err
		}
		columns = append(columns, plan.NewSimCol(e, name))
	}

	population, err := f.str("population", false)
	if err != nil {
		return nil, err
	}

	generator, err := f.str("generator", false)
	if err != nil {
		return nil, err
	}

	return plan.NewSimulateModelsExpr(columns, population, generator), nil
}

func decodeCreateTableAs(path string, body interface{}) (sql.Node, error) {
	f, err := newFields(path, body, "temp", "if_not_exists", "name", "query")
	if err != nil {
		return nil, err
	}

	temp, err := f.boolean("temp")
	if err != nil {
		return nil, err
	}

	ifNotExists, err := f.boolean("if_not_exists")
	if err != nil {
		return nil, err
	}

	name, err := f.str("name", true)
	if err != nil {
		return nil, err
	}

	query, err := f.node("query")
	if err != nil {
		return nil, err
	}

	return plan.NewCreateTableAs(temp, ifNotExists, name, query), nil
}

// fields gives typed access to the fields of a node body.
type fields struct {
	path string
	m    map[string]interface{}
}

func newFields(path string, body interface{}, allowed ...string) (fields, error) {
	m, err := cast.ToStringMapE(body)
	if err != nil {
		return fields{}, ErrInvalidField.New(path, "expected a mapping")
	}

	var unknown []string
	for k := range m {
		if !contains(allowed, k) {
			unknown = append(unknown, k)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fields{}, ErrInvalidField.New(path, "unknown field "+strings.Join(unknown, ", "))
	}

	return fields{path: path, m: m}, nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func (f fields) invalid(name, msg string) error {
	return ErrInvalidField.New(f.path+"."+name, msg)
}

func (f fields) has(name string) bool {
	v, ok := f.m[name]
	return ok && v != nil
}

func (f fields) str(name string, required bool) (string, error) {
	if !f.has(name) {
		if required {
			return "", f.invalid(name, "missing field")
		}
		return "", nil
	}

	s, err := cast.ToStringE(f.m[name])
	if err != nil {
		return "", f.invalid(name, "expected a string")
	}
	return s, nil
}

func (f fields) strs(name string) ([]string, error) {
	if !f.has(name) {
		return nil, nil
	}

	items, err := f.list(name, false)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(items))
	for i, item := range items {
		s, err := cast.ToStringE(item)
		if err != nil {
			return nil, ErrInvalidField.New(fmt.Sprintf("%s.%s[%d]", f.path, name, i), "expected a column name")
		}
		out[i] = s
	}
	return out, nil
}

func (f fields) boolean(name string) (bool, error) {
	if !f.has(name) {
		return false, nil
	}

	b, err := cast.ToBoolE(f.m[name])
	if err != nil {
		return false, f.invalid(name, "expected a boolean")
	}
	return b, nil
}

func (f fields) list(name string, required bool) ([]interface{}, error) {
	if !f.has(name) {
		if required {
			return nil, f.invalid(name, "missing field")
		}
		return nil, nil
	}

	items, err := cast.ToSliceE(f.m[name])
	if err != nil {
		return nil, f.invalid(name, "expected a sequence")
	}
	return items, nil
}

func (f fields) expr(name string) (sql.Expression, error) {
	if !f.has(name) {
		return nil, f.invalid(name, "missing field")
	}
	return decodeExpr(f.path+"."+name, f.m[name])
}

func (f fields) optExpr(name string) (sql.Expression, error) {
	if !f.has(name) {
		return nil, nil
	}
	return decodeExpr(f.path+"."+name, f.m[name])
}

func (f fields) exprs(name string) ([]sql.Expression, error) {
	items, err := f.list(name, false)
	if err != nil {
		return nil, err
	}

	var out []sql.Expression
	for i, item := range items {
		e, err := decodeExpr(fmt.Sprintf("%s.%s[%d]", f.path, name, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (f fields) node(name string) (sql.Node, error) {
	if !f.has(name) {
		return nil, f.invalid(name, "missing field")
	}
	return decodeNode(f.path+"."+name, f.m[name])
}

func (f fields) constraints(name string) ([]expression.Constraint, error) {
	items, err := f.list(name, false)
	if err != nil {
		return nil, err
	}
	return decodeConstraints(f.path+"."+name, items)
}

func decodeConstraints(path string, items []interface{}) ([]expression.Constraint, error) {
	var out []expression.Constraint
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		cf, err := newFields(p, item, "column", "value")
		if err != nil {
			return nil, err
		}

		column, err := cf.str("column", true)
		if err != nil {
			return nil, err
		}

		value, err := cf.expr("value")
		if err != nil {
			return nil, err
		}
		out = append(out, expression.Constraint{Column: column, Value: value})
	}
	return out, nil
}
