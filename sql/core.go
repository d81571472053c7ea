package sql

import "fmt"

// Expression is a node of a BQL expression tree. Expressions are immutable:
// every transformation returns a new tree and leaves the receiver untouched.
type Expression interface {
	fmt.Stringer
	// Children returns the children expressions of this expression.
	Children() []Expression
	// WithChildren returns a copy of the expression with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children. They must be given in the same order
	// as they are returned by Children.
	WithChildren(children ...Expression) (Expression, error)
}

// Node is a statement or a table source of a BQL query.
type Node interface {
	fmt.Stringer
	// Children nodes.
	Children() []Node
	// WithChildren returns a copy of the node with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children. They must be given in the same order
	// as they are returned by Children.
	WithChildren(children ...Node) (Node, error)
}

// Expressioner is a node that contains expressions.
type Expressioner interface {
	// Expressions returns the list of expressions contained by the node.
	Expressions() []Expression
	// WithExpressions returns a copy of the node with expressions replaced.
	// It will return an error if the number of expressions is different than
	// the current number of expressions. They must be given in the same order
	// as they are returned by Expressions.
	WithExpressions(exprs ...Expression) (Node, error)
}

// QueryExpression is an expression that wraps a whole nested query, such as
// a scalar subquery. The nested query is not one of its Children.
type QueryExpression interface {
	Expression
	// NestedQuery returns the wrapped query.
	NestedQuery() Node
	// WithQuery returns a copy of the expression wrapping the given query.
	WithQuery(Node) Expression
}
