package transform

import (
	"github.com/jar398/bayeslite/sql"
)

// InspectDeep traverses every node and every expression reachable from node
// in depth-first, left-to-right order, including the queries nested in
// subquery expressions. A node is visited before its expressions, and its
// expressions before its children. The traversal stops as soon as one of
// the callbacks returns false; InspectDeep reports whether it ran to
// completion. Either callback may be nil.
func InspectDeep(node sql.Node, nf func(sql.Node) bool, ef func(sql.Expression) bool) bool {
	if nf != nil && !nf(node) {
		return false
	}

	if ne, ok := node.(sql.Expressioner); ok {
		for _, e := range ne.Expressions() {
			if !InspectExprDeep(e, nf, ef) {
				return false
			}
		}
	}

	for _, child := range node.Children() {
		if !InspectDeep(child, nf, ef) {
			return false
		}
	}
	return true
}

// InspectExprDeep is like InspectDeep, starting from an expression.
func InspectExprDeep(e sql.Expression, nf func(sql.Node) bool, ef func(sql.Expression) bool) bool {
	if ef != nil && !ef(e) {
		return false
	}

	if qe, ok := e.(sql.QueryExpression); ok {
		if !InspectDeep(qe.NestedQuery(), nf, ef) {
			return false
		}
	}

	for _, child := range e.Children() {
		if !InspectExprDeep(child, nf, ef) {
			return false
		}
	}
	return true
}

// Depth returns the depth of the deepest path from node to a leaf, counting
// both nodes and expressions. The measure stops descending once it goes
// past limit, so the result is at most limit+1.
func Depth(node sql.Node, limit int) int {
	return nodeDepth(node, 1, limit)
}

func nodeDepth(node sql.Node, depth, limit int) int {
	if depth > limit {
		return depth
	}

	deepest := depth
	if ne, ok := node.(sql.Expressioner); ok {
		for _, e := range ne.Expressions() {
			if d := exprDepth(e, depth+1, limit); d > deepest {
				deepest = d
				if deepest > limit {
					return deepest
				}
			}
		}
	}

	for _, child := range node.Children() {
		if d := nodeDepth(child, depth+1, limit); d > deepest {
			deepest = d
			if deepest > limit {
				return deepest
			}
		}
	}
	return deepest
}

func exprDepth(e sql.Expression, depth, limit int) int {
	if depth > limit {
		return depth
	}

	deepest := depth
	if qe, ok := e.(sql.QueryExpression); ok {
		if d := nodeDepth(qe.NestedQuery(), depth+1, limit); d > deepest {
			deepest = d
			if deepest > limit {
				return deepest
			}
		}
	}

	for _, child := range e.Children() {
		if d := exprDepth(child, depth+1, limit); d > deepest {
			deepest = d
			if deepest > limit {
				return deepest
			}
		}
	}
	return deepest
}
