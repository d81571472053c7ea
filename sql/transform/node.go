package transform

import (
	"github.com/jar398/bayeslite/sql"
)

// NodeFunc is a function that given a node will return that node as is or
// transformed, a TreeIdentity telling which, and an error, if any.
type NodeFunc func(n sql.Node) (sql.Node, TreeIdentity, error)

// Node applies a transformation function to the given tree from the
// bottom up.
func Node(node sql.Node, f NodeFunc) (sql.Node, TreeIdentity, error) {
	children := node.Children()
	if len(children) == 0 {
		return f(node)
	}

	var (
		newChildren []sql.Node
		err         error
	)

	for i := range children {
		c := children[i]
		c, same, err := Node(c, f)
		if err != nil {
			return nil, SameTree, err
		}
		if !same {
			if newChildren == nil {
				newChildren = make([]sql.Node, len(children))
				copy(newChildren, children)
			}
			newChildren[i] = c
		}
	}

	sameC := SameTree
	if len(newChildren) > 0 {
		sameC = NewTree
		node, err = node.WithChildren(newChildren...)
		if err != nil {
			return nil, SameTree, err
		}
	}

	node, sameN, err := f(node)
	if err != nil {
		return nil, SameTree, err
	}
	return node, sameC && sameN, nil
}

// NodeExprs applies a transformation function to all expressions
// on the given node from the bottom up. Children nodes are left alone.
func NodeExprs(node sql.Node, f ExprFunc) (sql.Node, TreeIdentity, error) {
	ne, ok := node.(sql.Expressioner)
	if !ok {
		return node, SameTree, nil
	}

	exprs := ne.Expressions()
	if len(exprs) == 0 {
		return node, SameTree, nil
	}

	var newExprs []sql.Expression
	for i := range exprs {
		e := exprs[i]
		e, same, err := Expr(e, f)
		if err != nil {
			return nil, SameTree, err
		}
		if !same {
			if newExprs == nil {
				newExprs = make([]sql.Expression, len(exprs))
				copy(newExprs, exprs)
			}
			newExprs[i] = e
		}
	}

	if len(newExprs) > 0 {
		n, err := ne.WithExpressions(newExprs...)
		if err != nil {
			return nil, SameTree, err
		}
		return n, NewTree, nil
	}
	return node, SameTree, nil
}

// Deep applies nf to every node and ef to every expression reachable from
// the given node, including the queries nested in subquery expressions, from
// the bottom up: the children of a node are transformed before its
// expressions, its expressions before the node itself, and a nested query
// before the expression that wraps it. Either function may be nil.
func Deep(node sql.Node, nf NodeFunc, ef ExprFunc) (sql.Node, TreeIdentity, error) {
	exprFunc := func(e sql.Expression) (sql.Expression, TreeIdentity, error) {
		sameQ := SameTree
		if qe, ok := e.(sql.QueryExpression); ok {
			q, same, err := Deep(qe.NestedQuery(), nf, ef)
			if err != nil {
				return nil, SameTree, err
			}
			if !same {
				e = qe.WithQuery(q)
				sameQ = NewTree
			}
		}

		if ef == nil {
			return e, sameQ, nil
		}

		ne, sameE, err := ef(e)
		if err != nil {
			return nil, SameTree, err
		}
		return ne, sameQ && sameE, nil
	}

	return Node(node, func(n sql.Node) (sql.Node, TreeIdentity, error) {
		n, sameE, err := NodeExprs(n, exprFunc)
		if err != nil {
			return nil, SameTree, err
		}

		if nf == nil {
			return n, sameE, nil
		}

		nn, sameN, err := nf(n)
		if err != nil {
			return nil, SameTree, err
		}
		return nn, sameE && sameN, nil
	})
}
