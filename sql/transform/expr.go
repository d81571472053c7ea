package transform

import (
	"github.com/jar398/bayeslite/sql"
)

// TreeIdentity tells whether a transformation changed a tree.
type TreeIdentity bool

const (
	// SameTree means the tree was left untouched.
	SameTree TreeIdentity = true
	// NewTree means a new tree was built.
	NewTree TreeIdentity = false
)

// ExprFunc is a function that given an expression will return that
// expression as is or transformed, a TreeIdentity telling which, and an
// error, if any.
type ExprFunc func(e sql.Expression) (sql.Expression, TreeIdentity, error)

// Expr applies a transformation function to the given expression
// tree from the bottom up. Each callback [f] returns a TreeIdentity
// that is aggregated into a final output indicating whether the
// expression tree was changed. Untouched subtrees are shared with the input,
// which is never modified.
func Expr(e sql.Expression, f ExprFunc) (sql.Expression, TreeIdentity, error) {
	children := e.Children()
	if len(children) == 0 {
		return f(e)
	}

	var (
		newChildren []sql.Expression
		err         error
	)

	for i := 0; i < len(children); i++ {
		c := children[i]
		c, same, err := Expr(c, f)
		if err != nil {
			return nil, SameTree, err
		}
		if !same {
			if newChildren == nil {
				newChildren = make([]sql.Expression, len(children))
				copy(newChildren, children)
			}
			newChildren[i] = c
		}
	}

	sameC := SameTree
	if len(newChildren) > 0 {
		sameC = NewTree
		e, err = e.WithChildren(newChildren...)
		if err != nil {
			return nil, SameTree, err
		}
	}

	e, sameN, err := f(e)
	if err != nil {
		return nil, SameTree, err
	}
	return e, sameC && sameN, nil
}
