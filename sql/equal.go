package sql

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// equalOpts treats nil and empty sequences as the same sequence, so a tree
// rebuilt by a transformation compares equal to the one a parser produced.
var equalOpts = []cmp.Option{cmpopts.EquateEmpty()}

// Equal reports whether two trees (expressions, nodes or sequences of them)
// are structurally equal: same node kinds, same literal values and
// recursively equal, order-preserving children.
func Equal(a, b interface{}) bool {
	return cmp.Equal(a, b, equalOpts...)
}

// Diff returns a human readable report of the differences between two trees,
// or an empty string if they are equal.
func Diff(a, b interface{}) string {
	return cmp.Diff(a, b, equalOpts...)
}
