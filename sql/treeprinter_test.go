package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const expectedTree = `Project(a, b)
 ├─ CrossJoin
 │   ├─ TableA
 │   └─ TableB
 └─ CrossJoin
     ├─ TableC
     └─ TableD
`

func TestTreePrinter(t *testing.T) {
	p := NewTreePrinter()
	p.WriteNode("Project(%s, %s)", "a", "b")

	p2 := NewTreePrinter()
	p2.WriteNode("CrossJoin")
	p2.WriteChildren(
		"TableA",
		"TableB",
	)

	p3 := NewTreePrinter()
	p3.WriteNode("CrossJoin")
	p3.WriteChildren(
		"TableC",
		"TableD",
	)

	p.WriteChildren(
		p2.String(),
		p3.String(),
	)

	require.Equal(t, expectedTree, p.String())
}

func TestTreePrinterMultilineChildren(t *testing.T) {
	require := require.New(t)

	child := NewTreePrinter()
	require.NoError(child.WriteNode("Subquery"))
	require.NoError(child.WriteChildren("Select"))

	p := NewTreePrinter()
	require.NoError(p.WriteNode("Operator(%s)", ">"))
	require.NoError(p.WriteChildren(child.String(), "0.5"))

	require.Equal("Operator(>)\n ├─ Subquery\n │   └─ Select\n └─ 0.5\n", p.String())
}

func TestTreePrinterErrors(t *testing.T) {
	require := require.New(t)

	p := NewTreePrinter()
	require.Equal(ErrNodeNotWritten, p.WriteChildren("a"))

	require.NoError(p.WriteNode("Node"))
	require.Equal(ErrNodeAlreadyWritten, p.WriteNode("Node"))

	require.NoError(p.WriteChildren("a"))
	require.Equal(ErrChildrenAlreadyWritten, p.WriteChildren("b"))
}
