package sql

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// TreePrinter is a printer for tree-shaped structures such as statements and
// the table sources nested inside them.
type TreePrinter struct {
	buf             bytes.Buffer
	nodeWritten     bool
	childrenWritten bool
}

// NewTreePrinter creates a new tree printer.
func NewTreePrinter() *TreePrinter {
	return new(TreePrinter)
}

var (
	// ErrNodeAlreadyWritten is returned when the node has already been written.
	ErrNodeAlreadyWritten = errors.New("treeprinter: node already written")
	// ErrNodeNotWritten is returned when the children are written before the node.
	ErrNodeNotWritten = errors.New("treeprinter: a child was written before the node")
	// ErrChildrenAlreadyWritten is returned when the children have already been written.
	ErrChildrenAlreadyWritten = errors.New("treeprinter: children already written")
)

// WriteNode writes the main node.
func (p *TreePrinter) WriteNode(format string, args ...interface{}) error {
	if p.nodeWritten {
		return ErrNodeAlreadyWritten
	}

	_, err := fmt.Fprintf(&p.buf, format, args...)
	if err == nil {
		p.buf.WriteRune('\n')
	}
	p.nodeWritten = true
	return err
}

// WriteChildren writes a children of the tree. Each child may span several
// lines; continuation lines are indented under the child's branch.
func (p *TreePrinter) WriteChildren(children ...string) error {
	if !p.nodeWritten {
		return ErrNodeNotWritten
	}

	if p.childrenWritten {
		return ErrChildrenAlreadyWritten
	}

	p.childrenWritten = true

	for i, child := range children {
		last := i+1 == len(children)
		r := bufio.NewReader(strings.NewReader(child))

		var first = true
		for {
			line, _, err := r.ReadLine()
			if err == io.EOF {
				break
			}

			if err != nil {
				return err
			}

			if first && last {
				p.buf.WriteString(" └─ ")
			} else if first {
				p.buf.WriteString(" ├─ ")
			} else if !last {
				p.buf.WriteString(" │  ")
			} else {
				p.buf.WriteString("    ")
			}

			p.buf.Write(line)
			p.buf.WriteRune('\n')
			first = false
		}
	}

	return nil
}

// String returns the output of the printed tree.
func (p *TreePrinter) String() string {
	return p.buf.String()
}
