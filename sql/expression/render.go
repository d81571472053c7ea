package expression

import (
	"strconv"
	"strings"

	"github.com/jar398/bayeslite/sql"
)

// treeString renders an application with an argument spanning several lines
// as a small tree with one child per argument.
func treeString(node string, args []string) (string, bool) {
	var multiline bool
	for _, a := range args {
		if strings.Contains(a, "\n") {
			multiline = true
			break
		}
	}

	if !multiline {
		return "", false
	}

	p := sql.NewTreePrinter()
	_ = p.WriteNode("%s", node)
	_ = p.WriteChildren(args...)
	return strings.TrimSuffix(p.String(), "\n"), true
}

// refs collects the operands of a clause-shaped expression that span several
// lines, such as a lowered subquery. The expression is written on one line
// with $1, $2, ... in place of those operands, which follow it as children.
type refs struct {
	values []string
}

func (r *refs) ref(e sql.Expression) string {
	s := e.String()
	if !strings.Contains(s, "\n") {
		return s
	}

	r.values = append(r.values, s)
	return "$" + strconv.Itoa(len(r.values))
}

func (r *refs) tree(node string) string {
	if len(r.values) == 0 {
		return node
	}

	children := make([]string, len(r.values))
	for i, v := range r.values {
		children[i] = "$" + strconv.Itoa(i+1) + ": " + v
	}

	p := sql.NewTreePrinter()
	_ = p.WriteNode("%s", node)
	_ = p.WriteChildren(children...)
	return strings.TrimSuffix(p.String(), "\n")
}
