package expression

import (
	"fmt"
	"strings"

	"github.com/jar398/bayeslite/sql"
)

// Op is the tag of an operator application.
type Op int

const (
	OpBoolOr Op = iota
	OpBoolAnd
	OpBoolNot
	OpIs
	OpIsNot
	OpLike
	OpNotLike
	OpIsNull
	OpNotNull
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpBetween
	OpNotBetween
	OpBitAnd
	OpBitOr
	OpLShift
	OpRShift
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpConcat
	OpNegate
	OpPlus
	OpBitNot
)

type opFixity int

const (
	infix opFixity = iota
	prefix
	postfix
	ternary
)

type opInfo struct {
	name   string
	symbol string
	fixity opFixity
}

var ops = map[Op]opInfo{
	OpBoolOr:     {"or", "OR", infix},
	OpBoolAnd:    {"and", "AND", infix},
	OpBoolNot:    {"not", "NOT", prefix},
	OpIs:         {"is", "IS", infix},
	OpIsNot:      {"isnot", "IS NOT", infix},
	OpLike:       {"like", "LIKE", infix},
	OpNotLike:    {"notlike", "NOT LIKE", infix},
	OpIsNull:     {"isnull", "ISNULL", postfix},
	OpNotNull:    {"notnull", "NOTNULL", postfix},
	OpEq:         {"eq", "=", infix},
	OpNeq:        {"neq", "!=", infix},
	OpLt:         {"lt", "<", infix},
	OpLte:        {"lte", "<=", infix},
	OpGt:         {"gt", ">", infix},
	OpGte:        {"gte", ">=", infix},
	OpBetween:    {"between", "BETWEEN", ternary},
	OpNotBetween: {"notbetween", "NOT BETWEEN", ternary},
	OpBitAnd:     {"bitand", "&", infix},
	OpBitOr:      {"bitor", "|", infix},
	OpLShift:     {"lshift", "<<", infix},
	OpRShift:     {"rshift", ">>", infix},
	OpAdd:        {"add", "+", infix},
	OpSub:        {"sub", "-", infix},
	OpMul:        {"mul", "*", infix},
	OpDiv:        {"div", "/", infix},
	OpRem:        {"rem", "%", infix},
	OpConcat:     {"concat", "||", infix},
	OpNegate:     {"neg", "-", prefix},
	OpPlus:       {"pos", "+", prefix},
	OpBitNot:     {"bitnot", "~", prefix},
}

// Name returns the lower case name of the operator, as used in statement
// documents.
func (o Op) Name() string {
	if info, ok := ops[o]; ok {
		return info.name
	}
	return fmt.Sprintf("op(%d)", int(o))
}

func (o Op) String() string {
	if info, ok := ops[o]; ok {
		return info.symbol
	}
	return fmt.Sprintf("OP(%d)", int(o))
}

// arity returns the number of operands the operator takes.
func (o Op) arity() int {
	switch ops[o].fixity {
	case prefix, postfix:
		return 1
	case ternary:
		return 3
	default:
		return 2
	}
}

// ParseOp returns the operator with the given name or symbol applied to
// nargs operands. Symbols shared by a unary and a binary operator, like "-",
// are told apart by nargs.
func ParseOp(name string, nargs int) (Op, bool) {
	lname := strings.ToLower(strings.TrimSpace(name))
	var found []Op
	for op, info := range ops {
		if info.name == lname || strings.ToLower(info.symbol) == lname {
			found = append(found, op)
		}
	}

	for _, op := range found {
		if op.arity() == nargs {
			return op, true
		}
	}

	if len(found) == 1 {
		return found[0], true
	}

	return 0, false
}

// Operator is the application of an operator to a sequence of operands.
type Operator struct {
	Op       Op
	Operands []sql.Expression
}

// NewOperator creates a new operator application.
func NewOperator(op Op, operands ...sql.Expression) *Operator {
	return &Operator{Op: op, Operands: operands}
}

// NewBinary creates a new application of a binary operator.
func NewBinary(op Op, left, right sql.Expression) *Operator {
	return NewOperator(op, left, right)
}

func (o *Operator) String() string {
	args := make([]string, len(o.Operands))
	for i, e := range o.Operands {
		args[i] = e.String()
	}

	if s, ok := treeString(fmt.Sprintf("Operator(%s)", o.Op), args); ok {
		return s
	}

	if len(args) != o.Op.arity() {
		return fmt.Sprintf("%s(%s)", o.Op, strings.Join(args, ", "))
	}

	switch ops[o.Op].fixity {
	case prefix:
		if o.Op == OpBoolNot {
			return fmt.Sprintf("(NOT %s)", args[0])
		}
		return fmt.Sprintf("(%s%s)", o.Op, args[0])
	case postfix:
		return fmt.Sprintf("(%s %s)", args[0], o.Op)
	case ternary:
		return fmt.Sprintf("(%s %s %s AND %s)", args[0], o.Op, args[1], args[2])
	default:
		return fmt.Sprintf("(%s %s %s)", args[0], o.Op, args[1])
	}
}

// Children implements the Expression interface.
func (o *Operator) Children() []sql.Expression {
	return o.Operands
}

// WithChildren implements the Expression interface.
func (o *Operator) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != len(o.Operands) {
		return nil, sql.ErrInvalidChildrenNumber.New(o, len(children), len(o.Operands))
	}
	no := *o
	no.Operands = children
	return &no, nil
}
