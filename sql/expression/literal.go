package expression

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/jar398/bayeslite/sql"
)

// Literal represents a literal expression (string, number or NULL).
// Value is always one of nil, int64, float64 or string.
type Literal struct {
	Value interface{}
}

// NewLiteral creates a new Literal expression. Integer and float values of
// any width are normalized to int64 and float64. Unsigned values that do not
// fit in an int64 become float64.
func NewLiteral(value interface{}) *Literal {
	switch v := value.(type) {
	case nil, int64, float64, string:
		return &Literal{Value: v}
	case int, int8, int16, int32, uint8, uint16, uint32:
		return &Literal{Value: cast.ToInt64(v)}
	case uint, uint64:
		u := cast.ToUint64(v)
		if u > math.MaxInt64 {
			return &Literal{Value: float64(u)}
		}
		return &Literal{Value: int64(u)}
	case float32:
		return &Literal{Value: cast.ToFloat64(v)}
	case bool:
		if v {
			return &Literal{Value: int64(1)}
		}
		return &Literal{Value: int64(0)}
	default:
		return &Literal{Value: fmt.Sprint(v)}
	}
}

// NewNullLiteral creates a NULL literal.
func NewNullLiteral() *Literal { return &Literal{} }

func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case string:
		return "'" + strings.Replace(v, "'", "''", -1) + "'"
	default:
		return fmt.Sprint(v)
	}
}

// Children implements the Expression interface.
func (*Literal) Children() []sql.Expression {
	return nil
}

// WithChildren implements the Expression interface.
func (l *Literal) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), 0)
	}
	return l, nil
}
