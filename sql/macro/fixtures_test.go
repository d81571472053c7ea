package macro

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jar398/bayeslite/sql"
	"github.com/jar398/bayeslite/sql/expression"
)

func mutinf0() sql.Expression {
	return expression.NewMutualInformation(
		[]string{"c0"},
		[]string{"c1", "c2"},
		[]expression.Constraint{{Column: "c3", Value: expression.NewLiteral(3)}},
		nil,
	)
}

func mutinf1() sql.Expression {
	return expression.NewMutualInformation(
		[]string{"c4", "c5"},
		[]string{"c6"},
		[]expression.Constraint{{Column: "c7", Value: expression.NewLiteral("ergodic")}},
		expression.NewLiteral(100),
	)
}

func probdensity() sql.Expression {
	return expression.NewProbabilityDensity(
		[]expression.Constraint{{Column: "x", Value: expression.NewLiteral(1.2)}},
		nil,
	)
}

func col(name string) sql.Expression {
	return expression.NewColumn("", name)
}

func lit(v interface{}) sql.Expression {
	return expression.NewLiteral(v)
}

func binary(op expression.Op, left, right sql.Expression) sql.Expression {
	return expression.NewBinary(op, left, right)
}

func requireTreeEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	require.True(t, sql.Equal(expected, actual), "trees differ (-expected +actual):\n%s", sql.Diff(expected, actual))
}
