package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jar398/bayeslite/sql"
	"github.com/jar398/bayeslite/sql/expression"
)

func TestSimulateString(t *testing.T) {
	require := require.New(t)

	columns := []SimCol{
		NewSimCol(expression.NewDependenceProbability("a", "b"), "d"),
		NewSimCol(expression.NewPredict("a", nil), "p"),
	}

	require.Equal(`SimulateModelsExpr(p)
 ├─ DEPENDENCE PROBABILITY OF a WITH b AS d
 └─ PREDICT a AS p
`, NewSimulateModelsExpr(columns, "p", "").String())

	require.Equal(`SimulateModels(p, g)
 ├─ DEPENDENCE PROBABILITY OF a WITH b AS d
 └─ PREDICT a AS p
`, NewSimulateModels(columns, "p", "g").String())
}

func TestSimulateWithExpressions(t *testing.T) {
	require := require.New(t)

	sim := NewSimulateModelsExpr([]SimCol{
		NewSimCol(expression.NewCorrelation("a", "b"), "c"),
		NewSimCol(expression.NewCorrelationPValue("a", "b"), "pv"),
	}, "p", "g")

	n, err := sim.WithExpressions(expression.NewLiteral(1), expression.NewLiteral(2))
	require.NoError(err)

	expected := NewSimulateModelsExpr([]SimCol{
		NewSimCol(expression.NewLiteral(1), "c"),
		NewSimCol(expression.NewLiteral(2), "pv"),
	}, "p", "g")
	require.True(sql.Equal(expected, n), sql.Diff(expected, n))
	require.Equal(expression.NewCorrelation("a", "b"), sim.Columns[0].Expression)

	_, err = sim.WithExpressions(expression.NewLiteral(1))
	require.True(sql.ErrInvalidExpressionNumber.Is(err))

	_, err = NewSimulateModels(sim.Columns, "p", "g").WithExpressions()
	require.True(sql.ErrInvalidExpressionNumber.Is(err))
}

func TestSimulateWithChildren(t *testing.T) {
	require := require.New(t)

	sim := NewSimulateModels(nil, "p", "")
	require.Empty(sim.Children())

	n, err := sim.WithChildren()
	require.NoError(err)
	require.Equal(sim, n)

	_, err = sim.WithChildren(NewTableName("t"))
	require.True(sql.ErrInvalidChildrenNumber.Is(err))

	_, err = NewSimulateModelsExpr(nil, "p", "").WithChildren(NewTableName("t"))
	require.True(sql.ErrInvalidChildrenNumber.Is(err))
}
