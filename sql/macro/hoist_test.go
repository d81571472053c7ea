package macro

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jar398/bayeslite/sql"
	"github.com/jar398/bayeslite/sql/expression"
	"github.com/jar398/bayeslite/sql/plan"
)

func TestHoistTrivial(t *testing.T) {
	require := require.New(t)

	columns := []plan.SimCol{plan.NewSimCol(mutinf0(), "x")}
	result, err := Hoist(columns, "p", "g")
	require.NoError(err)

	expected := plan.NewSimulateModels([]plan.SimCol{plan.NewSimCol(mutinf0(), "x")}, "p", "g")
	requireTreeEqual(t, expected, result)

	// The result does not share its column list with the request.
	columns[0].Name = "y"
	require.Equal("x", result.(*plan.SimulateModels).Columns[0].Name)
}

func TestHoistTrivialSeveralColumns(t *testing.T) {
	columns := []plan.SimCol{
		plan.NewSimCol(mutinf0(), "a"),
		plan.NewSimCol(probdensity(), "b"),
		plan.NewSimCol(expression.NewPredict("c", nil), "c"),
	}
	result, err := Hoist(columns, "p", "")
	require.NoError(t, err)
	requireTreeEqual(t, plan.NewSimulateModels(columns, "p", ""), result)
}

func TestHoistNontrivial(t *testing.T) {
	require := require.New(t)

	quagga := binary(expression.OpLt,
		mutinf0(),
		binary(expression.OpMul, lit(0.1), mutinf1()),
	)
	columns := []plan.SimCol{
		plan.NewSimCol(quagga, "quagga"),
		plan.NewSimCol(probdensity(), "eland"),
	}

	result, err := Hoist(columns, "p", "g")
	require.NoError(err)

	expected := plan.NewSelect(plan.All,
		[]plan.SelectColumn{
			plan.NewSelectColumn(
				binary(expression.OpLt,
					col("v0"),
					binary(expression.OpMul, lit(0.1), col("v1")),
				),
				"quagga",
			),
			plan.NewSelectColumn(col("v2"), "eland"),
		},
		[]plan.TableRef{plan.NewTableRef(
			plan.NewSimulateModels([]plan.SimCol{
				plan.NewSimCol(mutinf0(), "v0"),
				plan.NewSimCol(mutinf1(), "v1"),
				plan.NewSimCol(probdensity(), "v2"),
			}, "p", "g"),
			"",
		)},
	)
	requireTreeEqual(t, expected, result)

	// The request is left untouched.
	requireTreeEqual(t, []plan.SimCol{
		plan.NewSimCol(binary(expression.OpLt, mutinf0(), binary(expression.OpMul, lit(0.1), mutinf1())), "quagga"),
		plan.NewSimCol(probdensity(), "eland"),
	}, columns)
}

func TestHoistDuplicatesAreIndependent(t *testing.T) {
	require := require.New(t)

	columns := []plan.SimCol{
		plan.NewSimCol(binary(expression.OpSub, mutinf0(), mutinf0()), "d"),
	}

	result, err := Hoist(columns, "p", "g")
	require.NoError(err)

	sel, ok := result.(*plan.Select)
	require.True(ok)
	requireTreeEqual(t, binary(expression.OpSub, col("v0"), col("v1")), sel.Columns[0].Expression)

	inner := sel.Tables[0].Table.(*plan.SimulateModels)
	requireTreeEqual(t, []plan.SimCol{
		plan.NewSimCol(mutinf0(), "v0"),
		plan.NewSimCol(mutinf0(), "v1"),
	}, inner.Columns)
}

func TestHoistSharedDeduplicates(t *testing.T) {
	require := require.New(t)

	columns := []plan.SimCol{
		plan.NewSimCol(binary(expression.OpSub, mutinf0(), mutinf1()), "a"),
		plan.NewSimCol(binary(expression.OpAdd, mutinf1(), probdensity()), "b"),
		plan.NewSimCol(binary(expression.OpMul, mutinf0(), lit(2)), "c"),
	}

	result, err := HoistShared(columns, "p", "g")
	require.NoError(err)

	expected := plan.NewSelect(plan.All,
		[]plan.SelectColumn{
			plan.NewSelectColumn(binary(expression.OpSub, col("v0"), col("v1")), "a"),
			plan.NewSelectColumn(binary(expression.OpAdd, col("v1"), col("v2")), "b"),
			plan.NewSelectColumn(binary(expression.OpMul, col("v0"), lit(2)), "c"),
		},
		[]plan.TableRef{plan.NewTableRef(
			plan.NewSimulateModels([]plan.SimCol{
				plan.NewSimCol(mutinf0(), "v0"),
				plan.NewSimCol(mutinf1(), "v1"),
				plan.NewSimCol(probdensity(), "v2"),
			}, "p", "g"),
			"",
		)},
	)
	requireTreeEqual(t, expected, result)
}

func TestHoistSharedDistinguishesConditions(t *testing.T) {
	require := require.New(t)

	other := expression.NewMutualInformation(
		[]string{"c0"},
		[]string{"c1", "c2"},
		[]expression.Constraint{{Column: "c3", Value: lit(4)}},
		nil,
	)
	columns := []plan.SimCol{
		plan.NewSimCol(binary(expression.OpSub, mutinf0(), other), "d"),
	}

	result, err := HoistShared(columns, "p", "g")
	require.NoError(err)

	inner := result.(*plan.Select).Tables[0].Table.(*plan.SimulateModels)
	require.Len(inner.Columns, 2)
	require.Equal("v1", inner.Columns[1].Name)
}

func TestHoistPreservesPrimitives(t *testing.T) {
	require := require.New(t)

	columns := []plan.SimCol{
		plan.NewSimCol(expression.NewFunction("exp", false,
			binary(expression.OpAdd, probdensity(), mutinf1())), "a"),
		plan.NewSimCol(expression.NewCase(
			nil,
			[]expression.CaseBranch{{
				Cond:  binary(expression.OpGt, mutinf0(), lit(0.5)),
				Value: expression.NewCorrelation("c0", "c1"),
			}},
			expression.NewDependenceProbability("c0", "c1"),
		), "c"),
	}

	var expected []sql.Expression
	for _, c := range columns {
		prims, err := Primitives(c.Expression)
		require.NoError(err)
		expected = append(expected, prims...)
	}
	require.Len(expected, 5)

	result, err := Hoist(columns, "p", "g")
	require.NoError(err)

	inner := result.(*plan.Select).Tables[0].Table.(*plan.SimulateModels)
	require.Len(inner.Columns, len(expected))
	for i, c := range inner.Columns {
		require.Equal(fmt.Sprintf("v%d", i), c.Name)
		requireTreeEqual(t, expected[i], c.Expression)
		require.True(IsAtomic(c.Expression))
	}
}

func TestHoistTopLevelPrimitiveIsRenamed(t *testing.T) {
	require := require.New(t)

	columns := []plan.SimCol{
		plan.NewSimCol(binary(expression.OpAdd, mutinf0(), lit(1)), "a"),
		plan.NewSimCol(probdensity(), "b"),
	}

	result, err := Hoist(columns, "p", "g")
	require.NoError(err)

	sel := result.(*plan.Select)
	require.Len(sel.Tables, 1)
	require.Equal("", sel.Tables[0].Alias)
	require.Equal(plan.All, sel.Quantifier)
	require.Nil(sel.Where)
	require.Nil(sel.Having)
	require.Empty(sel.GroupBy)
	require.Empty(sel.OrderBy)
	require.Nil(sel.Limit)
	requireTreeEqual(t, plan.NewSelectColumn(col("v1"), "b"), sel.Columns[1])
}

func TestHoistErrors(t *testing.T) {
	testCases := []struct {
		name       string
		columns    []plan.SimCol
		population string
		kind       interface{ Is(error) bool }
	}{
		{
			"no columns",
			nil,
			"p",
			ErrEmptySimulate,
		},
		{
			"no population",
			[]plan.SimCol{plan.NewSimCol(mutinf0(), "x")},
			"",
			ErrMissingPopulation,
		},
		{
			"literal column",
			[]plan.SimCol{plan.NewSimCol(mutinf0(), "x"), plan.NewSimCol(lit(1), "y")},
			"p",
			ErrNoPrimitive,
		},
		{
			"column reference",
			[]plan.SimCol{plan.NewSimCol(binary(expression.OpAdd, col("a"), lit(1)), "y")},
			"p",
			ErrNoPrimitive,
		},
		{
			"unknown expression",
			[]plan.SimCol{plan.NewSimCol(binary(expression.OpAdd, mutinf0(), unknownExpression{}), "y")},
			"p",
			ErrUnknownExpression,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			result, err := Hoist(tt.columns, tt.population, "g")
			require.Error(err)
			require.Nil(result)
			require.True(tt.kind.Is(err), "unexpected error: %s", err)
		})
	}
}

func TestHoistUsageErrors(t *testing.T) {
	_, err := Hoist([]plan.SimCol{plan.NewSimCol(lit(1), "y")}, "p", "g")
	require.True(t, IsUsageError(err))
	require.False(t, IsNonTermination(err))
	require.Contains(t, err.Error(), `"y"`)
}
