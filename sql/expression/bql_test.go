package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jar398/bayeslite/sql"
)

func TestEstimatorString(t *testing.T) {
	rowid := NewColumn("", "rowid")

	testCases := []struct {
		name     string
		expr     sql.Expression
		expected string
	}{
		{
			"mutual information",
			NewMutualInformation([]string{"a"}, []string{"b", "c"},
				[]Constraint{{Column: "d", Value: NewLiteral("x")}}, NewLiteral(100)),
			"MUTUAL INFORMATION OF (a) WITH (b, c) GIVEN (d = 'x') USING 100 SAMPLES",
		},
		{
			"probability density",
			NewProbabilityDensity(
				[]Constraint{{Column: "x", Value: NewLiteral(1.2)}},
				[]Constraint{{Column: "y", Value: NewLiteral("a")}},
			),
			"PROBABILITY DENSITY OF (x = 1.2) GIVEN (y = 'a')",
		},
		{
			"predictive probability",
			NewPredictiveProbability([]string{"a", "b"}, []string{"c"}),
			"PREDICTIVE PROBABILITY OF (a, b) GIVEN (c)",
		},
		{
			"similarity",
			NewSimilarity(nil, rowid, []string{"a"}),
			"SIMILARITY TO (rowid) IN THE CONTEXT OF (a)",
		},
		{
			"relevance to hypothetical rows",
			NewPredictiveRelevance(
				NewBinary(OpEq, rowid, NewLiteral(1)),
				nil,
				[][]Constraint{
					{{Column: "a", Value: NewLiteral(2)}},
					{{Column: "a", Value: NewLiteral(3)}, {Column: "b", Value: NewLiteral("x")}},
				},
				[]string{"a"},
			),
			"PREDICTIVE RELEVANCE OF ((rowid = 1)) TO HYPOTHETICAL ROWS WITH VALUES ((a = 2), (a = 3, b = 'x')) IN THE CONTEXT OF (a)",
		},
		{
			"relevance to existing and hypothetical rows",
			NewPredictiveRelevance(nil, rowid,
				[][]Constraint{{{Column: "a", Value: NewLiteral(2)}}}, nil),
			"PREDICTIVE RELEVANCE TO EXISTING ROWS (rowid) AND HYPOTHETICAL ROWS WITH VALUES ((a = 2))",
		},
		{"dependence probability", NewDependenceProbability("a", "b"), "DEPENDENCE PROBABILITY OF a WITH b"},
		{"correlation", NewCorrelation("a", "b"), "CORRELATION OF a WITH b"},
		{"correlation pvalue", NewCorrelationPValue("a", "b"), "CORRELATION PVALUE OF a WITH b"},
		{"predict", NewPredict("a", NewLiteral(10)), "PREDICT a USING 10 SAMPLES"},
		{"predict default samples", NewPredict("a", nil), "PREDICT a"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.expr.String())
		})
	}
}

func TestProbabilityEstimateString(t *testing.T) {
	require := require.New(t)

	pe := NewProbabilityEstimate(NewCorrelation("a", "b"), "p", "")
	require.Equal("PROBABILITY ESTIMATE OF (CORRELATION OF a WITH b) FROM p", pe.String())

	pe = NewProbabilityEstimate(NewCorrelation("a", "b"), "p", "g")
	pe.Aggregate = "AVG"
	require.Equal("AVG PROBABILITY ESTIMATE OF (CORRELATION OF a WITH b) FROM p MODELED BY g", pe.String())
}

func TestEstimatorChildren(t *testing.T) {
	one, two, three := NewLiteral(1), NewLiteral(2), NewLiteral(3)
	x, y, z := NewLiteral("x"), NewLiteral("y"), NewLiteral("z")

	testCases := []struct {
		name     string
		expr     sql.Expression
		children []sql.Expression
		replaced sql.Expression
	}{
		{
			"mutual information",
			NewMutualInformation([]string{"a"}, []string{"b"}, []Constraint{{"c", one}}, two),
			[]sql.Expression{one, two},
			NewMutualInformation([]string{"a"}, []string{"b"}, []Constraint{{"c", x}}, y),
		},
		{
			"mutual information without samples",
			NewMutualInformation([]string{"a"}, []string{"b"}, []Constraint{{"c", one}}, nil),
			[]sql.Expression{one},
			NewMutualInformation([]string{"a"}, []string{"b"}, []Constraint{{"c", x}}, nil),
		},
		{
			"probability density",
			NewProbabilityDensity([]Constraint{{"a", one}, {"b", two}}, []Constraint{{"c", three}}),
			[]sql.Expression{one, two, three},
			NewProbabilityDensity([]Constraint{{"a", x}, {"b", y}}, []Constraint{{"c", z}}),
		},
		{
			"similarity",
			NewSimilarity(one, nil, []string{"a"}),
			[]sql.Expression{one},
			NewSimilarity(x, nil, []string{"a"}),
		},
		{
			"predictive relevance",
			NewPredictiveRelevance(nil, one, [][]Constraint{{{"a", two}}, {{"b", three}}}, nil),
			[]sql.Expression{one, two, three},
			NewPredictiveRelevance(nil, x, [][]Constraint{{{"a", y}}, {{"b", z}}}, nil),
		},
		{
			"predict",
			NewPredict("a", one),
			[]sql.Expression{one},
			NewPredict("a", x),
		},
		{
			"probability estimate",
			NewProbabilityEstimate(one, "p", "g"),
			[]sql.Expression{one},
			NewProbabilityEstimate(x, "p", "g"),
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			require.Equal(tt.children, tt.expr.Children())

			replacements := []sql.Expression{x, y, z}[:len(tt.children)]
			e, err := tt.expr.WithChildren(replacements...)
			require.NoError(err)
			require.True(sql.Equal(tt.replaced, e), sql.Diff(tt.replaced, e))

			// the receiver keeps its children
			require.Equal(tt.children, tt.expr.Children())

			_, err = tt.expr.WithChildren(append(replacements, one)...)
			require.True(sql.ErrInvalidChildrenNumber.Is(err))
		})
	}
}

func TestColumnEstimatorsAreLeaves(t *testing.T) {
	leaves := []sql.Expression{
		NewPredictiveProbability([]string{"a"}, nil),
		NewDependenceProbability("a", "b"),
		NewCorrelation("a", "b"),
		NewCorrelationPValue("a", "b"),
	}

	for _, e := range leaves {
		require.Empty(t, e.Children())

		ne, err := e.WithChildren()
		require.NoError(t, err)
		require.Equal(t, e, ne)

		_, err = e.WithChildren(NewLiteral(1))
		require.True(t, sql.ErrInvalidChildrenNumber.Is(err))
	}
}

func TestEstimatorStringNestedQuery(t *testing.T) {
	query := func(name string) sql.Expression {
		return NewSubquery(queryNode(name + "\n"))
	}

	testCases := []struct {
		name     string
		expr     sql.Expression
		expected string
	}{
		{
			"density target",
			NewProbabilityDensity(
				[]Constraint{{Column: "x", Value: query("t")}},
				[]Constraint{{Column: "y", Value: NewLiteral("a")}},
			),
			"PROBABILITY DENSITY OF (x = $1) GIVEN (y = 'a')\n └─ $1: Subquery\n     └─ t",
		},
		{
			"mutual information condition and samples",
			NewMutualInformation([]string{"a"}, []string{"b"},
				[]Constraint{{Column: "c", Value: query("t")}}, query("u")),
			"MUTUAL INFORMATION OF (a) WITH (b) GIVEN (c = $1) USING $2 SAMPLES\n" +
				" ├─ $1: Subquery\n" +
				" │   └─ t\n" +
				" └─ $2: Subquery\n" +
				"     └─ u",
		},
		{
			"estimate of nested estimator",
			NewProbabilityEstimate(NewProbabilityDensity(
				[]Constraint{{Column: "x", Value: query("t")}}, nil), "p", "g"),
			"PROBABILITY ESTIMATE OF ($1) FROM p MODELED BY g\n" +
				" └─ $1: PROBABILITY DENSITY OF (x = $1)\n" +
				"     └─ $1: Subquery\n" +
				"         └─ t",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.expr.String())
		})
	}
}
