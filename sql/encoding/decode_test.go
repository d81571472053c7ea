package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jar398/bayeslite/sql"
	"github.com/jar398/bayeslite/sql/expression"
	"github.com/jar398/bayeslite/sql/plan"
)

func requireTreeEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	require.True(t, sql.Equal(expected, actual), "trees differ (-expected +actual):\n%s", sql.Diff(expected, actual))
}

const simulateDoc = `
simulate_models:
  population: p
  generator: g
  columns:
    - name: quagga
      expr:
        op:
          op: lt
          args:
            - mutinf:
                columns0: [c0]
                columns1: [c1, c2]
                given:
                  - {column: c3, value: {lit: 3}}
            - op:
                op: "*"
                args:
                  - {lit: 0.1}
                  - mutinf:
                      columns0: [c4, c5]
                      columns1: [c6]
                      given:
                        - {column: c7, value: {lit: ergodic}}
                      nsamples: {lit: 100}
    - name: eland
      expr:
        probdensity:
          targets:
            - {column: x, value: {lit: 1.2}}
`

func TestDecodeSimulate(t *testing.T) {
	require := require.New(t)

	n, err := Decode([]byte(simulateDoc))
	require.NoError(err)

	mutinf0 := expression.NewMutualInformation(
		[]string{"c0"}, []string{"c1", "c2"},
		[]expression.Constraint{{Column: "c3", Value: expression.NewLiteral(3)}},
		nil,
	)
	mutinf1 := expression.NewMutualInformation(
		[]string{"c4", "c5"}, []string{"c6"},
		[]expression.Constraint{{Column: "c7", Value: expression.NewLiteral("ergodic")}},
		expression.NewLiteral(100),
	)
	probdensity := expression.NewProbabilityDensity(
		[]expression.Constraint{{Column: "x", Value: expression.NewLiteral(1.2)}},
		nil,
	)

	expected := plan.NewSimulateModelsExpr([]plan.SimCol{
		plan.NewSimCol(expression.NewBinary(expression.OpLt,
			mutinf0,
			expression.NewBinary(expression.OpMul, expression.NewLiteral(0.1), mutinf1),
		), "quagga"),
		plan.NewSimCol(probdensity, "eland"),
	}, "p", "g")

	requireTreeEqual(t, expected, n)
}

const selectDoc = `{
  "select": {
    "quantifier": "distinct",
    "columns": [
      {"col": "name"},
      {"expr": {"probest": {"expr": {"depprob": {"column0": "a", "column1": "b"}}, "population": "p"}}, "alias": "dep"},
      {"star": "t"}
    ],
    "from": [
      {"table": "t"},
      {"source": {"select": {"columns": [{"app_star": "COUNT"}]}}, "alias": "s"}
    ],
    "where": {"op": {"op": "not", "args": [{"exists": {"table": "u"}}]}},
    "group_by": [{"col": {"table": "t", "name": "name"}}],
    "having": {"op": {"op": ">", "args": [{"app": {"name": "COUNT", "distinct": true, "args": [{"col": "x"}]}}, {"lit": 1}]}},
    "order_by": [{"expr": {"col": "name"}, "desc": true}, {"col": "dep"}],
    "limit": {"count": {"lit": 10}, "offset": {"lit": 5}}
  }
}`

func TestDecodeSelect(t *testing.T) {
	require := require.New(t)

	n, err := Decode([]byte(selectDoc))
	require.NoError(err)

	inner := plan.NewSelect(plan.All,
		[]plan.SelectColumn{plan.NewSelectColumn(expression.NewFunctionStar("COUNT"), "")},
		nil,
	)

	expected := plan.NewSelect(plan.Distinct,
		[]plan.SelectColumn{
			plan.NewSelectColumn(expression.NewColumn("", "name"), ""),
			plan.NewSelectColumn(expression.NewProbabilityEstimate(
				expression.NewDependenceProbability("a", "b"), "p", ""), "dep"),
			plan.NewSelectColumn(expression.NewQualifiedStar("t"), ""),
		},
		[]plan.TableRef{
			plan.NewTableRef(plan.NewTableName("t"), ""),
			plan.NewTableRef(inner, "s"),
		},
	)
	expected.Where = expression.NewOperator(expression.OpBoolNot, expression.NewExists(plan.NewTableName("u")))
	expected.GroupBy = []sql.Expression{expression.NewColumn("t", "name")}
	expected.Having = expression.NewBinary(expression.OpGt,
		expression.NewFunction("COUNT", true, expression.NewColumn("", "x")),
		expression.NewLiteral(1),
	)
	expected.OrderBy = []plan.SortField{
		{Expression: expression.NewColumn("", "name"), Descending: true},
		{Expression: expression.NewColumn("", "dep")},
	}
	expected.Limit = &plan.Limit{Count: expression.NewLiteral(10), Offset: expression.NewLiteral(5)}

	requireTreeEqual(t, expected, n)
}

func TestDecodeCreateTableAs(t *testing.T) {
	require := require.New(t)

	doc := `
create_table_as:
  temp: true
  name: sims
  query:
    simulate_models:
      population: p
      columns:
        - name: s
          expr: {similarity: {to: {col: rowid}, context: [a]}}
        - name: r
          expr:
            relevance:
              of: {lit: 1}
              hypotheticals:
                - [{column: a, value: {lit: 2}}]
              context: [a, b]
        - name: c
          expr:
            case:
              when:
                - cond: {op: {op: ">", args: [{predprob: {targets: [a], given: [b]}}, {lit: 0.5}]}}
                  then: {cast: {expr: {correl: {column0: a, column1: b}}, type: REAL}}
              else: {predict: {column: a, nsamples: {lit: 10}}}
        - name: pv
          expr: {correl_pvalue: {column0: a, column1: b}}
        - name: "n"
          expr: {lit: null}
`

	n, err := Decode([]byte(doc))
	require.NoError(err)

	expected := plan.NewCreateTableAs(true, false, "sims", plan.NewSimulateModelsExpr([]plan.SimCol{
		plan.NewSimCol(expression.NewSimilarity(nil, expression.NewColumn("", "rowid"), []string{"a"}), "s"),
		plan.NewSimCol(expression.NewPredictiveRelevance(
			expression.NewLiteral(1),
			nil,
			[][]expression.Constraint{{{Column: "a", Value: expression.NewLiteral(2)}}},
			[]string{"a", "b"},
		), "r"),
		plan.NewSimCol(expression.NewCase(nil,
			[]expression.CaseBranch{{
				Cond: expression.NewBinary(expression.OpGt,
					expression.NewPredictiveProbability([]string{"a"}, []string{"b"}),
					expression.NewLiteral(0.5),
				),
				Value: expression.NewCast(expression.NewCorrelation("a", "b"), "REAL"),
			}},
			expression.NewPredict("a", expression.NewLiteral(10)),
		), "c"),
		plan.NewSimCol(expression.NewCorrelationPValue("a", "b"), "pv"),
		plan.NewSimCol(expression.NewNullLiteral(), "n"),
	}, "p", ""))

	requireTreeEqual(t, expected, n)
}

func TestDecodeExpression(t *testing.T) {
	require := require.New(t)

	e, err := DecodeExpression([]byte(`{op: {op: "-", args: [{lit: true}]}}`))
	require.NoError(err)
	requireTreeEqual(t, expression.NewOperator(expression.OpNegate, expression.NewLiteral(int64(1))), e)

	e, err = DecodeExpression([]byte(`{subquery: {table: t}}`))
	require.NoError(err)
	requireTreeEqual(t, expression.NewSubquery(plan.NewTableName("t")), e)

	e, err = DecodeExpression([]byte(`{star: null}`))
	require.NoError(err)
	requireTreeEqual(t, expression.NewStar(), e)
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
		kind interface{ Is(error) bool }
	}{
		{"invalid yaml", "select: [", ErrInvalidDocument},
		{"empty", "", ErrInvalidDocument},
		{"unknown node", "insert: {}", ErrUnknownNodeKind},
		{"unknown expression", "select: {columns: [{foo: 1}]}", ErrUnknownNodeKind},
		{"several kinds", "{table: t, select: {}}", ErrInvalidField},
		{"not a mapping", "[1, 2]", ErrInvalidField},
		{"missing columns", "select: {from: [{table: t}]}", ErrInvalidField},
		{"unknown field", "select: {columns: [{col: a}], limits: 3}", ErrInvalidField},
		{"bad quantifier", "select: {quantifier: some, columns: [{col: a}]}", ErrInvalidField},
		{"unknown operator", "select: {columns: [{op: {op: '===', args: [{lit: 1}, {lit: 2}]}}]}", ErrInvalidField},
		{"bad literal", "select: {columns: [{lit: [1]}]}", ErrInvalidField},
		{"missing simulated name", "simulate_models: {population: p, columns: [{expr: {lit: 1}}]}", ErrInvalidField},
		{"missing targets", "simulate_models: {columns: [{name: x, expr: {probdensity: {}}}]}", ErrInvalidField},
		{"bad boolean", "create_table_as: {temp: maybe, name: x, query: {table: t}}", ErrInvalidField},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			n, err := Decode([]byte(tt.doc))
			require.Error(err)
			require.Nil(n)
			require.True(tt.kind.Is(err), "unexpected error: %s", err)
		})
	}
}

func TestDecodeErrorPath(t *testing.T) {
	_, err := Decode([]byte("select: {columns: [{col: a}, {expr: {op: {op: lt, args: [{lit: 1}, {bogus: 2}]}}}]}"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "$.select.columns[1].expr.op.args[1].bogus")
}
