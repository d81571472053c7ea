package macro

import (
	"strings"

	"github.com/jar398/bayeslite/sql"
	"github.com/jar398/bayeslite/sql/expression"
	"github.com/jar398/bayeslite/sql/plan"
)

// estimateColumn is the name of the single simulated column of a lowered
// probability estimate.
const estimateColumn = "x"

// Lower turns an estimate of the expected value of e into a scalar subquery
// averaging e over simulated draws:
//
//	(SELECT AVG(x) FROM (SIMULATE e AS x FROM population MODELED BY generator))
//
// The simulate request is left in its macro form; hoisting e is the job of
// a later expansion pass.
func Lower(e sql.Expression, population, generator string) (*expression.Subquery, error) {
	if population == "" {
		return nil, ErrMissingPopulation.New("PROBABILITY ESTIMATE")
	}

	simulate := plan.NewSimulateModelsExpr(
		[]plan.SimCol{plan.NewSimCol(e, estimateColumn)},
		population,
		generator,
	)

	avg := expression.NewFunction("AVG", false, expression.NewColumn("", estimateColumn))
	query := plan.NewSelect(
		plan.All,
		[]plan.SelectColumn{plan.NewSelectColumn(avg, "")},
		[]plan.TableRef{plan.NewTableRef(simulate, "")},
	)

	return expression.NewSubquery(query), nil
}

// LowerProbabilityEstimate lowers a ProbabilityEstimate macro. The only
// aggregate an estimate supports is the mean.
func LowerProbabilityEstimate(pe *expression.ProbabilityEstimate) (*expression.Subquery, error) {
	if pe.Aggregate != "" && !strings.EqualFold(pe.Aggregate, "AVG") {
		return nil, ErrUnsupportedAggregate.New(pe.Aggregate, pe)
	}
	return Lower(pe.Expression, pe.Population, pe.Generator)
}
