package encoding

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/jar398/bayeslite/sql"
	"github.com/jar398/bayeslite/sql/expression"
)

func decodeExpr(path string, v interface{}) (sql.Expression, error) {
	kind, body, err := kindOf(path, v)
	if err != nil {
		return nil, err
	}

	path = path + "." + kind
	switch kind {
	case "lit":
		return decodeLiteral(path, body)
	case "col":
		return decodeColumn(path, body)
	case "star":
		table, err := cast.ToStringE(body)
		if err != nil {
			return nil, ErrInvalidField.New(path, "expected a table name or null")
		}
		return expression.NewQualifiedStar(table), nil
	case "op":
		return decodeOperator(path, body)
	case "app":
		return decodeFunction(path, body)
	case "app_star":
		name, err := cast.ToStringE(body)
		if err != nil || name == "" {
			return nil, ErrInvalidField.New(path, "expected a function name")
		}
		return expression.NewFunctionStar(name), nil
	case "case":
		return decodeCase(path, body)
	case "cast":
		return decodeCast(path, body)
	case "subquery":
		n, err := decodeNode(path, body)
		if err != nil {
			return nil, err
		}
		return expression.NewSubquery(n), nil
	case "exists":
		n, err := decodeNode(path, body)
		if err != nil {
			return nil, err
		}
		return expression.NewExists(n), nil
	case "probest":
		return decodeProbabilityEstimate(path, body)
	case "mutinf":
		return decodeMutualInformation(path, body)
	case "probdensity":
		return decodeProbabilityDensity(path, body)
	case "predprob":
		return decodePredictiveProbability(path, body)
	case "similarity":
		return decodeSimilarity(path, body)
	case "relevance":
		return decodePredictiveRelevance(path, body)
	case "depprob", "correl", "correl_pvalue":
		return decodeColumnPair(path, kind, body)
	case "predict":
		return decodePredict(path, body)
	default:
		return nil, ErrUnknownNodeKind.New(path, kind)
	}
}

func decodeLiteral(path string, body interface{}) (sql.Expression, error) {
	switch v := body.(type) {
	case nil:
		return expression.NewNullLiteral(), nil
	case int, int64, uint64, float64, string, bool:
		return expression.NewLiteral(v), nil
	default:
		return nil, ErrInvalidField.New(path, fmt.Sprintf("unsupported literal of type %T", body))
	}
}

// decodeColumn reads either a bare column name or a {table, name} mapping.
func decodeColumn(path string, body interface{}) (sql.Expression, error) {
	if name, ok := body.(string); ok {
		if name == "" {
			return nil, ErrInvalidField.New(path, "expected a column name")
		}
		return expression.NewColumn("", name), nil
	}

	f, err := newFields(path, body, "table", "name")
	if err != nil {
		return nil, err
	}

	table, err := f.str("table", false)
	if err != nil {
		return nil, err
	}

	name, err := f.str("name", true)
	if err != nil {
		return nil, err
	}
	return expression.NewColumn(table, name), nil
}

func decodeOperator(path string, body interface{}) (sql.Expression, error) {
	f, err := newFields(path, body, "op", "args")
	if err != nil {
		return nil, err
	}

	name, err := f.str("op", true)
	if err != nil {
		return nil, err
	}

	args, err := f.exprs("args")
	if err != nil {
		return nil, err
	}

	op, ok := expression.ParseOp(name, len(args))
	if !ok {
		return nil, f.invalid("op", fmt.Sprintf("unknown operator %q", name))
	}
	return expression.NewOperator(op, args...), nil
}

func decodeFunction(path string, body interface{}) (sql.Expression, error) {
	f, err := newFields(path, body, "name", "distinct", "args")
	if err != nil {
		return nil, err
	}

	name, err := f.str("name", true)
	if err != nil {
		return nil, err
	}

	distinct, err := f.boolean("distinct")
	if err != nil {
		return nil, err
	}

	args, err := f.exprs("args")
	if err != nil {
		return nil, err
	}
	return expression.NewFunction(name, distinct, args...), nil
}

func decodeCase(path string, body interface{}) (sql.Expression, error) {
	f, err := newFields(path, body, "key", "when", "else")
	if err != nil {
		return nil, err
	}

	key, err := f.optExpr("key")
	if err != nil {
		return nil, err
	}

	items, err := f.list("when", true)
	if err != nil {
		return nil, err
	}

	branches := make([]expression.CaseBranch, len(items))
	for i, item := range items {
		bf, err := newFields(fmt.Sprintf("%s.when[%d]", path, i), item, "cond", "then")
		if err != nil {
			return nil, err
		}

		if branches[i].Cond, err = bf.expr("cond"); err != nil {
			return nil, err
		}

		if branches[i].Value, err = bf.expr("then"); err != nil {
			return nil, err
		}
	}

	elseExpr, err := f.optExpr("else")
	if err != nil {
		return nil, err
	}
	return expression.NewCase(key, branches, elseExpr), nil
}

func decodeCast(path string, body interface{}) (sql.Expression, error) {
	f, err := newFields(path, body, "expr", "type")
	if err != nil {
		return nil, err
	}

	e, err := f.expr("expr")
	if err != nil {
		return nil, err
	}

	typ, err := f.str("type", true)
	if err != nil {
		return nil, err
	}
	return expression.NewCast(e, typ), nil
}

func decodeProbabilityEstimate(path string, body interface{}) (sql.Expression, error) {
	f, err := newFields(path, body, "expr", "population", "generator", "aggregate")
	if err != nil {
		return nil, err
	}

	e, err := f.expr("expr")
	if err != nil {
		return nil, err
	}

	population, err := f.str("population", false)
	if err != nil {
		return nil, err
	}

	generator, err := f.str("generator", false)
	if err != nil {
		return nil, err
	}

	aggregate, err := f.str("aggregate", false)
	if err != nil {
		return nil, err
	}

	pe := expression.NewProbabilityEstimate(e, population, generator)
	pe.Aggregate = aggregate
	return pe, nil
}

func decodeMutualInformation(path string, body interface{}) (sql.Expression, error) {
	f, err := newFields(path, body, "columns0", "columns1", "given", "nsamples")
	if err != nil {
		return nil, err
	}

	columns0, err := f.strs("columns0")
	if err != nil {
		return nil, err
	}

	columns1, err := f.strs("columns1")
	if err != nil {
		return nil, err
	}

	if len(columns0) == 0 || len(columns1) == 0 {
		return nil, ErrInvalidField.New(path, "expected columns0 and columns1")
	}

	given, err := f.constraints("given")
	if err != nil {
		return nil, err
	}

	nsamples, err := f.optExpr("nsamples")
	if err != nil {
		return nil, err
	}
	return expression.NewMutualInformation(columns0, columns1, given, nsamples), nil
}

func decodeProbabilityDensity(path string, body interface{}) (sql.Expression, error) {
	f, err := newFields(path, body, "targets", "given")
	if err != nil {
		return nil, err
	}

	targets, err := f.constraints("targets")
	if err != nil {
		return nil, err
	}

	if len(targets) == 0 {
		return nil, f.invalid("targets", "missing field")
	}

	given, err := f.constraints("given")
	if err != nil {
		return nil, err
	}
	return expression.NewProbabilityDensity(targets, given), nil
}

func decodePredictiveProbability(path string, body interface{}) (sql.Expression, error) {
	f, err := newFields(path, body, "targets", "given")
	if err != nil {
		return nil, err
	}

	targets, err := f.strs("targets")
	if err != nil {
		return nil, err
	}

	if len(targets) == 0 {
		return nil, f.invalid("targets", "missing field")
	}

	given, err := f.strs("given")
	if err != nil {
		return nil, err
	}
	return expression.NewPredictiveProbability(targets, given), nil
}

func decodeSimilarity(path string, body interface{}) (sql.Expression, error) {
	f, err := newFields(path, body, "of", "to", "context")
	if err != nil {
		return nil, err
	}

	of, err := f.optExpr("of")
	if err != nil {
		return nil, err
	}

	to, err := f.optExpr("to")
	if err != nil {
		return nil, err
	}

	context, err := f.strs("context")
	if err != nil {
		return nil, err
	}
	return expression.NewSimilarity(of, to, context), nil
}

func decodePredictiveRelevance(path string, body interface{}) (sql.Expression, error) {
	f, err := newFields(path, body, "of", "to", "hypotheticals", "context")
	if err != nil {
		return nil, err
	}

	of, err := f.optExpr("of")
	if err != nil {
		return nil, err
	}

	to, err := f.optExpr("to")
	if err != nil {
		return nil, err
	}

	rows, err := f.list("hypotheticals", false)
	if err != nil {
		return nil, err
	}

	var hypotheticals [][]expression.Constraint
	for i, row := range rows {
		p := fmt.Sprintf("%s.hypotheticals[%d]", path, i)
		items, err := cast.ToSliceE(row)
		if err != nil {
			return nil, ErrInvalidField.New(p, "expected a sequence")
		}

		cs, err := decodeConstraints(p, items)
		if err != nil {
			return nil, err
		}
		hypotheticals = append(hypotheticals, cs)
	}

	context, err := f.strs("context")
	if err != nil {
		return nil, err
	}
	return expression.NewPredictiveRelevance(of, to, hypotheticals, context), nil
}

func decodeColumnPair(path, kind string, body interface{}) (sql.Expression, error) {
	f, err := newFields(path, body, "column0", "column1")
	if err != nil {
		return nil, err
	}

	column0, err := f.str("column0", true)
	if err != nil {
		return nil, err
	}

	column1, err := f.str("column1", true)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "depprob":
		return expression.NewDependenceProbability(column0, column1), nil
	case "correl":
		return expression.NewCorrelation(column0, column1), nil
	default:
		return expression.NewCorrelationPValue(column0, column1), nil
	}
}

func decodePredict(path string, body interface{}) (sql.Expression, error) {
	f, err := newFields(path, body, "column", "nsamples")
	if err != nil {
		return nil, err
	}

	column, err := f.str("column", true)
	if err != nil {
		return nil, err
	}

	nsamples, err := f.optExpr("nsamples")
	if err != nil {
		return nil, err
	}
	return expression.NewPredict(column, nsamples), nil
}
