package macro

import (
	"github.com/jar398/bayeslite/sql"
	"github.com/jar398/bayeslite/sql/expression"
	"github.com/jar398/bayeslite/sql/plan"
	"github.com/jar398/bayeslite/sql/transform"
)

// Class is the role an expression plays when simulated outputs are hoisted.
type Class int

const (
	// Combinator expressions are computable in plain SQL once the values of
	// their primitive operands are known.
	Combinator Class = iota
	// Atomic expressions are probabilistic primitives: only the sampler of
	// a generator can produce their values.
	Atomic
)

func (c Class) String() string {
	if c == Atomic {
		return "atomic"
	}
	return "combinator"
}

// Classify tells whether the given expression is an atomic primitive or a
// combinator. It only looks at the kind of the expression, never at its
// arguments. Unknown expression kinds are an error.
func Classify(e sql.Expression) (Class, error) {
	switch e.(type) {
	case *expression.MutualInformation,
		*expression.ProbabilityDensity,
		*expression.PredictiveProbability,
		*expression.Similarity,
		*expression.PredictiveRelevance,
		*expression.DependenceProbability,
		*expression.Correlation,
		*expression.CorrelationPValue,
		*expression.Predict:
		return Atomic, nil
	case *expression.Literal,
		*expression.Column,
		*expression.Star,
		*expression.Operator,
		*expression.Function,
		*expression.FunctionStar,
		*expression.Case,
		*expression.Cast,
		*expression.Subquery,
		*expression.Exists,
		// lowered into a subquery before any hoisting sees it
		*expression.ProbabilityEstimate:
		return Combinator, nil
	default:
		return Combinator, ErrUnknownExpression.New(e)
	}
}

// IsAtomic returns whether the expression is an atomic primitive. Unknown
// expression kinds are not atomic.
func IsAtomic(e sql.Expression) bool {
	c, err := Classify(e)
	return err == nil && c == Atomic
}

// Primitives returns the atomic primitives of an expression in depth-first,
// left-to-right order. The arguments of a primitive are not searched, nor
// are the queries nested in subqueries.
func Primitives(e sql.Expression) ([]sql.Expression, error) {
	var (
		prims []sql.Expression
		err   error
	)

	expression.Inspect(e, func(e sql.Expression) bool {
		if e == nil || err != nil {
			return false
		}

		var class Class
		class, err = Classify(e)
		if err != nil {
			return false
		}

		if class == Atomic {
			prims = append(prims, e)
			return false
		}
		return true
	})

	if err != nil {
		return nil, err
	}
	return prims, nil
}

func isMacroNode(n sql.Node) bool {
	_, ok := n.(*plan.SimulateModelsExpr)
	return ok
}

func isMacroExpr(e sql.Expression) bool {
	_, ok := e.(*expression.ProbabilityEstimate)
	return ok
}

// ContainsMacro returns whether a macro node (a probability estimate or a
// simulate request over arbitrary expressions) is left anywhere in the tree.
func ContainsMacro(n sql.Node) bool {
	return !transform.InspectDeep(n,
		func(n sql.Node) bool { return !isMacroNode(n) },
		func(e sql.Expression) bool { return !isMacroExpr(e) },
	)
}

func exprContainsMacro(e sql.Expression) bool {
	return !transform.InspectExprDeep(e,
		func(n sql.Node) bool { return !isMacroNode(n) },
		func(e sql.Expression) bool { return !isMacroExpr(e) },
	)
}

func exprsContainMacro(exprs []sql.Expression) bool {
	for _, e := range exprs {
		if exprContainsMacro(e) {
			return true
		}
	}
	return false
}
