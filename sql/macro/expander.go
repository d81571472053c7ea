package macro

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/jar398/bayeslite/sql"
	"github.com/jar398/bayeslite/sql/expression"
	"github.com/jar398/bayeslite/sql/plan"
	"github.com/jar398/bayeslite/sql/transform"
)

const debugMacroKey = "DEBUG_MACRO"

const (
	defaultMaxPasses = 1000
	defaultMaxDepth  = 1000
)

var (
	// ErrNoPrimitive is returned when an output column of a simulate request
	// has no probabilistic primitive at all.
	ErrNoPrimitive = errors.NewKind("simulated column %q has no probabilistic primitive: %s")

	// ErrEmptySimulate is returned when a simulate request has no columns.
	ErrEmptySimulate = errors.NewKind("simulate request from population %q has no columns")

	// ErrUnsupportedAggregate is returned when a probability estimate asks for
	// an aggregate other than the mean.
	ErrUnsupportedAggregate = errors.NewKind("unsupported aggregate %q in probability estimate: %s")

	// ErrMissingPopulation is returned when a macro names no population.
	ErrMissingPopulation = errors.NewKind("%s: missing population")

	// ErrUnknownExpression is returned for expression kinds the classifier
	// does not know about.
	ErrUnknownExpression = errors.NewKind("unknown expression of type %T")

	// ErrMaxExpansionPasses is returned when macros are still left after the
	// maximum number of expansion passes.
	ErrMaxExpansionPasses = errors.NewKind("exceeded max macro expansion passes (%d)")

	// ErrMaxDepth is returned when a tree is deeper than the maximum depth.
	ErrMaxDepth = errors.NewKind("tree is deeper than max depth (%d)")
)

// IsUsageError returns whether the error comes from a macro that is not
// suited for expansion, as opposed to a malformed tree or a compiler fault.
func IsUsageError(err error) bool {
	return ErrNoPrimitive.Is(err) ||
		ErrEmptySimulate.Is(err) ||
		ErrUnsupportedAggregate.Is(err) ||
		ErrMissingPopulation.Is(err)
}

// IsNonTermination returns whether the error comes from an expansion that did
// not reach a macro-free tree.
func IsNonTermination(err error) bool {
	return ErrMaxExpansionPasses.Is(err)
}

// Builder provides an easy way to generate an Expander with custom options.
type Builder struct {
	debug     bool
	verbose   bool
	dedup     bool
	maxPasses int
	maxDepth  int
	logger    *logrus.Logger
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithDebug activates debug on the Expander.
func (b *Builder) WithDebug() *Builder {
	b.debug = true
	return b
}

// WithVerbose activates debug and logs the tree after every pass.
func (b *Builder) WithVerbose() *Builder {
	b.debug = true
	b.verbose = true
	return b
}

// WithDedup makes the hoister share a synthetic column among structurally
// equal primitives.
func (b *Builder) WithDedup() *Builder {
	b.dedup = true
	return b
}

// WithMaxPasses sets the maximum number of expansion passes.
func (b *Builder) WithMaxPasses(n int) *Builder {
	b.maxPasses = n
	return b
}

// WithMaxDepth sets the maximum depth of the trees being expanded.
func (b *Builder) WithMaxDepth(n int) *Builder {
	b.maxDepth = n
	return b
}

// WithLogger sets the logger debug messages are written to.
func (b *Builder) WithLogger(l *logrus.Logger) *Builder {
	b.logger = l
	return b
}

// Build creates a new Expander using the options set on the Builder.
func (b *Builder) Build() *Expander {
	_, debug := os.LookupEnv(debugMacroKey)

	maxPasses := b.maxPasses
	if maxPasses <= 0 {
		maxPasses = defaultMaxPasses
	}

	maxDepth := b.maxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	logger := b.logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Expander{
		Debug:     debug || b.debug,
		Verbose:   b.verbose,
		Dedup:     b.dedup,
		MaxPasses: maxPasses,
		MaxDepth:  maxDepth,
		Logger:    logger,
	}
}

// Expander rewrites statements until no macro is left in them. It holds no
// state between calls and can be used concurrently.
type Expander struct {
	// Whether to log various debugging messages
	Debug bool
	// Whether to log the tree after each pass
	Verbose bool
	// Whether structurally equal primitives share a synthetic column
	Dedup     bool
	MaxPasses int
	MaxDepth  int
	Logger    *logrus.Logger
}

// NewDefault creates a default Expander.
func NewDefault() *Expander {
	return NewBuilder().Build()
}

// Expand rewrites the given statement, and every query nested in it, until
// no macro is left. Each pass expands the innermost macros, those with no
// other macro below them, so that the simulate requests produced by lowering
// a probability estimate are hoisted by the next pass. The given tree is
// never modified.
func (x *Expander) Expand(ctx context.Context, n sql.Node) (sql.Node, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s := x.newExpansion()
	span, _ := opentracing.StartSpanFromContext(ctx, "macro.expand", opentracing.Tags{
		"expansion_id": s.id.String(),
	})
	defer func() {
		span.SetTag("passes", s.passes)
		span.Finish()
	}()

	s.Log("starting expansion of node of type: %T", n)
	result, err := s.run(n)
	if err != nil {
		s.Log("expansion failed after %d passes: %s", s.passes, err)
		return nil, err
	}

	s.Log("expansion finished after %d passes", s.passes)
	return result, nil
}

// expansion is the state of a single Expand call.
type expansion struct {
	*Expander
	id       uuid.UUID
	log      *logrus.Entry
	debugCtx []string
	passes   int
}

func (x *Expander) newExpansion() *expansion {
	logger := x.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	id := uuid.New()
	return &expansion{
		Expander: x,
		id:       id,
		log:      logger.WithField("expansionID", id.String()),
	}
}

// Log prints an INFO message with the given message and args if the
// expander is in debug mode.
func (s *expansion) Log(msg string, args ...interface{}) {
	if s != nil && s.Debug {
		if len(s.debugCtx) > 0 {
			ctx := strings.Join(s.debugCtx, "/")
			s.log.Infof("%s: "+msg, append([]interface{}{ctx}, args...)...)
		} else {
			s.log.Infof(msg, args...)
		}
	}
}

// LogNode prints the node given if Verbose logging is enabled.
func (s *expansion) LogNode(n sql.Node) {
	if s != nil && n != nil && s.Verbose {
		if len(s.debugCtx) > 0 {
			ctx := strings.Join(s.debugCtx, "/")
			s.log.Infof("%s:\n%s", ctx, n.String())
		} else {
			s.log.Infof("\n%s", n.String())
		}
	}
}

// PushDebugContext pushes the given context string onto the context stack,
// to use when logging debug messages.
func (s *expansion) PushDebugContext(msg string) {
	if s != nil {
		s.debugCtx = append(s.debugCtx, msg)
	}
}

// PopDebugContext pops a context message off the context stack.
func (s *expansion) PopDebugContext() {
	if s != nil && len(s.debugCtx) > 0 {
		s.debugCtx = s.debugCtx[:len(s.debugCtx)-1]
	}
}

func (s *expansion) run(n sql.Node) (sql.Node, error) {
	s.PushDebugContext("expand")
	defer s.PopDebugContext()

	cur := n
	for {
		if transform.Depth(cur, s.MaxDepth) > s.MaxDepth {
			return nil, ErrMaxDepth.New(s.MaxDepth)
		}

		if !ContainsMacro(cur) {
			return cur, nil
		}

		if s.passes >= s.MaxPasses {
			return nil, ErrMaxExpansionPasses.New(s.MaxPasses)
		}
		s.passes++

		next, err := s.pass(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
}

// pass expands every macro of the tree that has no other macro below it.
func (s *expansion) pass(n sql.Node) (sql.Node, error) {
	s.PushDebugContext(passName(s.passes))
	defer s.PopDebugContext()

	var expanded int
	result, _, err := transform.Deep(n,
		func(n sql.Node) (sql.Node, transform.TreeIdentity, error) {
			sim, ok := n.(*plan.SimulateModelsExpr)
			if !ok || exprsContainMacro(sim.Expressions()) {
				return n, transform.SameTree, nil
			}

			s.Log("hoisting simulate request of %d columns from %s", len(sim.Columns), sim.Population)
			hoisted, err := s.hoist(sim)
			if err != nil {
				return nil, transform.SameTree, err
			}
			expanded++
			return hoisted, transform.NewTree, nil
		},
		func(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
			pe, ok := e.(*expression.ProbabilityEstimate)
			if !ok || exprContainsMacro(pe.Expression) {
				return e, transform.SameTree, nil
			}

			s.Log("lowering probability estimate from %s", pe.Population)
			lowered, err := LowerProbabilityEstimate(pe)
			if err != nil {
				return nil, transform.SameTree, err
			}
			expanded++
			return lowered, transform.NewTree, nil
		},
	)
	if err != nil {
		return nil, err
	}

	s.Log("expanded %d macros", expanded)
	s.LogNode(result)
	return result, nil
}

func (s *expansion) hoist(sim *plan.SimulateModelsExpr) (sql.Node, error) {
	if s.Dedup {
		return HoistShared(sim.Columns, sim.Population, sim.Generator)
	}
	return Hoist(sim.Columns, sim.Population, sim.Generator)
}

func passName(i int) string {
	return "pass-" + strconv.Itoa(i)
}
