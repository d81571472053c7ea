package bayeslite

import (
	"context"
	"fmt"
	"os"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/jar398/bayeslite/sql"
	"github.com/jar398/bayeslite/sql/encoding"
	"github.com/jar398/bayeslite/sql/macro"
)

// Engine is a BQL macro compiler. It turns statements holding probabilistic
// macros into statements the SQL backend can run.
type Engine struct {
	Config   Config
	Expander *macro.Expander
	Logger   *logrus.Logger
}

// New creates a new Engine with the given configuration.
func New(cfg Config) *Engine {
	logger := cfg.NewLogger(os.Stderr)

	b := macro.NewBuilder().
		WithMaxPasses(cfg.MaxPasses).
		WithMaxDepth(cfg.MaxDepth).
		WithLogger(logger)
	if cfg.DedupPrimitives {
		b = b.WithDedup()
	}
	if cfg.Debug {
		b = b.WithDebug()
	}
	if cfg.Verbose {
		b = b.WithVerbose()
	}

	return &Engine{Config: cfg, Expander: b.Build(), Logger: logger}
}

// NewDefault creates a new Engine with the default configuration.
func NewDefault() *Engine {
	return New(DefaultConfig())
}

// Compile expands every macro of the given statement. The statement is not
// modified.
func (e *Engine) Compile(ctx context.Context, stmt sql.Node) (sql.Node, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "bayeslite.compile")
	defer span.Finish()

	log := e.Logger.WithField(StatementLogField, fmt.Sprintf("%T", stmt))
	log.Debug("compiling statement")

	result, err := e.Expander.Expand(ctx, stmt)
	if err != nil {
		span.SetTag("error", true)
		if macro.IsUsageError(err) {
			log.Warnf("statement can not be compiled: %s", err)
		} else {
			log.Errorf("compiler error: %s", err)
		}
		return nil, err
	}

	log.Debug("statement compiled")
	return result, nil
}

// CompileDocument reads a statement from a YAML or JSON document and
// compiles it.
func (e *Engine) CompileDocument(ctx context.Context, data []byte) (sql.Node, error) {
	stmt, err := encoding.Decode(data)
	if err != nil {
		return nil, err
	}
	return e.Compile(ctx, stmt)
}
