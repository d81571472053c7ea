package bayeslite

import (
	"fmt"
	"io"
	"os"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/spf13/cast"
	jaeger "github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
	"gopkg.in/src-d/go-errors.v1"
)

const (
	// environment variable names
	envServiceName  = "JAEGER_SERVICE_NAME"
	envDisabled     = "JAEGER_DISABLED"
	envTags         = "JAEGER_TAGS"
	envSamplerType  = "JAEGER_SAMPLER_TYPE"
	envSamplerParam = "JAEGER_SAMPLER_PARAM"
	envLogSpans     = "JAEGER_REPORTER_LOG_SPANS"
	envAgentHost    = "JAEGER_AGENT_HOST"
	envAgentPort    = "JAEGER_AGENT_PORT"

	jaegerDefaultUDPSpanServerHost = "localhost"
	jaegerDefaultUDPSpanServerPort = 6831
)

// ErrTracer is returned when the tracer can not be created.
var ErrTracer = errors.NewKind("cannot create tracer: %s")

// Tracer creates a new jaeger tracer configured from the JAEGER_*
// environment variables and makes it the global tracer, so that the spans
// of every compilation are reported. It also returns an io.Closer to flush
// and close the tracer.
func (c Config) Tracer() (opentracing.Tracer, io.Closer, error) {
	cfg := &jaegercfg.Configuration{
		ServiceName: "bayeslite",
		Sampler:     &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeConst, Param: 1},
		Reporter:    &jaegercfg.ReporterConfig{},
	}

	if e := os.Getenv(envServiceName); e != "" {
		cfg.ServiceName = e
	}

	if e := os.Getenv(envDisabled); e != "" {
		value, err := cast.ToBoolE(e)
		if err != nil {
			return nil, nil, ErrTracer.Wrap(err, envDisabled+"="+e)
		}
		cfg.Disabled = value
	}

	if e := os.Getenv(envSamplerType); e != "" {
		cfg.Sampler.Type = e
	}

	if e := os.Getenv(envSamplerParam); e != "" {
		value, err := cast.ToFloat64E(e)
		if err != nil {
			return nil, nil, ErrTracer.Wrap(err, envSamplerParam+"="+e)
		}
		cfg.Sampler.Param = value
	}

	if e := os.Getenv(envLogSpans); e != "" {
		value, err := cast.ToBoolE(e)
		if err != nil {
			return nil, nil, ErrTracer.Wrap(err, envLogSpans+"="+e)
		}
		cfg.Reporter.LogSpans = value
	}

	host := jaegerDefaultUDPSpanServerHost
	if e := os.Getenv(envAgentHost); e != "" {
		host = e
	}

	port := jaegerDefaultUDPSpanServerPort
	if e := os.Getenv(envAgentPort); e != "" {
		value, err := cast.ToIntE(e)
		if err != nil {
			return nil, nil, ErrTracer.Wrap(err, envAgentPort+"="+e)
		}
		port = value
	}
	cfg.Reporter.LocalAgentHostPort = fmt.Sprintf("%s:%d", host, port)

	var opts = []jaegercfg.Option{
		jaegercfg.Metrics(metrics.NullFactory),
		jaegercfg.Logger(jaeger.StdLogger),
	}
	if e := os.Getenv(envTags); e != "" {
		for _, tag := range strings.Split(e, ",") {
			kv := strings.SplitN(strings.TrimSpace(tag), "=", 2)
			if len(kv) == 2 {
				opts = append(opts, jaegercfg.Tag(kv[0], kv[1]))
			}
		}
	}

	tracer, closer, err := cfg.NewTracer(opts...)
	if err != nil {
		return nil, nil, ErrTracer.Wrap(err, err.Error())
	}
	opentracing.SetGlobalTracer(tracer)

	return tracer, closer, nil
}
