package bayeslite

import (
	"io/ioutil"
	"os"

	"github.com/spf13/cast"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v2"
)

const (
	// environment variable names
	envMaxPasses       = "BAYESLITE_MAX_PASSES"
	envMaxDepth        = "BAYESLITE_MAX_DEPTH"
	envDedupPrimitives = "BAYESLITE_DEDUP_PRIMITIVES"
	envDebug           = "BAYESLITE_DEBUG"
	envVerbose         = "BAYESLITE_VERBOSE"
	envLogFormat       = "BAYESLITE_LOG_FORMAT"
)

const (
	defaultMaxPasses = 1000
	defaultMaxDepth  = 1000
)

// ErrInvalidConfig is returned when a configuration file or an environment
// override can not be used.
var ErrInvalidConfig = errors.NewKind("invalid configuration: %s")

// Config of the macro compiler.
type Config struct {
	// MaxPasses is the maximum number of expansion passes over a statement.
	MaxPasses int `yaml:"max_passes"`
	// MaxDepth is the maximum depth of the statements being expanded.
	MaxDepth int `yaml:"max_depth"`
	// DedupPrimitives makes structurally equal primitives of one simulate
	// request share a single simulated column.
	DedupPrimitives bool `yaml:"dedup_primitives"`
	// Debug logs the expansion passes.
	Debug bool `yaml:"debug"`
	// Verbose also logs the tree after every pass.
	Verbose bool `yaml:"verbose"`
	// LogFormat is either text or json.
	LogFormat string `yaml:"log_format"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		MaxPasses: defaultMaxPasses,
		MaxDepth:  defaultMaxDepth,
		LogFormat: logFormatText,
	}
}

// LoadConfig reads the configuration from the YAML file at path, on top of
// the defaults, and applies the environment overrides. An empty path only
// applies the overrides to the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return Config{}, ErrInvalidConfig.Wrap(err, path)
		}

		if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
			return Config{}, ErrInvalidConfig.Wrap(err, path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if e := os.Getenv(envMaxPasses); e != "" {
		value, err := cast.ToIntE(e)
		if err != nil {
			return ErrInvalidConfig.Wrap(err, "cannot parse env var "+envMaxPasses+"="+e)
		}
		c.MaxPasses = value
	}

	if e := os.Getenv(envMaxDepth); e != "" {
		value, err := cast.ToIntE(e)
		if err != nil {
			return ErrInvalidConfig.Wrap(err, "cannot parse env var "+envMaxDepth+"="+e)
		}
		c.MaxDepth = value
	}

	for name, field := range map[string]*bool{
		envDedupPrimitives: &c.DedupPrimitives,
		envDebug:           &c.Debug,
		envVerbose:         &c.Verbose,
	} {
		if e := os.Getenv(name); e != "" {
			value, err := cast.ToBoolE(e)
			if err != nil {
				return ErrInvalidConfig.Wrap(err, "cannot parse env var "+name+"="+e)
			}
			*field = value
		}
	}

	if e := os.Getenv(envLogFormat); e != "" {
		c.LogFormat = e
	}

	return nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.MaxPasses <= 0 {
		return ErrInvalidConfig.New("max_passes must be positive")
	}

	if c.MaxDepth <= 0 {
		return ErrInvalidConfig.New("max_depth must be positive")
	}

	switch c.LogFormat {
	case "", logFormatText, logFormatJSON:
	default:
		return ErrInvalidConfig.New("unknown log_format " + c.LogFormat)
	}

	return nil
}
