package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/spf13/cobra"

	"github.com/jar398/bayeslite"
)

// RootOptions holds the flags of the command.
type RootOptions struct {
	Config    string
	Verbose   bool
	Debug     bool
	Dedup     bool
	MaxPasses int
	MaxDepth  int
	LogFormat string
	Trace     bool
}

// NewRootCommand creates the bqlexpand command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bqlexpand [document]",
		Short: "Expand the BQL macros of a statement",
		Long: `Expand the probabilistic macros of a BQL statement.

The statement is read as a YAML or JSON document from the given file, or
from the standard input when no file is given, and the expanded statement
is printed as a tree.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "path of a YAML configuration file")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log the tree after every expansion pass")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "log the expansion passes")
	cmd.Flags().BoolVar(&opts.Dedup, "dedup", false, "share one simulated column among equal primitives")
	cmd.Flags().IntVar(&opts.MaxPasses, "max-passes", 0, "maximum number of expansion passes")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum depth of the statement")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json)")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "report spans to a jaeger agent")

	return cmd
}

func (o *RootOptions) config(cmd *cobra.Command) (bayeslite.Config, error) {
	cfg, err := bayeslite.LoadConfig(o.Config)
	if err != nil {
		return bayeslite.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = o.Verbose
	}
	if flags.Changed("debug") {
		cfg.Debug = o.Debug
	}
	if flags.Changed("dedup") {
		cfg.DedupPrimitives = o.Dedup
	}
	if flags.Changed("max-passes") {
		cfg.MaxPasses = o.MaxPasses
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = o.MaxDepth
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.LogFormat
	}

	return cfg, cfg.Validate()
}

func runExpand(cmd *cobra.Command, opts *RootOptions, args []string) error {
	cfg, err := opts.config(cmd)
	if err != nil {
		return err
	}

	if opts.Trace {
		_, closer, err := cfg.Tracer()
		if err != nil {
			return err
		}
		defer closer.Close()
	}

	data, err := readDocument(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	e := bayeslite.New(cfg)
	e.Logger.SetOutput(cmd.ErrOrStderr())

	result, err := e.CompileDocument(context.Background(), data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), result)
	return err
}

func readDocument(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return ioutil.ReadAll(stdin)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ioutil.ReadAll(f)
}
