package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/renproject/intshamir/radix"
	"github.com/renproject/intshamir/record"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Exit statuses.
const (
	ExitFailure   = 1
	ExitMalformed = 2
)

// exitError carries the exit status of a command that ran but failed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// ExitCode returns the exit status for an error returned by Execute.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if record.IsMalformed(err) {
		return ExitMalformed
	}
	return ExitFailure
}

// config holds everything that can be set from the config file or flags.
type config struct {
	record.Options `yaml:",inline"`

	Format   record.Format `yaml:"format"`
	Workers  int           `yaml:"workers"`
	LogLevel string        `yaml:"log_level"`
	Base     int           `yaml:"base"`
}

func defaultConfig() config {
	return config{
		Options:  record.Options{Strategy: record.StrategyFirst},
		LogLevel: zerolog.WarnLevel.String(),
		Base:     10,
	}
}

// Execute runs the CLI with the process's arguments, reading interrupts from
// the terminal.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// state is shared by the commands of one CLI invocation. Flag values are
// bound to flags and merged into cfg before any command runs.
type state struct {
	configPath string
	format     string
	strategy   string
	flags      config
	cfg        config
	log        zerolog.Logger
}

// load reads the config file, then applies the flags that were set.
func (s *state) load(cmd *cobra.Command) error {
	s.cfg = defaultConfig()
	if s.configPath != "" {
		data, err := os.ReadFile(s.configPath)
		if err != nil {
			return xerrors.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &s.cfg); err != nil {
			return xerrors.Errorf("failed to parse config %s: %v", s.configPath, err)
		}
	}

	// Changed is false for flags the command does not have.
	set := cmd.Flags().Changed
	if set("bits") {
		s.cfg.Bits = s.flags.Bits
	}
	if set("strategy") {
		s.cfg.Strategy = record.Strategy(s.strategy)
	}
	if set("float") {
		s.cfg.Float = s.flags.Float
	}
	if set("mantissa") {
		s.cfg.Mantissa = s.flags.Mantissa
	}
	if set("skip-invalid") {
		s.cfg.SkipInvalid = s.flags.SkipInvalid
	}
	if set("subset-limit") {
		s.cfg.SubsetLimit = s.flags.SubsetLimit
	}
	if set("workers") {
		s.cfg.Workers = s.flags.Workers
	}
	if set("log-level") {
		s.cfg.LogLevel = s.flags.LogLevel
	}
	if set("base") {
		s.cfg.Base = s.flags.Base
	}
	if set("format") {
		s.cfg.Format = record.Format(s.format)
	}

	f, err := record.ParseFormat(string(s.cfg.Format))
	if err != nil {
		return err
	}
	s.cfg.Format = f
	if s.cfg.Base < radix.MinBase || s.cfg.Base > radix.MaxBase {
		return xerrors.Errorf("expected %v <= base <= %v, got base = %v", radix.MinBase, radix.MaxBase, s.cfg.Base)
	}
	level, err := zerolog.ParseLevel(s.cfg.LogLevel)
	if err != nil {
		return xerrors.Errorf("invalid log level %q: %v", s.cfg.LogLevel, err)
	}
	s.log = zerolog.New(zerolog.ConsoleWriter{Out: zerolog.SyncWriter(cmd.ErrOrStderr())}).
		Level(level).
		With().Timestamp().Logger()
	return nil
}

// NewRootCmd returns the root command, which writes results to stdout and
// logs to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	s := &state{flags: defaultConfig()}

	root := &cobra.Command{
		Use:           "shamir-recover",
		Short:         "Reconstruct Shamir shared secrets over the integers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&s.configPath, "config", "", "YAML file with default options")
	pf.StringVar(&s.format, "format", "auto", "request format: auto, json, yaml, cbor or bundle")
	pf.UintVar(&s.flags.Bits, "bits", 0, "precision of shares and secrets in bits (0 is unbounded)")
	pf.StringVar(&s.flags.LogLevel, "log-level", s.flags.LogLevel, "log level: trace, debug, info, warn or error")

	root.AddCommand(recoverCmd(s), packCmd(s))
	return root
}
