// Package cli parses the activeenum command line.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/electwix/activeenum/internal/logging"
)

// DefaultConfig is the configuration file read when -config is not given.
const DefaultConfig = "activeenum.toml"

// Options holds parsed command line flags.
type Options struct {
	ConfigPath   string
	Out          string
	DryRun       bool
	StrictConfig bool
	Verbose      bool
	LogFormat    logging.Format
	// Watch regenerates whenever the configuration file changes.
	Watch bool
	// Debounce coalesces bursts of file events in watch mode.
	Debounce time.Duration
	Args     []string
}

// Parse parses args, which exclude the program name.
func Parse(args []string) (Options, error) {
	opts := Options{
		ConfigPath: DefaultConfig,
	}
	var logFormat string

	fs := flag.NewFlagSet("activeenum", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Path to configuration file (.toml, .yaml or .yml)")
	fs.StringVar(&opts.ConfigPath, "c", opts.ConfigPath, "Path to configuration file (.toml, .yaml or .yml)")
	fs.StringVar(&opts.Out, "out", "", "Override output directory; relative paths are resolved against the config directory")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Generate code without writing files")
	fs.BoolVar(&opts.StrictConfig, "strict-config", false, "Treat unknown configuration keys as errors")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.Verbose, "v", false, "Enable verbose logging")
	fs.StringVar(&logFormat, "log-format", string(logging.FormatText), "Log output format: text or json")
	fs.BoolVar(&opts.Watch, "watch", false, "Regenerate when the configuration file changes")
	fs.DurationVar(&opts.Debounce, "debounce", 100*time.Millisecond, "Quiet period before regenerating in watch mode")

	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("%w\n\n%s", err, Usage(fs))
	}

	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return Options{}, fmt.Errorf("%w\n\n%s", err, Usage(fs))
	}
	opts.LogFormat = format

	if opts.Watch && opts.DryRun {
		return Options{}, errors.New("-watch and -dry-run cannot be combined")
	}
	if opts.Debounce < 0 {
		return Options{}, fmt.Errorf("-debounce must not be negative, got %s", opts.Debounce)
	}

	opts.Args = fs.Args()
	return opts, nil
}

// Usage renders the flag set's defaults.
func Usage(fs *flag.FlagSet) string {
	if fs == nil {
		return ""
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "Usage of %s:\n", fs.Name())
	out := fs.Output()
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	fs.SetOutput(out)
	return buf.String()
}
