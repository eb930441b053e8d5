package cli

import (
	"errors"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/electwix/activeenum/internal/logging"
)

func TestParseDefaults(t *testing.T) {
	opts, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if opts.ConfigPath != DefaultConfig {
		t.Fatalf("ConfigPath = %q, want %q", opts.ConfigPath, DefaultConfig)
	}
	if opts.Out != "" {
		t.Fatalf("Out = %q, want empty", opts.Out)
	}
	if opts.DryRun || opts.StrictConfig || opts.Verbose || opts.Watch {
		t.Fatalf("boolean flags set by default: %+v", opts)
	}
	if opts.LogFormat != logging.FormatText {
		t.Fatalf("LogFormat = %q, want text", opts.LogFormat)
	}
	if opts.Debounce != 100*time.Millisecond {
		t.Fatalf("Debounce = %s, want 100ms", opts.Debounce)
	}
	if len(opts.Args) != 0 {
		t.Fatalf("Args = %v, want empty slice", opts.Args)
	}
}

func TestParseOverrides(t *testing.T) {
	args := []string{
		"-c", "enums.yaml",
		"--out", "build",
		"--strict-config",
		"--log-format", "json",
		"--watch",
		"--debounce", "250ms",
		"-v",
		"extra",
	}

	opts, err := Parse(args)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if got, want := opts.ConfigPath, "enums.yaml"; got != want {
		t.Fatalf("ConfigPath = %q, want %q", got, want)
	}
	if got, want := opts.Out, "build"; got != want {
		t.Fatalf("Out = %q, want %q", got, want)
	}
	if !opts.StrictConfig {
		t.Fatalf("StrictConfig = false, want true")
	}
	if !opts.Verbose {
		t.Fatalf("Verbose = false, want true")
	}
	if !opts.Watch {
		t.Fatalf("Watch = false, want true")
	}
	if opts.LogFormat != logging.FormatJSON {
		t.Fatalf("LogFormat = %q, want json", opts.LogFormat)
	}
	if opts.Debounce != 250*time.Millisecond {
		t.Fatalf("Debounce = %s, want 250ms", opts.Debounce)
	}
	if len(opts.Args) != 1 || opts.Args[0] != "extra" {
		t.Fatalf("Args = %v, want [extra]", opts.Args)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown flag", args: []string{"--unknown"}, want: "Usage of activeenum"},
		{name: "bad log format", args: []string{"--log-format", "xml"}, want: "unknown log format"},
		{name: "watch with dry run", args: []string{"--watch", "--dry-run"}, want: "cannot be combined"},
		{name: "negative debounce", args: []string{"--debounce", "-1s"}, want: "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args)
			if err == nil {
				t.Fatal("Parse expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
			if errors.Is(err, flag.ErrHelp) {
				t.Fatalf("error unexpectedly wraps flag.ErrHelp")
			}
		})
	}
}

func TestParseHelp(t *testing.T) {
	_, err := Parse([]string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("Parse(-h) error = %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(err.Error(), "-watch") {
		t.Fatalf("help output missing -watch: %q", err.Error())
	}
}

func TestUsage(t *testing.T) {
	fs := flag.NewFlagSet("activeenum", flag.ContinueOnError)
	fs.String("flag", "value", "test flag")

	usage := Usage(fs)
	if !strings.Contains(usage, "Usage of activeenum:") {
		t.Fatalf("usage missing header: %q", usage)
	}
	if !strings.Contains(usage, "-flag") {
		t.Fatalf("usage missing flag definition: %q", usage)
	}
	if Usage(nil) != "" {
		t.Fatal("Usage(nil) should be empty")
	}
}
