// Package main implements the activeenum CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/electwix/activeenum/internal/cache"
	"github.com/electwix/activeenum/internal/cli"
	"github.com/electwix/activeenum/internal/codegen"
	"github.com/electwix/activeenum/internal/logging"
	"github.com/electwix/activeenum/internal/pipeline"
)

const (
	exitOK           = 0
	exitFailure      = 1
	exitWriteFailure = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintln(stdout, err.Error())
			return exitOK
		}
		_, _ = fmt.Fprintln(stderr, err.Error())
		return exitFailure
	}

	logger := logging.New(logging.Options{
		Verbose: opts.Verbose,
		Format:  opts.LogFormat,
		Writer:  stderr,
	})

	pipe := pipeline.Pipeline{Env: pipeline.Environment{
		Logger: logger,
		Writer: pipeline.NewOSWriter(),
	}}
	if opts.Watch {
		pipe.Env.Cache = cache.NewMemory[[]codegen.File](0, 16)
	}
	runOpts := pipeline.RunOptions{
		ConfigPath:   opts.ConfigPath,
		OutOverride:  opts.Out,
		DryRun:       opts.DryRun,
		StrictConfig: opts.StrictConfig,
	}
	generate := func() int {
		summary, runErr := pipe.Run(ctx, runOpts)
		if runErr != nil {
			_, _ = fmt.Fprintln(stderr, runErr.Error())
			var writeErr *pipeline.WriteError
			if errors.As(runErr, &writeErr) {
				return exitWriteFailure
			}
			return exitFailure
		}
		if opts.DryRun {
			for _, file := range summary.Files {
				_, _ = fmt.Fprintln(stdout, file.Path)
			}
		}
		return exitOK
	}

	code := generate()
	if !opts.Watch {
		return code
	}
	return watch(ctx, opts.ConfigPath, opts.Debounce, logger, generate)
}

// watch reruns regenerate after the configuration file changes and returns
// once ctx is done. Failed runs are reported and watching continues.
func watch(ctx context.Context, configPath string, debounce time.Duration, logger *slog.Logger, regenerate func() int) int {
	target, err := filepath.Abs(configPath)
	if err != nil {
		logger.Error("resolve config path", "err", err)
		return exitFailure
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("start watcher", "err", err)
		return exitFailure
	}
	defer func() { _ = w.Close() }()

	// Editors often replace the file, so the directory is watched.
	if err := w.Add(filepath.Dir(target)); err != nil {
		logger.Error("watch config directory", "err", err)
		return exitFailure
	}
	logger.Info("watching", "path", target)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return exitOK
		case ev, ok := <-w.Events:
			if !ok {
				return exitOK
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			logger.Info("config changed, regenerating", "path", target)
			if code := regenerate(); code != exitOK {
				logger.Warn("regeneration failed", "exit", code)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return exitOK
			}
			logger.Error("watch", "err", err)
		}
	}
}
