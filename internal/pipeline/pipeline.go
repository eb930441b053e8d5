// Package pipeline orchestrates config loading, code generation and writing.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/electwix/activeenum/internal/cache"
	"github.com/electwix/activeenum/internal/codegen"
	"github.com/electwix/activeenum/internal/config"
	"github.com/electwix/activeenum/internal/logging"
)

// DefaultConfigPath is used when RunOptions.ConfigPath is empty.
const DefaultConfigPath = "activeenum.toml"

// Environment captures external dependencies used by the pipeline.
type Environment struct {
	Logger *slog.Logger
	Writer Writer
	// Generator replaces the Go generator when set.
	Generator codegen.Generator
	// Cache, when set, reuses generated files for identical configurations.
	Cache *cache.Memory[[]codegen.File]
}

// Writer writes generated files to persistent storage.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// Reader is implemented by writers that can report current file contents.
// The pipeline skips files whose contents would not change.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// Pipeline orchestrates configuration loading, generation and writing.
type Pipeline struct {
	Env   Environment
	Hooks Hooks
}

// Summary captures the outcome of a run.
type Summary struct {
	// Files holds every generated file with its final path.
	Files []codegen.File
	// Written lists the paths actually written; unchanged files are skipped.
	Written  []string
	Warnings []string
}

// RunOptions configures a pipeline execution.
type RunOptions struct {
	ConfigPath   string
	OutOverride  string
	DryRun       bool
	StrictConfig bool
}

// ConfigError reports an invalid or unreadable configuration.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// WriteError wraps failures encountered while writing generated files.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewOSWriter returns a Writer that performs atomic writes on the local filesystem.
func NewOSWriter() Writer {
	return &osWriter{perm: 0o644}
}

type osWriter struct {
	perm fs.FileMode
}

func (w *osWriter) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(filepath.Clean(path))
}

func (w *osWriter) WriteFile(path string, data []byte) error {
	if path == "" {
		return errors.New("pipeline: empty path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".activeenum-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
		_ = tmp.Close()
	}()
	if w.perm != 0 {
		if err := tmp.Chmod(w.perm); err != nil {
			return fmt.Errorf("chmod temp file: %w", err)
		}
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}

// Run executes the pipeline according to the provided options.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (summary Summary, err error) {
	logger := logging.OrDiscard(p.Env.Logger)
	if p.Hooks.AfterWrite != nil {
		defer func() {
			if hookErr := p.Hooks.AfterWrite(ctx, summary); hookErr != nil && err == nil {
				err = hookErr
			}
		}()
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	absConfigPath, err := filepath.Abs(configPath)
	if err != nil {
		return summary, &ConfigError{Path: configPath, Err: err}
	}
	baseDir := filepath.Dir(absConfigPath)

	data, err := os.ReadFile(absConfigPath)
	if err != nil {
		return summary, &ConfigError{Path: absConfigPath, Err: err}
	}
	loadResult, err := config.Parse(absConfigPath, data, config.LoadOptions{Strict: opts.StrictConfig})
	if err != nil {
		return summary, &ConfigError{Path: absConfigPath, Err: err}
	}
	summary.Warnings = append(summary.Warnings, loadResult.Warnings...)
	for _, warning := range loadResult.Warnings {
		logger.Warn("config warning", "message", warning)
	}

	plan := loadResult.Plan
	if opts.OutOverride != "" {
		override := opts.OutOverride
		if !filepath.IsAbs(override) {
			override = filepath.Join(baseDir, override)
		}
		plan.Out = filepath.Clean(override)
	}
	logger.Debug("config loaded",
		"path", absConfigPath,
		"enums", len(plan.Enums),
		"dialect", plan.Dialect,
		"arrays", plan.Capabilities.Arrays,
	)
	for _, ep := range plan.Enums {
		logger.Debug("enum", "name", ep.Name, "type", ep.Type, "repr", ep.Kind, "variants", len(ep.Variants))
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	if p.Hooks.BeforeGenerate != nil {
		if err := p.Hooks.BeforeGenerate(ctx, plan.Enums); err != nil {
			return summary, err
		}
	}

	generatedFiles, err := p.generate(ctx, plan, cache.Key([]byte(absConfigPath), data))
	if err != nil {
		return summary, fmt.Errorf("code generation: %w", err)
	}

	finalFiles := make([]codegen.File, 0, len(generatedFiles)+1)
	for _, file := range generatedFiles {
		finalFiles = append(finalFiles, codegen.File{Path: filepath.Join(plan.Out, file.Path), Content: file.Content})
	}

	if plan.GraphQLOut != "" {
		schemaGen, err := codegen.NewGeneratorFactory(codegen.Options{
			GraphQLFile: filepath.Base(plan.GraphQLOut),
		}).Create(codegen.TargetGraphQL)
		if err != nil {
			return summary, err
		}
		schemaFiles, err := schemaGen.Generate(ctx, plan.Enums)
		if err != nil {
			return summary, fmt.Errorf("graphql generation: %w", err)
		}
		for _, file := range schemaFiles {
			finalFiles = append(finalFiles, codegen.File{Path: filepath.Join(filepath.Dir(plan.GraphQLOut), file.Path), Content: file.Content})
		}
	}

	if p.Hooks.AfterGenerate != nil {
		if err := p.Hooks.AfterGenerate(ctx, finalFiles); err != nil {
			return summary, err
		}
	}
	summary.Files = finalFiles
	logger.Debug("generated", "files", len(finalFiles))

	if opts.DryRun {
		return summary, nil
	}

	writer := p.Env.Writer
	if writer == nil {
		writer = NewOSWriter()
	}
	if p.Hooks.BeforeWrite != nil {
		if err := p.Hooks.BeforeWrite(ctx, finalFiles); err != nil {
			return summary, err
		}
	}

	for _, file := range finalFiles {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		same, cmpErr := fileMatches(writer, file.Path, file.Content)
		if cmpErr != nil {
			return summary, &WriteError{Path: file.Path, Err: cmpErr}
		}
		if same {
			logger.Debug("unchanged", "path", file.Path)
			continue
		}
		if err := writer.WriteFile(file.Path, file.Content); err != nil {
			return summary, &WriteError{Path: file.Path, Err: err}
		}
		summary.Written = append(summary.Written, file.Path)
		logger.Info("wrote", "path", file.Path)
	}

	return summary, nil
}

func (p *Pipeline) generate(ctx context.Context, plan config.JobPlan, key string) ([]codegen.File, error) {
	if p.Env.Cache != nil {
		if files, ok := p.Env.Cache.Get(key); ok {
			return files, nil
		}
	}
	generator := p.Env.Generator
	if generator == nil {
		generator = codegen.New(codegen.Options{
			Package:      plan.Package,
			Capabilities: plan.Capabilities,
		})
	}
	files, err := generator.Generate(ctx, plan.Enums)
	if err != nil {
		return nil, err
	}
	if p.Env.Cache != nil {
		p.Env.Cache.Set(key, files)
	}
	return files, nil
}

func fileMatches(w Writer, path string, content []byte) (bool, error) {
	r, ok := w.(Reader)
	if !ok {
		return false, nil
	}
	existing, err := r.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(existing, content), nil
}
