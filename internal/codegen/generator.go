// Package codegen emits Go source for configured enums.
package codegen

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/electwix/activeenum"
	"github.com/electwix/activeenum/internal/codegen/render"
	"github.com/electwix/activeenum/internal/config"
	"github.com/electwix/activeenum/internal/ident"
)

// Header is the first line of every generated Go file.
const Header = "Code generated by activeenum. DO NOT EDIT."

// Generator produces files for a set of enums.
type Generator interface {
	Generate(ctx context.Context, enums []config.EnumPlan) ([]File, error)
}

// Options configures the Go generator.
type Options struct {
	Package      string
	Capabilities activeenum.Capabilities
	// Workers bounds concurrent rendering; zero means GOMAXPROCS.
	Workers int
	// GraphQLFile names the schema file of the GraphQL target.
	GraphQLFile string
}

// File is a generated file. Path is relative to the output directory.
type File struct {
	Path    string
	Content []byte
}

// GoGenerator renders one Go file per enum.
type GoGenerator struct {
	opts Options
}

var _ Generator = (*GoGenerator)(nil)

// New returns a Go generator.
func New(opts Options) *GoGenerator {
	return &GoGenerator{opts: opts}
}

// Generate validates every enum with the runtime rules, checks that the
// declarations of all enums fit in one package, and renders the files.
func (g *GoGenerator) Generate(ctx context.Context, enums []config.EnumPlan) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pkg := g.opts.Package
	if pkg == "" {
		pkg = "enums"
	}

	models := make([]*enumModel, 0, len(enums))
	scope := ident.NewSet()
	paths := ident.NewSet()
	for _, ep := range enums {
		m, err := newEnumModel(ep, g.opts.Capabilities)
		if err != nil {
			return nil, err
		}
		for _, decl := range m.declarations() {
			if prev, ok := scope.Claim(decl, ep.Name); !ok {
				return nil, fmt.Errorf("enum %q: declaration %s collides with enum %q", ep.Name, decl, prev)
			}
		}
		if prev, ok := paths.Claim(m.path, ep.Name); !ok {
			return nil, fmt.Errorf("enum %q: file %s is also generated for enum %q", ep.Name, m.path, prev)
		}
		models = append(models, m)
	}

	workers := g.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	files := make([]File, len(models))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, m := range models {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := render.Format(render.Spec{Path: m.path, Source: m.file(pkg)})
			if err != nil {
				return fmt.Errorf("enum %q: %w", m.plan.Name, err)
			}
			files[i] = File{Path: out.Path, Content: out.Content}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(files, func(a, b File) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files, nil
}
