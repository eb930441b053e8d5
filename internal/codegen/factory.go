package codegen

import (
	"context"
	"fmt"

	"github.com/electwix/activeenum/internal/config"
)

// Target names an output format.
type Target string

const (
	TargetGo      Target = "go"
	TargetGraphQL Target = "graphql"
)

// DefaultGraphQLFile is the schema file name used when none is configured.
const DefaultGraphQLFile = "enums.graphql"

// GeneratorFactory creates target-specific generators.
type GeneratorFactory struct {
	opts Options
}

// NewGeneratorFactory creates a new generator factory.
func NewGeneratorFactory(opts Options) *GeneratorFactory {
	return &GeneratorFactory{opts: opts}
}

// Create returns a generator for the specified target.
func (f *GeneratorFactory) Create(target Target) (Generator, error) {
	switch target {
	case TargetGo, "":
		return New(f.opts), nil
	case TargetGraphQL:
		file := f.opts.GraphQLFile
		if file == "" {
			file = DefaultGraphQLFile
		}
		return &graphQLGenerator{path: file}, nil
	default:
		return nil, fmt.Errorf("unsupported target: %s", target)
	}
}

// graphQLGenerator writes every enum into a single schema file.
type graphQLGenerator struct {
	path string
}

func (g *graphQLGenerator) Generate(ctx context.Context, enums []config.EnumPlan) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := GraphQL(enums)
	if err != nil {
		return nil, err
	}
	return []File{{Path: g.path, Content: content}}, nil
}
