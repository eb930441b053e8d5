package pipeline

import (
	"context"

	"github.com/electwix/activeenum/internal/codegen"
	"github.com/electwix/activeenum/internal/config"
)

// Hooks provides extension points in a pipeline run. A hook returning an
// error aborts the run with that error.
type Hooks struct {
	// BeforeGenerate receives the validated enum plans.
	BeforeGenerate func(ctx context.Context, enums []config.EnumPlan) error

	// AfterGenerate receives every generated file with its final path,
	// including in dry runs.
	AfterGenerate func(ctx context.Context, files []codegen.File) error

	// BeforeWrite runs once before the first file is written.
	BeforeWrite func(ctx context.Context, files []codegen.File) error

	// AfterWrite always runs last, even when an earlier stage failed.
	AfterWrite func(ctx context.Context, summary Summary) error
}

// Chain combines two Hooks, calling h's hooks first, then other's hooks.
// If a hook in h returns an error, other's hook is not called.
func (h Hooks) Chain(other Hooks) Hooks {
	return Hooks{
		BeforeGenerate: chainHook(h.BeforeGenerate, other.BeforeGenerate),
		AfterGenerate:  chainHook(h.AfterGenerate, other.AfterGenerate),
		BeforeWrite:    chainHook(h.BeforeWrite, other.BeforeWrite),
		AfterWrite:     chainHook(h.AfterWrite, other.AfterWrite),
	}
}

func chainHook[T any](first, second func(context.Context, T) error) func(context.Context, T) error {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(ctx context.Context, arg T) error {
		if err := first(ctx, arg); err != nil {
			return err
		}
		return second(ctx, arg)
	}
}
