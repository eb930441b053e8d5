// Package render turns generated files into formatted source.
package render

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// Spec describes a file to render. Exactly one of Source and Raw is set:
// Source is Go code built with jennifer, Raw is emitted verbatim.
type Spec struct {
	Path   string
	Source *jen.File
	Raw    []byte
}

// File contains the rendered content for a path.
type File struct {
	Path    string
	Content []byte
}

// Format renders one spec. Go sources go through goimports so the output
// matches what gofmt and goimports would leave on disk.
func Format(spec Spec) (File, error) {
	if len(spec.Raw) > 0 {
		return File{Path: spec.Path, Content: bytes.Clone(spec.Raw)}, nil
	}
	if spec.Source == nil {
		return File{}, fmt.Errorf("render %s: nothing to render", spec.Path)
	}
	var buf bytes.Buffer
	if err := spec.Source.Render(&buf); err != nil {
		return File{}, fmt.Errorf("render %s: %w", spec.Path, err)
	}
	formatted, err := imports.Process(spec.Path, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return File{}, fmt.Errorf("goimports %s: %w", spec.Path, err)
	}
	return File{Path: spec.Path, Content: formatted}, nil
}

// FormatAll renders specs in order.
func FormatAll(specs []Spec) ([]File, error) {
	rendered := make([]File, 0, len(specs))
	for _, spec := range specs {
		f, err := Format(spec)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, f)
	}
	return rendered, nil
}
