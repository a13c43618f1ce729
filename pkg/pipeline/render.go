package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/errors"
	cio "github.com/matzehuels/codescape/pkg/io"
	"github.com/matzehuels/codescape/pkg/render/dot"
	"github.com/matzehuels/codescape/pkg/render/svg"
)

// Output formats.
const (
	FormatSVG          = "svg"          // treemap drawing
	FormatJSON         = "json"         // treemap placements and anchors
	FormatArchitecture = "architecture" // artifact tree, re-importable
	FormatDOT          = "dot"          // dependency graph of one scope
	FormatGraphSVG     = "graph.svg"    // the DOT graph drawn by Graphviz
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatJSON, FormatArchitecture, FormatDOT, FormatGraphSVG}

// RenderOptions configures Render.
type RenderOptions struct {
	Formats []string
	Width   float64
	Height  float64
	Filter  string

	// Scope selects the artifact whose graph the DOT formats draw, by
	// root-relative path or name. Empty means the root.
	Scope string

	Edges       bool // draw dependency anchors in the SVG
	Interactive bool // embed hover highlighting in the SVG
	WithCode    bool // include source text in the architecture JSON
	Detailed    bool // add metrics to DOT labels
}

// Render produces every requested format for the session's tree.
func Render(ctx context.Context, s *Session, opts RenderOptions) (map[string][]byte, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = []string{FormatSVG}
	}
	tree := s.Tree()
	out := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG, FormatJSON:
			data, err = renderTreemap(ctx, s, format, opts)
		case FormatArchitecture:
			var buf bytes.Buffer
			var wopts []cio.Option
			if opts.WithCode {
				wopts = append(wopts, cio.WithCode())
			}
			err = cio.WriteArchitecture(&buf, tree, wopts...)
			data = buf.Bytes()
		case FormatDOT, FormatGraphSVG:
			scope, ok := FindScope(tree, opts.Scope)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "no artifact named %q", opts.Scope)
			}
			src := dot.ToDOT(tree, scope, dot.Options{Detailed: opts.Detailed})
			if format == FormatDOT {
				data = []byte(src)
			} else {
				data, err = dot.RenderSVG(ctx, src)
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (want one of %s)",
				format, strings.Join(Formats, ", "))
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		out[format] = data
	}
	return out, nil
}

func renderTreemap(ctx context.Context, s *Session, format string, opts RenderOptions) ([]byte, error) {
	l, err := s.Layout(ctx, opts.Width, opts.Height, opts.Filter)
	if err != nil {
		return nil, err
	}
	if format == FormatJSON {
		var buf bytes.Buffer
		if err := cio.WriteLayout(&buf, s.Tree(), l); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	var svgOpts []svg.Option
	if opts.Edges {
		svgOpts = append(svgOpts, svg.WithEdges())
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, svg.WithInteraction())
	}
	svgOpts = append(svgOpts, svg.WithTitle(s.Tree().Root().Name))
	return svg.Render(s.Tree(), l, svgOpts...), nil
}

// FindScope returns the first artifact, in pre-order, whose root-relative
// path or name equals name. An empty name selects the root.
func FindScope(tree *artifact.Tree, name string) (*artifact.Artifact, bool) {
	name = strings.Trim(name, "/")
	if name == "" {
		return tree.Root(), true
	}
	var found *artifact.Artifact
	tree.Walk(tree.Root(), func(a *artifact.Artifact, _ int) bool {
		if found != nil {
			return false
		}
		if a.Name == name || pathOf(a) == name {
			found = a
			return false
		}
		return true
	})
	return found, found != nil
}

func pathOf(a *artifact.Artifact) string {
	switch d := a.Detail.(type) {
	case artifact.Folder:
		return d.Path
	case artifact.File:
		return d.Path
	}
	return ""
}
