// Package dot draws the dependency graph of one scope with Graphviz.
//
// The parts of the scope become boxes labeled with their name, kind and
// lines of code; essential dependencies are solid arrows and implied ones
// dashed. Parts in a cycle are filled red and members of one strongly
// connected component are grouped in a cluster.
//
//	dot := dot.ToDOT(tree, scope, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, dot)
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/codescape/pkg/artifact"
)

// Options configures ToDOT.
type Options struct {
	// Detailed adds component rank, SCC index and dependency counts to
	// the labels.
	Detailed bool

	// EssentialOnly omits implied dependencies.
	EssentialOnly bool
}

// ToDOT converts the graph of scope to Graphviz DOT format.
func ToDOT(tree *artifact.Tree, scope *artifact.Artifact, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", scope.Name)
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	parts := tree.Parts(scope)
	clusters := make(map[int][]*artifact.Artifact)
	var order []int
	for _, p := range parts {
		if !p.Metrics.IsInCycle {
			continue
		}
		i := p.Metrics.SCCIndex
		if _, seen := clusters[i]; !seen {
			order = append(order, i)
		}
		clusters[i] = append(clusters[i], p)
	}

	for _, i := range order {
		fmt.Fprintf(&buf, "  subgraph \"cluster_%d\" {\n", i)
		fmt.Fprintf(&buf, "    label=\"cycle %d\";\n    style=dashed;\n    color=\"#c53030\";\n", i)
		for _, p := range clusters[i] {
			fmt.Fprintf(&buf, "    %q [%s];\n", string(p.ID), strings.Join(fmtAttrs(p, opts.Detailed), ", "))
		}
		buf.WriteString("  }\n")
	}
	for _, p := range parts {
		if p.Metrics.IsInCycle {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", string(p.ID), strings.Join(fmtAttrs(p, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range scope.Graph().Edges() {
		switch {
		case e.Essential:
			fmt.Fprintf(&buf, "  %q -> %q [penwidth=%d];\n", e.From, e.To, penWidth(e.Weight))
		case !opts.EssentialOnly:
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey];\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(a *artifact.Artifact, detailed bool) string {
	label := fmt.Sprintf("%s\n%s · %d loc", a.Name, a.KindName(), a.Metrics.LinesOfCode)
	if !detailed {
		return label
	}
	m := a.Metrics
	return label + fmt.Sprintf("\ncomponent %d, scc %d\nin %d, out %d",
		m.ComponentRank, m.SCCIndex, m.IncomingDependencies, m.OutgoingDependencies)
}

func fmtAttrs(a *artifact.Artifact, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(a, detailed))}
	if a.Metrics.IsInCycle {
		attrs = append(attrs, "fillcolor=\"#feb2b2\"")
	}
	if a.PartCount() == 0 && !a.IsSymbol() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

func penWidth(weight int) int {
	return min(1+weight/4, 5)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose
// viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
