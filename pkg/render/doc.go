// Package render groups the output formats of codescape.
//
// The [svg] subpackage draws a computed treemap as a standalone SVG
// document: every placed artifact becomes a labeled rectangle tinted by its
// cyclic portion, and dependency anchors become arrows. The [dot]
// subpackage draws the dependency graph of a single scope with Graphviz.
//
//	l, _ := session.Layout(ctx, 1600, 1000, "")
//	doc := svg.Render(tree, l, svg.WithEdges(), svg.WithInteraction())
//
//	src := dot.ToDOT(tree, scope, dot.Options{})
//	graph, err := dot.RenderSVG(ctx, src)
//
// [svg]: github.com/matzehuels/codescape/pkg/render/svg
// [dot]: github.com/matzehuels/codescape/pkg/render/dot
package render
