// Package svg renders a treemap layout as a standalone SVG document.
//
// Every presented artifact becomes a rounded rectangle with its name in the
// header frame. Folders and files are tinted by their cyclic portion,
// symbols in a cycle are outlined. [WithEdges] adds an arrow per dependency
// anchor and [WithInteraction] highlights the dependencies of the hovered
// artifact.
//
//	l, _ := treemap.Compute(tree, treemap.Options{Width: 1600, Height: 1000})
//	data := svg.Render(tree, l, svg.WithEdges(), svg.WithInteraction())
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/treemap"
)

const interactionCSS = `
    .artifact { transition: stroke-width 0.2s ease; }
    .artifact.highlight { stroke-width: 4; }
    .anchor { opacity: 0.35; transition: opacity 0.2s ease; }
    .anchor.highlight { opacity: 1; }`

const interactionJS = `
    function highlight(id) {
      const linked = new Set([id]);
      document.querySelectorAll('.anchor').forEach(a => {
        const on = a.dataset.from === id || a.dataset.to === id;
        a.classList.toggle('highlight', on);
        if (on) { linked.add(a.dataset.from); linked.add(a.dataset.to); }
      });
      document.querySelectorAll('.artifact').forEach(r => r.classList.toggle('highlight', linked.has(r.dataset.id)));
    }
    function clearHighlight() {
      document.querySelectorAll('.artifact, .anchor').forEach(el => el.classList.remove('highlight'));
    }
    document.querySelectorAll('.artifact').forEach(el => {
      el.addEventListener('mouseenter', (e) => { e.stopPropagation(); highlight(el.dataset.id); });
      el.addEventListener('mouseleave', clearHighlight);
    });`

// Option configures Render.
type Option func(*renderer)

type renderer struct {
	edges       bool
	interaction bool
	title       string
}

// WithEdges draws the dependency anchors as arrows.
func WithEdges() Option { return func(r *renderer) { r.edges = true } }

// WithInteraction embeds the hover highlighting script.
func WithInteraction() Option { return func(r *renderer) { r.interaction = true } }

// WithTitle sets the document title.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// Render draws l. tree supplies names, kinds and metrics of the placed
// artifacts.
func Render(tree *artifact.Tree, l *treemap.Layout, opts ...Option) []byte {
	var r renderer
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	renderDefs(&buf)

	placements := l.Placements()
	for _, p := range placements[1:] {
		a, ok := tree.ByID(p.ID)
		if !ok {
			continue
		}
		renderArtifact(&buf, a, p)
	}
	if r.edges {
		for _, an := range l.Anchors {
			renderAnchor(&buf, an)
		}
	}
	if r.interaction {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="#4a5568"/>
    </marker>
  </defs>
`)
}

func renderArtifact(buf *bytes.Buffer, a *artifact.Artifact, p treemap.Placement) {
	f := p.Frame
	radius := min(8, f.W/8, f.H/8)
	stroke, width := "#718096", 1.0
	if a.IsSymbol() && a.Metrics.IsInCycle {
		stroke, width = "#c53030", 2.0
	}
	fmt.Fprintf(buf, `  <rect class="artifact" data-id="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s" stroke="%s" stroke-width="%.1f">`,
		a.ID, f.X, f.Y, f.W, f.H, radius, fill(a, p.Depth), stroke, width)
	fmt.Fprintf(buf, "<title>%s</title></rect>\n", escapeXML(tooltip(a)))

	h := p.HeaderFrame
	if h.H <= 0 || h.W <= 0 || p.FontSize <= 0 {
		return
	}
	label := truncate(a.Name, h.W, p.FontSize)
	if label == "" {
		return
	}
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" text-anchor="middle" dominant-baseline="central" fill="#1a202c" pointer-events="none">%s</text>`+"\n",
		h.MidX(), h.MidY(), p.FontSize, escapeXML(label))
}

func renderAnchor(buf *bytes.Buffer, an treemap.Anchor) {
	width := 1 + math.Log2(float64(max(an.Weight, 1)))
	fmt.Fprintf(buf, `  <line class="anchor" data-from="%s" data-to="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#4a5568" stroke-width="%.2f" marker-end="url(#arrow)"/>`+"\n",
		an.From, an.To, an.Source.X, an.Source.Y, an.Target.X, an.Target.Y, width)
}

// Base colors per kind; deeper artifacts get lighter.
var (
	folderColor = rgb{226, 232, 240}
	fileColor   = rgb{237, 242, 247}
	symbolColor = rgb{190, 227, 248}
	cycleColor  = rgb{254, 178, 178}
)

func fill(a *artifact.Artifact, depth int) string {
	base := symbolColor
	switch a.Detail.(type) {
	case artifact.Folder:
		base = folderColor
	case artifact.File:
		base = fileColor
	}
	if a.Metrics.IsInCycle && a.IsSymbol() {
		base = cycleColor
	} else if a.PartCount() > 0 {
		base = base.mix(cycleColor, a.Metrics.CyclicPortion)
	}
	return base.mix(rgb{255, 255, 255}, min(0.6, 0.08*float64(depth))).String()
}

type rgb struct{ r, g, b float64 }

func (c rgb) mix(o rgb, t float64) rgb {
	t = max(0, min(1, t))
	return rgb{c.r + (o.r-c.r)*t, c.g + (o.g-c.g)*t, c.b + (o.b-c.b)*t}
}

func (c rgb) String() string {
	return fmt.Sprintf("#%02x%02x%02x", int(math.Round(c.r)), int(math.Round(c.g)), int(math.Round(c.b)))
}

func tooltip(a *artifact.Artifact) string {
	s := fmt.Sprintf("%s (%s)\nlines of code: %d", a.Name, a.KindName(), a.Metrics.LinesOfCode)
	if a.PartCount() > 0 {
		s += fmt.Sprintf("\ncyclic: %.0f%%", 100*a.Metrics.CyclicPortion)
	}
	if i := a.Metrics.CycleIndex(); i >= 0 {
		s += fmt.Sprintf("\nin cycle %d", i)
	}
	return s
}

const charWidth = 0.55

// truncate shortens label to fit width at fontSize, or returns "" when not
// even three characters fit.
func truncate(label string, width, fontSize float64) string {
	maxChars := int(width / (fontSize * charWidth))
	runes := []rune(label)
	switch {
	case len(runes) <= maxChars:
		return label
	case maxChars < 3:
		return ""
	}
	return string(runes[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
