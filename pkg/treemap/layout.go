package treemap

import (
	"math"

	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/errors"
)

// Layout constants, in layout units.
const (
	Padding   = 16.0
	MinWidth  = 30.0
	MinHeight = 30.0

	// VisibilityThreshold is the frame size both sides must exceed for an
	// artifact to get a content area.
	VisibilityThreshold = 100.0

	// SliverWidth is the narrowest half a left/right split may produce
	// before top/bottom is preferred.
	SliverWidth = 200.0
)

// Options configures Compute.
type Options struct {
	Width  float64
	Height float64

	// Filter selects the parts that are presented. Nil presents all.
	Filter func(*artifact.Artifact) bool
}

// Placement is the geometry of one presented artifact, in the coordinates
// of the root content area.
type Placement struct {
	ID    artifact.ID `json:"id"`
	Depth int         `json:"depth"`

	Frame        Rect    `json:"frame"`
	ContentFrame Rect    `json:"content"`
	HeaderFrame  Rect    `json:"header"`
	FontSize     float64 `json:"fontSize"`

	// ShowsContent is false when the artifact has no presented parts or
	// they could not all be given their minimum size.
	ShowsContent bool `json:"showsContent"`
}

// Layout is the result of Compute. It is immutable.
type Layout struct {
	Width   float64
	Height  float64
	Anchors []Anchor

	placements []Placement // scopes before their parts
	index      map[artifact.ID]int
	cramped    bool
}

// Placement returns the geometry of the artifact with the given ID.
func (l *Layout) Placement(id artifact.ID) (Placement, bool) {
	i, ok := l.index[id]
	if !ok {
		return Placement{}, false
	}
	return l.placements[i], true
}

// Placements returns all placements, scopes before their parts.
func (l *Layout) Placements() []Placement {
	return append([]Placement(nil), l.placements...)
}

// Len returns the number of presented artifacts, the root included.
func (l *Layout) Len() int { return len(l.placements) }

// Feasible reports whether every presented artifact met the minimum size.
func (l *Layout) Feasible() bool { return !l.cramped }

// Compute lays out the parts of tree's root in a Width×Height rectangle.
// The root itself occupies the whole rectangle without a header.
func Compute(tree *artifact.Tree, opts Options) (*Layout, error) {
	if err := errors.ValidateSize(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	c := &computer{
		tree:   tree,
		filter: opts.Filter,
		layout: &Layout{
			Width:  opts.Width,
			Height: opts.Height,
			index:  make(map[artifact.ID]int),
		},
	}
	bounds := Rect{W: opts.Width, H: opts.Height}
	root := c.place(tree.Root(), 0)
	root.Frame, root.ContentFrame = bounds, bounds
	root.HeaderFrame = Rect{X: bounds.X, Y: bounds.Y, W: bounds.W}
	c.layoutParts(tree.Root(), bounds, 0)
	c.layoutAnchors()
	return c.layout, nil
}

type computer struct {
	tree   *artifact.Tree
	filter func(*artifact.Artifact) bool
	layout *Layout
}

func (c *computer) place(a *artifact.Artifact, depth int) *Placement {
	c.layout.index[a.ID] = len(c.layout.placements)
	c.layout.placements = append(c.layout.placements, Placement{ID: a.ID, Depth: depth})
	return &c.layout.placements[len(c.layout.placements)-1]
}

func (c *computer) placement(a *artifact.Artifact) *Placement {
	return &c.layout.placements[c.layout.index[a.ID]]
}

func (c *computer) presentedParts(a *artifact.Artifact) []*artifact.Artifact {
	parts := c.tree.Parts(a)
	if c.filter == nil {
		return parts
	}
	out := parts[:0]
	for _, p := range parts {
		if c.filter(p) {
			out = append(out, p)
		}
	}
	return out
}

// layoutParts distributes the presented parts of a over content.
func (c *computer) layoutParts(a *artifact.Artifact, content Rect, depth int) {
	parts := c.presentedParts(a)
	if len(parts) == 0 {
		c.placement(a).ShowsContent = false
		return
	}
	// reserve placements in pre-order before recursing
	for _, p := range parts {
		c.place(p, depth+1)
	}
	gap := 2 * math.Pow(content.W*content.H, 1.0/6)
	ok := c.partition(parts, content, gap, depth+1)
	c.placement(a).ShowsContent = ok
	if !ok {
		c.layout.cramped = true
	}
}

// partition assigns rect to parts and reports whether every part met the
// minimum size.
func (c *computer) partition(parts []*artifact.Artifact, rect Rect, gap float64, depth int) bool {
	if len(parts) == 1 {
		return c.fill(parts[0], rect, depth)
	}

	cut := chooseCut(parts)
	a, b := parts[:cut+1], parts[cut+1:]

	locA, locB := linesOfCode(a), linesOfCode(b)
	fraction := float64(len(a)) / float64(len(parts))
	if locA+locB > 0 {
		fraction = float64(locA) / float64(locA+locB)
	}

	cutGap := gap
	if a[len(a)-1].Metrics.ComponentRank != b[0].Metrics.ComponentRank {
		cutGap = 3 * gap
	}

	ra, rb, ok := splitRect(rect, fraction, cutGap)
	if !ok {
		ra, rb = forceSplit(rect, cutGap)
	}
	okA := c.partition(a, ra, gap, depth)
	okB := c.partition(b, rb, gap, depth)
	return ok && okA && okB
}

// fill gives a single part the whole rectangle and lays out its own parts.
func (c *computer) fill(a *artifact.Artifact, rect Rect, depth int) bool {
	p := c.placement(a)
	p.Frame = rect
	p.FontSize = fontSize(rect)
	p.ContentFrame = centered(rect)
	p.HeaderFrame = centered(rect)

	if rect.W > VisibilityThreshold && rect.H > VisibilityThreshold {
		header := p.FontSize + 2*Padding
		content := Rect{
			X: rect.X + Padding,
			Y: rect.Y + header,
			W: rect.W - 2*Padding,
			H: rect.H - Padding - header,
		}
		if content.W > 0 && content.H > 0 {
			p.ContentFrame = content
			p.HeaderFrame = Rect{X: rect.X, Y: rect.Y, W: rect.W, H: header}
		}
	}
	content := p.ContentFrame
	c.layoutParts(a, content, depth)

	return rect.W >= MinWidth && rect.H >= MinHeight
}

// fontSize scales with the sixth root of the frame area.
func fontSize(r Rect) float64 {
	return 3 * math.Pow(r.W*r.H, 1.0/6)
}

func linesOfCode(parts []*artifact.Artifact) int {
	n := 0
	for _, p := range parts {
		n += p.Metrics.LinesOfCode
	}
	return n
}
