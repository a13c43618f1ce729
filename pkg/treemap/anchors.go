package treemap

import "github.com/matzehuels/codescape/pkg/artifact"

// Anchor is where a dependency arrow between two presented siblings starts
// and ends. Points lie on the facing sides of the two frames.
type Anchor struct {
	From   artifact.ID `json:"from"`
	To     artifact.ID `json:"to"`
	Source Point       `json:"source"`
	Target Point       `json:"target"`
	Weight int         `json:"weight"`
}

// layoutAnchors adds an anchor for every essential edge of every scope
// showing content whose ends are both presented.
func (c *computer) layoutAnchors() {
	for _, p := range c.layout.placements {
		if !p.ShowsContent {
			continue
		}
		scope, _ := c.tree.ByID(p.ID)
		for _, e := range scope.Graph().EssentialEdges() {
			from, okFrom := c.layout.Placement(artifact.ID(e.From))
			to, okTo := c.layout.Placement(artifact.ID(e.To))
			if !okFrom || !okTo {
				continue
			}
			src, dst := facingPoints(from.Frame, to.Frame)
			c.layout.Anchors = append(c.layout.Anchors, Anchor{
				From:   from.ID,
				To:     to.ID,
				Source: src,
				Target: dst,
				Weight: e.Weight,
			})
		}
	}
}

// facingPoints returns a point on the side of a that faces b and one on the
// side of b that faces a. Where the frames overlap along the shared axis,
// both points sit in the middle of the overlap.
func facingPoints(a, b Rect) (Point, Point) {
	switch {
	case b.X >= a.MaxX():
		ya, yb := across(a.Y, a.MaxY(), b.Y, b.MaxY())
		return Point{a.MaxX(), ya}, Point{b.X, yb}
	case b.MaxX() <= a.X:
		ya, yb := across(a.Y, a.MaxY(), b.Y, b.MaxY())
		return Point{a.X, ya}, Point{b.MaxX(), yb}
	case b.Y >= a.MaxY():
		xa, xb := across(a.X, a.MaxX(), b.X, b.MaxX())
		return Point{xa, a.MaxY()}, Point{xb, b.Y}
	case b.MaxY() <= a.Y:
		xa, xb := across(a.X, a.MaxX(), b.X, b.MaxX())
		return Point{xa, a.Y}, Point{xb, b.MaxY()}
	default:
		return Point{a.MidX(), a.MidY()}, Point{b.MidX(), b.MidY()}
	}
}

func across(a0, a1, b0, b1 float64) (float64, float64) {
	lo, hi := max(a0, b0), min(a1, b1)
	if lo <= hi {
		m := (lo + hi) / 2
		return m, m
	}
	return (a0 + a1) / 2, (b0 + b1) / 2
}
