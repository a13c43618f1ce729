package treemap

import "github.com/matzehuels/codescape/pkg/artifact"

// chooseCut returns the index of the last part of the first group.
//
// Cuts between weak components take precedence, then cuts between SCCs.
// Among the allowed cuts the one whose first group is closest to half of
// the total lines of code wins; ties go to the earliest cut.
func chooseCut(parts []*artifact.Artifact) int {
	boundary := func(i int) bool { return true }
	switch {
	case spans(parts, func(a *artifact.Artifact) int { return a.Metrics.ComponentRank }):
		boundary = func(i int) bool {
			return parts[i].Metrics.ComponentRank != parts[i+1].Metrics.ComponentRank
		}
	case spans(parts, func(a *artifact.Artifact) int { return a.Metrics.SCCIndex }):
		boundary = func(i int) bool {
			return parts[i].Metrics.SCCIndex != parts[i+1].Metrics.SCCIndex
		}
	}

	total := linesOfCode(parts)
	best, bestDiff := 0, -1
	cum := 0
	for i := 0; i < len(parts)-1; i++ {
		cum += parts[i].Metrics.LinesOfCode
		if !boundary(i) {
			continue
		}
		diff := abs(2*cum - total)
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}

func spans(parts []*artifact.Artifact, key func(*artifact.Artifact) int) bool {
	for i := 1; i < len(parts); i++ {
		if key(parts[i]) != key(parts[0]) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// splitRect splits r so that the first rectangle gets fraction of the
// space minus gap. It prefers left/right for wide rectangles unless that
// would produce a sliver, and falls back to the other orientation. ok is
// false when neither orientation keeps both halves at the minimum size.
func splitRect(r Rect, fraction, gap float64) (a, b Rect, ok bool) {
	threshold := 1.0
	if min(r.W, r.H) <= 5*MinWidth {
		threshold = 4
	}
	sliver := (r.W-gap)*min(fraction, 1-fraction) < SliverWidth
	leftRight := !sliver && r.W > threshold*r.H

	if leftRight {
		if a, b, ok = splitLeftRight(r, fraction, gap); ok {
			return a, b, true
		}
		return splitTopBottom(r, fraction, gap)
	}
	if a, b, ok = splitTopBottom(r, fraction, gap); ok {
		return a, b, true
	}
	return splitLeftRight(r, fraction, gap)
}

func splitLeftRight(r Rect, fraction, gap float64) (Rect, Rect, bool) {
	if 2*MinWidth+gap > r.W {
		return Rect{}, Rect{}, false
	}
	wa := (r.W - gap) * fraction
	wb := r.W - wa - gap
	if wa < MinWidth {
		wa, wb = MinWidth, r.W-MinWidth-gap
	} else if wb < MinWidth {
		wa, wb = r.W-MinWidth-gap, MinWidth
	}
	return Rect{X: r.X, Y: r.Y, W: wa, H: r.H},
		Rect{X: r.X + wa + gap, Y: r.Y, W: wb, H: r.H},
		true
}

func splitTopBottom(r Rect, fraction, gap float64) (Rect, Rect, bool) {
	if 2*MinHeight+gap > r.H {
		return Rect{}, Rect{}, false
	}
	ha := (r.H - gap) * fraction
	hb := r.H - ha - gap
	if ha < MinHeight {
		ha, hb = MinHeight, r.H-MinHeight-gap
	} else if hb < MinHeight {
		ha, hb = r.H-MinHeight-gap, MinHeight
	}
	return Rect{X: r.X, Y: r.Y, W: r.W, H: ha},
		Rect{X: r.X, Y: r.Y + ha + gap, W: r.W, H: hb},
		true
}

// forceSplit halves r along its longer side, ignoring sizes. The gap is
// dropped when r is not larger than it.
func forceSplit(r Rect, gap float64) (Rect, Rect) {
	if r.W > r.H {
		if r.W <= gap {
			gap = 0
		}
		w := (r.W - gap) / 2
		return Rect{X: r.X, Y: r.Y, W: w, H: r.H}, Rect{X: r.X + w + gap, Y: r.Y, W: w, H: r.H}
	}
	if r.H <= gap {
		gap = 0
	}
	h := (r.H - gap) / 2
	return Rect{X: r.X, Y: r.Y, W: r.W, H: h}, Rect{X: r.X, Y: r.Y + h + gap, W: r.W, H: h}
}
