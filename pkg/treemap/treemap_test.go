package treemap

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/codescape/pkg/architecture"
	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/codebase"
	"github.com/matzehuels/codescape/pkg/errors"
)

const eps = 1e-6

type part struct {
	name      string
	loc       int
	rank, scc int
}

// flatTree builds root → file → parts with the given metrics.
func flatTree(parts ...part) (*artifact.Tree, []*artifact.Artifact) {
	tree := artifact.NewTree("root", artifact.Folder{})
	file := tree.Add(tree.Root(), "a.go", artifact.File{Path: "a.go"})
	total := 0
	var out []*artifact.Artifact
	for i, p := range parts {
		a := tree.Add(file, p.name, artifact.Symbol{Range: codebase.Range{
			Start: codebase.Position{Line: i * 100},
			End:   codebase.Position{Line: i*100 + p.loc - 1},
		}})
		a.Metrics = artifact.Metrics{LinesOfCode: p.loc, ComponentRank: p.rank, SCCIndex: p.scc}
		total += p.loc
		out = append(out, a)
	}
	file.Metrics.LinesOfCode = total
	tree.Root().Metrics.LinesOfCode = total
	return tree, out
}

func mustCompute(t *testing.T, tree *artifact.Tree, opts Options) *Layout {
	t.Helper()
	l, err := Compute(tree, opts)
	require.NoError(t, err)
	return l
}

func frame(t *testing.T, l *Layout, a *artifact.Artifact) Rect {
	t.Helper()
	p, ok := l.Placement(a.ID)
	require.True(t, ok, "%s has no placement", a.Name)
	return p.Frame
}

func TestChooseCut(t *testing.T) {
	tests := []struct {
		name  string
		parts []part
		want  int
	}{
		{"balanced", []part{{"a", 10, 0, 0}, {"b", 10, 1, 1}, {"c", 80, 2, 2}}, 1},
		{"component boundary only", []part{{"a", 10, 0, 0}, {"b", 10, 0, 0}, {"c", 10, 0, 0}, {"d", 70, 1, 1}}, 2},
		{"component beats balance", []part{{"a", 45, 0, 0}, {"b", 10, 0, 1}, {"c", 45, 1, 2}}, 1},
		{"scc boundary", []part{{"a", 10, 0, 0}, {"b", 10, 0, 0}, {"c", 40, 0, 1}, {"d", 40, 0, 2}}, 2},
		{"tie goes to earliest", []part{{"a", 50, 0, 0}, {"b", 0, 1, 1}, {"c", 50, 2, 2}}, 0},
		{"all empty", []part{{"a", 0, 0, 0}, {"b", 0, 1, 1}, {"c", 0, 2, 2}}, 0},
		{"two parts", []part{{"a", 1, 0, 0}, {"b", 99, 0, 0}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, parts := flatTree(tt.parts...)
			if got := chooseCut(parts); got != tt.want {
				t.Errorf("chooseCut() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSplitRect(t *testing.T) {
	tests := []struct {
		name      string
		rect      Rect
		fraction  float64
		wantOK    bool
		leftRight bool
	}{
		{"wide", Rect{W: 1000, H: 400}, 0.5, true, true},
		{"tall", Rect{W: 400, H: 1000}, 0.5, true, false},
		{"sliver avoided", Rect{W: 1000, H: 400}, 0.1, true, false},
		{"small and wide", Rect{W: 140, H: 60}, 0.5, true, true},
		{"too small", Rect{W: 50, H: 50}, 0.5, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, ok := splitRect(tt.rect, tt.fraction, 10)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			require.Equal(t, tt.leftRight, a.H == tt.rect.H && b.H == tt.rect.H)
			require.True(t, tt.rect.Contains(a, eps) && tt.rect.Contains(b, eps))
			require.False(t, a.Overlaps(b, eps))
			require.GreaterOrEqual(t, min(a.W, b.W), MinWidth-eps)
			require.GreaterOrEqual(t, min(a.H, b.H), MinHeight-eps)
		})
	}
}

func TestSplitClampsToMinimum(t *testing.T) {
	a, b, ok := splitLeftRight(Rect{W: 200, H: 50}, 0.01, 10)
	require.True(t, ok)
	require.InDelta(t, MinWidth, a.W, eps)
	require.InDelta(t, 200-MinWidth-10, b.W, eps)
	require.InDelta(t, a.MaxX()+10, b.X, eps)
}

func TestForceSplit(t *testing.T) {
	a, b := forceSplit(Rect{X: 5, W: 40, H: 20}, 4)
	require.Equal(t, Rect{X: 5, W: 18, H: 20}, a)
	require.Equal(t, Rect{X: 27, W: 18, H: 20}, b)

	a, b = forceSplit(Rect{W: 2, H: 3}, 4)
	require.Equal(t, Rect{W: 2, H: 1.5}, a)
	require.Equal(t, Rect{Y: 1.5, W: 2, H: 1.5}, b)
}

func TestCompute_InvalidSize(t *testing.T) {
	tree, _ := flatTree(part{"a", 10, 0, 0})
	_, err := Compute(tree, Options{Width: 0, Height: 100})
	require.True(t, errors.Is(err, errors.ErrCodeInvalidSize), "err = %v", err)
}

func TestCompute_SingleFile(t *testing.T) {
	tree, parts := flatTree(part{"a", 10, 0, 0})
	l := mustCompute(t, tree, Options{Width: 1000, Height: 1000})

	file := tree.Parts(tree.Root())[0]
	p, ok := l.Placement(file.ID)
	require.True(t, ok)
	require.Equal(t, Rect{W: 1000, H: 1000}, p.Frame)
	require.InDelta(t, 30, p.FontSize, eps) // 3·(10⁶)^(1/6)
	require.InDelta(t, 62, p.HeaderFrame.H, eps)
	require.InDelta(t, Padding, p.ContentFrame.X, eps)
	require.InDelta(t, 62, p.ContentFrame.Y, eps)
	require.InDelta(t, 1000-2*Padding, p.ContentFrame.W, eps)
	require.InDelta(t, 1000-Padding-62, p.ContentFrame.H, eps)

	require.Equal(t, p.ContentFrame, frame(t, l, parts[0]))
	require.True(t, l.Feasible())
	require.Equal(t, 3, l.Len())
}

func TestCompute_BelowVisibility(t *testing.T) {
	tree, parts := flatTree(part{"a", 10, 0, 0}, part{"b", 10, 1, 1}, part{"c", 10, 2, 2})
	l := mustCompute(t, tree, Options{Width: 90, Height: 90})

	file := tree.Parts(tree.Root())[0]
	p, _ := l.Placement(file.ID)
	require.Equal(t, Rect{X: 45, Y: 45}, p.ContentFrame)
	require.False(t, p.ShowsContent)
	require.False(t, l.Feasible())

	// geometry is still assigned
	for _, a := range parts {
		require.Equal(t, Rect{X: 45, Y: 45}, frame(t, l, a))
	}
}

func TestCompute_ProportionalSplit(t *testing.T) {
	tree, parts := flatTree(part{"a", 10, 0, 0}, part{"b", 10, 1, 1}, part{"c", 80, 2, 2})
	l := mustCompute(t, tree, Options{Width: 1000, Height: 1000})

	fa, fb, fc := frame(t, l, parts[0]), frame(t, l, parts[1]), frame(t, l, parts[2])

	// first cut separates {a, b} from c along one axis, 20:80
	groupAB := Rect{X: fa.X, Y: fa.Y, W: fb.MaxX() - fa.X, H: max(fa.MaxY(), fb.MaxY()) - fa.Y}
	require.False(t, groupAB.Overlaps(fc, eps))
	if fc.Y >= groupAB.MaxY() {
		require.InDelta(t, 0.2, groupAB.H/(groupAB.H+fc.H), 1e-9)
	} else {
		require.InDelta(t, 0.2, groupAB.W/(groupAB.W+fc.W), 1e-9)
	}

	// a and b split roughly in half
	require.InDelta(t, 1, fa.Area()/fb.Area(), 1e-9)
}

func TestCompute_ZeroLinesOfCode(t *testing.T) {
	tree, parts := flatTree(part{"a", 0, 0, 0}, part{"b", 0, 1, 1})
	l := mustCompute(t, tree, Options{Width: 800, Height: 600})
	require.InDelta(t, frame(t, l, parts[0]).Area(), frame(t, l, parts[1]).Area(), eps)
}

// deepTree builds a tree with folders, files and nested symbols.
func deepTree() *artifact.Tree {
	tree := artifact.NewTree("root", artifact.Folder{})
	var fill func(scope *artifact.Artifact, depth, width int) int
	fill = func(scope *artifact.Artifact, depth, width int) int {
		if depth == 0 {
			scope.Metrics.LinesOfCode = 5 + width*7
			return scope.Metrics.LinesOfCode
		}
		total := 0
		for i := 0; i < width; i++ {
			p := tree.Add(scope, fmt.Sprintf("%s.%d", scope.Name, i), artifact.Folder{})
			p.Metrics.ComponentRank = i / 2
			p.Metrics.SCCIndex = i
			total += fill(p, depth-1, width-1+i%2)
		}
		scope.Metrics.LinesOfCode = total
		return total
	}
	fill(tree.Root(), 3, 4)
	return tree
}

func TestCompute_Containment(t *testing.T) {
	tree := deepTree()
	for _, size := range [][2]float64{{1600, 1000}, {800, 800}, {3000, 300}, {240, 900}, {120, 120}, {40, 40}} {
		t.Run(fmt.Sprintf("%gx%g", size[0], size[1]), func(t *testing.T) {
			l := mustCompute(t, tree, Options{Width: size[0], Height: size[1]})
			require.Equal(t, tree.Len(), l.Len())

			tree.Walk(tree.Root(), func(a *artifact.Artifact, _ int) bool {
				scope, _ := l.Placement(a.ID)
				parts := tree.Parts(a)
				for i, p := range parts {
					fp := frame(t, l, p)
					require.True(t, scope.ContentFrame.Contains(fp, eps),
						"%s %v not inside content %v of %s", p.Name, fp, scope.ContentFrame, a.Name)
					require.GreaterOrEqual(t, fp.W, 0.0)
					require.GreaterOrEqual(t, fp.H, 0.0)
					for _, q := range parts[i+1:] {
						require.False(t, fp.Overlaps(frame(t, l, q), eps), "%s overlaps %s", p.Name, q.Name)
					}
				}
				return true
			})
		})
	}
}

func TestCompute_Idempotent(t *testing.T) {
	tree := deepTree()
	opts := Options{Width: 1280, Height: 720}
	first := mustCompute(t, tree, opts)
	second := mustCompute(t, tree, opts)
	require.Equal(t, first.Placements(), second.Placements())
	require.Equal(t, first.Anchors, second.Anchors)
}

func TestCompute_CycleStaysTogether(t *testing.T) {
	ref := func(line int) []codebase.Location {
		return []codebase.Location{{Path: "a.go", Range: codebase.Range{
			Start: codebase.Position{Line: line}, End: codebase.Position{Line: line},
		}}}
	}
	span := func(start, end int) codebase.Range {
		return codebase.Range{Start: codebase.Position{Line: start}, End: codebase.Position{Line: end}}
	}
	// A -> B -> C -> A and an independent D
	root := &codebase.Folder{Name: "root", Files: []*codebase.File{{
		Name: "a.go", Path: "a.go",
		Symbols: []*codebase.Symbol{
			{Name: "A", Range: span(0, 9), References: ref(25)},
			{Name: "B", Range: span(10, 19), References: ref(5)},
			{Name: "C", Range: span(20, 29), References: ref(15)},
			{Name: "D", Range: span(30, 59)},
		},
	}}}
	tree, err := architecture.Generate(context.Background(), root, architecture.BuildOptions{})
	require.NoError(t, err)

	file := tree.Parts(tree.Root())[0]
	parts := tree.Parts(file)
	require.Equal(t, 2, chooseCut(parts))

	l := mustCompute(t, tree, Options{Width: 1200, Height: 900})
	var cycle Rect
	for i, p := range parts[:3] {
		f := frame(t, l, p)
		if i == 0 {
			cycle = f
			continue
		}
		x0, y0 := min(cycle.X, f.X), min(cycle.Y, f.Y)
		cycle = Rect{X: x0, Y: y0, W: max(cycle.MaxX(), f.MaxX()) - x0, H: max(cycle.MaxY(), f.MaxY()) - y0}
	}
	require.Equal(t, "D", parts[3].Name)
	require.False(t, cycle.Overlaps(frame(t, l, parts[3]), eps))
	require.Len(t, l.Anchors, 3)
}

// frameGap measures the free space between two frames placed side by side
// or one above the other.
func frameGap(a, b Rect) float64 {
	if b.X >= a.MaxX()-eps {
		return b.X - a.MaxX()
	}
	return b.Y - a.MaxY()
}

func TestCompute_GapScalesWithArea(t *testing.T) {
	tests := []struct {
		name     string
		rankB    int
		multiple float64
	}{
		{"same component", 0, 1},
		{"different components", 1, 3},
	}
	sizes := [][2]float64{{1000, 400}, {4000, 1600}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gaps []float64
			for _, size := range sizes {
				tree, parts := flatTree(part{"a", 50, 0, 0}, part{"b", 50, tt.rankB, 1})
				l := mustCompute(t, tree, Options{Width: size[0], Height: size[1]})

				file, ok := l.Placement(tree.Parts(tree.Root())[0].ID)
				require.True(t, ok)
				content := file.ContentFrame
				want := tt.multiple * 2 * math.Pow(content.W*content.H, 1.0/6)

				got := frameGap(frame(t, l, parts[0]), frame(t, l, parts[1]))
				require.InDelta(t, want, got, eps, "gap at %vx%v", size[0], size[1])
				gaps = append(gaps, got)
			}
			require.Greater(t, gaps[1], gaps[0], "gap should grow with the content area")
		})
	}
}

func TestCompute_ComponentGapIsTripled(t *testing.T) {
	measure := func(rankB int) float64 {
		tree, parts := flatTree(part{"a", 50, 0, 0}, part{"b", 50, rankB, 1})
		l := mustCompute(t, tree, Options{Width: 1000, Height: 400})
		return frameGap(frame(t, l, parts[0]), frame(t, l, parts[1]))
	}
	same, cross := measure(0), measure(1)
	require.Greater(t, same, 0.0)
	require.InDelta(t, 3*same, cross, eps)
}

func TestAnchorsOnFacingSides(t *testing.T) {
	tree, parts := flatTree(part{"a", 50, 0, 0}, part{"b", 50, 0, 1})
	file := tree.Parts(tree.Root())[0]
	require.NoError(t, tree.AddDependency(file, parts[0].ID, parts[1].ID, 3))

	l := mustCompute(t, tree, Options{Width: 1200, Height: 500})
	require.Len(t, l.Anchors, 1)

	an := l.Anchors[0]
	fa, fb := frame(t, l, parts[0]), frame(t, l, parts[1])
	require.Equal(t, 3, an.Weight)
	require.Equal(t, parts[0].ID, an.From)
	require.InDelta(t, fa.MaxX(), an.Source.X, eps)
	require.InDelta(t, fb.X, an.Target.X, eps)
	require.InDelta(t, an.Source.Y, an.Target.Y, eps)
}

func TestFacingPoints(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}
	tests := []struct {
		name     string
		b        Rect
		src, dst Point
	}{
		{"right", Rect{X: 120, Y: 50, W: 100, H: 100}, Point{100, 75}, Point{120, 75}},
		{"left", Rect{X: -150, Y: 0, W: 100, H: 100}, Point{0, 50}, Point{-50, 50}},
		{"below", Rect{X: 0, Y: 130, W: 40, H: 10}, Point{20, 100}, Point{20, 130}},
		{"above", Rect{X: 60, Y: -60, W: 100, H: 10}, Point{80, 0}, Point{80, -50}},
		{"right, no overlap", Rect{X: 200, Y: -60, W: 40, H: 10}, Point{100, 50}, Point{200, -55}},
		{"overlapping", Rect{X: 50, Y: 50, W: 100, H: 100}, Point{50, 50}, Point{100, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, dst := facingPoints(a, tt.b)
			require.Equal(t, tt.src, src)
			require.Equal(t, tt.dst, dst)
		})
	}
}

func TestMatchName(t *testing.T) {
	tree, parts := flatTree(part{"Parser", 10, 0, 0}, part{"Lexer", 10, 1, 1}, part{"parseExpr", 10, 2, 2})

	require.Nil(t, MatchName(tree, "  "))

	filter := MatchName(tree, "PARSE")
	require.True(t, filter(tree.Root()), "ancestors of matches are presented")
	require.True(t, filter(parts[0]))
	require.False(t, filter(parts[1]))
	require.True(t, filter(parts[2]))

	l := mustCompute(t, tree, Options{Width: 1000, Height: 800, Filter: filter})
	require.Equal(t, 4, l.Len())
	_, ok := l.Placement(parts[1].ID)
	require.False(t, ok)

	l = mustCompute(t, tree, Options{Width: 1000, Height: 800, Filter: MatchName(tree, "nothing")})
	require.Equal(t, 1, l.Len())
	root, _ := l.Placement(tree.Root().ID)
	require.False(t, root.ShowsContent)
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	require.Equal(t, 40.0, r.MaxX())
	require.Equal(t, 60.0, r.MaxY())
	require.Equal(t, 25.0, r.MidX())
	require.Equal(t, 40.0, r.MidY())
	require.True(t, r.Contains(Rect{X: 10, Y: 20, W: 30, H: 40}, 0))
	require.False(t, r.Contains(Rect{X: 9, Y: 20, W: 1, H: 1}, 0))
	require.False(t, r.Overlaps(Rect{X: 40, Y: 20, W: 10, H: 10}, 0), "touching edges")
	require.True(t, r.Overlaps(Rect{X: 39, Y: 59, W: 10, H: 10}, 0))
	require.False(t, math.IsNaN(fontSize(Rect{})))
}
