package svg

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/codescape/pkg/architecture"
	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/codebase"
	"github.com/matzehuels/codescape/pkg/treemap"
)

func span(start, end int) codebase.Range {
	return codebase.Range{Start: codebase.Position{Line: start}, End: codebase.Position{Line: end}}
}

func used(s *codebase.Symbol, lines ...int) *codebase.Symbol {
	for _, l := range lines {
		s.References = append(s.References, codebase.Location{Path: "lex.go", Range: span(l, l)})
	}
	return s
}

func cyclicTree(t *testing.T) *artifact.Tree {
	t.Helper()
	root := &codebase.Folder{Name: "lexer", Files: []*codebase.File{{
		Name: "lex.go",
		Path: "lex.go",
		Symbols: []*codebase.Symbol{
			used(&codebase.Symbol{Name: "Next", Kind: codebase.KindFunction, Range: span(0, 39)}, 85),
			used(&codebase.Symbol{Name: "Peek", Kind: codebase.KindFunction, Range: span(40, 79)}, 5),
			used(&codebase.Symbol{Name: "Scan<T>", Kind: codebase.KindFunction, Range: span(80, 119)}, 45),
		},
	}}}
	tree, err := architecture.Generate(context.Background(), root, architecture.BuildOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

// elements parses doc and counts the start elements by name.
func elements(t *testing.T, doc []byte) map[string]int {
	t.Helper()
	counts := make(map[string]int)
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return counts
		}
		if err != nil {
			t.Fatalf("invalid SVG: %v\n%s", err, doc)
		}
		if se, ok := tok.(xml.StartElement); ok {
			counts[se.Name.Local]++
		}
	}
}

func TestRender(t *testing.T) {
	tree := cyclicTree(t)
	l, err := treemap.Compute(tree, treemap.Options{Width: 1200, Height: 800})
	if err != nil {
		t.Fatal(err)
	}

	plain := Render(tree, l)
	counts := elements(t, plain)
	if got, want := counts["rect"], l.Len()-1; got != want {
		t.Errorf("rects = %d, want %d (one per placement but the root)", got, want)
	}
	if counts["line"] != 0 || counts["script"] != 0 {
		t.Errorf("unexpected edges or script without options: %v", counts)
	}
	if !bytes.Contains(plain, []byte(`width="1200" height="800"`)) {
		t.Error("missing document size")
	}
	if !bytes.Contains(plain, []byte("Scan&lt;T&gt;")) {
		t.Error("names must be escaped")
	}

	full := Render(tree, l, WithEdges(), WithInteraction(), WithTitle("lexer & co"))
	counts = elements(t, full)
	if len(l.Anchors) != 3 {
		t.Fatalf("anchors = %d, want 3", len(l.Anchors))
	}
	if counts["line"] != len(l.Anchors) {
		t.Errorf("lines = %d, want %d", counts["line"], len(l.Anchors))
	}
	if counts["script"] != 1 || counts["style"] != 1 {
		t.Errorf("interaction missing: %v", counts)
	}
	if !strings.Contains(string(full), "<title>lexer &amp; co</title>") {
		t.Error("missing escaped title")
	}
	if !strings.Contains(string(full), `stroke="#c53030"`) {
		t.Error("cyclic symbols should be outlined")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		label string
		width float64
		want  string
	}{
		{"Parse", 200, "Parse"},
		{"ParseExpression", 55, "ParseExp.."},
		{"Parse", 10, ""},
		{"Größe", 55, "Größe"},
	}
	for _, tt := range tests {
		if got := truncate(tt.label, tt.width, 10); got != tt.want {
			t.Errorf("truncate(%q, %v) = %q, want %q", tt.label, tt.width, got, tt.want)
		}
	}
}

func TestFill(t *testing.T) {
	tree := artifact.NewTree("root", artifact.Folder{})
	folder := tree.Add(tree.Root(), "clean", artifact.Folder{Path: "clean"})
	tree.Add(folder, "a.go", artifact.File{Path: "clean/a.go"})
	tangled := tree.Add(tree.Root(), "tangled", artifact.Folder{Path: "tangled"})
	tree.Add(tangled, "b.go", artifact.File{Path: "tangled/b.go"})
	tangled.Metrics.CyclicPortion = 1

	if got, want := fill(folder, 0), folderColor.String(); got != want {
		t.Errorf("fill(clean) = %s, want %s", got, want)
	}
	if got, want := fill(tangled, 0), cycleColor.String(); got != want {
		t.Errorf("fill(tangled) = %s, want %s", got, want)
	}
	if fill(folder, 3) == fill(folder, 0) {
		t.Error("deeper artifacts should be lighter")
	}
}

func TestRGB(t *testing.T) {
	black, white := rgb{0, 0, 0}, rgb{255, 255, 255}
	if got := black.mix(white, 0.5).String(); got != "#808080" {
		t.Errorf("mix = %s, want #808080", got)
	}
	if got := black.mix(white, 2).String(); got != "#ffffff" {
		t.Errorf("mix clamps: got %s", got)
	}
}
