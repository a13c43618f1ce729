package codebase

import "testing"

func rng(sl, sc, el, ec int) Range {
	return Range{Start: Position{sl, sc}, End: Position{el, ec}}
}

func TestRangeContains(t *testing.T) {
	outer := rng(2, 4, 10, 1)
	tests := []struct {
		name  string
		inner Range
		want  bool
	}{
		{"itself", outer, true},
		{"strictly inside", rng(3, 0, 9, 80), true},
		{"same start line, later column", rng(2, 5, 2, 9), true},
		{"same start line, earlier column", rng(2, 3, 2, 9), false},
		{"same end line, later column", rng(9, 0, 10, 2), false},
		{"starts before", rng(1, 0, 3, 0), false},
		{"ends after", rng(5, 0, 11, 0), false},
		{"entirely after", rng(12, 0, 13, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.inner, got, tt.want)
			}
		})
	}
}

func TestRangeLineCount(t *testing.T) {
	if got := rng(4, 0, 4, 10).LineCount(); got != 1 {
		t.Errorf("single line LineCount() = %d, want 1", got)
	}
	if got := rng(0, 0, 9, 0).LineCount(); got != 10 {
		t.Errorf("LineCount() = %d, want 10", got)
	}
	for _, r := range []Range{rng(9, 0, 4, 0), rng(5, 3, 4, 0)} {
		if got := r.LineCount(); got != 1 {
			t.Errorf("inverted %v LineCount() = %d, want 1", r, got)
		}
	}
}

func TestSymbolKindString(t *testing.T) {
	tests := []struct {
		kind SymbolKind
		want string
	}{
		{KindFunction, "Function"},
		{KindEnumMember, "Enum Member"},
		{KindNamespace, "Namespace"},
		{0, "Symbol"},
		{99, "Symbol"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("SymbolKind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
	if !KindNamespace.IsNamespace() || KindClass.IsNamespace() {
		t.Error("IsNamespace mismatch")
	}
}

func TestFileCode(t *testing.T) {
	f := &File{Content: "package a\n\nfunc A() {\n\treturn\n}\n"}

	if got, want := f.Code(rng(2, 0, 4, 1)), "func A() {\n\treturn\n}"; got != want {
		t.Errorf("Code() = %q, want %q", got, want)
	}
	if got := f.Code(rng(40, 0, 41, 0)); got != "" {
		t.Errorf("Code() past end = %q, want empty", got)
	}
	if got := f.Code(rng(4, 0, 2, 0)); got != "" {
		t.Errorf("Code() inverted = %q, want empty", got)
	}
}

func TestLinesIn(t *testing.T) {
	lines := SplitLines("a\r\nb\nc")
	if len(lines) != 3 {
		t.Fatalf("SplitLines() = %q, want 3 lines", lines)
	}
	tests := []struct {
		r    Range
		want string
	}{
		{rng(0, 0, 0, 1), "a"},
		{rng(1, 0, 2, 1), "b\nc"},
		{rng(-3, 0, 0, 0), "a"},
		{rng(2, 0, 9, 0), "c"},
		{rng(2, 0, 1, 0), ""},
	}
	for _, tt := range tests {
		if got := LinesIn(lines, tt.r); got != tt.want {
			t.Errorf("LinesIn(%v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestFingerprint(t *testing.T) {
	a := &File{Path: "a.go", Content: "package a"}
	b := &File{Path: "b.go", Content: "package a"}
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("files at different paths should differ")
	}

	root := &Folder{Files: []*File{a, b}}
	before := root.Fingerprint()
	b.Content = "package b"
	if root.Fingerprint() == before {
		t.Error("editing a file should change the folder fingerprint")
	}
}
