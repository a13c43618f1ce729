package codebase

import (
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Location is a reference site: the code at Range in the file at Path
// refers to the symbol it is attached to.
type Location struct {
	Path  string `json:"path"`
	Range Range  `json:"range"`
}

// Symbol is a declaration reported by a symbol source, with its nested
// declarations and the locations referencing it.
type Symbol struct {
	Name string     `json:"name"`
	Kind SymbolKind `json:"kind"`

	// Range spans the whole declaration including its body.
	Range Range `json:"range"`
	// SelectionRange spans the declared identifier.
	SelectionRange Range `json:"selectionRange"`

	Children   []*Symbol  `json:"children,omitempty"`
	References []Location `json:"references,omitempty"`
}

// Walk visits s and its descendants, children before their parent.
func (s *Symbol) Walk(fn func(*Symbol)) {
	for _, c := range s.Children {
		c.Walk(fn)
	}
	fn(s)
}

// File is a code file with its text and, once retrieved, its symbols.
type File struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"` // root-relative, slash-separated
	Content string    `json:"content"`
	Symbols []*Symbol `json:"symbols,omitempty"`
}

// Lines splits the content into lines without line terminators.
func (f *File) Lines() []string {
	return SplitLines(f.Content)
}

// Code returns the lines touched by r, joined by newlines.
// Lines outside the file are skipped. Callers extracting many ranges of the
// same file should split it once with [SplitLines] and use [LinesIn].
func (f *File) Code(r Range) string {
	return LinesIn(f.Lines(), r)
}

// SplitLines splits text into lines, accepting both \n and \r\n endings.
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// LinesIn joins the lines touched by r. Lines outside lines are skipped and
// an inverted range yields the empty string.
func LinesIn(lines []string, r Range) string {
	start := max(r.Start.Line, 0)
	end := min(r.End.Line, len(lines)-1)
	if start > end {
		return ""
	}
	return strings.Join(lines[start:end+1], "\n")
}

// Fingerprint hashes the path and content of the file.
func (f *File) Fingerprint() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(f.Path)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(f.Content)
	return d.Sum64()
}

// Folder is a directory holding at least one code file somewhere below it.
type Folder struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"` // root-relative; empty for the root
	Subfolders []*Folder `json:"subfolders,omitempty"`
	Files      []*File   `json:"files,omitempty"`
}

// AllFiles returns every file below f, depth-first, subfolders before files.
func (f *Folder) AllFiles() []*File {
	var out []*File
	for _, sub := range f.Subfolders {
		out = append(out, sub.AllFiles()...)
	}
	return append(out, f.Files...)
}

// FileCount returns the number of files below f.
func (f *Folder) FileCount() int {
	n := len(f.Files)
	for _, sub := range f.Subfolders {
		n += sub.FileCount()
	}
	return n
}

// Fingerprint hashes the fingerprints of every file below f. It changes
// whenever any file is added, removed, renamed or edited.
func (f *Folder) Fingerprint() uint64 {
	files := f.AllFiles()
	slices.SortFunc(files, func(a, b *File) int { return strings.Compare(a.Path, b.Path) })
	d := xxhash.New()
	var buf [8]byte
	for _, file := range files {
		fp := file.Fingerprint()
		for i := range buf {
			buf[i] = byte(fp >> (8 * i))
		}
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
