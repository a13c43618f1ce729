package codebase

import (
	"cmp"
	"fmt"
)

// Position is a zero-based line and character offset.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Compare orders positions by line, then character.
func (p Position) Compare(q Position) int {
	return cmp.Or(cmp.Compare(p.Line, q.Line), cmp.Compare(p.Character, q.Character))
}

// Range is a span between two positions, both inclusive for containment.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether o lies within r: both of o's ends are not before
// r's start and not after r's end.
func (r Range) Contains(o Range) bool {
	return r.covers(o.Start) && r.covers(o.End)
}

func (r Range) covers(p Position) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) <= 0
}

// LineCount returns the number of lines the range touches. An inverted
// range, ending before it starts, still counts as one line.
func (r Range) LineCount() int {
	return max(r.End.Line-r.Start.Line+1, 1)
}

// String formats the range one-based, as editors display it.
func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line+1, r.Start.Character+1, r.End.Line+1, r.End.Character+1)
}
