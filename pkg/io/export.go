package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/codebase"
	"github.com/matzehuels/codescape/pkg/treemap"
)

// FormatVersion is the architecture format written by WriteArchitecture.
const FormatVersion = 1

// Option configures WriteArchitecture.
type Option func(*writer)

type writer struct {
	code bool
}

// WithCode includes the source text of files and symbols.
func WithCode() Option { return func(w *writer) { w.code = true } }

type document struct {
	Version int      `json:"version"`
	Root    *element `json:"root"`
}

type element struct {
	ID             artifact.ID     `json:"id"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	SymbolKind     int             `json:"symbolKind,omitempty"`
	Path           string          `json:"path,omitempty"`
	Range          *codebase.Range `json:"range,omitempty"`
	SelectionRange *codebase.Range `json:"selectionRange,omitempty"`
	Code           string          `json:"code,omitempty"`
	Metrics        metrics         `json:"metrics"`
	Parts          []*element      `json:"parts,omitempty"`
	Dependencies   []dependency    `json:"dependencies,omitempty"`
}

type metrics struct {
	LinesOfCode   int     `json:"loc"`
	ComponentRank int     `json:"componentRank"`
	SCCIndex      int     `json:"sccIndex"`
	IsInCycle     bool    `json:"isInCycle,omitempty"`
	CyclicPortion float64 `json:"cyclicPortion"`
	Incoming      int     `json:"incoming"`
	Outgoing      int     `json:"outgoing"`
}

type dependency struct {
	From      artifact.ID `json:"from"`
	To        artifact.ID `json:"to"`
	Weight    int         `json:"weight"`
	Essential bool        `json:"essential"`
}

const (
	kindFolder = "Folder"
	kindFile   = "File"
)

// WriteArchitecture encodes tree as JSON and writes it to w.
func WriteArchitecture(w io.Writer, tree *artifact.Tree, opts ...Option) error {
	var cfg writer
	for _, opt := range opts {
		opt(&cfg)
	}
	return encode(w, document{Version: FormatVersion, Root: cfg.element(tree, tree.Root())})
}

// ExportArchitecture writes tree to a JSON file at path.
func ExportArchitecture(path string, tree *artifact.Tree, opts ...Option) error {
	return export(path, func(w io.Writer) error { return WriteArchitecture(w, tree, opts...) })
}

func (cfg writer) element(tree *artifact.Tree, a *artifact.Artifact) *element {
	m := a.Metrics
	e := &element{
		ID:   a.ID,
		Name: a.Name,
		Kind: a.KindName(),
		Metrics: metrics{
			LinesOfCode:   m.LinesOfCode,
			ComponentRank: m.ComponentRank,
			SCCIndex:      m.SCCIndex,
			IsInCycle:     m.IsInCycle,
			CyclicPortion: m.CyclicPortion,
			Incoming:      m.IncomingDependencies,
			Outgoing:      m.OutgoingDependencies,
		},
	}
	switch d := a.Detail.(type) {
	case artifact.Folder:
		e.Kind, e.Path = kindFolder, d.Path
	case artifact.File:
		e.Kind, e.Path = kindFile, d.Path
		if cfg.code {
			e.Code = d.Text
		}
	case artifact.Symbol:
		e.SymbolKind = int(d.Kind)
		e.Range, e.SelectionRange = &d.Range, &d.SelectionRange
		if cfg.code {
			e.Code = d.Text
		}
	}
	for _, p := range tree.Parts(a) {
		e.Parts = append(e.Parts, cfg.element(tree, p))
	}
	for _, edge := range a.Graph().Edges() {
		e.Dependencies = append(e.Dependencies, dependency{
			From:      artifact.ID(edge.From),
			To:        artifact.ID(edge.To),
			Weight:    edge.Weight,
			Essential: edge.Essential,
		})
	}
	return e
}

type layoutDocument struct {
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	Feasible   bool             `json:"feasible"`
	Placements []placement      `json:"placements"`
	Anchors    []treemap.Anchor `json:"anchors,omitempty"`
}

type placement struct {
	treemap.Placement
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	LOC        int    `json:"loc"`
	CycleIndex *int   `json:"cycle,omitempty"`
}

// WriteLayout encodes l as JSON and writes it to w. tree supplies names,
// kinds and metrics of the placed artifacts.
func WriteLayout(w io.Writer, tree *artifact.Tree, l *treemap.Layout) error {
	doc := layoutDocument{
		Width:    l.Width,
		Height:   l.Height,
		Feasible: l.Feasible(),
		Anchors:  l.Anchors,
	}
	for _, p := range l.Placements() {
		out := placement{Placement: p}
		if a, ok := tree.ByID(p.ID); ok {
			out.Name, out.Kind, out.LOC = a.Name, a.KindName(), a.Metrics.LinesOfCode
			if i := a.Metrics.CycleIndex(); i >= 0 {
				out.CycleIndex = &i
			}
		}
		doc.Placements = append(doc.Placements, out)
	}
	return encode(w, doc)
}

// ExportLayout writes l to a JSON file at path.
func ExportLayout(path string, tree *artifact.Tree, l *treemap.Layout) error {
	return export(path, func(w io.Writer) error { return WriteLayout(w, tree, l) })
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func export(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
