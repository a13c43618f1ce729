package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/codebase"
	"github.com/matzehuels/codescape/pkg/errors"
)

// ReadArchitecture decodes a tree written by WriteArchitecture.
//
// Metrics and dependencies are restored as written; nothing is
// recomputed. ReadArchitecture returns an INVALID_INPUT error for malformed
// documents, unknown versions and dependencies between artifacts that are
// not parts of the declaring scope. It does not close r.
func ReadArchitecture(r io.Reader) (*artifact.Tree, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode architecture")
	}
	if doc.Version != FormatVersion {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported architecture version %d", doc.Version)
	}
	if doc.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "architecture has no root")
	}

	tree := artifact.NewTree(doc.Root.Name, detail(doc.Root))
	if err := restore(tree, tree.Root(), doc.Root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "restore architecture")
	}
	return tree, nil
}

// ImportArchitecture reads a tree from the JSON file at path.
func ImportArchitecture(path string) (*artifact.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadArchitecture(f)
}

func restore(tree *artifact.Tree, a *artifact.Artifact, e *element) error {
	m := e.Metrics
	a.Metrics = artifact.Metrics{
		LinesOfCode:          m.LinesOfCode,
		ComponentRank:        m.ComponentRank,
		SCCIndex:             m.SCCIndex,
		IsInCycle:            m.IsInCycle,
		CyclicPortion:        m.CyclicPortion,
		IncomingDependencies: m.Incoming,
		OutgoingDependencies: m.Outgoing,
	}

	ids := make(map[artifact.ID]artifact.ID, len(e.Parts))
	for _, pe := range e.Parts {
		if pe == nil {
			return fmt.Errorf("%s: null part", e.Name)
		}
		p := tree.Add(a, pe.Name, detail(pe))
		ids[pe.ID] = p.ID
		if err := restore(tree, p, pe); err != nil {
			return err
		}
	}
	for _, d := range e.Dependencies {
		from, to := ids[d.From], ids[d.To]
		if err := tree.AddDependency(a, from, to, d.Weight); err != nil {
			return fmt.Errorf("dependency %s -> %s: %w", d.From, d.To, err)
		}
		a.Graph().SetEssential(string(from), string(to), d.Essential)
	}
	return nil
}

func detail(e *element) artifact.Detail {
	switch e.Kind {
	case kindFolder:
		return artifact.Folder{Path: e.Path}
	case kindFile:
		return artifact.File{Path: e.Path, Text: e.Code}
	}
	s := artifact.Symbol{Kind: codebase.SymbolKind(e.SymbolKind), Text: e.Code}
	if e.Range != nil {
		s.Range = *e.Range
	}
	if e.SelectionRange != nil {
		s.SelectionRange = *e.SelectionRange
	}
	return s
}
