package codebase

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/codescape/pkg/errors"
)

// SnapshotVersion is the snapshot format written by WriteJSON.
const SnapshotVersion = 1

type snapshot struct {
	Version int     `json:"version"`
	Source  string  `json:"source,omitempty"`
	Root    *Folder `json:"root"`
}

// WriteJSON encodes a retrieved codebase, symbols and references included.
// source names the symbol source that produced the data, e.g. "gopls".
func WriteJSON(w io.Writer, root *Folder, source string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot{Version: SnapshotVersion, Source: source, Root: root}); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ReadJSON decodes a snapshot written by WriteJSON and returns its root
// folder and source name. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Folder, string, error) {
	var s snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "decode snapshot")
	}
	if s.Version != SnapshotVersion {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "unsupported snapshot version %d", s.Version)
	}
	if s.Root == nil || s.Root.FileCount() == 0 {
		return nil, "", errors.New(errors.ErrCodeNoCodeFiles, "snapshot contains no code files")
	}
	return s.Root, s.Source, nil
}

// ExportJSON writes a snapshot to a file at path.
func ExportJSON(path string, root *Folder, source string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, root, source)
}

// ImportJSON reads a snapshot from the file at path.
func ImportJSON(path string) (*Folder, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidPath, err, "open snapshot %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
