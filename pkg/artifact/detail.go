package artifact

import (
	"github.com/google/uuid"

	"github.com/matzehuels/codescape/pkg/codebase"
)

// ID identifies an artifact independently of its position in the tree.
type ID string

// NewID returns a fresh random ID.
func NewID() ID { return ID(uuid.NewString()) }

// Detail is the kind-specific part of an artifact. It is implemented by
// Folder, File and Symbol only.
type Detail interface {
	// KindName is the display name of the artifact kind.
	KindName() string
	// Code returns the source text, if the kind has any.
	Code() (string, bool)
	// IsSymbol reports whether the artifact is a code symbol.
	IsSymbol() bool

	isDetail()
}

// Folder is a directory.
type Folder struct {
	Path string // root-relative; empty for the root
}

// File is a code file.
type File struct {
	Path string // root-relative, slash-separated
	Text string
}

// Symbol is a declaration inside a file.
type Symbol struct {
	Kind           codebase.SymbolKind
	Range          codebase.Range
	SelectionRange codebase.Range
	Text           string
}

func (Folder) KindName() string     { return "Folder" }
func (Folder) Code() (string, bool) { return "", false }
func (Folder) IsSymbol() bool       { return false }
func (Folder) isDetail()            {}

func (File) KindName() string       { return "File" }
func (f File) Code() (string, bool) { return f.Text, true }
func (File) IsSymbol() bool         { return false }
func (File) isDetail()              {}

func (s Symbol) KindName() string     { return s.Kind.String() }
func (s Symbol) Code() (string, bool) { return s.Text, true }
func (Symbol) IsSymbol() bool         { return true }
func (Symbol) isDetail()              {}
