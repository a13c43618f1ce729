// Package pipeline runs a complete codescape analysis.
//
// A run turns a folder into a finished artifact tree in nine steps:
//
//  1. readFolder: load the code files (or import a snapshot)
//  2. connectToSymbolSource: start or dial the language server
//  3. retrieveSymbols: document symbols of every file
//  4. retrieveReferences: references to every symbol
//  5. generateArchitecture: build the artifact tree
//  6. crossScopeDependencies: resolve references between files
//  7. calculateMetrics: cycles, component ranks and lines of code
//  8. sortArtifacts: order parts by component rank
//  9. buildPresentation: prepare the layout session
//
// The CLI and tests share this sequence through [Processor], which streams
// a [State] per step and ends with a succeeded or failed state.
//
// # Usage
//
//	p := pipeline.NewProcessor(logger)
//	for state := range p.Start(ctx, pipeline.Options{Path: "./src"}) {
//	    switch state.Status {
//	    case pipeline.StatusSucceeded:
//	        layout, err := state.Result.Session.Layout(ctx, 1600, 1000, "")
//	        // ...
//	    case pipeline.StatusFailed:
//	        log.Error(state.Message)
//	    }
//	}
//
// Failures of the language server are not fatal: the run logs a warning and
// continues without symbols or references, yielding a tree of folders and
// files only.
package pipeline

import (
	"io"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/cache"
	"github.com/matzehuels/codescape/pkg/codebase"
	"github.com/matzehuels/codescape/pkg/config"
	"github.com/matzehuels/codescape/pkg/errors"
)

// Step names a stage of a run.
type Step string

const (
	StepReadFolder             Step = "readFolder"
	StepConnectToSymbolSource  Step = "connectToSymbolSource"
	StepRetrieveSymbols        Step = "retrieveSymbols"
	StepRetrieveReferences     Step = "retrieveReferences"
	StepGenerateArchitecture   Step = "generateArchitecture"
	StepCrossScopeDependencies Step = "crossScopeDependencies"
	StepCalculateMetrics       Step = "calculateMetrics"
	StepSortArtifacts          Step = "sortArtifacts"
	StepBuildPresentation      Step = "buildPresentation"
)

// Steps lists the steps of a run in execution order.
var Steps = []Step{
	StepReadFolder,
	StepConnectToSymbolSource,
	StepRetrieveSymbols,
	StepRetrieveReferences,
	StepGenerateArchitecture,
	StepCrossScopeDependencies,
	StepCalculateMetrics,
	StepSortArtifacts,
	StepBuildPresentation,
}

// Description returns a short human-readable label for the step.
func (s Step) Description() string {
	switch s {
	case StepReadFolder:
		return "Reading folder"
	case StepConnectToSymbolSource:
		return "Connecting to language server"
	case StepRetrieveSymbols:
		return "Retrieving symbols"
	case StepRetrieveReferences:
		return "Retrieving references"
	case StepGenerateArchitecture:
		return "Generating architecture"
	case StepCrossScopeDependencies:
		return "Resolving cross-scope dependencies"
	case StepCalculateMetrics:
		return "Calculating metrics"
	case StepSortArtifacts:
		return "Sorting artifacts"
	case StepBuildPresentation:
		return "Building presentation"
	}
	return string(s)
}

// Status tells whether a run is still going.
type Status int

const (
	StatusRunning Status = iota
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "running"
}

// State is one observation of a run.
type State struct {
	Status Status
	Step   Step

	// Done and Total count the files finished within a retrieval step.
	// Both are zero for the other steps.
	Done, Total int

	// Result is set when Status is StatusSucceeded.
	Result *Result

	// Err and Message are set when Status is StatusFailed.
	Err     error
	Message string
}

// Terminal reports whether s is the last state of its run.
func (s State) Terminal() bool { return s.Status != StatusRunning }

// Result is the outcome of a successful run.
type Result struct {
	// Codebase is the folder with the retrieved symbols and references.
	Codebase *codebase.Folder

	// Source names the symbol source the data came from; empty when the
	// run went without one.
	Source string

	Tree    *artifact.Tree
	Session *Session
	Stats   Stats
}

// Stats contains run statistics.
type Stats struct {
	Files       int
	Artifacts   int
	Resolved    int
	Unlocated   int
	Edges       int
	Inessential int
	Cycles      int
	Durations   map[Step]time.Duration
}

// Defaults shared by the CLI and tests.
const (
	DefaultLayoutCacheSize = 32
	DefaultCacheTTL        = config.DefaultCacheTTL
)

// Options configures a run.
type Options struct {
	// Path is the folder to analyze.
	Path string

	// Snapshot, when set, imports a codebase written by codebase.WriteJSON
	// instead of reading Path and querying a language server.
	Snapshot string

	Extensions  []string
	Ignore      []string
	NoGitignore bool

	// Language server. URL takes precedence over Command. SymbolSource,
	// when set, replaces both.
	LSPURL       string
	LSPCommand   string
	LSPArgs      []string
	Language     string
	SymbolSource codebase.SymbolSource

	// Concurrency bounds parallel file work. Zero means NumCPU.
	Concurrency int

	// Cache stores language server answers between runs. Nil disables it.
	Cache    cache.Cache
	Keyer    cache.Keyer
	CacheTTL time.Duration

	// LayoutCacheSize bounds the layouts memoized per session.
	LayoutCacheSize int

	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// OptionsFromConfig maps a project configuration to run options for the
// folder at path. Cache, Keyer and Logger are left to the caller.
func OptionsFromConfig(path string, cfg *config.Config) Options {
	return Options{
		Path:        path,
		Extensions:  cfg.Project.Extensions,
		Ignore:      cfg.Project.Ignore,
		NoGitignore: cfg.Project.NoGitignore,
		LSPURL:      cfg.LSP.URL,
		LSPCommand:  cfg.LSP.Command,
		LSPArgs:     cfg.LSP.Args,
		Language:    cfg.LSP.Language,
		Concurrency: cfg.LSP.Concurrency,
		CacheTTL:    cfg.Cache.TTL,
	}
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Path == "" && o.Snapshot == "" {
		return errors.New(errors.ErrCodeInvalidInput, "a folder or a snapshot is required")
	}
	if o.Snapshot == "" {
		if len(o.Extensions) == 0 {
			o.Extensions = config.Default().Project.Extensions
		}
		if err := errors.ValidateExtensions(o.Extensions); err != nil {
			return err
		}
		abs, err := filepath.Abs(o.Path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", o.Path)
		}
		o.Path = abs
	}
	if o.Language == "" {
		o.Language = config.Default().LSP.Language
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.NumCPU()
	}
	if o.Cache == nil {
		o.Cache = cache.NewNullCache()
	}
	if o.Keyer == nil {
		o.Keyer = cache.NewDefaultKeyer()
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.LayoutCacheSize <= 0 {
		o.LayoutCacheSize = DefaultLayoutCacheSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// sourceName identifies the configured symbol source in cache keys.
func (o *Options) sourceName() string {
	switch {
	case o.SymbolSource != nil:
		return "custom"
	case o.LSPURL != "":
		return o.LSPURL
	default:
		return o.LSPCommand
	}
}
