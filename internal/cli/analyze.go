package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codescape/pkg/config"
	"github.com/matzehuels/codescape/pkg/errors"
	"github.com/matzehuels/codescape/pkg/pipeline"
)

// analyzeOpts holds the command-line flags of the analyze command.
type analyzeOpts struct {
	output   string // base path of the written files
	formats  string // comma-separated output formats
	width    float64
	height   float64
	filter   string // show only artifacts matching this name
	scope    string // scope of the dot formats
	edges    bool   // draw dependency anchors
	noCache  bool
	plain    bool   // spinner instead of the progress view
	snapshot string // analyze a saved snapshot instead of a folder
	lspURL   string
	lspCmd   string
}

func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze [folder]",
		Short: "Analyze a codebase and draw its architecture",
		Long: `Analyze reads the code files below a folder, asks a language server for
their symbols and references, and writes the resulting treemap.

Formats: svg (treemap), json (treemap placements), architecture (artifact
tree, readable by render), dot and graph.svg (dependency graph of --scope).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if opts.snapshot != "" && len(args) == 1 {
				return errors.New(errors.ErrCodeInvalidInput, "pass either a folder or --snapshot")
			}
			return c.runAnalyze(cmd.Context(), dir, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: folder name)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "comma-separated output formats")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "treemap width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "treemap height (default from config)")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "only show artifacts whose name contains this term")
	cmd.Flags().StringVar(&opts.scope, "scope", "", "folder, file or symbol whose graph the dot formats draw")
	cmd.Flags().BoolVar(&opts.edges, "edges", true, "draw dependency arrows")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the symbol cache")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "show a spinner instead of the step list")
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "analyze a snapshot written by the snapshot command")
	cmd.Flags().StringVar(&opts.lspURL, "lsp-url", "", "WebSocket URL of a language service")
	cmd.Flags().StringVar(&opts.lspCmd, "lsp-command", "", "language server executable")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, dir string, opts analyzeOpts) error {
	res, cfg, err := c.analyze(ctx, dir, opts)
	if err != nil {
		return err
	}
	printSummary(c.Out, res)

	width, height := opts.width, opts.height
	if width == 0 {
		width = cfg.Layout.Width
	}
	if height == 0 {
		height = cfg.Layout.Height
	}
	base := opts.output
	if base == "" {
		base = res.Tree.Root().Name
	}

	start := time.Now()
	out, err := pipeline.Render(ctx, res.Session, pipeline.RenderOptions{
		Formats:     parseFormats(opts.formats),
		Width:       width,
		Height:      height,
		Filter:      opts.filter,
		Scope:       opts.scope,
		Edges:       opts.edges,
		Interactive: true,
	})
	if err != nil {
		return err
	}
	paths, err := writeOutputs(base, out)
	if err != nil {
		return err
	}
	timed(c.Logger, start, "rendered", "formats", len(out))

	printSuccess(c.Out, "Analyzed %s", res.Tree.Root().Name)
	for _, p := range paths {
		printFile(c.Out, p)
	}
	return nil
}

// analyze runs the pipeline with the configuration of dir and returns its
// result.
func (c *CLI) analyze(ctx context.Context, dir string, opts analyzeOpts) (*pipeline.Result, *config.Config, error) {
	cfg, err := c.loadConfig(dir)
	if err != nil {
		return nil, nil, err
	}
	popts := pipeline.OptionsFromConfig(dir, cfg)
	if opts.snapshot != "" {
		popts.Path, popts.Snapshot = "", opts.snapshot
	}
	if opts.lspURL != "" {
		popts.LSPURL = opts.lspURL
	}
	if opts.lspCmd != "" {
		popts.LSPCommand, popts.LSPArgs = opts.lspCmd, nil
	}
	popts.Cache = c.newCache(ctx, cfg, opts.noCache)
	defer popts.Cache.Close()

	last := c.follow(ctx, popts, opts.plain)
	switch {
	case last.Status == pipeline.StatusSucceeded:
		return last.Result, cfg, nil
	case last.Err != nil:
		return nil, nil, last.Err
	default:
		return nil, nil, errors.New(errors.ErrCodeCanceled, "analysis canceled")
	}
}

// follow starts a run and shows its progress until it ends. The step list
// and the spinner shown with plain set need a terminal; otherwise, and in
// verbose mode, only the logs are shown.
func (c *CLI) follow(ctx context.Context, opts pipeline.Options, plain bool) pipeline.State {
	p := pipeline.NewProcessor(c.Logger)
	defer p.Stop()

	verbose := c.Logger.GetLevel() <= LogDebug
	switch {
	case !c.tty || verbose:
		return lastState(p.Start(ctx, opts))
	case plain:
		return followStates(ctx, c.progress, p.Start(ctx, opts))
	}

	runLogger, held := holdLogs(c.Logger)
	opts.Logger = runLogger
	states := p.Start(ctx, opts)
	title := opts.Path
	if opts.Snapshot != "" {
		title = opts.Snapshot
	}
	final, err := tea.NewProgram(NewProgressModel("codescape "+filepath.Base(title), states),
		tea.WithOutput(c.progress), tea.WithContext(ctx)).Run()
	p.Stop()
	_ = held.Flush(c.progress)

	m, ok := final.(ProgressModel)
	if err != nil || !ok || m.Aborted {
		return pipeline.State{Status: pipeline.StatusFailed, Err: errors.New(errors.ErrCodeCanceled, "analysis canceled")}
	}
	if !m.Current.Terminal() {
		return lastState(states)
	}
	return m.Current
}

// lastState drains states and returns the last one.
func lastState(states <-chan pipeline.State) pipeline.State {
	var last pipeline.State
	for st := range states {
		last = st
	}
	return last
}

// writeOutputs writes each rendered format next to base and returns the
// paths in format order.
func writeOutputs(base string, out map[string][]byte) ([]string, error) {
	var paths []string
	for _, format := range pipeline.Formats {
		data, ok := out[format]
		if !ok {
			continue
		}
		path := outputPath(base, format)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func outputPath(base, format string) string {
	switch format {
	case pipeline.FormatJSON:
		return base + ".layout.json"
	case pipeline.FormatArchitecture:
		return base + ".architecture.json"
	}
	return base + "." + format
}
