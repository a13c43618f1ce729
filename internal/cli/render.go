package cli

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codescape/pkg/architecture"
	"github.com/matzehuels/codescape/pkg/config"
	cio "github.com/matzehuels/codescape/pkg/io"
	"github.com/matzehuels/codescape/pkg/pipeline"
	"github.com/matzehuels/codescape/pkg/treemap"
)

// renderOpts holds the command-line flags of the render command.
type renderOpts struct {
	output  string
	formats string
	width   float64
	height  float64
	filter  string
	edges   bool
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		width:  config.DefaultWidth,
		height: config.DefaultHeight,
		edges:  true,
	}

	cmd := &cobra.Command{
		Use:   "render [architecture.json]",
		Short: "Draw a saved architecture as a treemap",
		Long: `Render reads an architecture written by "analyze -f architecture" and
draws it again, for example at another size or with another filter. No
language server is needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "comma-separated formats: svg, json")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "treemap width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "treemap height")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "only show artifacts whose name contains this term")
	cmd.Flags().BoolVar(&opts.edges, "edges", opts.edges, "draw dependency arrows")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	session, err := c.openArchitecture(input)
	if err != nil {
		return err
	}

	start := time.Now()
	out, err := pipeline.Render(ctx, session, pipeline.RenderOptions{
		Formats:     parseFormats(opts.formats),
		Width:       opts.width,
		Height:      opts.height,
		Filter:      opts.filter,
		Edges:       opts.edges,
		Interactive: true,
	})
	if err != nil {
		return err
	}
	paths, err := writeOutputs(outputBase(input, opts.output), out)
	if err != nil {
		return err
	}
	timed(c.Logger, start, "rendered", "input", input)

	if l, err := session.Layout(ctx, opts.width, opts.height, opts.filter); err == nil && !l.Feasible() {
		printInfo(c.Out, "Some artifacts were too small to draw; try a larger --width/--height")
	}
	printSuccess(c.Out, "Rendered %s", filepath.Base(input))
	for _, p := range paths {
		printFile(c.Out, p)
	}
	return nil
}

// openArchitecture imports a saved architecture and prepares a session.
func (c *CLI) openArchitecture(path string) (*pipeline.Session, error) {
	tree, err := cio.ImportArchitecture(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("imported architecture", "path", path, "artifacts", tree.Len())
	return pipeline.NewSession(tree, pipeline.SessionOptions{Logger: c.Logger})
}

// outputBase strips the architecture suffix from input unless an explicit
// base is given.
func outputBase(input, explicit string) string {
	if explicit != "" {
		return explicit
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return strings.TrimSuffix(base, ".architecture")
}

// graphOpts holds the command-line flags of the graph command.
type graphOpts struct {
	output   string
	scope    string
	svg      bool
	detailed bool
}

func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [architecture.json]",
		Short: "Write the dependency graph of one scope",
		Long: `Graph writes the parts of a folder, file or symbol and the dependencies
between them in Graphviz DOT format, or as SVG drawn by Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := c.openArchitecture(args[0])
			if err != nil {
				return err
			}
			format := pipeline.FormatDOT
			if opts.svg {
				format = pipeline.FormatGraphSVG
			}
			out, err := pipeline.Render(cmd.Context(), session, pipeline.RenderOptions{
				Formats:  []string{format},
				Scope:    opts.scope,
				Detailed: opts.detailed,
			})
			if err != nil {
				return err
			}
			if opts.output == "-" {
				_, err := c.Out.Write(out[format])
				return err
			}
			paths, err := writeOutputs(outputBase(args[0], opts.output), out)
			if err != nil {
				return err
			}
			printSuccess(c.Out, "Graph of %s", scopeLabel(opts.scope))
			printFile(c.Out, paths[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output base path, "-" for stdout`)
	cmd.Flags().StringVar(&opts.scope, "scope", "", "folder, file or symbol to draw (default: root)")
	cmd.Flags().BoolVar(&opts.svg, "svg", false, "draw with Graphviz instead of writing DOT")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add metrics to the node labels")

	return cmd
}

func scopeLabel(scope string) string {
	if scope == "" {
		return "root"
	}
	return scope
}

func (c *CLI) describeCommand() *cobra.Command {
	var (
		depth  int
		filter string
	)

	cmd := &cobra.Command{
		Use:   "describe [architecture.json]",
		Short: "Print the artifact tree with its metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := cio.ImportArchitecture(args[0])
			if err != nil {
				return err
			}
			return architecture.Describe(c.Out, tree, architecture.DescribeOptions{
				MaxDepth: depth,
				Filter:   treemap.MatchName(tree, filter),
			})
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "maximum depth below the root (0 = all)")
	cmd.Flags().StringVar(&filter, "filter", "", "only list artifacts whose name contains this term")

	return cmd
}
