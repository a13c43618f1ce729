package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/codescape/pkg/codebase"
)

func (c *CLI) snapshotCommand() *cobra.Command {
	var (
		output string
		opts   analyzeOpts
	)

	cmd := &cobra.Command{
		Use:   "snapshot [folder]",
		Short: "Save a codebase with its symbols and references",
		Long: `Snapshot runs the language server over a folder and saves the files,
symbols and references as JSON. "analyze --snapshot" reruns the analysis
from it without a language server.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			res, _, err := c.analyze(cmd.Context(), dir, opts)
			if err != nil {
				return err
			}
			if output == "" {
				output = res.Tree.Root().Name + ".snapshot.json"
			}
			if err := codebase.ExportJSON(output, res.Codebase, res.Source); err != nil {
				return err
			}
			printSuccess(c.Out, "Saved %d files", res.Stats.Files)
			if res.Source == "" {
				printInfo(c.Out, "No language server answered; the snapshot holds no symbols")
			}
			printFile(c.Out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot file (default: <folder>.snapshot.json)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the symbol cache")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "show a spinner instead of the step list")
	cmd.Flags().StringVar(&opts.lspURL, "lsp-url", "", "WebSocket URL of a language service")
	cmd.Flags().StringVar(&opts.lspCmd, "lsp-command", "", "language server executable")

	return cmd
}
