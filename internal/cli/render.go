package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cmdtower/pkg/layout"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	formats    string
	output     string
	author     string
	background bool
	detailed   bool
	noCache    bool
}

// renderCommand creates the render command, which re-exports a saved
// layout without placing it again.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <layout.json>",
		Short: "Export a saved layout as a structure file or diagram",
		Example: `  cmdtower render tower.layout.json --format nbt
  cmdtower render tower.layout.json --format svg,png --detailed`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles(layoutFileExts...),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.formats, "format", "f", "nbt", "output formats: json,nbt,dot,svg,png,txt")
	f.StringVarP(&opts.output, "output", "o", "", "output base path (default: input path without extension)")
	f.StringVar(&opts.author, "author", "", "author recorded in structure files")
	f.BoolVar(&opts.background, "background", false, "fill empty structure cells with air")
	f.BoolVar(&opts.detailed, "detailed", false, "include command text in diagram labels")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the layout and writes each requested artifact.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	l, err := layout.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded layout", "path", input, "blocks", len(l.Blocks))

	po := c.defaultOptions()
	po.Formats = parseFormats(opts.formats)
	if opts.author != "" {
		po.Author = opts.author
	}
	po.Background = po.Background || opts.background
	po.Detailed = opts.detailed

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger, "export")
	artifacts, err := runner.Export(ctx, l, po)
	if err != nil {
		return err
	}
	prog.done("exported layout", "formats", len(artifacts), "blocks", len(l.Blocks))

	// The input file is the layout JSON; strip ".layout" so outputs sit next to it.
	base := basePath(opts.output, input)
	if opts.output == "" {
		base = basePath("", base)
	}
	paths, err := writeArtifacts(base, artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d artifacts", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
