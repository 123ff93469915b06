package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/pipeline"
)

// placeOpts holds the command-line flags for the place command.
type placeOpts struct {
	min         string
	max         string
	orientation string
	formats     string
	output      string
	author      string
	dataVersion int
	background  bool
	detailed    bool
	noCache     bool
	refresh     bool
	name        string
	quiet       bool
}

// placeCommand creates the place command, the main entry point: it packs a
// chain file into the smallest snake cube and writes the requested artifacts.
func (c *CLI) placeCommand() *cobra.Command {
	var opts placeOpts

	cmd := &cobra.Command{
		Use:   "place <chain-file>",
		Short: "Place a command chain into a cube of command blocks",
		Long: `Place reads a chain document (.mcc, .txt, .yaml, .toml or .json), searches
for the smallest cube inside the placement box that holds every command and
writes the result in each requested format.

Without --min/--max the placement box comes from the config file.`,
		Example: `  cmdtower place tower.mcc
  cmdtower place tower.yaml --min 0,64,0 --max 8,72,8 --format nbt,svg
  cmdtower place tower.mcc --orientation north,up,east -o build/tower`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles(chainFileExts...),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(cmd.Context(), args[0], &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.min, "min", "", "placement box min corner x,y,z (inclusive)")
	f.StringVar(&opts.max, "max", "", "placement box max corner x,y,z (exclusive)")
	f.StringVar(&opts.orientation, "orientation", "", "snake orientation, e.g. east,up,south or +x+y+z")
	f.StringVarP(&opts.formats, "format", "f", "", "output formats: json,nbt,dot,svg,png,txt")
	f.StringVarP(&opts.output, "output", "o", "", "output base path (default: input path without extension)")
	f.StringVar(&opts.author, "author", "", "author recorded in structure files")
	f.IntVar(&opts.dataVersion, "data-version", 0, "Minecraft data version of structure files")
	f.BoolVar(&opts.background, "background", false, "fill empty structure cells with air")
	f.BoolVar(&opts.detailed, "detailed", false, "include command text in diagram labels")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached layouts and artifacts")
	f.StringVar(&opts.name, "name", "", "layout name (default: file name)")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the block table")

	return cmd
}

// pipelineOptions merges the flags onto the configured defaults.
func (c *CLI) pipelineOptions(opts *placeOpts) (pipeline.Options, error) {
	po := c.defaultOptions()
	if opts.min != "" {
		min, err := coord.ParseCoordinate(opts.min)
		if err != nil {
			return po, fmt.Errorf("--min: %w", err)
		}
		po.Min = min
		// A moved box keeps its configured size unless --max is given.
		po.Max = min.Add(c.Config.Placement.Max.Sub(c.Config.Placement.Min))
	}
	if opts.max != "" {
		max, err := coord.ParseCoordinate(opts.max)
		if err != nil {
			return po, fmt.Errorf("--max: %w", err)
		}
		po.Max = max
	}
	if opts.orientation != "" {
		o, err := coord.ParseOrientation(opts.orientation)
		if err != nil {
			return po, fmt.Errorf("--orientation: %w", err)
		}
		po.Orientation = o
	}
	if formats := parseFormats(opts.formats); len(formats) > 0 {
		po.Formats = formats
	}
	if opts.author != "" {
		po.Author = opts.author
	}
	if opts.dataVersion != 0 {
		po.DataVersion = opts.dataVersion
	}
	po.Background = po.Background || opts.background
	po.Detailed = opts.detailed
	po.Refresh = opts.refresh
	return po, nil
}

// runPlace loads the chain, runs the pipeline and writes the artifacts.
func (c *CLI) runPlace(ctx context.Context, input string, opts *placeOpts) error {
	logger := loggerFromContext(ctx)

	po, err := c.pipelineOptions(opts)
	if err != nil {
		return err
	}

	ch, err := chain.Load(input)
	if err != nil {
		return err
	}
	if opts.name != "" {
		ch.Name = opts.name
	}
	logger.Debug("loaded chain", "path", input, "commands", ch.Len())

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, os.Stderr, fmt.Sprintf("Placing %d commands...", ch.Len()))
	restore := watchSearch(spinner)
	spinner.Start()
	result, err := runner.Execute(ctx, ch, po)
	restore()
	if err != nil {
		spinner.StopWithError("Placement failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(basePath(opts.output, input), result.Artifacts)
	if err != nil {
		return err
	}

	l := result.Layout
	printSuccess("Placed %s", StyleHighlight.Render(ch.Name))
	printStats(result.Stats, result.CacheInfo)
	printKeyValue("Corner", l.Corner.String())
	printKeyValue("Orientation", l.Orientation.String())
	for _, p := range paths {
		printFile(p)
	}

	if !opts.quiet && len(l.Blocks) > 0 {
		printNewline()
		fmt.Fprintln(stdout, blockTable(l.Blocks, -1))
	}

	if _, ok := result.Artifacts[pipeline.FormatJSON]; ok {
		printNewline()
		printNextStep("Browse layers", appName+" view "+artifactPath(basePath(opts.output, input), pipeline.FormatJSON))
	}
	return nil
}
