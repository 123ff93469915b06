package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/layout"
)

// viewCommand creates the view command, an interactive layer browser.
func (c *CLI) viewCommand() *cobra.Command {
	var opts placeOpts

	cmd := &cobra.Command{
		Use:   "view <layout.json|chain-file>",
		Short: "Browse a layout layer by layer",
		Long: `View opens an interactive browser over the Y levels of a layout. The input
is either a saved layout (*.layout.json) or a chain document, which is
placed first using the configured placement box.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles(chainFileExts...),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.loadOrPlace(cmd.Context(), args[0], &opts)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewLayerViewModel(l), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.min, "min", "", "placement box min corner x,y,z (inclusive)")
	f.StringVar(&opts.max, "max", "", "placement box max corner x,y,z (exclusive)")
	f.StringVar(&opts.orientation, "orientation", "", "snake orientation")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// loadOrPlace reads a saved layout, or places a chain document.
func (c *CLI) loadOrPlace(ctx context.Context, path string, opts *placeOpts) (*layout.Layout, error) {
	if strings.HasSuffix(strings.ToLower(path), ".layout.json") {
		return layout.ReadFile(path)
	}
	if _, err := chain.FormatFromPath(path); err != nil {
		return nil, fmt.Errorf("%s: not a layout or chain file", filepath.Base(path))
	}

	po, err := c.pipelineOptions(opts)
	if err != nil {
		return nil, err
	}
	ch, err := chain.Load(path)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()
	return runner.Place(ctx, ch, po)
}
