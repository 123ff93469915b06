package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/curve"
)

// curveCommand creates the curve command, which prints the snake curve
// through a cuboid. Useful for checking an orientation before placing.
func (c *CLI) curveCommand() *cobra.Command {
	var orientation string

	cmd := &cobra.Command{
		Use:   "curve <corner1> <corner2>",
		Short: "Print the snake curve through a cuboid",
		Long: `Curve prints every point of the inclusive cuboid spanned by two corners in
the order the snake curve visits them, one x,y,z triple per line.`,
		Example: `  cmdtower curve 0,0,0 2,1,1
  cmdtower curve 0,0,0 2,2,2 --orientation north,up,east`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := coord.ParseCoordinate(args[0])
			if err != nil {
				return err
			}
			b, err := coord.ParseCoordinate(args[1])
			if err != nil {
				return err
			}
			o := c.Config.Placement.Orientation
			if o == (coord.Orientation{}) {
				o = coord.DefaultOrientation
			}
			if orientation != "" {
				if o, err = coord.ParseOrientation(orientation); err != nil {
					return err
				}
			}
			if err := o.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range curve.Snake(a, b, o) {
				fmt.Fprintf(out, "%d,%d,%d\n", p.X, p.Y, p.Z)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&orientation, "orientation", "", "snake orientation (default from config)")
	return cmd
}
