package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cmdtower/pkg/logevent"
)

// eventsCommand creates the events command, which extracts command block
// output from a server log.
func (c *CLI) eventsCommand() *cobra.Command {
	var (
		invoker string
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "events <latest.log|->",
		Short: "List command block messages from a server log",
		Long: `Events scans a Minecraft server log for messages broadcast by command
blocks, such as "[12:00:01] [Server thread/INFO]: [@: Hello]", and prints
them in order. Use "-" to read from standard input.`,
		Example: `  cmdtower events logs/latest.log
  tail -f logs/latest.log | cmdtower events - --invoker @ --plain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			out := cmd.OutOrStdout()
			if plain {
				return logevent.Scan(r, func(ev logevent.Event) error {
					if invoker != "" && ev.Invoker != invoker {
						return nil
					}
					_, err := fmt.Fprintln(out, ev.String())
					return err
				})
			}

			events, err := logevent.Collect(r, invoker)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				printInfo("No command block messages found")
				return nil
			}
			fmt.Fprintln(out, eventTable(events))
			return nil
		},
	}

	cmd.Flags().StringVar(&invoker, "invoker", "", "only show messages from this invoker")
	cmd.Flags().BoolVar(&plain, "plain", false, "stream one line per event instead of a table")
	return cmd
}

// eventTable renders events as a table.
func eventTable(events []logevent.Event) string {
	rows := make([][]string, len(events))
	for i, ev := range events {
		rows[i] = []string{ev.Clock(), ev.Invoker, ev.Message}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Time", "Invoker", "Message").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorGray)
			case 1:
				return base.Foreground(colorCyan)
			}
			return base
		}).
		Render()
}
