package commands

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/INLOpen/scapegoat"
	"github.com/INLOpen/scapegoat/internal/banlist"
)

// NewStatsCommand creates the stats command, which loads a ban list and
// reports the shape of the resulting tree.
func NewStatsCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <ban-file>",
		Short: "Load a ban list and report tree statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}

			stop := sess.serveMetrics()
			defer stop()

			loaded, err := sess.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderStats(loaded, sess.tree.Stats()))

			return err
		},
	}
}

func renderStats(loaded banlist.Stats, tree scapegoat.Stats) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Metric", "Value"})

	tbl.AppendRows([]table.Row{
		{"Lines read", humanize.Comma(int64(loaded.Lines))},
		{"Lines skipped", humanize.Comma(int64(loaded.Skipped))},
		{"Bans merged", humanize.Comma(int64(loaded.Merged))},
		{"Users", humanize.Comma(int64(tree.Nodes))},
		{"Height", tree.Height},
		{"Height bound", tree.HeightBound},
		{"Alpha", fmt.Sprintf("%.4f", tree.Alpha)},
		{"Rebuilds", humanize.Comma(int64(tree.Rebuilds))},
		{"Nodes relinked", humanize.Comma(int64(tree.RebuiltNodes))},
		{"Load time", loaded.Elapsed.Round(time.Microsecond).String()},
		{"Load rate", humanize.SIWithDigits(rate(loaded.Lines, loaded.Elapsed), 2, "lines/s")},
	})

	return tbl.Render()
}

func rate(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}

	return float64(n) / elapsed.Seconds()
}
