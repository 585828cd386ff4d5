package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/INLOpen/scapegoat/internal/query"
)

// NewQueryCommand creates the query command. It loads a ban list and then
// answers one lookup per line of standard input.
func NewQueryCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <ban-file>",
		Short: "Answer ban lookups read from stdin",
		Long: `Load a ban list ("<user> <server> <date>" per line) and answer
one lookup per line of standard input.

Examples:
  griefer query bans.txt < users.txt
  echo alice | griefer query --format table bans.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, args[0])
		},
	}
}

func runQuery(cmd *cobra.Command, opts *GlobalOptions, path string) error {
	sess, err := opts.openSession(cmd)
	if err != nil {
		return err
	}

	stop := sess.serveMetrics()
	defer stop()

	formatter, err := query.NewFormatter(sess.cfg.Output.Format)
	if err != nil {
		return err
	}

	if _, err := sess.load(cmd.Context(), path); err != nil {
		return err
	}

	start := time.Now()

	stats, err := query.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), sess.tree, formatter)
	sess.metrics.ObserveQueries(stats.Hits, stats.Misses)

	if err != nil {
		return err
	}

	sess.logger.Debug("queries answered", "queries", stats.Queries, "hits", stats.Hits, "misses", stats.Misses)

	if !sess.quiet {
		fmt.Fprintf(sess.stderr, "time taken: %d µs\n", time.Since(start).Microseconds())
	}

	return nil
}
