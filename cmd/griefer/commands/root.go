package commands

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...commands.Version=...".
var Version = "dev"

// NewRootCommand assembles the griefer command tree.
func NewRootCommand() *cobra.Command {
	opts := &GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "griefer",
		Short: "Griefer ban lookup - who got banned, where and when",
		Long: `Griefer loads a list of server bans into a scapegoat tree and answers
lookups against it.

Commands:
  query     Answer lookups read from stdin
  stats     Report the shape of the loaded tree`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.Register(rootCmd)

	rootCmd.AddCommand(NewQueryCommand(opts))
	rootCmd.AddCommand(NewStatsCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			goVersion := "unknown"
			if info, ok := debug.ReadBuildInfo(); ok {
				goVersion = info.GoVersion
			}

			fmt.Fprintf(cmd.OutOrStdout(), "griefer %s (%s)\n", Version, goVersion)
		},
	}
}
