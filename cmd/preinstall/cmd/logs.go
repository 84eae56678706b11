package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/preinstall/internal/logging"
	"github.com/Aman-CERP/preinstall/internal/ui"
)

func newLogsCmd() *cobra.Command {
	var (
		lines   int
		level   string
		grep    string
		noColor bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View preinstall debug logs",
		Long: `Show the last lines of the debug log written by --debug runs.

Logs are kept in ~/.preinstall/logs/preinstall.log and rotated by size.`,
		Example: `  preinstall logs                  # Show last 50 lines
  preinstall logs -n 200           # Show last 200 lines
  preinstall logs --level warn     # Only warnings and errors
  preinstall logs --grep node-gyp  # Filter by pattern`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := logging.FindLogFile(logFile)
			if err != nil {
				return err
			}

			var pattern *regexp.Regexp
			if grep != "" {
				pattern, err = regexp.Compile(grep)
				if err != nil {
					return fmt.Errorf("invalid filter pattern: %w", err)
				}
			}

			viewer := logging.NewViewer(logging.ViewerConfig{
				Level:   level,
				Pattern: pattern,
				NoColor: noColor || !ui.ColorEnabled(cmd.OutOrStdout()),
			}, cmd.OutOrStdout())

			fmt.Fprintf(cmd.ErrOrStderr(), "Log file: %s\n---\n", path)

			entries, err := viewer.Tail(path, lines)
			if err != nil {
				return err
			}
			viewer.Print(entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level to show (debug|info|warn|error)")
	cmd.Flags().StringVar(&grep, "grep", "", "Only show lines matching this regex")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&logFile, "file", "", "Path to log file")

	return cmd
}
