package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/preinstall/internal/preflight"
)

func newDoctorCmd() *cobra.Command {
	var (
		verbose    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the build environment without installing anything",
		Long: `Run the preinstall validation checks and print a report.

Checks:
  - node.js version (minimum, and untested major versions)
  - yarn version (1.x)
  - npm_execpath points at yarn
  - Visual Studio C/C++ toolchain (Windows only)

Unlike the default command, doctor never runs node-gyp or the
Visual Studio setup script.

Use --verbose for detailed diagnostic information.
Use --json for machine-readable output.`,
		Example: `  # Run diagnostics
  preinstall doctor

  # Verbose output with details
  preinstall doctor --verbose

  # JSON output for scripting
  preinstall doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, verbose, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed diagnostic info")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runDoctor(cmd *cobra.Command, verbose, jsonOutput bool) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	root, cfg, err := workspace()
	if err != nil {
		return err
	}

	checker := newChecker(cmd, cfg, verbose)
	results := checker.RunAll(ctx)

	if jsonOutput {
		if err := outputJSON(cmd, checker, results); err != nil {
			return err
		}
	} else {
		checker.PrintResults(cmd.OutOrStdout(), results)

		markerDir := preflight.MarkerDir(root)
		if preflight.NeedsCheck(markerDir) {
			cmd.Printf("\nNo successful preinstall recorded in %s\n", markerDir)
		} else if age := preflight.MarkerAge(markerDir); age > 0 {
			cmd.Printf("\nLast successful preinstall: %s ago\n", formatDuration(age))
		}
	}

	if checker.HasCriticalFailures(results) {
		return ErrChecksFailed
	}
	return nil
}

// JSONOutput is the structure for JSON output.
type JSONOutput struct {
	Status   string                  `json:"status"`
	Checks   []preflight.CheckResult `json:"checks"`
	Warnings []string                `json:"warnings,omitempty"`
	Errors   []string                `json:"errors,omitempty"`
}

func outputJSON(cmd *cobra.Command, checker *preflight.Checker, results []preflight.CheckResult) error {
	out := JSONOutput{
		Status: checker.SummaryStatus(results),
		Checks: results,
	}

	for _, r := range results {
		if r.IsCritical() {
			out.Errors = append(out.Errors, r.Name+": "+r.Message)
		} else if r.Status != preflight.StatusPass {
			out.Warnings = append(out.Warnings, r.Name+": "+r.Message)
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func formatDuration(d time.Duration) string {
	switch hours := int(d.Hours()); {
	case hours < 1:
		return "less than 1 hour"
	case hours == 1:
		return "1 hour"
	case hours < 24:
		return fmt.Sprintf("%d hours", hours)
	case hours < 48:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", hours/24)
	}
}
