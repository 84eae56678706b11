package cmd

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	perrors "github.com/Aman-CERP/preinstall/internal/errors"
	"github.com/Aman-CERP/preinstall/internal/headers"
	"github.com/Aman-CERP/preinstall/internal/output"
)

func newHeadersCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "headers",
		Short: "Install missing node-gyp headers",
		Long: `Install node-gyp into the header manager directory, then fetch the
headers pinned by the target and disturl entries of .yarnrc and
remote/.yarnrc that node-gyp does not already have.

The preinstall hook does this on Windows only. This command runs it on
any platform, which is useful to warm a cache or debug a failing install.`,
		Example: `  # Install missing headers
  preinstall headers

  # Report what was installed as JSON
  preinstall headers --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHeaders(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runHeaders(cmd *cobra.Command, jsonOutput bool) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	root, cfg, err := workspace()
	if err != nil {
		return err
	}

	checker := newChecker(cmd, cfg, false)
	result, report, err := checker.CheckHeaders(ctx, root)
	if err != nil {
		slog.Error("header installation aborted", perrors.LogAttrs(err)...)
		if jsonOutput {
			if jerr := outputHeadersJSON(cmd, headersJSON{Status: "FAIL", Report: report}, err); jerr != nil {
				return jerr
			}
		}
		return err
	}

	if jsonOutput {
		if err := outputHeadersJSON(cmd, headersJSON{Status: result.Status.String(), Report: report}, nil); err != nil {
			return err
		}
	} else {
		printHeaderReport(output.New(cmd.OutOrStdout()), report)
		if result.IsCritical() {
			output.New(cmd.ErrOrStderr()).Errorf("%s (%s)", result.Message, result.Code)
		}
	}

	if result.IsCritical() {
		return ErrChecksFailed
	}
	return nil
}

type headersJSON struct {
	Status string          `json:"status"`
	Report *headers.Report `json:"report,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
}

func outputHeadersJSON(cmd *cobra.Command, out headersJSON, runErr error) error {
	if runErr != nil {
		data, err := perrors.FormatJSON(runErr)
		if err != nil {
			return err
		}
		out.Error = data
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func printHeaderReport(out *output.Writer, report *headers.Report) {
	if report == nil {
		return
	}
	if report.Local == nil && report.Remote == nil {
		out.Warning("No header targets pinned")
		return
	}
	for _, t := range report.Performed {
		out.Successf("Installed %s headers %s (%s)", t.Scope, t.Spec.Target, t.Spec.DistURL)
	}
	for _, t := range report.Skipped {
		out.Statusf("", "%s headers %s already installed", t.Scope, t.Spec.Target)
	}
}
