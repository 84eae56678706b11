package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/preinstall/internal/output"
	"github.com/Aman-CERP/preinstall/internal/preflight"
	"github.com/Aman-CERP/preinstall/internal/toolchain"
)

func newToolchainCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "toolchain",
		Short: "Show which Visual Studio installation would be used",
		Long: `Search for a supported Visual Studio installation the same way the
preinstall hook does.

Each version in toolchain.versions is tried newest first. The
vs<version>_install environment variable wins when it names an existing
directory; otherwise every edition is searched under %ProgramFiles% and
then %ProgramFiles(x86)%.`,
		Example: `  # Show the selected installation
  preinstall toolchain

  # Machine-readable output
  preinstall toolchain --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runToolchain(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runToolchain(cmd *cobra.Command, jsonOutput bool) error {
	_, cfg, err := workspace()
	if err != nil {
		return err
	}

	checker := newChecker(cmd, cfg, false)
	result, inst := checker.CheckToolchain()

	if jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(struct {
			Found        bool                    `json:"found"`
			Installation *toolchain.Installation `json:"installation,omitempty"`
			Message      string                  `json:"message"`
		}{inst != nil, inst, result.Message}); err != nil {
			return err
		}
	} else {
		out := output.New(cmd.OutOrStdout())
		if inst == nil {
			out.Error(result.Message)
			out.Status("", result.Details)
		} else {
			out.Success(result.Message)
			out.Statusf("", "Path:   %s", inst.Path)
			out.Statusf("", "Source: %s", inst.Source)
		}
	}

	if result.Status == preflight.StatusFail {
		return ErrChecksFailed
	}
	return nil
}
