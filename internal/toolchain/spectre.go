package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Aman-CERP/preinstall/internal/runner"
)

// SpectreArg asks the developer command prompt for the Spectre-mitigated
// library variants.
const SpectreArg = "-vcvars_spectre_libs=spectre"

// SetupScript returns the developer environment script for an installation.
func SetupScript(inst Installation) string {
	return filepath.Join(inst.Path, "Common7", "Tools", "VsDevCmd.bat")
}

// SpectreResult describes the outcome of EnableSpectreMode. Failures here
// are advisory and never fail the run.
type SpectreResult struct {
	Script        string
	ScriptMissing bool
	ExitCode      int
	Err           error
}

// OK reports whether the setup script ran and exited cleanly.
func (r SpectreResult) OK() bool {
	return !r.ScriptMissing && r.Err == nil && r.ExitCode == 0
}

// String summarizes the outcome for display.
func (r SpectreResult) String() string {
	switch {
	case r.ScriptMissing:
		return fmt.Sprintf("setup script missing: %s", r.Script)
	case r.ExitCode != 0:
		return fmt.Sprintf("setup script exited with status %d", r.ExitCode)
	case r.Err != nil:
		return fmt.Sprintf("setup script failed: %v", r.Err)
	default:
		return "spectre-mitigated libraries enabled"
	}
}

// EnableSpectreMode runs the installation's VsDevCmd.bat with the spectre
// libs switch.
func EnableSpectreMode(ctx context.Context, r runner.Runner, l *Locator, inst Installation) SpectreResult {
	script := SetupScript(inst)
	res := SpectreResult{Script: script}

	if !l.exists(script) {
		res.ScriptMissing = true
		slog.Warn("VsDevCmd.bat not found", slog.String("path", script))
		return res
	}

	out, err := r.Run(ctx, script, []string{SpectreArg}, runner.Options{})
	res.ExitCode = out.ExitCode
	if err != nil && out.ExitCode == 0 {
		res.Err = err
	}
	if !res.OK() {
		slog.Warn("spectre mode setup failed",
			slog.String("script", script),
			slog.Int("status", res.ExitCode))
		return res
	}

	slog.Debug("spectre mode enabled", slog.String("script", script))
	return res
}
