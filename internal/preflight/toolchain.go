package preflight

import (
	"context"
	"fmt"
	"strings"

	perrors "github.com/Aman-CERP/preinstall/internal/errors"
	"github.com/Aman-CERP/preinstall/internal/toolchain"
)

// ToolchainHelpURL documents the supported C/C++ toolchains.
const ToolchainHelpURL = "https://github.com/microsoft/vscode/wiki/How-to-Contribute#prerequisites"

// CheckToolchain looks for a supported Visual Studio installation.
func (c *Checker) CheckToolchain() (CheckResult, *toolchain.Installation) {
	result := CheckResult{
		Name:     CheckToolchain,
		Required: true,
	}

	inst, ok := c.locator.FindSupportedVersion()
	if !ok {
		result.Status = StatusFail
		result.Code = perrors.ErrCodeToolchainMissing
		result.Message = "*** Invalid C/C++ Compiler Toolchain. Please check " + ToolchainHelpURL + "."
		result.Details = "searched Visual Studio " + strings.Join(c.locator.SearchOrder(), ", ")
		return result, nil
	}

	result.Status = StatusPass
	result.Message = describeInstallation(inst)
	result.Details = inst.Path
	return result, &inst
}

func describeInstallation(inst toolchain.Installation) string {
	if inst.Edition == "" {
		return fmt.Sprintf("Visual Studio %s (vs%s_install)", inst.Version, inst.Version)
	}
	return fmt.Sprintf("Visual Studio %s %s", inst.Version, inst.Edition)
}

// CheckSpectre enables Spectre-mitigated libraries for inst. Problems are
// reported as warnings only.
func (c *Checker) CheckSpectre(ctx context.Context, inst toolchain.Installation) CheckResult {
	res := toolchain.EnableSpectreMode(ctx, c.runner, c.locator, inst)

	result := CheckResult{
		Name:    CheckSpectre,
		Message: res.String(),
		Details: res.Script,
		Status:  StatusPass,
	}
	if !res.OK() {
		result.Status = StatusWarn
		result.Code = perrors.ErrCodeSpectreSetup
	}
	return result
}
