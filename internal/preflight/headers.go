package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	perrors "github.com/Aman-CERP/preinstall/internal/errors"
	"github.com/Aman-CERP/preinstall/internal/headers"
)

// Installer returns the header installer for the workspace at root.
func (c *Checker) Installer(root string) *headers.Installer {
	if c.installer != nil {
		return c.installer
	}
	return headers.NewInstaller(c.runner, c.cfg.HeadersLayout(root),
		headers.WithGOOS(c.goos),
		headers.WithOutput(os.Stdout, c.output))
}

// CheckHeaders installs node-gyp and any missing native headers. A failed
// node-gyp install becomes a required FAIL result; fatal errors (listing or
// installing headers, reading rc files, locking) abort the run.
func (c *Checker) CheckHeaders(ctx context.Context, root string) (CheckResult, *headers.Report, error) {
	result := CheckResult{
		Name:     CheckHeaders,
		Required: true,
	}

	report, err := c.Installer(root).Run(ctx)
	if err != nil {
		var pe *perrors.PreflightError
		if errors.As(err, &pe) && !perrors.IsFatal(pe) {
			result.Status = StatusFail
			result.Code = pe.Code
			result.Message = pe.Message
			result.Details = err.Error()
			return result, &report, nil
		}
		return result, &report, err
	}

	result.Status = StatusPass
	result.Message = summarizeHeaders(report)
	return result, &report, nil
}

func summarizeHeaders(r headers.Report) string {
	if len(r.Performed) == 0 {
		return "native headers up to date"
	}
	parts := make([]string, 0, len(r.Performed))
	for _, t := range r.Performed {
		parts = append(parts, fmt.Sprintf("%s %s", t.Scope, t.Spec.Target))
	}
	return "installed headers: " + strings.Join(parts, ", ")
}
