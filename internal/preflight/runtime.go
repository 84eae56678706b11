package preflight

import (
	"context"
	"fmt"

	perrors "github.com/Aman-CERP/preinstall/internal/errors"
	"github.com/Aman-CERP/preinstall/internal/runner"
	"github.com/Aman-CERP/preinstall/internal/semver"
)

// nodeExecPathEnv names the node binary running the current lifecycle
// script; yarn and npm both set it.
const nodeExecPathEnv = "npm_node_execpath"

// queryVersion runs name with args and returns its trimmed stdout.
func (c *Checker) queryVersion(ctx context.Context, name string, args ...string) (string, error) {
	res, err := runner.Check(c.runner.Run(ctx, name, args, runner.Options{}))
	if err != nil {
		return "", err
	}
	return res.Output(), nil
}

// nodeBinary prefers the node that launched the install over whatever is
// first on PATH.
func (c *Checker) nodeBinary() string {
	if p, ok := c.lookupEnv(nodeExecPathEnv); ok && p != "" {
		return p
	}
	return "node"
}

func runtimeAdvice(minV semver.Version, untested int) string {
	if untested > 0 {
		return fmt.Sprintf("*** Please use node.js versions >=%d.%d.x and <%d.", minV.Major, minV.Minor, untested)
	}
	return fmt.Sprintf("*** Please use node.js versions >=%d.%d.x.", minV.Major, minV.Minor)
}

// CheckRuntime verifies the node.js version: below the configured minimum
// fails, at or above the untested major warns.
func (c *Checker) CheckRuntime(ctx context.Context) CheckResult {
	result := CheckResult{
		Name:     CheckRuntime,
		Required: true,
	}

	accepted, err := c.cfg.RuntimeRange()
	if err != nil {
		return failed(result, perrors.ErrCodeConfigInvalid, "invalid runtime.minimum", err)
	}
	untested := c.cfg.Runtime.UntestedMajor

	node := c.nodeBinary()
	raw, err := c.queryVersion(ctx, node, "--version")
	if err != nil {
		result = failed(result, perrors.ErrCodeVersionQuery, "*** Could not determine the node.js version.", err)
		result.Details = fmt.Sprintf("%s --version: %v", node, err)
		return result
	}

	v, err := semver.Parse(raw)
	if err != nil {
		return failed(result, perrors.ErrCodeVersionMalformed,
			fmt.Sprintf("*** Unrecognized node.js version %q.", raw), err)
	}

	ok, err := accepted.Check(v)
	if err != nil {
		return failed(result, perrors.ErrCodeVersionMalformed,
			fmt.Sprintf("*** Unrecognized node.js version %q.", raw), err)
	}
	if !ok {
		result.Status = StatusFail
		result.Code = perrors.ErrCodeRuntimeVersion
		result.Message = runtimeAdvice(accepted.Min, untested)
		result.Details = "found node.js " + v.String()
		return result
	}

	if untested > 0 && v.Major >= untested {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("*** Warning: Versions of node.js >= %d have not been tested.", untested)
		result.Details = "found node.js " + v.String()
		return result
	}

	result.Status = StatusPass
	result.Message = "node.js " + v.String()
	return result
}

// CheckPackageManager verifies `yarn -v` falls in the configured range.
func (c *Checker) CheckPackageManager(ctx context.Context) CheckResult {
	result := CheckResult{
		Name:     CheckPackageManager,
		Required: true,
	}

	accepted, err := c.cfg.PackageManagerRange()
	if err != nil {
		return failed(result, perrors.ErrCodeConfigInvalid, "invalid package_manager range", err)
	}

	yarn := c.shim("yarn")
	raw, err := c.queryVersion(ctx, yarn, "-v")
	if err != nil {
		result = failed(result, perrors.ErrCodeVersionQuery, "*** Could not determine the yarn version.", err)
		result.Details = fmt.Sprintf("%s -v: %v", yarn, err)
		return result
	}

	v, err := semver.Parse(raw)
	if err != nil {
		return failed(result, perrors.ErrCodeVersionMalformed,
			fmt.Sprintf("*** Unrecognized yarn version %q.", raw), err)
	}

	ok, err := accepted.Check(v)
	if err != nil {
		return failed(result, perrors.ErrCodeVersionMalformed,
			fmt.Sprintf("*** Unrecognized yarn version %q.", raw), err)
	}
	if !ok {
		result.Status = StatusFail
		result.Code = perrors.ErrCodePackageManagerVersion
		result.Message = packageManagerAdvice(accepted)
		result.Details = "found yarn " + v.String()
		return result
	}

	result.Status = StatusPass
	result.Message = "yarn " + v.String()
	return result
}

func packageManagerAdvice(r semver.Range) string {
	upper := ""
	if !r.Max.IsZero() {
		upper = " and <" + shortVersion(r.Max)
	}
	return fmt.Sprintf("*** Please use yarn >=%s%s.", r.Min, upper)
}

// shortVersion drops trailing zero components: 2.0.0 -> 2, 1.22.0 -> 1.22.
func shortVersion(v semver.Version) string {
	switch {
	case v.Minor == 0 && v.Patch == 0:
		return fmt.Sprintf("%d", v.Major)
	case v.Patch == 0:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return v.String()
	}
}

func failed(r CheckResult, code, message string, err error) CheckResult {
	r.Status = StatusFail
	r.Code = code
	r.Message = message
	if err != nil {
		r.Details = err.Error()
	}
	return r
}
