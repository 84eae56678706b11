package preflight

import (
	"regexp"

	perrors "github.com/Aman-CERP/preinstall/internal/errors"
)

// execPathEnv holds the path of the package manager script running the
// install.
const execPathEnv = "npm_execpath"

// yarnExecPath matches yarn.js, yarn-1.22.19.cjs and friends, or the
// yarnpkg binary.
var yarnExecPath = regexp.MustCompile(`yarn[\w.-]*\.c?js$|yarnpkg$`)

// IsYarnExecPath reports whether path names a yarn entry point.
func IsYarnExecPath(path string) bool {
	return yarnExecPath.MatchString(path)
}

// CheckInvoker verifies that yarn, not npm or another client, started the
// install.
func (c *Checker) CheckInvoker() CheckResult {
	result := CheckResult{
		Name:     CheckInvoker,
		Required: true,
	}

	path, _ := c.lookupEnv(execPathEnv)
	if !IsYarnExecPath(path) {
		result.Status = StatusFail
		result.Code = perrors.ErrCodeWrongInvoker
		result.Message = "*** Please use yarn to install dependencies."
		if path == "" {
			result.Details = execPathEnv + " is not set"
		} else {
			result.Details = execPathEnv + "=" + path
		}
		return result
	}

	result.Status = StatusPass
	result.Message = "installing with yarn"
	result.Details = path
	return result
}
