// Package preflight runs the checks that must pass before a workspace's
// dependencies are installed: node.js and yarn versions, that yarn is the
// invoking package manager and, on Windows, a usable Visual Studio
// toolchain. A clean Windows run then enables Spectre-mitigated libraries
// and installs native headers.
//
// Every check appends a CheckResult; failures are accumulated rather than
// short-circuiting, so one run reports every problem:
//
//	checker := preflight.New(preflight.WithConfig(cfg))
//	report, err := checker.Run(ctx, root)
//	if err != nil || checker.HasCriticalFailures(report.Results) {
//	    os.Exit(1)
//	}
package preflight
