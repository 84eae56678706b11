package preflight

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/Aman-CERP/preinstall/internal/config"
	"github.com/Aman-CERP/preinstall/internal/headers"
	"github.com/Aman-CERP/preinstall/internal/output"
	"github.com/Aman-CERP/preinstall/internal/runner"
	"github.com/Aman-CERP/preinstall/internal/toolchain"
)

// CheckStatus represents the result of a preflight check.
type CheckStatus int

const (
	// StatusPass indicates the check passed successfully.
	StatusPass CheckStatus = iota
	// StatusWarn indicates a non-critical warning.
	StatusWarn
	// StatusFail indicates the check failed.
	StatusFail
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusWarn:
		return "WARN"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the status as PASS, WARN or FAIL in JSON output.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Check names.
const (
	CheckRuntime        = "runtime_version"
	CheckPackageManager = "package_manager_version"
	CheckInvoker        = "invoker"
	CheckToolchain      = "toolchain"
	CheckSpectre        = "spectre"
	CheckHeaders        = "headers"
)

// CheckResult holds the result of a single preflight check.
type CheckResult struct {
	Name     string      `json:"name"`
	Status   CheckStatus `json:"status"`
	Message  string      `json:"message"`
	Details  string      `json:"details,omitempty"`
	Code     string      `json:"code,omitempty"`
	Required bool        `json:"required"`
}

// IsCritical returns true if this is a required check that failed.
func (r CheckResult) IsCritical() bool {
	return r.Required && r.Status == StatusFail
}

// Report is the outcome of a full Run.
type Report struct {
	Results   []CheckResult           `json:"results"`
	Toolchain *toolchain.Installation `json:"toolchain,omitempty"`
	Headers   *headers.Report         `json:"headers,omitempty"`
}

// Checker performs preflight validation checks.
type Checker struct {
	verbose   bool
	output    io.Writer
	runner    runner.Runner
	goos      string
	lookupEnv func(string) (string, bool)
	cfg       *config.Config
	locator   *toolchain.Locator
	installer *headers.Installer
}

// Option configures a Checker.
type Option func(*Checker)

// WithVerbose also prints passing checks while running.
func WithVerbose(verbose bool) Option {
	return func(c *Checker) {
		c.verbose = verbose
	}
}

// WithOutput sets where check messages are written (stderr by default).
func WithOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.output = w
	}
}

// WithRunner sets the process runner used for version queries and tools.
func WithRunner(r runner.Runner) Option {
	return func(c *Checker) {
		c.runner = r
	}
}

// WithGOOS overrides the host platform.
func WithGOOS(goos string) Option {
	return func(c *Checker) {
		c.goos = goos
	}
}

// WithLookupEnv overrides environment lookups.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(c *Checker) {
		c.lookupEnv = lookup
	}
}

// WithConfig sets version bounds, search order and header paths.
func WithConfig(cfg *config.Config) Option {
	return func(c *Checker) {
		c.cfg = cfg
	}
}

// WithLocator overrides the Visual Studio locator.
func WithLocator(l *toolchain.Locator) Option {
	return func(c *Checker) {
		c.locator = l
	}
}

// WithInstaller overrides the header installer built from the config.
func WithInstaller(i *headers.Installer) Option {
	return func(c *Checker) {
		c.installer = i
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		output:    os.Stderr,
		runner:    runner.ExecRunner{},
		goos:      runtime.GOOS,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg == nil {
		c.cfg = config.NewConfig()
	}
	if c.locator == nil {
		c.locator = c.cfg.Locator()
	}
	return c
}

// RunAll runs the validation checks (versions, invoker and, on Windows,
// the toolchain) without changing anything on the machine.
func (c *Checker) RunAll(ctx context.Context) []CheckResult {
	results, _ := c.validate(ctx, nil)
	return results
}

// Run performs the whole preinstall flow rooted at root, printing each
// problem as it is found. Validation failures are accumulated in the
// report; an error is returned only when header installation aborts.
func (c *Checker) Run(ctx context.Context, root string) (Report, error) {
	var report Report
	out := output.New(c.output)

	report.Results, report.Toolchain = c.validate(ctx, out)

	if c.goos != "windows" {
		return report, nil
	}

	if report.Toolchain != nil {
		res := c.CheckSpectre(ctx, *report.Toolchain)
		c.emit(out, res)
		report.Results = append(report.Results, res)
	}

	if c.HasCriticalFailures(report.Results) {
		slog.Info("skipping header installation after failed checks")
		return report, nil
	}

	res, hdr, err := c.CheckHeaders(ctx, root)
	report.Headers = hdr
	if err != nil {
		return report, err
	}
	c.emit(out, res)
	report.Results = append(report.Results, res)

	return report, nil
}

func (c *Checker) validate(ctx context.Context, out *output.Writer) ([]CheckResult, *toolchain.Installation) {
	var results []CheckResult
	add := func(r CheckResult) {
		slog.Debug("check complete",
			slog.String("check", r.Name),
			slog.String("status", r.Status.String()),
			slog.String("message", r.Message))
		if out != nil {
			c.emit(out, r)
		}
		results = append(results, r)
	}

	add(c.CheckRuntime(ctx))
	add(c.CheckPackageManager(ctx))
	add(c.CheckInvoker())

	var inst *toolchain.Installation
	if c.goos == "windows" {
		r, found := c.CheckToolchain()
		add(r)
		inst = found
	}
	return results, inst
}

func (c *Checker) emit(out *output.Writer, r CheckResult) {
	switch {
	case r.Status == StatusFail:
		out.Error(r.Message)
	case r.Status == StatusWarn:
		out.Warning(r.Message)
	case c.verbose:
		out.Success(r.Message)
	}
	if c.verbose && r.Details != "" {
		out.Status("", r.Details)
	}
}

// HasCriticalFailures returns true if any required check failed.
func (c *Checker) HasCriticalFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.IsCritical() {
			return true
		}
	}
	return false
}

// SummaryStatus returns "ready", "ready_with_warnings" or "failed".
func (c *Checker) SummaryStatus(results []CheckResult) string {
	hasWarnings := false
	hasCriticalFailure := false

	for _, r := range results {
		if r.IsCritical() {
			hasCriticalFailure = true
		}
		if r.Status == StatusWarn || (r.Status == StatusFail && !r.Required) {
			hasWarnings = true
		}
	}

	if hasCriticalFailure {
		return "failed"
	}
	if hasWarnings {
		return "ready_with_warnings"
	}
	return "ready"
}

// PrintResults prints a PASS/WARN/FAIL report to w.
func (c *Checker) PrintResults(w io.Writer, results []CheckResult) {
	out := output.New(w)
	out.Header("Preinstall Check")
	out.Newline()

	for _, r := range results {
		line := fmt.Sprintf("[%s] %s: %s", r.Status, r.Name, r.Message)
		switch {
		case r.IsCritical():
			out.Error(line)
		case r.Status != StatusPass:
			out.Warning(line)
		default:
			out.Success(line)
		}
		if c.verbose && r.Details != "" {
			out.Status("   ", out.Label(r.Details))
		}
	}

	out.Newline()
	_, _ = fmt.Fprintf(w, "Status: %s\n", strings.ToUpper(c.SummaryStatus(results)))

	var warnings, errors []string
	for _, r := range results {
		if r.IsCritical() {
			errors = append(errors, r.Name+": "+r.Message)
		} else if r.Status != StatusPass {
			warnings = append(warnings, r.Name+": "+r.Message)
		}
	}

	if len(errors) > 0 {
		out.Newline()
		_, _ = fmt.Fprintf(w, "%d error(s):\n", len(errors))
		for _, e := range errors {
			_, _ = fmt.Fprintf(w, "  - %s\n", e)
		}
	}

	if len(warnings) > 0 {
		out.Newline()
		_, _ = fmt.Fprintf(w, "%d warning(s):\n", len(warnings))
		for _, e := range warnings {
			_, _ = fmt.Fprintf(w, "  - %s\n", e)
		}
	}
}

// shim returns the name of an npm-installed command for the host platform.
func (c *Checker) shim(name string) string {
	if c.goos == "windows" {
		return name + ".cmd"
	}
	return name
}
