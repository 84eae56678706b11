// Package runner executes external tools (node, yarn, node-gyp, VsDevCmd)
// behind an interface so checks can be exercised without a real toolchain.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Options configures a single invocation.
type Options struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
	// Stdout and Stderr receive a live copy of the output when set.
	Stdout io.Writer
	Stderr io.Writer
}

// Result holds captured output and the exit status of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Output returns trimmed stdout as a string.
func (r Result) Output() string {
	return strings.TrimSpace(string(r.Stdout))
}

// Runner runs a command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args []string, opts Options) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run starts name with args and blocks until it exits. A nonzero exit is
// reported both in Result.ExitCode and as an *exec.ExitError.
func (ExecRunner) Run(ctx context.Context, name string, args []string, opts Options) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer

	stdoutWriter := io.Writer(&stdoutBuf)
	if opts.Stdout != nil {
		stdoutWriter = io.MultiWriter(&stdoutBuf, opts.Stdout)
	}
	stderrWriter := io.Writer(&stderrBuf)
	if opts.Stderr != nil {
		stderrWriter = io.MultiWriter(&stderrBuf, opts.Stderr)
	}
	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter

	err := cmd.Run()
	res := Result{Stdout: stdoutBuf.Bytes(), Stderr: stderrBuf.Bytes()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	}
	return res, err
}

var _ Runner = ExecRunner{}

// ExitError reports a process that ran to completion with a nonzero
// status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Check folds a nonzero exit status into the error so callers handle a
// single failure path. An error from the runner itself is returned as is.
//
//	res, err := runner.Check(r.Run(ctx, "yarn", []string{"-v"}, runner.Options{}))
func Check(res Result, err error) (Result, error) {
	if err == nil && res.ExitCode != 0 {
		err = &ExitError{Code: res.ExitCode}
	}
	return res, err
}
