package cmd

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Aman-CERP/preinstall/internal/preflight"
	"github.com/Aman-CERP/preinstall/internal/runner"
)

type reply struct {
	out  string
	code int
	err  error
}

// scriptedRunner answers commands keyed by "<base name> <first arg>".
type scriptedRunner struct {
	replies map[string]reply
	calls   []string
}

func (s *scriptedRunner) Run(_ context.Context, name string, args []string, opts runner.Options) (runner.Result, error) {
	key := filepath.Base(name)
	if len(args) > 0 {
		key += " " + args[0]
	}
	s.calls = append(s.calls, key)

	r, ok := s.replies[key]
	if !ok {
		return runner.Result{ExitCode: -1}, fmt.Errorf("unexpected command %q", key)
	}
	if opts.Stdout != nil && r.out != "" {
		_, _ = opts.Stdout.Write([]byte(r.out))
	}
	return runner.Result{Stdout: []byte(r.out), ExitCode: r.code}, r.err
}

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

// isolate keeps user config and PREINSTALL_* settings of the host out of
// the test.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, k := range []string{
		"PREINSTALL_RUNTIME_MINIMUM",
		"PREINSTALL_RUNTIME_UNTESTED_MAJOR",
		"PREINSTALL_PACKAGE_MANAGER_MINIMUM",
		"PREINSTALL_PACKAGE_MANAGER_MAXIMUM",
		"PREINSTALL_TOOLCHAIN_VERSIONS",
		"PREINSTALL_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

// useChecker makes every command build its Checker with opts.
func useChecker(t *testing.T, opts ...preflight.Option) {
	t.Helper()
	checkerOptions = opts
	t.Cleanup(func() { checkerOptions = nil })
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
