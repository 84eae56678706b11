package headers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	perrors "github.com/Aman-CERP/preinstall/internal/errors"
	"github.com/Aman-CERP/preinstall/internal/runner"
)

// Scope distinguishes the desktop and remote-server header targets.
type Scope string

const (
	ScopeLocal  Scope = "local"
	ScopeRemote Scope = "remote"
)

// StateDir is the workspace directory for generated state, shared with the
// preinstall pass marker.
const StateDir = ".build"

// Layout locates the header manager and the two rc files inside a workspace.
type Layout struct {
	// ManagerDir holds the package.json that pins node-gyp. It must exist.
	ManagerDir string
	LocalRC    string
	RemoteRC   string
	// LockDir receives the installation lock file.
	LockDir string
}

// DefaultLayout returns the conventional locations under root.
func DefaultLayout(root string) Layout {
	return Layout{
		ManagerDir: filepath.Join(root, "build", "npm", "gyp"),
		LocalRC:    filepath.Join(root, ".yarnrc"),
		RemoteRC:   filepath.Join(root, "remote", ".yarnrc"),
		LockDir:    filepath.Join(root, StateDir),
	}
}

// Target is a header spec bound to its scope.
type Target struct {
	Scope Scope `json:"scope"`
	Spec  Spec  `json:"spec"`
}

// Report describes what Run found and did.
type Report struct {
	Installed VersionSet `json:"installed"`
	Local     *Spec      `json:"local,omitempty"`
	Remote    *Spec      `json:"remote,omitempty"`
	Performed []Target   `json:"performed,omitempty"`
	Skipped   []Target   `json:"skipped,omitempty"`
}

// Installer drives node-gyp to fetch missing headers.
type Installer struct {
	runner runner.Runner
	layout Layout
	goos   string
	stdout io.Writer
	stderr io.Writer
}

// Option configures an Installer.
type Option func(*Installer)

// WithGOOS overrides the host platform used for executable names.
func WithGOOS(goos string) Option {
	return func(i *Installer) {
		i.goos = goos
	}
}

// WithOutput sets where the manager install streams its output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(i *Installer) {
		i.stdout = stdout
		i.stderr = stderr
	}
}

// NewInstaller creates an Installer for layout.
func NewInstaller(r runner.Runner, layout Layout, opts ...Option) *Installer {
	i := &Installer{
		runner: r,
		layout: layout,
		goos:   runtime.GOOS,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.layout.LockDir == "" {
		i.layout.LockDir = filepath.Join(filepath.Dir(i.layout.LocalRC), StateDir)
	}
	return i
}

func (i *Installer) yarn() string {
	if i.goos == "windows" {
		return "yarn.cmd"
	}
	return "yarn"
}

// NodeGyp returns the path of the node-gyp shim installed by the manager.
func (i *Installer) NodeGyp() string {
	name := "node-gyp"
	if i.goos == "windows" {
		name += ".cmd"
	}
	return filepath.Join(i.layout.ManagerDir, "node_modules", ".bin", name)
}

// Run installs node-gyp, lists cached headers and installs each pinned
// target that is missing. A failed manager install is returned with code
// ErrCodeManagerInstall; every other error is fatal to the run.
func (i *Installer) Run(ctx context.Context) (Report, error) {
	var report Report

	release, err := acquireLock(ctx, i.layout.LockDir)
	if err != nil {
		return report, perrors.New(perrors.ErrCodeLockFailed, "cannot lock header installation", err).
			WithDetail("dir", i.layout.LockDir).
			WithSuggestion("another yarn install may be running in this workspace; wait for it or remove " +
				filepath.Join(i.layout.LockDir, LockFile))
	}
	defer release()

	if err := i.InstallManager(ctx); err != nil {
		return report, err
	}

	installed, err := i.List(ctx)
	if err != nil {
		return report, err
	}
	report.Installed = installed

	report.Local, err = readRC(i.layout.LocalRC)
	if err != nil {
		return report, err
	}
	report.Remote, err = readRC(i.layout.RemoteRC)
	if err != nil {
		return report, err
	}

	// Local and remote targets are independent; both may be installed.
	for _, t := range []struct {
		scope Scope
		spec  *Spec
	}{
		{ScopeLocal, report.Local},
		{ScopeRemote, report.Remote},
	} {
		if t.spec == nil {
			continue
		}
		target := Target{Scope: t.scope, Spec: *t.spec}
		if installed.Has(t.spec.Target) {
			slog.Debug("headers already installed",
				slog.String("scope", string(t.scope)),
				slog.String("target", t.spec.Target))
			report.Skipped = append(report.Skipped, target)
			continue
		}
		if err := i.Install(ctx, *t.spec); err != nil {
			return report, err
		}
		report.Performed = append(report.Performed, target)
	}

	return report, nil
}

func readRC(path string) (*Spec, error) {
	spec, err := ReadSpec(path)
	if err != nil {
		return nil, perrors.New(perrors.ErrCodeRCFileRead, "cannot read header spec", err).
			WithDetail("path", path)
	}
	if spec == nil {
		slog.Debug("no header spec", slog.String("path", path))
	}
	return spec, nil
}

// InstallManager runs `yarn install` inside the manager directory with
// output streamed to the terminal. A missing manager directory fails the
// same way as a failed install; it is never created.
func (i *Installer) InstallManager(ctx context.Context) error {
	dir := i.layout.ManagerDir
	slog.Info("installing node-gyp", slog.String("dir", dir))

	if err := requireDir(dir); err != nil {
		return perrors.New(perrors.ErrCodeManagerInstall, "Installing node-gyp failed", err).
			WithDetail("dir", dir).
			WithSuggestion("restore " + dir + " (it holds the package.json pinning node-gyp)")
	}

	_, err := runner.Check(i.runner.Run(ctx, i.yarn(), []string{"install"}, runner.Options{
		Dir:    dir,
		Stdout: i.stdout,
		Stderr: i.stderr,
	}))
	if err != nil {
		return perrors.New(perrors.ErrCodeManagerInstall, "Installing node-gyp failed", err).
			WithDetail("dir", dir)
	}
	return nil
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// List returns the header versions node-gyp already has.
func (i *Installer) List(ctx context.Context) (VersionSet, error) {
	res, err := runner.Check(i.runner.Run(ctx, i.NodeGyp(), []string{"list"}, runner.Options{}))
	if err != nil {
		return nil, perrors.ProcessError(perrors.ErrCodeHeaderList, "node-gyp list", err)
	}
	return ParseInstalled(string(res.Stdout)), nil
}

// Install fetches the headers for spec.
func (i *Installer) Install(ctx context.Context, spec Spec) error {
	slog.Info("installing headers",
		slog.String("target", spec.Target),
		slog.String("disturl", spec.DistURL))

	args := []string{"install", "--dist-url", spec.DistURL, spec.Target}
	if _, err := runner.Check(i.runner.Run(ctx, i.NodeGyp(), args, runner.Options{})); err != nil {
		return perrors.ProcessError(perrors.ErrCodeHeaderInstall, "node-gyp install", err).
			WithDetail("target", spec.Target)
	}
	return nil
}
