// Package cmd provides the CLI commands for preinstall.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/preinstall/internal/config"
	perrors "github.com/Aman-CERP/preinstall/internal/errors"
	"github.com/Aman-CERP/preinstall/internal/logging"
	"github.com/Aman-CERP/preinstall/internal/preflight"
	"github.com/Aman-CERP/preinstall/pkg/version"
)

// ErrChecksFailed is returned when a required check failed. The failing
// checks have already been reported by the time it is returned.
var ErrChecksFailed = errors.New("preinstall checks failed")

// Persistent flags
var (
	debugMode      bool
	rootDir        string
	loggingCleanup func()
)

// checkerOptions are appended to every Checker the commands build.
var checkerOptions []preflight.Option

// NewRootCmd creates the root command for the preinstall CLI.
func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "preinstall",
		Short: "Validate the build environment before yarn installs dependencies",
		Long: `preinstall runs as the repository's yarn preinstall hook.

It checks that:
  - node.js is new enough (and warns on untested majors)
  - yarn 1.x is installed and is the client running the install
  - on Windows, a supported Visual Studio toolchain is present

On Windows it then enables Spectre-mitigated libraries and installs any
missing node-gyp headers pinned in .yarnrc and remote/.yarnrc.

Every problem is printed; the command exits 1 if any required check failed.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runPreinstall(cmd, verbose)
		},
	}

	cmd.SetVersionTemplate("preinstall version {{.Version}}\n")

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print passing checks")
	cmd.PersistentFlags().StringVar(&rootDir, "root", "", "Workspace root (default: nearest directory with .git)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.preinstall/logs/")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newToolchainCmd())
	cmd.AddCommand(newHeadersCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging sends debug logs to the rotating file when --debug is set and
// otherwise keeps only warnings, on stderr.
func startLogging(cmd *cobra.Command, _ []string) error {
	if !debugMode {
		logging.SetupQuiet(cmd.ErrOrStderr())
		return nil
	}

	cleanup, err := logging.SetupDefault("debug")
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.Info("Debug logging enabled",
		slog.String("log_file", logging.DefaultLogPath()),
		slog.String("version", version.Short()),
		slog.String("command", cmd.CommandPath()))
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		slog.Info("Debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// workspace resolves the workspace root and its merged configuration.
func workspace() (string, *config.Config, error) {
	var root string
	if rootDir != "" {
		abs, err := filepath.Abs(rootDir)
		if err != nil {
			return "", nil, fmt.Errorf("failed to resolve --root: %w", err)
		}
		root = abs
	} else {
		found, err := config.FindProjectRoot(".")
		if err != nil {
			return "", nil, err
		}
		root = found
	}

	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, perrors.New(perrors.ErrCodeConfigRead, "failed to load configuration", err).
			WithDetail("root", root)
	}
	if err := cfg.Validate(); err != nil {
		return "", nil, perrors.ConfigError(err.Error(), err)
	}
	return root, cfg, nil
}

func newChecker(cmd *cobra.Command, cfg *config.Config, verbose bool) *preflight.Checker {
	opts := []preflight.Option{
		preflight.WithConfig(cfg),
		preflight.WithVerbose(verbose),
		preflight.WithOutput(cmd.ErrOrStderr()),
	}
	return preflight.New(append(opts, checkerOptions...)...)
}

// signalContext cancels on Ctrl+C so running child processes are stopped.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// runPreinstall is the hook flow: validate, then prepare native builds.
func runPreinstall(cmd *cobra.Command, verbose bool) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	root, cfg, err := workspace()
	if err != nil {
		return err
	}
	slog.Debug("preinstall starting", slog.String("root", root))

	checker := newChecker(cmd, cfg, verbose)
	report, err := checker.Run(ctx, root)
	if err != nil {
		slog.Error("preinstall aborted", perrors.LogAttrs(err)...)
		return err
	}

	if checker.HasCriticalFailures(report.Results) {
		slog.Debug("preinstall failed", slog.String("status", checker.SummaryStatus(report.Results)))
		_ = preflight.ClearMarker(preflight.MarkerDir(root))
		return ErrChecksFailed
	}

	if err := preflight.MarkPassed(preflight.MarkerDir(root)); err != nil {
		slog.Debug("Failed to mark preinstall as passed", slog.String("error", err.Error()))
	}
	return nil
}
