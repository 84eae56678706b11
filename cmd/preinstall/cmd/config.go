package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/preinstall/configs"
	"github.com/Aman-CERP/preinstall/internal/config"
	"github.com/Aman-CERP/preinstall/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage preinstall configuration",
		Long: `Manage the version bounds, toolchain search order and header paths
used by preinstall.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/preinstall/config.yaml)
  3. Project config (.preinstall.yaml in the workspace root)
  4. Environment variables (PREINSTALL_*)`,
		Example: `  # Create a project config from the template
  preinstall config init

  # Show effective configuration (merged from all sources)
  preinstall config show

  # Print config file paths
  preinstall config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force bool
		user  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file from the template",
		Long: `Write the commented configuration template.

By default the file is .preinstall.yaml in the workspace root. With --user
it is written to ~/.config/preinstall/config.yaml (or
$XDG_CONFIG_HOME/preinstall/config.yaml).

An existing file is left alone unless --force is given, in which case it is
backed up first.`,
		Example: `  # Create project config
  preinstall config init

  # Create user config
  preinstall config init --user

  # Replace existing config, keeping a backup
  preinstall config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, user, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration (a backup is kept)")
	cmd.Flags().BoolVar(&user, "user", false, "Write the user config instead of the project config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		jsonOutput bool
		source     string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the effective configuration after merging all sources.

--source selects what to show:
  merged    defaults + user + project + environment (default)
  defaults  hardcoded defaults only`,
		Example: `  # Show merged configuration
  preinstall config show

  # Show as JSON
  preinstall config show --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, jsonOutput, source)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, defaults")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print config file paths",
		Long:  `Print the user config path, then the project config path.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := workspaceRoot()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(root, config.ProjectConfigName))
			return nil
		},
	}
}

// workspaceRoot resolves --root without loading configuration.
func workspaceRoot() (string, error) {
	if rootDir != "" {
		return filepath.Abs(rootDir)
	}
	return config.FindProjectRoot(".")
}

func runConfigInit(cmd *cobra.Command, user, force bool) error {
	out := output.New(cmd.OutOrStdout())

	configPath := config.GetUserConfigPath()
	if !user {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		configPath = filepath.Join(root, config.ProjectConfigName)
	}

	if _, err := os.Stat(configPath); err == nil {
		if !force {
			out.Warningf("Configuration already exists: %s", configPath)
			out.Newline()
			out.Status("💡", "Use --force to replace it (a backup is kept)")
			return nil
		}

		backupPath, err := config.BackupFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
		out.Statusf("💾", "Backup: %s", backupPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(configs.ConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out.Success("Created configuration")
	out.Statusf("📁", "Location: %s", configPath)
	out.Newline()
	out.Status("📋", "Next steps: uncomment the settings you want to change, then verify with")
	out.Code("preinstall config show")

	return nil
}

func runConfigShow(cmd *cobra.Command, jsonOutput bool, source string) error {
	out := output.New(cmd.OutOrStdout())

	var (
		cfg        *config.Config
		sourceDesc string
	)

	switch source {
	case "merged":
		root, loaded, err := workspace()
		if err != nil {
			return err
		}
		cfg = loaded
		sourceDesc = fmt.Sprintf("merged (defaults + user + project + env) for %s", root)

	case "defaults":
		cfg = config.NewConfig()
		sourceDesc = "defaults (hardcoded)"

	default:
		return fmt.Errorf("invalid source: %s (use: merged, defaults)", source)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out.Statusf("📋", "Configuration source: %s", sourceDesc)
	out.Newline()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))

	return nil
}
