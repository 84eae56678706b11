package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/preinstall/internal/headers"
	"github.com/Aman-CERP/preinstall/internal/semver"
	"github.com/Aman-CERP/preinstall/internal/toolchain"
)

// ProjectConfigName is the project-level configuration file.
const ProjectConfigName = ".preinstall.yaml"

// Config represents the complete preinstall configuration.
type Config struct {
	Version        int                  `yaml:"version" json:"version"`
	Runtime        RuntimeConfig        `yaml:"runtime" json:"runtime"`
	PackageManager PackageManagerConfig `yaml:"package_manager" json:"package_manager"`
	Toolchain      ToolchainConfig      `yaml:"toolchain" json:"toolchain"`
	Headers        HeadersConfig        `yaml:"headers" json:"headers"`
	Log            LogConfig            `yaml:"log" json:"log"`
}

// RuntimeConfig bounds the node.js version.
type RuntimeConfig struct {
	// Minimum is the oldest accepted node version (inclusive).
	Minimum string `yaml:"minimum" json:"minimum"`
	// UntestedMajor is the first major version that triggers the untested
	// warning. Zero disables the warning.
	UntestedMajor int `yaml:"untested_major" json:"untested_major"`
}

// PackageManagerConfig bounds the yarn version to [Minimum, Maximum).
type PackageManagerConfig struct {
	Minimum string `yaml:"minimum" json:"minimum"`
	Maximum string `yaml:"maximum" json:"maximum"`
}

// ToolchainConfig overrides the Visual Studio search order.
type ToolchainConfig struct {
	Versions []string `yaml:"versions" json:"versions"`
	Editions []string `yaml:"editions" json:"editions"`
}

// HeadersConfig locates the header manager and rc files. Relative paths are
// resolved against the workspace root.
type HeadersConfig struct {
	ManagerDir string `yaml:"manager_dir" json:"manager_dir"`
	LocalRC    string `yaml:"local_rc" json:"local_rc"`
	RemoteRC   string `yaml:"remote_rc" json:"remote_rc"`
}

// LogConfig configures file logging.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Runtime: RuntimeConfig{
			Minimum:       "16.14.0",
			UntestedMajor: 17,
		},
		PackageManager: PackageManagerConfig{
			Minimum: "1.10.1",
			Maximum: "2.0.0",
		},
		Toolchain: ToolchainConfig{
			Versions: append([]string(nil), toolchain.SupportedVersions...),
			Editions: append([]string(nil), toolchain.Editions...),
		},
		Headers: HeadersConfig{
			ManagerDir: filepath.Join("build", "npm", "gyp"),
			LocalRC:    ".yarnrc",
			RemoteRC:   filepath.Join("remote", ".yarnrc"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file:
// $XDG_CONFIG_HOME/preinstall/config.yaml or ~/.config/preinstall/config.yaml.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "preinstall", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "preinstall", "config.yaml")
	}
	return filepath.Join(home, ".config", "preinstall", "config.yaml")
}

// loadUserConfig returns nil, nil when there is no user config.
func loadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}

	var cfg Config
	if err := readYAML(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", configPath, err)
	}
	return &cfg, nil
}

// Load loads configuration for the workspace at dir. Precedence, lowest
// first:
//  1. Hardcoded defaults
//  2. User config (~/.config/preinstall/config.yaml)
//  3. Project config (.preinstall.yaml in dir)
//  4. Environment variables (PREINSTALL_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := loadUserConfig(); err != nil {
		return nil, err
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadFromFile merges .preinstall.yaml, or .preinstall.yml as a fallback.
func (c *Config) loadFromFile(dir string) error {
	for _, name := range []string{ProjectConfigName, ".preinstall.yml"} {
		path := filepath.Join(dir, name)
		if !fileExists(path) {
			continue
		}
		var parsed Config
		if err := readYAML(path, &parsed); err != nil {
			return err
		}
		c.mergeWith(&parsed)
		return nil
	}
	return nil
}

func readYAML(path string, into *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := ValidateSchema(data); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Runtime.Minimum != "" {
		c.Runtime.Minimum = other.Runtime.Minimum
	}
	if other.Runtime.UntestedMajor != 0 {
		c.Runtime.UntestedMajor = other.Runtime.UntestedMajor
	}

	if other.PackageManager.Minimum != "" {
		c.PackageManager.Minimum = other.PackageManager.Minimum
	}
	if other.PackageManager.Maximum != "" {
		c.PackageManager.Maximum = other.PackageManager.Maximum
	}

	if len(other.Toolchain.Versions) > 0 {
		c.Toolchain.Versions = other.Toolchain.Versions
	}
	if len(other.Toolchain.Editions) > 0 {
		c.Toolchain.Editions = other.Toolchain.Editions
	}

	if other.Headers.ManagerDir != "" {
		c.Headers.ManagerDir = other.Headers.ManagerDir
	}
	if other.Headers.LocalRC != "" {
		c.Headers.LocalRC = other.Headers.LocalRC
	}
	if other.Headers.RemoteRC != "" {
		c.Headers.RemoteRC = other.Headers.RemoteRC
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}

// applyEnvOverrides applies PREINSTALL_* environment variable overrides.
func (c *Config) applyEnvOverrides(lookupEnv func(string) (string, bool)) {
	get := func(key string) string {
		v, _ := lookupEnv(key)
		return strings.TrimSpace(v)
	}

	if v := get("PREINSTALL_RUNTIME_MINIMUM"); v != "" {
		c.Runtime.Minimum = v
	}
	if v := get("PREINSTALL_RUNTIME_UNTESTED_MAJOR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Runtime.UntestedMajor = n
		}
	}
	if v := get("PREINSTALL_PACKAGE_MANAGER_MINIMUM"); v != "" {
		c.PackageManager.Minimum = v
	}
	if v := get("PREINSTALL_PACKAGE_MANAGER_MAXIMUM"); v != "" {
		c.PackageManager.Maximum = v
	}
	if v := get("PREINSTALL_TOOLCHAIN_VERSIONS"); v != "" {
		c.Toolchain.Versions = splitList(v)
	}
	if v := get("PREINSTALL_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RuntimeMinimum returns the parsed node.js floor.
func (c *Config) RuntimeMinimum() (semver.Version, error) {
	return semver.Parse(c.Runtime.Minimum)
}

// RuntimeRange returns the accepted node.js range, e.g. ">= 16.14.0". The
// untested major only warns, so it is not part of the range.
func (c *Config) RuntimeRange() (semver.Range, error) {
	minV, err := c.RuntimeMinimum()
	if err != nil {
		return semver.Range{}, fmt.Errorf("runtime.minimum: %w", err)
	}
	r := semver.Range{Min: minV}
	if _, err := r.Constraints(); err != nil {
		return semver.Range{}, fmt.Errorf("runtime.minimum: %w", err)
	}
	return r, nil
}

// PackageManagerRange returns the accepted yarn range, e.g.
// ">= 1.10.1, < 2.0.0".
func (c *Config) PackageManagerRange() (semver.Range, error) {
	minV, err := semver.Parse(c.PackageManager.Minimum)
	if err != nil {
		return semver.Range{}, fmt.Errorf("package_manager.minimum: %w", err)
	}
	var maxV semver.Version
	if c.PackageManager.Maximum != "" {
		if maxV, err = semver.Parse(c.PackageManager.Maximum); err != nil {
			return semver.Range{}, fmt.Errorf("package_manager.maximum: %w", err)
		}
	}
	r := semver.Range{Min: minV, Max: maxV}
	if _, err := r.Constraints(); err != nil {
		return semver.Range{}, fmt.Errorf("package_manager: %w", err)
	}
	return r, nil
}

// Locator returns a toolchain locator honoring the configured search order.
func (c *Config) Locator() *toolchain.Locator {
	l := toolchain.NewLocator()
	l.Versions = c.Toolchain.Versions
	l.Editions = c.Toolchain.Editions
	return l
}

// HeadersLayout resolves the header paths against root.
func (c *Config) HeadersLayout(root string) headers.Layout {
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	return headers.Layout{
		ManagerDir: resolve(c.Headers.ManagerDir),
		LocalRC:    resolve(c.Headers.LocalRC),
		RemoteRC:   resolve(c.Headers.RemoteRC),
		LockDir:    filepath.Join(root, headers.StateDir),
	}
}

// FindProjectRoot walks up from startDir looking for a .git entry (a
// directory, or the gitdir file of a submodule or worktree) or a
// .preinstall.yaml/.yml file. It returns startDir (made absolute) when
// neither is found.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		if pathExists(filepath.Join(currentDir, ".git")) {
			return currentDir, nil
		}
		if fileExists(filepath.Join(currentDir, ProjectConfigName)) ||
			fileExists(filepath.Join(currentDir, ".preinstall.yml")) {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if _, err := c.RuntimeRange(); err != nil {
		return err
	}
	if c.Runtime.UntestedMajor < 0 {
		return fmt.Errorf("runtime.untested_major must be non-negative, got %d", c.Runtime.UntestedMajor)
	}

	r, err := c.PackageManagerRange()
	if err != nil {
		return err
	}
	if !r.Max.IsZero() && !r.Min.Less(r.Max) {
		return fmt.Errorf("package_manager.minimum %s must be below maximum %s", r.Min, r.Max)
	}

	if len(c.Toolchain.Versions) == 0 {
		return fmt.Errorf("toolchain.versions must not be empty")
	}
	if len(c.Toolchain.Editions) == 0 {
		return fmt.Errorf("toolchain.editions must not be empty")
	}

	if c.Headers.ManagerDir == "" || c.Headers.LocalRC == "" || c.Headers.RemoteRC == "" {
		return fmt.Errorf("headers.manager_dir, headers.local_rc and headers.remote_rc must be set")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Log.Level)
	}

	return nil
}
