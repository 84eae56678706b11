// Package toolchain locates a supported Visual Studio C/C++ installation on
// Windows hosts and prepares it for native module builds.
package toolchain

import (
	"os"
	"path/filepath"
)

// SupportedVersions lists Visual Studio releases, newest first.
var SupportedVersions = []string{"2022", "2019", "2017"}

// Editions lists Visual Studio editions in preference order. Commercial
// editions come before Community, Preview and the standalone Build Tools.
var Editions = []string{"Enterprise", "Professional", "Community", "Preview", "BuildTools"}

// Source records how an installation was discovered.
type Source string

const (
	// SourceEnv means a vs<version>_install override pointed at the install.
	SourceEnv Source = "env"
	// SourceProgramFiles means the install was found under a Program Files root.
	SourceProgramFiles Source = "program-files"
)

// Installation is a discovered toolchain candidate.
type Installation struct {
	Version string `json:"version"`
	Edition string `json:"edition,omitempty"`
	Path    string `json:"path"`
	Source  Source `json:"source"`
}

// Locator searches the environment and filesystem for Visual Studio.
type Locator struct {
	// Versions and Editions override the package defaults when non-empty.
	Versions []string
	Editions []string

	lookupEnv func(string) (string, bool)
	exists    func(string) bool
}

// NewLocator returns a Locator backed by the real environment and filesystem.
func NewLocator() *Locator {
	return &Locator{
		lookupEnv: os.LookupEnv,
		exists:    pathExists,
	}
}

// NewLocatorWith returns a Locator using the given lookups, for tests and for
// diagnosing another machine's environment.
func NewLocatorWith(lookupEnv func(string) (string, bool), exists func(string) bool) *Locator {
	l := NewLocator()
	if lookupEnv != nil {
		l.lookupEnv = lookupEnv
	}
	if exists != nil {
		l.exists = exists
	}
	return l
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// SearchOrder returns the Visual Studio versions FindSupportedVersion
// tries, newest first.
func (l *Locator) SearchOrder() []string {
	if len(l.Versions) > 0 {
		return l.Versions
	}
	return SupportedVersions
}

func (l *Locator) editions() []string {
	if len(l.Editions) > 0 {
		return l.Editions
	}
	return Editions
}

// FindSupportedVersion returns the newest supported installation.
func (l *Locator) FindSupportedVersion() (Installation, bool) {
	for _, version := range l.SearchOrder() {
		if inst, ok := l.FindAvailablePath(version); ok {
			return inst, true
		}
	}
	return Installation{}, false
}

// FindAvailablePath looks for a single Visual Studio version. The
// vs<version>_install variable wins when it names an existing path; otherwise
// the 64-bit and then 32-bit Program Files roots are searched edition by edition.
func (l *Locator) FindAvailablePath(version string) (Installation, bool) {
	if p, ok := l.lookupEnv("vs" + version + "_install"); ok && p != "" && l.exists(p) {
		return Installation{Version: version, Path: p, Source: SourceEnv}, true
	}

	for _, rootVar := range []string{"ProgramFiles", "ProgramFiles(x86)"} {
		root, ok := l.lookupEnv(rootVar)
		if !ok || root == "" {
			continue
		}
		base := filepath.Join(root, "Microsoft Visual Studio", version)
		for _, edition := range l.editions() {
			candidate := filepath.Join(base, edition)
			if l.exists(candidate) {
				return Installation{
					Version: version,
					Edition: edition,
					Path:    candidate,
					Source:  SourceProgramFiles,
				}, true
			}
		}
	}
	return Installation{}, false
}
