package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "empty", yaml: ""},
		{name: "comments only", yaml: "# nothing here\n"},
		{name: "full", yaml: `
version: 1
runtime:
  minimum: 16.14.0
  untested_major: 17
package_manager:
  minimum: "1.10.1"
  maximum: 2.0
toolchain:
  versions: [2022, "2019"]
  editions: [Community]
headers:
  manager_dir: build/npm/gyp
  local_rc: .yarnrc
  remote_rc: remote/.yarnrc
log:
  level: debug
`},
		{name: "misspelled key", yaml: "runtime:\n  untested_majr: 18\n", wantErr: "/runtime"},
		{name: "unknown section", yaml: "node:\n  minimum: 16.0.0\n", wantErr: "node"},
		{name: "negative major", yaml: "runtime:\n  untested_major: -1\n", wantErr: "/runtime/untested_major"},
		{name: "wrong type", yaml: "toolchain:\n  editions: Community\n", wantErr: "/toolchain/editions"},
		{name: "not a mapping", yaml: "- a\n- b\n", wantErr: "schema violation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchema([]byte(tt.yaml))

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectConfigName), "headers:\n  local_rcfile: .yarnrc\n")

	_, err := Load(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ProjectConfigName)
	assert.Contains(t, err.Error(), "schema violation")
}
