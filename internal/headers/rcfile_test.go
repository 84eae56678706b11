package headers

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *Spec
	}{
		{
			name:    "lf endings",
			content: "disturl \"https://example/dist\"\ntarget \"12.3.4\"\n",
			want:    &Spec{DistURL: "https://example/dist", Target: "12.3.4"},
		},
		{
			name:    "crlf endings",
			content: "disturl \"https://example/dist\"\r\ntarget \"12.3.4\"\r\n",
			want:    &Spec{DistURL: "https://example/dist", Target: "12.3.4"},
		},
		{
			name:    "lone cr endings",
			content: "target \"12.3.4\"\rdisturl \"https://example/dist\"",
			want:    &Spec{DistURL: "https://example/dist", Target: "12.3.4"},
		},
		{
			name:    "reverse order",
			content: "target \"12.3.4\"\ndisturl \"https://example/dist\"\n",
			want:    &Spec{DistURL: "https://example/dist", Target: "12.3.4"},
		},
		{
			name:    "surrounding whitespace",
			content: "  disturl   \"https://example/dist\"   \n\ttarget \"12.3.4\"\t\n",
			want:    &Spec{DistURL: "https://example/dist", Target: "12.3.4"},
		},
		{
			name: "realistic yarnrc",
			content: strings.Join([]string{
				`disturl "https://electronjs.org/headers"`,
				`target "22.3.10"`,
				`runtime "electron"`,
				`build_from_source "true"`,
			}, "\n"),
			want: &Spec{DistURL: "https://electronjs.org/headers", Target: "22.3.10"},
		},
		{
			name:    "last occurrence wins",
			content: "target \"1.0.0\"\ndisturl \"https://a\"\ntarget \"2.0.0\"\n",
			want:    &Spec{DistURL: "https://a", Target: "2.0.0"},
		},
		{
			name:    "missing target",
			content: "disturl \"https://example/dist\"\n",
			want:    nil,
		},
		{
			name:    "missing disturl",
			content: "target \"12.3.4\"\n",
			want:    nil,
		},
		{
			name:    "unquoted value ignored",
			content: "disturl https://example/dist\ntarget \"12.3.4\"\n",
			want:    nil,
		},
		{
			name:    "empty file",
			content: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSpec(strings.NewReader(tt.content))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadSpec_MissingFileIsAbsent(t *testing.T) {
	// Given: a path that does not exist
	path := filepath.Join(t.TempDir(), "remote", ".yarnrc")

	// When: reading it
	spec, err := ReadSpec(path)

	// Then: no header target and no error
	require.NoError(t, err)
	assert.Nil(t, spec)
}

func TestReadSpec_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".yarnrc")
	require.NoError(t, os.WriteFile(path, []byte("disturl \"https://example/dist\"\r\ntarget \"12.3.4\"\r\n"), 0o644))

	spec, err := ReadSpec(path)

	require.NoError(t, err)
	require.NotNil(t, spec)
	assert.Equal(t, Spec{DistURL: "https://example/dist", Target: "12.3.4"}, *spec)
}

func TestReadSpec_UnreadableIsError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory read semantics differ on windows")
	}

	// Given: a directory where a file is expected
	path := filepath.Join(t.TempDir(), ".yarnrc")
	require.NoError(t, os.Mkdir(path, 0o755))

	_, err := ReadSpec(path)

	assert.Error(t, err)
}

func TestQuotedValue(t *testing.T) {
	v, ok := quotedValue(`npm_config_disturl "x"`, "disturl")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = quotedValue(`target "x" # pinned`, "target")
	assert.False(t, ok)

	v, ok = quotedValue(`target ""`, "target")
	assert.True(t, ok)
	assert.Empty(t, v)
}
