package cmd

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/preinstall/internal/preflight"
)

func TestDoctorCmd_TextReport(t *testing.T) {
	// Given: a healthy host that passed before
	isolate(t)
	root := t.TempDir()
	require.NoError(t, preflight.MarkPassed(preflight.MarkerDir(root)))
	linuxHost(t, "v16.20.2", "1.22.19", "/usr/lib/node_modules/yarn/bin/yarn.js")

	// When: running doctor
	stdout, _, err := execute(t, "doctor", "--root", root)

	// Then: every check is listed
	require.NoError(t, err)
	assert.Contains(t, stdout, "Preinstall Check")
	assert.Contains(t, stdout, "[PASS] runtime_version: node.js 16.20.2")
	assert.Contains(t, stdout, "[PASS] invoker")
	assert.Contains(t, stdout, "Status: READY")
	assert.Contains(t, stdout, "Last successful preinstall: less than 1 hour ago")
}

func TestDoctorCmd_JSONOutput(t *testing.T) {
	isolate(t)
	linuxHost(t, "v16.20.2", "1.9.4", "")

	stdout, _, err := execute(t, "doctor", "--json", "--root", t.TempDir())

	require.ErrorIs(t, err, ErrChecksFailed)

	var out struct {
		Status string `json:"status"`
		Checks []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"checks"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "failed", out.Status)
	require.Len(t, out.Checks, 3)
	assert.Equal(t, "FAIL", out.Checks[1].Status)
	assert.Len(t, out.Errors, 2)
	assert.Contains(t, out.Errors[0], "package_manager_version")
}

func TestDoctorCmd_DoesNotMark(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	linuxHost(t, "v16.20.2", "1.22.19", "/usr/bin/yarnpkg")

	stdout, _, err := execute(t, "doctor", "--root", root)

	require.NoError(t, err)
	assert.True(t, preflight.NeedsCheck(preflight.MarkerDir(root)))
	assert.Contains(t, stdout, "No successful preinstall recorded")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Minute, "less than 1 hour"},
		{90 * time.Minute, "1 hour"},
		{5 * time.Hour, "5 hours"},
		{30 * time.Hour, "1 day"},
		{240 * time.Hour, "10 days"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}
