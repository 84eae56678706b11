package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Aman-CERP/preinstall/internal/headers"
)

// MarkerFile records the time of the last fully successful run.
const MarkerFile = ".preflight-passed"

// MarkerDir returns the directory holding the marker for root.
func MarkerDir(root string) string {
	return filepath.Join(root, headers.StateDir)
}

// NeedsCheck reports whether no successful run has been recorded in dir.
func NeedsCheck(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, MarkerFile))
	return os.IsNotExist(err)
}

// MarkPassed writes the current time to the marker file, creating dir.
func MarkPassed(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create marker directory: %w", err)
	}
	content := []byte(time.Now().UTC().Format(time.RFC3339))
	return os.WriteFile(filepath.Join(dir, MarkerFile), content, 0o644)
}

// ClearMarker removes the marker. A missing marker is not an error.
func ClearMarker(dir string) error {
	err := os.Remove(filepath.Join(dir, MarkerFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove marker file: %w", err)
	}
	return nil
}

// MarkerAge returns how long ago the last successful run finished, or zero
// when there is no readable marker.
func MarkerAge(dir string) time.Duration {
	content, err := os.ReadFile(filepath.Join(dir, MarkerFile))
	if err != nil {
		return 0
	}
	t, err := time.Parse(time.RFC3339, string(content))
	if err != nil {
		return 0
	}
	return time.Since(t)
}
