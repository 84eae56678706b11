package logging

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()

	if filepath.Base(path) != "preinstall.log" {
		t.Errorf("DefaultLogPath should end with preinstall.log, got: %s", path)
	}
	if !strings.Contains(path, ".preinstall") {
		t.Errorf("DefaultLogPath should live under .preinstall, got: %s", path)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got: %s", cfg.Level)
	}
	if cfg.MaxSizeMB != 10 {
		t.Errorf("expected MaxSizeMB 10, got: %d", cfg.MaxSizeMB)
	}
	if cfg.MaxFiles != 5 {
		t.Errorf("expected MaxFiles 5, got: %d", cfg.MaxFiles)
	}
	if cfg.Stderr != nil {
		t.Error("expected no stderr mirror by default")
	}
	if DebugConfig().Level != "debug" {
		t.Error("expected debug level in DebugConfig")
	}
}

func TestSetup_WritesJSON(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "test.log")
	var mirror bytes.Buffer

	logger, cleanup, err := Setup(Config{
		Level:     "debug",
		FilePath:  logPath,
		MaxSizeMB: 1,
		MaxFiles:  3,
		Stderr:    &mirror,
	})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Debug("yarn version", slog.String("version", "1.22.19"))
	cleanup()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	entry := ParseLine(strings.TrimSpace(string(content)))
	if !entry.IsValid || entry.Msg != "yarn version" || entry.Attrs["version"] != "1.22.19" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if !strings.Contains(mirror.String(), "yarn version") {
		t.Error("expected record mirrored to stderr writer")
	}
}

func TestSetupQuiet_DropsInfo(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupQuiet(&buf)
	slog.Info("hidden")
	slog.Warn("VsDevCmd.bat not found")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info record should be filtered")
	}
	if !strings.Contains(buf.String(), "VsDevCmd.bat not found") {
		t.Error("warn record should be written")
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "DEBUG"},
		{"INFO", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"unknown", "INFO"},
	}

	for _, tc := range tests {
		level := LevelFromString(tc.input)
		if level.String() != tc.expected {
			t.Errorf("LevelFromString(%q) = %s, want %s", tc.input, level.String(), tc.expected)
		}
	}
}

func TestFindLogFile_ExplicitPath(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(logPath, []byte("test"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	found, err := FindLogFile(logPath)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if found != logPath {
		t.Errorf("expected %s, got %s", logPath, found)
	}

	if _, err := FindLogFile(logPath + ".missing"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

// ============================================================================
// Writer
// ============================================================================

func newSmallWriter(t *testing.T, name string, maxFiles int) (*RotatingWriter, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), name)
	w, err := NewRotatingWriter(logPath, 1, maxFiles)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	w.maxSize = 1024
	t.Cleanup(func() { _ = w.Close() })
	return w, logPath
}

func TestRotatingWriter_Rotation(t *testing.T) {
	w, logPath := newSmallWriter(t, "rotate.log", 3)
	data := bytes.Repeat([]byte("x"), 800)

	for i := 0; i < 2; i++ {
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	if _, err := os.Stat(logPath); err != nil {
		t.Error("main log file should exist")
	}
	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Error("rotated file .1 should exist")
	}
}

func TestRotatingWriter_MaxFilesLimit(t *testing.T) {
	w, logPath := newSmallWriter(t, "maxfiles.log", 2)
	data := bytes.Repeat([]byte("y"), 800)

	for i := 0; i < 6; i++ {
		_, _ = w.Write(data)
	}

	if _, err := os.Stat(logPath + ".2"); err != nil {
		t.Error("rotated file .2 should exist")
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("rotated file .3 should not exist (beyond maxFiles)")
	}
}

func TestRotatingWriter_WriteAfterClose(t *testing.T) {
	w, _ := newSmallWriter(t, "closed.log", 1)
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := w.Write([]byte("late\n")); err == nil {
		t.Error("expected write after close to fail")
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
}

func TestRotatingWriter_AppendsToExisting(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "append.log")
	if err := os.WriteFile(logPath, []byte("first\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewRotatingWriter(logPath, 1, 2)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	_, _ = w.Write([]byte("second\n"))
	if err := w.Sync(); err != nil {
		t.Errorf("sync failed: %v", err)
	}
	_ = w.Close()

	content, _ := os.ReadFile(logPath)
	if string(content) != "first\nsecond\n" {
		t.Errorf("unexpected content: %q", content)
	}
}

func TestRotatingWriter_ConcurrentWrites(t *testing.T) {
	w, logPath := newSmallWriter(t, "concurrent.log", 3)
	w.maxSize = 10 * 1024 * 1024

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = fmt.Fprintf(w, `{"id":%d,"iter":%d,"msg":"test"}`+"\n", id, j)
			}
		}(i)
	}
	wg.Wait()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file should exist: %v", err)
	}
	if got := strings.Count(string(content), "\n"); got != 500 {
		t.Errorf("expected 500 lines, got %d", got)
	}
}

// ============================================================================
// Viewer
// ============================================================================

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preinstall.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseLine(t *testing.T) {
	entry := ParseLine(`{"time":"2024-05-01T10:00:00.5Z","level":"WARN","msg":"spectre mode setup failed","status":2}`)

	if !entry.IsValid {
		t.Fatal("expected valid entry")
	}
	if entry.Level != "WARN" || entry.Msg != "spectre mode setup failed" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Attrs["status"] != float64(2) {
		t.Errorf("expected status attr, got %v", entry.Attrs)
	}
	if !entry.Time.Equal(time.Date(2024, 5, 1, 10, 0, 0, 500_000_000, time.UTC)) {
		t.Errorf("unexpected time: %v", entry.Time)
	}

	raw := ParseLine("not json")
	if raw.IsValid || raw.Raw != "not json" {
		t.Errorf("expected raw passthrough, got %+v", raw)
	}
}

func TestViewer_Tail(t *testing.T) {
	path := writeLog(t,
		`{"time":"2024-05-01T10:00:00Z","level":"DEBUG","msg":"one"}`,
		`{"time":"2024-05-01T10:00:01Z","level":"INFO","msg":"two"}`,
		`{"time":"2024-05-01T10:00:02Z","level":"WARN","msg":"three"}`,
	)
	v := NewViewer(ViewerConfig{NoColor: true}, &bytes.Buffer{})

	entries, err := v.Tail(path, 2)

	if err != nil {
		t.Fatalf("tail failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Msg != "two" || entries[1].Msg != "three" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestViewer_Tail_Filters(t *testing.T) {
	path := writeLog(t,
		`{"time":"2024-05-01T10:00:00Z","level":"DEBUG","msg":"yarn version"}`,
		`{"time":"2024-05-01T10:00:01Z","level":"INFO","msg":"installing headers","target":"22.3.10"}`,
		`{"time":"2024-05-01T10:00:02Z","level":"WARN","msg":"VsDevCmd.bat not found"}`,
	)

	byLevel := NewViewer(ViewerConfig{Level: "info", NoColor: true}, &bytes.Buffer{})
	entries, err := byLevel.Tail(path, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries at info+, got %d", len(entries))
	}

	byPattern := NewViewer(ViewerConfig{Pattern: regexp.MustCompile(`headers`), NoColor: true}, &bytes.Buffer{})
	entries, err = byPattern.Tail(path, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Attrs["target"] != "22.3.10" {
		t.Errorf("unexpected pattern match: %+v", entries)
	}
}

func TestViewer_Tail_MissingFile(t *testing.T) {
	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})
	if _, err := v.Tail(filepath.Join(t.TempDir(), "none.log"), 10); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestViewer_PrintFormatsSortedAttrs(t *testing.T) {
	var buf bytes.Buffer
	v := NewViewer(ViewerConfig{NoColor: true}, &buf)

	v.Print([]LogEntry{
		ParseLine(`{"time":"2024-05-01T10:00:00Z","level":"INFO","msg":"installing headers","target":"12.0.0","disturl":"https://remote/dist"}`),
		ParseLine("plain text"),
	})

	want := "10:00:00.000 INFO  installing headers disturl=https://remote/dist target=12.0.0\nplain text\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
