package internal

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultDBPath_Override(t *testing.T) {
	got, err := DefaultDBPath("/tmp/custom/records.db")
	if err != nil {
		t.Fatalf("DefaultDBPath() error = %v", err)
	}
	if got != "/tmp/custom/records.db" {
		t.Errorf("DefaultDBPath() = %q, want the override verbatim", got)
	}
}

func TestDefaultDBPath_Detected(t *testing.T) {
	if runtime.GOOS != "darwin" && runtime.GOOS != "linux" {
		t.Skipf("unsupported OS %s", runtime.GOOS)
	}
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
	}

	got, err := DefaultDBPath("")
	if err != nil {
		t.Fatalf("DefaultDBPath() error = %v", err)
	}
	if filepath.Base(got) != "records.db" {
		t.Errorf("DefaultDBPath() = %q, want a records.db path", got)
	}
	// The data directory must exist after detection.
	if _, err := os.Stat(filepath.Dir(got)); err != nil {
		t.Errorf("data directory was not created: %v", err)
	}
}

func TestDBExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.db")

	if DBExists(path) {
		t.Error("DBExists() = true for a missing file")
	}
	if err := os.WriteFile(path, []byte{}, 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if !DBExists(path) {
		t.Error("DBExists() = false for an existing file")
	}
	if DBExists(dir) {
		t.Error("DBExists() = true for a directory")
	}
}
