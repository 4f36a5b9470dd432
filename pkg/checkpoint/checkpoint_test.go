package checkpoint

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"screenpapers/pkg/logger"
)

func TestSessionRoundTrip(t *testing.T) {
	mgr, err := NewManager(t.TempDir(), logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	s, err := mgr.Load()
	if err != nil {
		t.Fatalf("Load() on empty dir: %v", err)
	}
	if s != nil {
		t.Fatalf("Expected no session, got %+v", s)
	}

	if err := mgr.Record("  northern lights ", 3, 420); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	s, err = mgr.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s == nil {
		t.Fatal("Expected session, got nil")
	}
	if s.Query != "northern lights" {
		t.Errorf("Query = %q, want %q", s.Query, "northern lights")
	}
	if s.Page != 3 || s.Total != 420 {
		t.Errorf("Page/Total = %d/%d, want 3/420", s.Page, s.Total)
	}
	if s.Version != version {
		t.Errorf("Version = %d, want %d", s.Version, version)
	}
	if s.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be set")
	}

	if _, err := os.Stat(mgr.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temporary file left behind")
	}
}

func TestRecordIgnoresBlankQuery(t *testing.T) {
	mgr, err := NewManager(t.TempDir(), logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := mgr.Record("   ", 2, 10); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := os.Stat(mgr.Path()); !os.IsNotExist(err) {
		t.Error("Expected no session file for a blank query")
	}
}

func TestRecordClampsPage(t *testing.T) {
	mgr, _ := NewManager(t.TempDir(), logger.NewTestLogger())

	if err := mgr.Record("sea", 0, 0); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	s, _ := mgr.Load()
	if s.Page != 1 {
		t.Errorf("Page = %d, want 1", s.Page)
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	mgr, _ := NewManager(dir, logger.NewTestLogger())

	data := []byte(`{"query":"sea","page":1,"version":99}`)
	if err := os.WriteFile(filepath.Join(dir, sessionFile), data, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Load(); err == nil {
		t.Error("Expected an error for a newer session version")
	}
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	mgr, _ := NewManager(dir, logger.NewTestLogger())

	if err := os.WriteFile(mgr.Path(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Load(); err == nil {
		t.Error("Expected an error for a corrupt session file")
	}
}

func TestDelete(t *testing.T) {
	mgr, _ := NewManager(t.TempDir(), logger.NewTestLogger())

	if err := mgr.Delete(); err != nil {
		t.Errorf("Delete() with no session: %v", err)
	}

	_ = mgr.Record("sea", 1, 5)
	if err := mgr.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if s, _ := mgr.Load(); s != nil {
		t.Error("Expected session to be gone")
	}
}

func TestDefaultDirectory(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout is linux only")
	}
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	mgr, err := NewManager("", logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	want := filepath.Join(dataHome, "screenpapers", sessionFile)
	if mgr.Path() != want {
		t.Errorf("Path() = %q, want %q", mgr.Path(), want)
	}
}
