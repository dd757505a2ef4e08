package appdirs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirs_GetCachePath(t *testing.T) {
	d := &Dirs{CachePath: "/test/mx/cache"}

	tests := []struct {
		name     string
		id       int64
		fileName string
		expected string
	}{
		{"simple", 7, "cat.png", "/test/mx/cache/7-cat.png"},
		{"strips directories", 8, "../../etc/passwd", "/test/mx/cache/8-passwd"},
		{"empty name", 9, "", "/test/mx/cache/9-content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := d.GetCachePath(tt.id, tt.fileName)
			if result != filepath.FromSlash(tt.expected) {
				t.Errorf("GetCachePath(%d, %q) = %q, want %q", tt.id, tt.fileName, result, tt.expected)
			}
		})
	}
}

func TestNew_UsesXDGDirectories(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))

	d, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if d.StatePath != filepath.Join(tmp, "state", "mx") {
		t.Errorf("unexpected state path %q", d.StatePath)
	}
	if d.ConfigPath != filepath.Join(tmp, "config", "mx", "config.yaml") {
		t.Errorf("unexpected config path %q", d.ConfigPath)
	}
	if d.LogPath() != filepath.Join(tmp, "state", "mx", "mx.log") {
		t.Errorf("unexpected log path %q", d.LogPath())
	}
}

func TestDirs_InitializeAndClean(t *testing.T) {
	tmp := t.TempDir()
	d := &Dirs{StatePath: filepath.Join(tmp, "mx"), CachePath: filepath.Join(tmp, "mx", "cache")}

	if err := d.Initialize(); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	file := filepath.Join(d.CachePath, "1-a.png")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := d.CleanCache(); err != nil {
		t.Fatalf("CleanCache() failed: %v", err)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("expected cached file to be removed")
	}
}

func TestDirs_CleanItem(t *testing.T) {
	tmp := t.TempDir()
	d := &Dirs{StatePath: tmp, CachePath: filepath.Join(tmp, "cache")}

	removed, err := d.CleanItem(1)
	if err != nil || removed != 0 {
		t.Fatalf("CleanItem() on missing cache = %d, %v", removed, err)
	}

	if err := d.Initialize(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"1-a.png", "1-a.thumb.png", "11-b.png", "2-c.gif"} {
		if err := os.WriteFile(filepath.Join(d.CachePath, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	removed, err = d.CleanItem(1)
	if err != nil {
		t.Fatalf("CleanItem() failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 files removed, got %d", removed)
	}
	if _, err := os.Stat(filepath.Join(d.CachePath, "11-b.png")); err != nil {
		t.Error("expected item 11 to be kept")
	}
}
