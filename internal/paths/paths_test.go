package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirsHonourXDG(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{name: "cache", fn: CacheDir, want: filepath.Join(root, "cache", "brt")},
		{name: "data", fn: DataDir, want: filepath.Join(root, "data", "brt")},
		{name: "config", fn: ConfigDir, want: filepath.Join(root, "config", "brt")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("failed: %v", err)
			}
			if got != tt.want {
				t.Fatalf("dir = %q, want %q", got, tt.want)
			}
			if info, err := os.Stat(got); err != nil || !info.IsDir() {
				t.Fatalf("dir not created: %v", err)
			}
		})
	}
}

func TestDirsFallBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "relative/path")

	got, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() failed: %v", err)
	}
	if want := filepath.Join(home, ".local", "share", "brt"); got != want {
		t.Fatalf("DataDir() = %q, want %q", got, want)
	}
}
