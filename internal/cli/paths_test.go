package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	// Clear XDG_CACHE_HOME to test default behavior
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CACHE_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join("/tmp/custom-cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestConfigDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}

	if dir != filepath.Join("/tmp/custom-config", appName) {
		t.Errorf("configDir() = %q, want it under XDG_CONFIG_HOME", dir)
	}
}

func TestConfigDirDefault(t *testing.T) {
	oldXdg := os.Getenv("XDG_CONFIG_HOME")
	os.Unsetenv("XDG_CONFIG_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CONFIG_HOME", oldXdg)
		}
	}()

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if !strings.Contains(dir, ".config") || !strings.HasSuffix(dir, appName) {
		t.Errorf("configDir() = %q, want ~/.config/%s", dir, appName)
	}
}
