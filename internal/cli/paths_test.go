package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/fractaldraw/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := newCache(false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(interface{ Dir() string }); !ok {
		t.Errorf("newCache(false) = %T, want a file cache", c)
	}

	c, _ = newCache(true)
	if _, ok := c.(interface{ Dir() string }); ok {
		t.Errorf("newCache(true) = %T, want the null cache", c)
	}
}

func TestClearCache(t *testing.T) {
	c := testCLI(t)
	ctx := context.Background()

	// Nothing cached yet: the directory does not exist.
	if err := c.clearCache(ctx, ""); err != nil {
		t.Fatalf("clearing a missing cache: %v", err)
	}

	dir, _ := cacheDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"a", "b"} {
		if err := fc.Set(ctx, key, []byte(key), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.clearCache(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := fc.Get(ctx, "a"); hit {
		t.Error("entry survived clear")
	}
}
