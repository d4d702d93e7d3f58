package collector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fenilsonani/dupescan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Collect Tests
// =============================================================================

func TestCollectLexicalOrder(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateText("b.txt", "b")
	f.CreateText("a.txt", "a")
	f.CreateText("sub/c.txt", "c")
	f.CreateText("sub/deeper/d.pdf", "d")

	files, warnings, err := New(Options{}).Collect(context.Background(), f.RootDir)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, []string{
		f.Path("a.txt"),
		f.Path("b.txt"),
		f.Path("sub/c.txt"),
		f.Path("sub/deeper/d.pdf"),
	}, paths(files))

	for i, file := range files {
		assert.Equal(t, i, file.Index)
		assert.Equal(t, int64(1), file.Size)
	}
}

func TestCollectEmptyDirectory(t *testing.T) {
	f := testutil.NewFixture(t)

	files, warnings, err := New(Options{}).Collect(context.Background(), f.RootDir)
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Empty(t, warnings)
}

func TestCollectExtensionFilter(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateText("one.pdf", "1")
	f.CreateText("two.PDF", "2")
	f.CreateText("three.txt", "3")

	files, _, err := New(Options{Extensions: []string{"pdf"}}).Collect(context.Background(), f.RootDir)
	require.NoError(t, err)
	assert.Equal(t, []string{f.Path("one.pdf"), f.Path("two.PDF")}, paths(files))
}

func TestCollectExcludePatterns(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateText("keep.txt", "k")
	f.CreateText("skip.tmp", "s")
	f.CreateText(".git/config", "g")
	f.CreateText("drafts/old.txt", "o")
	f.CreateText("notes/drafts.txt", "n")

	opts := Options{Exclude: []string{"*.tmp", ".git", "drafts"}}
	files, _, err := New(opts).Collect(context.Background(), f.RootDir)
	require.NoError(t, err)

	assert.Equal(t, []string{f.Path("keep.txt"), f.Path("notes/drafts.txt")}, paths(files))
}

func TestCollectSkipsSymlinks(t *testing.T) {
	f := testutil.NewFixture(t)
	target := f.CreateText("real.txt", "content")
	f.CreateSymlink(target, "link.txt")
	f.CreateSymlink(f.RootDir, "loop")

	files, _, err := New(Options{}).Collect(context.Background(), f.RootDir)
	require.NoError(t, err)
	assert.Equal(t, []string{target}, paths(files))
}

func TestCollectMaxFileSize(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateRandomFile("small.bin", 10)
	f.CreateRandomFile("large.bin", 1000)

	files, _, err := New(Options{MaxFileSize: 100}).Collect(context.Background(), f.RootDir)
	require.NoError(t, err)
	assert.Equal(t, []string{f.Path("small.bin")}, paths(files))
}

func TestCollectUnreadableDirectory(t *testing.T) {
	testutil.SkipIfRoot(t)

	f := testutil.NewFixture(t)
	f.CreateText("ok.txt", "ok")
	locked := f.CreateDir("locked")
	f.CreateText("locked/hidden.txt", "h")
	lockDir(t, locked)

	files, warnings, err := New(Options{}).Collect(context.Background(), f.RootDir)
	require.NoError(t, err)
	assert.Equal(t, []string{f.Path("ok.txt")}, paths(files))
	require.Len(t, warnings, 1)
	assert.Equal(t, locked, warnings[0].Path)
}

func TestCollectCancelled(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateText("a.txt", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New(Options{}).Collect(ctx, f.RootDir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromPaths(t *testing.T) {
	f := testutil.NewFixture(t)
	b := f.CreateText("b.txt", "bb")
	a := f.CreateText("a.txt", "a")
	dir := f.CreateDir("dir")
	missing := f.Path("missing.txt")

	files, warnings := FromPaths([]string{b, missing, dir, a})
	assert.Equal(t, []string{b, a}, paths(files))
	assert.Equal(t, 0, files[0].Index)
	assert.Equal(t, 1, files[1].Index)
	require.Len(t, warnings, 1)
	assert.Equal(t, missing, warnings[0].Path)
}

// =============================================================================
// expandPath Tests
// =============================================================================

func TestExpandPath(t *testing.T) {
	home := "/Users/testuser"

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"tilde only", "~", "/Users/testuser"},
		{"tilde with slash", "~/", "/Users/testuser"},
		{"tilde with path", "~/Documents", "/Users/testuser/Documents"},
		{"absolute", "/srv/docs", "/srv/docs"},
		{"relative", "docs/2024", "docs/2024"},
		{"tilde in middle", "/path/with/~/tilde", "/path/with/~/tilde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.path, home)
			if result != filepath.Clean(tt.expected) {
				t.Errorf("expandPath(%q, %q) = %q, want %q", tt.path, home, result, tt.expected)
			}
		})
	}
}

func lockDir(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.Chmod(dir, 0000))
	t.Cleanup(func() { os.Chmod(dir, 0755) })
}

func paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
