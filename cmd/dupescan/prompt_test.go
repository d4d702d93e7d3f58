package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fenilsonani/dupescan/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Directory completion Tests
// =============================================================================

func setupCompletionTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"alpha", "alps", "beta", ".hidden"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, dir), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "alpine.txt"), []byte("x"), 0644))
	return root
}

func complete(line string) ([]string, int) {
	runes := []rune(line)
	candidates, length := dirCompleter{}.Do(runes, len(runes))
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = string(c)
	}
	return out, length
}

func TestDirCompleterMatchesDirectories(t *testing.T) {
	root := setupCompletionTree(t)
	sep := string(filepath.Separator)

	got, length := complete(root + sep + "al")
	assert.Equal(t, []string{"pha" + sep, "ps" + sep}, got)
	assert.Equal(t, 2, length)
}

func TestDirCompleterListsAllForTrailingSeparator(t *testing.T) {
	root := setupCompletionTree(t)
	sep := string(filepath.Separator)

	got, length := complete(root + sep)
	assert.Equal(t, []string{"alpha" + sep, "alps" + sep, "beta" + sep}, got)
	assert.Equal(t, 0, length)
}

func TestDirCompleterHiddenDirectories(t *testing.T) {
	root := setupCompletionTree(t)
	sep := string(filepath.Separator)

	got, _ := complete(root + sep + ".h")
	assert.Equal(t, []string{"idden" + sep}, got)
}

func TestDirCompleterMissingDirectory(t *testing.T) {
	got, length := complete(filepath.Join(t.TempDir(), "nope", "x"))
	assert.Empty(t, got)
	assert.Equal(t, 0, length)
}

// =============================================================================
// Flag override Tests
// =============================================================================

func TestApplyScanFlags(t *testing.T) {
	cfg := config.GetDefault()
	defaults := len(cfg.ExcludePatterns)

	flags := scanCmd.Flags()
	require.NoError(t, flags.Set("ext", "pdf,docx"))
	require.NoError(t, flags.Set("exclude", "tmp"))
	require.NoError(t, flags.Set("workers", "3"))
	require.NoError(t, flags.Set("min-similarity", "0.5"))
	require.NoError(t, flags.Set("timeout", "0"))

	applyScanFlags(scanCmd, cfg)

	assert.Equal(t, []string{"pdf", "docx"}, cfg.Extensions)
	assert.Len(t, cfg.ExcludePatterns, defaults+1)
	assert.Contains(t, cfg.ExcludePatterns, "tmp")
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 0.5, cfg.Similarity.MinSimilarity)
	assert.Equal(t, "0", cfg.Extraction.Timeout)

	// Flags left alone keep the configured values
	assert.Equal(t, "summary", cfg.Output)
	assert.Equal(t, 0, cfg.Similarity.MaxTextChars)
	assert.False(t, cfg.Extraction.SniffContent)
	require.NoError(t, cfg.Validate())
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	configPath = ""
	path, err := resolveConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))

	configPath = "/tmp/custom.yaml"
	t.Cleanup(func() { configPath = "" })
	path, err = resolveConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", path)
}
