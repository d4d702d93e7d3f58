package utils

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"
)

// =============================================================================
// Hash Tests
// =============================================================================

func TestHashFileIdenticalContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	c := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(a, []byte("hello world"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("hello world"), 0644))
	require.NoError(t, os.WriteFile(c, []byte("hello world!"), 0644))

	ha, na, err := HashFile(a, 0)
	require.NoError(t, err)
	hb, _, err := HashFile(b, 0)
	require.NoError(t, err)
	hc, _, err := HashFile(c, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(11), na)
	assert.Equal(t, ha, hb)
	assert.NotEqual(t, ha, hc)
	assert.NotEqual(t, Digest{}, ha)
	assert.Len(t, ha.String(), 32)
}

func TestHashReaderChunkSizeIndependent(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), 10_000)
	want := Digest(xxh3.Hash128(data).Bytes())

	for _, size := range []int{1, 7, 4096, DefaultHashBufferSize, len(data) * 2} {
		got, n, err := HashReader(bytes.NewReader(data), size)
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), n)
		assert.Equal(t, want, got, "buffer size %d", size)
	}

	// One-byte reads exercise the short-read path.
	got, _, err := HashReader(iotest.OneByteReader(bytes.NewReader(data)), 1024)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHashReaderPropagatesErrors(t *testing.T) {
	boom := errors.New("device error")
	_, _, err := HashReader(iotest.ErrReader(boom), 16)
	assert.ErrorIs(t, err, boom)
}

func TestHashFileMissing(t *testing.T) {
	_, _, err := HashFile(filepath.Join(t.TempDir(), "missing"), 0)
	assert.True(t, os.IsNotExist(err))
}

func TestHashEmptyContentIsStable(t *testing.T) {
	got, n, err := HashReader(bytes.NewReader(nil), 8)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, Digest(xxh3.Hash128(nil).Bytes()), got)
}

// =============================================================================
// Size Tests
// =============================================================================

func TestParseSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"", 0},
		{"0", 0},
		{"1024", 1024},
		{"1KB", KB},
		{"64kb", 64 * KB},
		{"1.5 MB", MB + MB/2},
		{" 2GB ", 2 * GB},
		{"1T", TB},
		{"10b", 10},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if err != nil {
				t.Fatalf("ParseSize(%q) returned error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseSizeInvalid(t *testing.T) {
	for _, input := range []string{"MB", "abc", "10XB", "-1KB", "1..2MB"} {
		if _, err := ParseSize(input); err == nil {
			t.Errorf("ParseSize(%q) expected error", input)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{-1, "0 B"},
		{0, "0 B"},
		{512, "512 B"},
		{KB, "1.00 KB"},
		{MB + MB/2, "1.50 MB"},
		{3 * GB, "3.00 GB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.expected)
		}
	}
}
