package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrRootNotFound is returned when the scan root does not exist
	ErrRootNotFound = errors.New("root path does not exist")
	// ErrRootNotDirectory is returned when the scan root is not a directory
	ErrRootNotDirectory = errors.New("root path is not a directory")
)

// PathValidator decides which paths a scan may enter
type PathValidator struct {
	skippedPaths []string
}

// NewPathValidator creates a PathValidator that keeps scans out of kernel
// pseudo-filesystems, whose files report misleading sizes or block on read.
func NewPathValidator() *PathValidator {
	return &PathValidator{
		skippedPaths: []string{
			"/proc",
			"/sys",
			"/dev",
			"/run",
		},
	}
}

// ValidateRoot checks that root exists and is a directory, following
// symlinks, and returns its cleaned absolute form. This runs before any
// scanning; its errors are the only fatal ones a scan reports.
func (pv *PathValidator) ValidateRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", fmt.Errorf("%w: empty path", ErrRootNotFound)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrRootNotFound, abs)
		}
		return "", fmt.Errorf("cannot access %s: %w", abs, err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrRootNotDirectory, abs)
	}

	return filepath.Clean(abs), nil
}

// ShouldSkipDir reports whether a directory lies in a skipped subtree. The
// root of a scan is never skipped so an explicit request is honoured.
func (pv *PathValidator) ShouldSkipDir(path, root string) bool {
	cleanPath := filepath.Clean(path)
	if cleanPath == filepath.Clean(root) {
		return false
	}

	for _, skipped := range pv.skippedPaths {
		if cleanPath == skipped || strings.HasPrefix(cleanPath, skipped+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ValidateGlobPattern validates that a glob pattern is safe
func ValidateGlobPattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("glob pattern is empty")
	}

	if strings.Contains(pattern, "..") {
		return fmt.Errorf("glob pattern contains directory traversal: %s", pattern)
	}

	// Try to match the pattern to ensure it's valid
	_, err := filepath.Match(pattern, "test")
	if err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}

	return nil
}
