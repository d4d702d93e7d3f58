// Package collector enumerates the regular files under a scan root.
package collector

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fenilsonani/dupescan/internal/security"
	"github.com/rs/zerolog/log"
)

// File is a regular file found under the root. Index is its position in
// discovery order.
type File struct {
	Path  string
	Size  int64
	Index int
}

// Warning is a path the walk could not read
type Warning struct {
	Path string
	Err  error
}

// Options filter what Collect yields
type Options struct {
	// Extensions limits results to these extensions, matched
	// case-insensitively. Empty accepts every file.
	Extensions []string

	// Exclude holds glob patterns matched against the base name and the
	// root-relative path of files and directories.
	Exclude []string

	// MaxFileSize skips files larger than this many bytes. Zero disables
	// the limit.
	MaxFileSize int64
}

// Collector walks a directory tree
type Collector struct {
	opts      Options
	exts      map[string]bool
	validator *security.PathValidator
}

// New creates a Collector
func New(opts Options) *Collector {
	exts := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = true
	}

	return &Collector{
		opts:      opts,
		exts:      exts,
		validator: security.NewPathValidator(),
	}
}

// Collect walks root in lexical order and returns its regular files.
// Symlinks and special files are not followed or returned. Unreadable
// entries below the root become warnings; failing to read the root itself
// is returned as an error.
func (c *Collector) Collect(ctx context.Context, root string) ([]File, []Warning, error) {
	var (
		files    []File
		warnings []Warning
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == root {
				return err
			}
			log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable path")
			warnings = append(warnings, Warning{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if c.validator.ShouldSkipDir(path, root) || c.excluded(root, path) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if c.excluded(root, path) || !c.acceptsExt(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			warnings = append(warnings, Warning{Path: path, Err: err})
			return nil
		}

		if c.opts.MaxFileSize > 0 && info.Size() > c.opts.MaxFileSize {
			log.Debug().Str("path", path).Int64("size", info.Size()).Msg("Skipping file above size limit")
			return nil
		}

		files = append(files, File{Path: path, Size: info.Size(), Index: len(files)})
		return nil
	})

	return files, warnings, err
}

// FromPaths turns a pre-filtered path list into Files, keeping its order.
// Paths that cannot be stat'ed or are not regular files become warnings.
func FromPaths(paths []string) ([]File, []Warning) {
	var (
		files    []File
		warnings []Warning
	)

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			warnings = append(warnings, Warning{Path: p, Err: err})
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, File{Path: p, Size: info.Size(), Index: len(files)})
	}

	return files, warnings
}

func (c *Collector) acceptsExt(path string) bool {
	if len(c.exts) == 0 {
		return true
	}
	return c.exts[strings.ToLower(filepath.Ext(path))]
}

func (c *Collector) excluded(root, path string) bool {
	if len(c.opts.Exclude) == 0 {
		return false
	}

	base := filepath.Base(path)
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range c.opts.Exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return expandPath(path, home)
}

func expandPath(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
