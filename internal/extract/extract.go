// Package extract turns files into decoded text for similarity scoring.
//
// Each supported format is a variant implementing Extractor; Registry maps
// lowercase file extensions to variants and falls back to a best-effort
// decode for everything else, so an unknown extension is never an error.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds a single file's extraction
const DefaultTimeout = 30 * time.Second

// ErrTimeout is returned when an extractor does not finish within the
// per-file timeout.
var ErrTimeout = errors.New("extraction timed out")

// Format identifies an extraction variant
type Format int

const (
	FormatPlainText Format = iota
	FormatPDF
	FormatWordDocument
	FormatFallbackBinary
)

// String returns the format name used in logs and reports
func (f Format) String() string {
	switch f {
	case FormatPlainText:
		return "text"
	case FormatPDF:
		return "pdf"
	case FormatWordDocument:
		return "docx"
	case FormatFallbackBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Extractor produces the text content of one file format
type Extractor interface {
	Format() Format
	Extract(ctx context.Context, path string) (string, error)
}

// Error reports a failed extraction of a recognised format.
type Error struct {
	Path   string
	Format Format
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s text from %s: %v", e.Format, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options configure a Registry
type Options struct {
	// Timeout bounds each extraction. Zero uses DefaultTimeout; a negative
	// value disables the timeout.
	Timeout time.Duration

	// SniffContent detects the format of extensionless files from their
	// leading bytes.
	SniffContent bool

	// MaxChars caps the code points returned per file. Zero is unlimited.
	MaxChars int
}

// Registry dispatches files to extractors by extension
type Registry struct {
	byExt    map[string]Extractor
	fallback Extractor
	timeout  time.Duration
	sniff    bool
	maxChars int
}

// NewRegistry creates a Registry with the built-in variants registered
func NewRegistry(opts Options) *Registry {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	r := &Registry{
		byExt:    make(map[string]Extractor),
		fallback: FallbackExtractor{MaxChars: opts.MaxChars},
		timeout:  timeout,
		sniff:    opts.SniffContent,
		maxChars: opts.MaxChars,
	}

	r.Register(PlainTextExtractor{MaxChars: opts.MaxChars}, ".txt", ".text", ".md", ".csv", ".log", ".json", ".xml", ".html", ".htm")
	r.Register(PDFExtractor{MaxChars: opts.MaxChars}, ".pdf")
	r.Register(DocxExtractor{}, ".docx")

	return r
}

// Register maps extensions (with or without the leading dot) to an extractor,
// replacing any previous mapping.
func (r *Registry) Register(e Extractor, exts ...string) {
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.byExt[ext] = e
	}
}

// For returns the extractor that handles path
func (r *Registry) For(path string) Extractor {
	ext := strings.ToLower(filepath.Ext(path))
	if e, ok := r.byExt[ext]; ok {
		return e
	}

	if ext == "" && r.sniff {
		if e := r.sniffExtractor(path); e != nil {
			return e
		}
	}

	return r.fallback
}

// Extract returns the decoded text of path. Failures are *Error values;
// a timeout wraps ErrTimeout.
func (r *Registry) Extract(ctx context.Context, path string) (string, Format, error) {
	e := r.For(path)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	type outcome struct {
		text string
		err  error
	}

	// Buffered so a parser that ignores ctx can still finish after we stop
	// waiting for it.
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("parser panic: %v", rec)}
			}
		}()
		text, err := e.Extract(ctx, path)
		done <- outcome{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", e.Format(), &Error{Path: path, Format: e.Format(), Err: res.err}
		}
		return truncateChars(res.text, r.maxChars), e.Format(), nil
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrTimeout
			log.Warn().Str("path", path).Dur("timeout", r.timeout).Msg("Extraction timed out")
		}
		return "", e.Format(), &Error{Path: path, Format: e.Format(), Err: err}
	}
}
