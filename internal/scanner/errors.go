package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/fenilsonani/dupescan/internal/extract"
)

// ErrorReason categorizes why a file dropped out of a scan
type ErrorReason int

const (
	ReasonUnreadable ErrorReason = iota
	ReasonExtraction
	ReasonTimeout
	ReasonUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ReasonUnreadable:
		return "Unreadable"
	case ReasonExtraction:
		return "Extraction failed"
	case ReasonTimeout:
		return "Extraction timed out"
	case ReasonUnknown:
		return "Unknown error"
	default:
		return "Unspecified error"
	}
}

// Stage names the pipeline step a file failed in
type Stage string

const (
	StageCollect Stage = "collect"
	StageHash    Stage = "hash"
	StageExtract Stage = "extract"
)

// FileError is a failure contained to a single file
type FileError struct {
	Path     string
	Reason   ErrorReason
	Stage    Stage
	Original error
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s during %s (%v)", e.Path, e.Reason, e.Stage, e.Original)
}

func (e *FileError) Unwrap() error {
	return e.Original
}

// UserMessage returns a user-friendly error message
func (e *FileError) UserMessage() string {
	switch e.Reason {
	case ReasonUnreadable:
		if errors.Is(e.Original, fs.ErrPermission) {
			return fmt.Sprintf("⚠️  Permission denied, skipped: %s", e.Path)
		}
		if errors.Is(e.Original, fs.ErrNotExist) {
			return fmt.Sprintf("ℹ️  Vanished during scan: %s", e.Path)
		}
		return fmt.Sprintf("⚠️  Could not read, skipped: %s", e.Path)
	case ReasonExtraction:
		return fmt.Sprintf("⚠️  No text extracted (still checked for duplicates): %s", e.Path)
	case ReasonTimeout:
		return fmt.Sprintf("⚠️  Text extraction timed out (still checked for duplicates): %s", e.Path)
	default:
		return fmt.Sprintf("❌ Error scanning %s: %v", e.Path, e.Original)
	}
}

// CategorizeError analyzes an error and returns a categorized FileError
func CategorizeError(path string, stage Stage, err error) *FileError {
	if err == nil {
		return nil
	}

	fileErr := &FileError{
		Path:     path,
		Stage:    stage,
		Original: err,
		Reason:   ReasonUnknown,
	}

	if errors.Is(err, extract.ErrTimeout) {
		fileErr.Reason = ReasonTimeout
		return fileErr
	}

	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		fileErr.Reason = ReasonUnreadable
		return fileErr
	}

	// Check syscall errors
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM, syscall.ENOENT, syscall.EIO,
			syscall.ENXIO, syscall.EISDIR, syscall.ELOOP:
			fileErr.Reason = ReasonUnreadable
			return fileErr
		}
	}

	var extractErr *extract.Error
	if errors.As(err, &extractErr) || stage == StageExtract {
		fileErr.Reason = ReasonExtraction
		return fileErr
	}

	// Anything that stops the walk or the hash is a read failure
	if stage == StageCollect || stage == StageHash {
		fileErr.Reason = ReasonUnreadable
	}

	return fileErr
}

// GroupErrors groups file errors by reason
func GroupErrors(errs []*FileError) map[ErrorReason][]*FileError {
	grouped := make(map[ErrorReason][]*FileError)
	for _, err := range errs {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}

// FormatErrorSummary creates a user-friendly summary of errors
func FormatErrorSummary(errs []*FileError) string {
	if len(errs) == 0 {
		return ""
	}

	grouped := GroupErrors(errs)
	summary := "\n⚠️  Issues encountered:\n"

	if unreadable, ok := grouped[ReasonUnreadable]; ok {
		// Files that went unreadable after hashing still took part in
		// duplicate detection
		var early, late int
		for _, e := range unreadable {
			if e.Stage == StageExtract {
				late++
			} else {
				early++
			}
		}
		if early > 0 {
			summary += fmt.Sprintf("   ├─ Unreadable: %d files\n", early)
			summary += "   │  └─ Skipped for duplicates and similarity\n"
		}
		if late > 0 {
			summary += fmt.Sprintf("   ├─ Unreadable during extraction: %d files\n", late)
			summary += "   │  └─ Still checked for exact duplicates\n"
		}
	}

	if failed, ok := grouped[ReasonExtraction]; ok {
		summary += fmt.Sprintf("   ├─ Text extraction failed: %d files\n", len(failed))
		summary += "   │  └─ Still checked for exact duplicates\n"
	}

	if slow, ok := grouped[ReasonTimeout]; ok {
		summary += fmt.Sprintf("   ├─ Extraction timed out: %d files\n", len(slow))
		summary += "   │  └─ Tip: Raise --timeout for very large documents\n"
	}

	if unknown, ok := grouped[ReasonUnknown]; ok {
		summary += fmt.Sprintf("   └─ Other errors: %d files\n", len(unknown))
	}

	return summary
}
