// Package scanner runs the duplicate and similarity pipelines over a set of
// files and aggregates their output.
//
// The decoded text of every file stays in memory until comparison finishes.
// Similarity.MaxTextChars caps each text at extraction time and is the way
// to bound memory on large trees.
package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/fenilsonani/dupescan/internal/collector"
	"github.com/fenilsonani/dupescan/internal/config"
	"github.com/fenilsonani/dupescan/internal/extract"
	"github.com/fenilsonani/dupescan/internal/hasher"
	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/internal/security"
	"github.com/fenilsonani/dupescan/internal/similarity"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Scanner coordinates collection, hashing, extraction and comparison.
// A Scanner holds no per-scan state and may run several scans.
type Scanner struct {
	collector        *collector.Collector
	pathValidator    *security.PathValidator
	hasher           *hasher.Hasher
	extractors       *extract.Registry
	comparer         *similarity.Comparer
	workers          int
	maxOpen          int
	progressReporter *progress.ProgressReporter
}

// New creates a Scanner from cfg
func New(cfg *config.Config) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	bufSize, err := cfg.HashBufferBytes()
	if err != nil {
		return nil, err
	}
	maxFileSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.ExtractTimeout()
	if err != nil {
		return nil, err
	}

	return &Scanner{
		collector: collector.New(collector.Options{
			Extensions:  cfg.Extensions,
			Exclude:     cfg.ExcludePatterns,
			MaxFileSize: maxFileSize,
		}),
		pathValidator: security.NewPathValidator(),
		hasher:        hasher.New(bufSize),
		extractors: extract.NewRegistry(extract.Options{
			Timeout:      timeout,
			SniffContent: cfg.Extraction.SniffContent,
			MaxChars:     cfg.Similarity.MaxTextChars,
		}),
		comparer: similarity.NewComparer(similarity.Options{
			MaxTextChars:  cfg.Similarity.MaxTextChars,
			MinSimilarity: cfg.Similarity.MinSimilarity,
		}),
		workers:          cfg.EffectiveWorkers(),
		maxOpen:          cfg.EffectiveMaxOpen(),
		progressReporter: progress.NewProgressReporter(),
	}, nil
}

// SetProgressReporter sets a custom progress reporter
func (s *Scanner) SetProgressReporter(pr *progress.ProgressReporter) {
	s.progressReporter = pr
}

// GetProgressReporter returns the scanner's progress reporter
func (s *Scanner) GetProgressReporter() *progress.ProgressReporter {
	return s.progressReporter
}

// Extractors exposes the extractor registry so callers can register
// additional formats before scanning
func (s *Scanner) Extractors() *extract.Registry {
	return s.extractors
}

// Scan validates root and scans every file beneath it. The returned error
// is non-nil only when root is unusable or ctx is cancelled; per-file
// failures are reported in Result.Warnings.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	absRoot, err := s.pathValidator.ValidateRoot(collector.ExpandPath(root))
	if err != nil {
		s.reportError(err)
		return nil, err
	}

	st := s.newScan(absRoot)
	log.Info().Str("root", absRoot).Str("scan_id", st.result.ScanID).Int("workers", s.workers).Msg("Starting scan")

	s.report(st, progress.PhaseCollecting, "", 0, 0)
	files, warnings, err := s.collector.Collect(ctx, absRoot)
	if err != nil {
		err = fmt.Errorf("failed to read %s: %w", absRoot, err)
		s.reportError(err)
		return nil, err
	}
	for _, w := range warnings {
		st.warn(CategorizeError(w.Path, StageCollect, w.Err))
	}
	s.report(st, progress.PhaseCollecting, "", len(files), len(files))

	return s.run(ctx, st, files)
}

// ScanFiles scans a pre-filtered list of paths. Paths are taken in the
// given order and are not filtered by extension or exclude patterns.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string) (*Result, error) {
	st := s.newScan("")
	files, warnings := collector.FromPaths(paths)
	for _, w := range warnings {
		st.warn(CategorizeError(w.Path, StageCollect, w.Err))
	}
	return s.run(ctx, st, files)
}

// scan is the state of one run. Nothing in it outlives the run.
type scan struct {
	result *Result
}

func (s *Scanner) newScan(root string) *scan {
	return &scan{
		result: &Result{
			ScanID:       uuid.NewString(),
			Root:         root,
			Duplicates:   []DuplicatePair{},
			Similarities: []SimilarityPair{},
			Warnings:     []*FileError{},
			Started:      time.Now(),
		},
	}
}

func (st *scan) warn(fe *FileError) {
	if fe == nil {
		return
	}
	log.Warn().Err(fe.Original).Str("path", fe.Path).Str("stage", string(fe.Stage)).
		Str("reason", fe.Reason.String()).Msg("File skipped")
	st.result.Warnings = append(st.result.Warnings, fe)
}

func (s *Scanner) run(ctx context.Context, st *scan, files []collector.File) (*Result, error) {
	res := st.result
	res.Files = len(files)

	hashed, err := s.hashFiles(ctx, st, files)
	if err != nil {
		s.reportError(err)
		return nil, err
	}

	texts, err := s.extractTexts(ctx, st, hashed)
	if err != nil {
		s.reportError(err)
		return nil, err
	}
	res.TextFiles = len(texts)

	if err := s.compareTexts(ctx, st, texts); err != nil {
		s.reportError(err)
		return nil, err
	}

	res.Duration = time.Since(res.Started)
	s.report(st, progress.PhaseComplete, "", 0, 0)

	log.Info().
		Int("files", res.Files).
		Int("duplicates", len(res.Duplicates)).
		Int("pairs", len(res.Similarities)).
		Int("warnings", len(res.Warnings)).
		Dur("duration", res.Duration).
		Msg("Scan complete")

	return res, nil
}

// report reports scan progress to listeners
func (s *Scanner) report(st *scan, phase progress.Phase, currentPath string, done, total int) {
	if s.progressReporter == nil {
		return
	}

	s.progressReporter.UpdateScanProgress(&progress.ScanProgress{
		Phase:       phase,
		CurrentPath: currentPath,
		Done:        done,
		Total:       total,
		Duplicates:  len(st.result.Duplicates),
		Warnings:    len(st.result.Warnings),
		StartTime:   st.result.Started,
	})
}

func (s *Scanner) reportError(err error) {
	if s.progressReporter == nil {
		return
	}
	s.progressReporter.UpdateScanProgress(&progress.ScanProgress{
		Phase: progress.PhaseError,
		Error: err,
	})
}
