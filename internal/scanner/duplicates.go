package scanner

import (
	"context"
	"sync/atomic"

	"github.com/fenilsonani/dupescan/internal/collector"
	"github.com/fenilsonani/dupescan/internal/hasher"
	"github.com/fenilsonani/dupescan/internal/progress"
	"golang.org/x/sync/errgroup"
)

// hashFiles fingerprints files in parallel, then pairs the digests in
// discovery order so every duplicate pair is anchored at the earliest file.
// It returns the readable records in discovery order.
func (s *Scanner) hashFiles(ctx context.Context, st *scan, files []collector.File) ([]hasher.Record, error) {
	records := make([]hasher.Record, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	var done atomic.Int64
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rec, err := s.hasher.Hash(f.Path)
			if err != nil {
				errs[i] = err
			} else {
				records[i] = rec
			}

			s.report(st, progress.PhaseHashing, f.Path, int(done.Add(1)), len(files))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Workers stop early on cancellation without reporting it
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	readable := make([]hasher.Record, 0, len(files))
	for i, rec := range records {
		if errs[i] != nil {
			st.warn(CategorizeError(files[i].Path, StageHash, errs[i]))
			continue
		}
		st.result.Bytes += rec.Size
		readable = append(readable, rec)
	}

	for _, p := range hasher.FindDuplicates(readable) {
		st.result.Duplicates = append(st.result.Duplicates, DuplicatePair{
			Anchor:    p.Anchor.Path,
			Duplicate: p.Duplicate.Path,
			Hash:      p.Duplicate.Digest.String(),
			Size:      p.Duplicate.Size,
		})
	}

	return readable, nil
}
