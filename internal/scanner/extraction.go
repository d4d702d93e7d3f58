package scanner

import (
	"context"
	"sync/atomic"

	"github.com/fenilsonani/dupescan/internal/extract"
	"github.com/fenilsonani/dupescan/internal/hasher"
	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/pkg/utils"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// textFile is a file that entered the similarity pipeline
type textFile struct {
	Path   string
	Digest utils.Digest
	Format extract.Format
	Text   []rune
}

// textKey identifies one extraction. Byte-identical files read by the same
// format share it; a copy under another extension is decoded separately.
type textKey struct {
	digest utils.Digest
	format extract.Format
}

// extractTexts decodes the text of every distinct (content, format) once,
// in parallel, and returns one entry per record whose content yielded text.
func (s *Scanner) extractTexts(ctx context.Context, st *scan, records []hasher.Record) ([]textFile, error) {
	keys := make([]textKey, len(records))
	slotOf := make(map[textKey]int, len(records))
	distinct := make([]hasher.Record, 0, len(records))
	for i, rec := range records {
		key := textKey{digest: rec.Digest, format: s.extractors.For(rec.Path).Format()}
		keys[i] = key
		if _, ok := slotOf[key]; ok {
			continue
		}
		slotOf[key] = len(distinct)
		distinct = append(distinct, rec)
	}

	texts := make([][]rune, len(distinct))
	errs := make([]error, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	sem := semaphore.NewWeighted(int64(s.maxOpen))

	var done atomic.Int64
	for i, rec := range distinct {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			text, format, err := s.extractors.Extract(gctx, rec.Path)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs[i] = err
			} else {
				texts[i] = s.comparer.Prepare(text)
				log.Debug().Str("path", rec.Path).Str("format", format.String()).Int("chars", len(texts[i])).Msg("Extracted text")
			}

			s.report(st, progress.PhaseExtracting, rec.Path, int(done.Add(1)), len(distinct))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, err := range errs {
		if err != nil {
			st.warn(CategorizeError(distinct[i].Path, StageExtract, err))
		}
	}

	out := make([]textFile, 0, len(records))
	for i, rec := range records {
		slot := slotOf[keys[i]]
		if errs[slot] != nil {
			if rec.Path != distinct[slot].Path {
				log.Debug().Str("path", rec.Path).Str("first", distinct[slot].Path).Msg("Excluded from similarity with its identical copy")
			}
			continue
		}
		out = append(out, textFile{Path: rec.Path, Digest: rec.Digest, Format: keys[i].format, Text: texts[slot]})
	}

	return out, nil
}
