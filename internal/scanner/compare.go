package scanner

import (
	"context"
	"sync/atomic"

	"github.com/fenilsonani/dupescan/internal/progress"
	"golang.org/x/sync/errgroup"
)

type pairSlot struct {
	score float64
	ok    bool
}

// compareTexts scores every unordered pair of text files. Each job owns
// one row of the pair triangle and writes into pre-sized slots, so the
// output order is (i, j) with i < j regardless of completion order.
func (s *Scanner) compareTexts(ctx context.Context, st *scan, texts []textFile) error {
	n := len(texts)
	if n < 2 {
		s.report(st, progress.PhaseComparing, "", 0, 0)
		return nil
	}

	total := n * (n - 1) / 2
	slots := make([]pairSlot, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	var done atomic.Int64
	for i := 0; i < n-1; i++ {
		g.Go(func() error {
			base := rowOffset(i, n)
			for j := i + 1; j < n; j++ {
				if err := gctx.Err(); err != nil {
					return err
				}

				a, b := texts[i], texts[j]
				slot := &slots[base+j-i-1]
				if a.Digest == b.Digest && a.Format == b.Format {
					slot.score, slot.ok = 1.0, true
				} else {
					slot.score, slot.ok = s.comparer.Compare(a.Text, b.Text)
				}

				s.report(st, progress.PhaseComparing, a.Path, int(done.Add(1)), total)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	k := 0
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if slots[k].ok {
				st.result.Similarities = append(st.result.Similarities, SimilarityPair{
					A:     texts[i].Path,
					B:     texts[j].Path,
					Score: slots[k].score,
				})
			}
			k++
		}
	}

	return nil
}

// rowOffset is the index of pair (i, i+1) in the row-major upper triangle
// of an n x n matrix
func rowOffset(i, n int) int {
	return i*(2*n-i-1)/2
}
