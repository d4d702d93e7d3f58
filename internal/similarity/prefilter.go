package similarity

// Options bound the cost of pairwise comparison.
type Options struct {
	// MaxTextChars truncates each text to this many code points before
	// comparing. Zero compares full texts.
	MaxTextChars int

	// MinSimilarity drops pairs scoring below this threshold. Pairs whose
	// cheap upper bound is already below it skip block matching entirely.
	// Zero reports every pair.
	MinSimilarity float64
}

// Comparer applies Options around RatioRunes.
type Comparer struct {
	opts Options
}

// NewComparer creates a Comparer
func NewComparer(opts Options) *Comparer {
	return &Comparer{opts: opts}
}

// Prepare converts text to the form Compare consumes, applying truncation.
func (c *Comparer) Prepare(text string) []rune {
	runes := []rune(text)
	if c.opts.MaxTextChars > 0 && len(runes) > c.opts.MaxTextChars {
		runes = runes[:c.opts.MaxTextChars]
	}
	return runes
}

// Compare scores a and b. ok is false when the pair falls below
// MinSimilarity and should not be reported.
func (c *Comparer) Compare(a, b []rune) (score float64, ok bool) {
	threshold := c.opts.MinSimilarity
	if threshold > 0 {
		if RealQuickRatio(a, b) < threshold || QuickRatio(a, b) < threshold {
			return 0, false
		}
	}

	score = RatioRunes(a, b)
	if threshold > 0 && score < threshold {
		return score, false
	}
	return score, true
}

// RealQuickRatio is an upper bound on RatioRunes computed from lengths only.
func RealQuickRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	return 2 * float64(min(len(a), len(b))) / float64(total)
}

// QuickRatio is an upper bound on RatioRunes computed from the multiset
// intersection of the runes in a and b. It is never above RealQuickRatio.
func QuickRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}

	counts := make(map[rune]int, len(b))
	for _, r := range b {
		counts[r]++
	}

	matches := 0
	for _, r := range a {
		if counts[r] > 0 {
			counts[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}
