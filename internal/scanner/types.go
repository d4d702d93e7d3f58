package scanner

import "time"

// DuplicatePair links a file to the anchor, the first file in discovery
// order with identical content
type DuplicatePair struct {
	Anchor    string
	Duplicate string
	Hash      string
	Size      int64
}

// DuplicateGroup is an anchor with every later file sharing its content
type DuplicateGroup struct {
	Anchor  string
	Members []string
	Hash    string
	Size    int64
}

// SimilarityPair scores the text of two distinct files. A precedes B in
// discovery order.
type SimilarityPair struct {
	A     string
	B     string
	Score float64
}

// Result represents the outcome of one scan
type Result struct {
	ScanID       string
	Root         string
	Files        int
	Bytes        int64
	TextFiles    int
	Duplicates   []DuplicatePair
	Similarities []SimilarityPair
	Warnings     []*FileError
	Started      time.Time
	Duration     time.Duration
}

// MaxSimilarity returns the highest-scoring pair. Ties keep the pair
// encountered first. ok is false when no pair was compared.
func (r *Result) MaxSimilarity() (pair SimilarityPair, ok bool) {
	for _, p := range r.Similarities {
		if !ok || p.Score > pair.Score {
			pair, ok = p, true
		}
	}
	return pair, ok
}

// Groups folds the duplicate pairs into one group per anchor, ordered by
// the anchor's first appearance
func (r *Result) Groups() []DuplicateGroup {
	var groups []DuplicateGroup
	byAnchor := make(map[string]int)

	for _, d := range r.Duplicates {
		idx, ok := byAnchor[d.Anchor]
		if !ok {
			idx = len(groups)
			byAnchor[d.Anchor] = idx
			groups = append(groups, DuplicateGroup{Anchor: d.Anchor, Hash: d.Hash, Size: d.Size})
		}
		groups[idx].Members = append(groups[idx].Members, d.Duplicate)
	}

	return groups
}

// DuplicateBytes returns the bytes held by non-anchor copies
func (r *Result) DuplicateBytes() int64 {
	var total int64
	for _, d := range r.Duplicates {
		total += d.Size
	}
	return total
}
