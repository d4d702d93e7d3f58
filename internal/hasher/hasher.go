// Package hasher fingerprints file content and groups byte-identical files
// around the first file seen with each fingerprint.
package hasher

import "github.com/fenilsonani/dupescan/pkg/utils"

// Record is a hashed file
type Record struct {
	Path   string
	Size   int64
	Digest utils.Digest
}

// Hasher streams files through the content digest in bounded chunks
type Hasher struct {
	bufSize int
}

// New creates a Hasher reading bufSize bytes at a time. Zero uses
// utils.DefaultHashBufferSize.
func New(bufSize int) *Hasher {
	if bufSize <= 0 {
		bufSize = utils.DefaultHashBufferSize
	}
	return &Hasher{bufSize: bufSize}
}

// Hash fingerprints the full content of path
func (h *Hasher) Hash(path string) (Record, error) {
	digest, size, err := utils.HashFile(path, h.bufSize)
	if err != nil {
		return Record{}, err
	}
	return Record{Path: path, Size: size, Digest: digest}, nil
}

// Pair links a later file to the anchor that shares its digest
type Pair struct {
	Anchor    Record
	Duplicate Record
}

// FindDuplicates walks records in order and returns one pair per record
// whose digest was already seen. N records sharing a digest yield N-1 pairs,
// all anchored at the first of them.
func FindDuplicates(records []Record) []Pair {
	anchors := make(map[utils.Digest]Record, len(records))
	var pairs []Pair
	for _, rec := range records {
		if anchor, ok := anchors[rec.Digest]; ok {
			pairs = append(pairs, Pair{Anchor: anchor, Duplicate: rec})
			continue
		}
		anchors[rec.Digest] = rec
	}
	return pairs
}
