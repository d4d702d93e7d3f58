package utils

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/zeebo/xxh3"
)

// DefaultHashBufferSize is the chunk size used when streaming file content
// into the hasher.
const DefaultHashBufferSize = 64 * KB

// Digest is a 128-bit content fingerprint. It is used for equality testing
// only and carries no integrity guarantee.
type Digest [16]byte

// String returns the hex form of the digest
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// HashReader streams r through xxh3-128 using a buffer of bufSize bytes and
// returns the digest and the number of bytes consumed.
func HashReader(r io.Reader, bufSize int) (Digest, int64, error) {
	if bufSize <= 0 {
		bufSize = DefaultHashBufferSize
	}

	hasher := xxh3.New()
	buf := make([]byte, bufSize)

	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Digest{}, total, err
		}
	}

	return Digest(hasher.Sum128().Bytes()), total, nil
}

// HashFile computes the xxh3-128 digest of the complete file content
func HashFile(filepath string, bufSize int) (Digest, int64, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return Digest{}, 0, err
	}
	defer file.Close()

	return HashReader(file, bufSize)
}
