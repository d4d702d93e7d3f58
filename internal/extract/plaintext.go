package extract

import (
	"context"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// bomBytes is the longest byte order mark DecodeText recognises
const bomBytes = 3

// PlainTextExtractor decodes text files as UTF-8, honouring a UTF-8 or
// UTF-16 byte order mark. Malformed sequences become U+FFFD.
//
// With MaxChars set only the bytes that can hold the first MaxChars code
// points are read.
type PlainTextExtractor struct {
	MaxChars int
}

func (PlainTextExtractor) Format() Format { return FormatPlainText }

func (e PlainTextExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var r io.Reader = f
	if e.MaxChars > 0 {
		r = io.LimitReader(f, int64(e.MaxChars)*utf8.UTFMax+bomBytes)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return truncateChars(DecodeText(data), e.MaxChars), nil
}

// FallbackExtractor handles unrecognised extensions with the same best-effort
// decode as PlainTextExtractor.
type FallbackExtractor struct {
	MaxChars int
}

func (FallbackExtractor) Format() Format { return FormatFallbackBinary }

func (e FallbackExtractor) Extract(ctx context.Context, path string) (string, error) {
	return PlainTextExtractor{MaxChars: e.MaxChars}.Extract(ctx, path)
}

// DecodeText decodes raw bytes best-effort. It never fails.
func DecodeText(data []byte) string {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

// truncateChars keeps the first n code points of s. Zero keeps everything.
func truncateChars(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
