package extract

import (
	"context"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"rsc.io/pdf"
)

// tjWordGap is the TJ adjustment, in thousandths of an em, past which a
// positioning offset separates two words.
const tjWordGap = 200

// PDFExtractor concatenates the text of every page in page order, with no
// separator between pages. With MaxChars set it stops reading pages once
// that many code points are collected.
type PDFExtractor struct {
	MaxChars int
}

func (PDFExtractor) Format() Format { return FormatPDF }

func (e PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	chars := 0
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if e.MaxChars > 0 && chars >= e.MaxChars {
			break
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text := pageText(page)
		chars += utf8.RuneCountInString(text)
		sb.WriteString(text)
	}

	return sb.String(), nil
}

// pageText runs the page's content streams and returns the shown strings in
// content order, decoded through each font's encoding.
func pageText(page pdf.Page) string {
	w := &textWriter{page: page}

	contents := page.V.Key("Contents")
	switch contents.Kind() {
	case pdf.Stream:
		pdf.Interpret(contents, w.do)
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			if strm := contents.Index(i); strm.Kind() == pdf.Stream {
				pdf.Interpret(strm, w.do)
			}
		}
	}

	return w.sb.String()
}

// textWriter collects text operators. Moves leave a pending word break and
// the baseline of the next shown string decides whether it starts a new
// line, so a page never starts with whitespace and breaks never repeat.
type textWriter struct {
	page      pdf.Page
	enc       pdf.TextEncoding
	sb        strings.Builder
	y         float64
	leading   float64
	shownY    float64
	newLine   bool
	wordBreak bool
}

func (w *textWriter) do(stk *pdf.Stack, op string) {
	n := stk.Len()
	args := make([]pdf.Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = stk.Pop()
	}

	switch op {
	case "Tf":
		if len(args) == 2 {
			w.enc = w.page.Font(args[0].Name()).Encoder()
		}

	case "BT":
		w.y = 0
		w.wordBreak = true

	case "TL":
		if len(args) == 1 {
			w.leading = args[0].Float64()
		}

	case "Td", "TD":
		if len(args) != 2 {
			return
		}
		tx, ty := args[0].Float64(), args[1].Float64()
		if op == "TD" {
			w.leading = -ty
		}
		w.y += ty
		if tx != 0 {
			w.wordBreak = true
		}

	case "Tm":
		if len(args) == 6 {
			w.y = args[5].Float64()
			w.wordBreak = true
		}

	case "T*":
		w.nextLine()

	case "Tj":
		if len(args) == 1 {
			w.show(args[0].RawString())
		}

	case "'":
		if len(args) == 1 {
			w.nextLine()
			w.show(args[0].RawString())
		}

	case "\"":
		if len(args) == 3 {
			w.nextLine()
			w.show(args[2].RawString())
		}

	case "TJ":
		if len(args) != 1 {
			return
		}
		v := args[0]
		for i := 0; i < v.Len(); i++ {
			x := v.Index(i)
			if x.Kind() == pdf.String {
				w.show(x.RawString())
			} else if -x.Float64() > tjWordGap {
				w.wordBreak = true
			}
		}
	}
}

func (w *textWriter) nextLine() {
	w.y -= w.leading
	w.newLine = true
}

func (w *textWriter) show(raw string) {
	text := raw
	if w.enc != nil {
		text = w.enc.Decode(raw)
	}
	if text == "" {
		return
	}

	if w.sb.Len() > 0 {
		switch {
		case w.newLine || w.y != w.shownY:
			w.sb.WriteByte('\n')
		case w.wordBreak && !endsInSpace(w.sb.String()) && !startsWithSpace(text):
			w.sb.WriteByte(' ')
		}
	}
	w.sb.WriteString(text)
	w.shownY = w.y
	w.newLine, w.wordBreak = false, false
}

func endsInSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[len(s)-1]))
}

func startsWithSpace(s string) bool {
	for _, r := range s {
		return unicode.IsSpace(r)
	}
	return false
}
