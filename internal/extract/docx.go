package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

var errNoDocumentPart = errors.New("missing word/document.xml")

// DocxExtractor returns the text of each body paragraph joined by newlines,
// in document order. Paragraphs nested in tables or text boxes are not body
// paragraphs and are skipped.
type DocxExtractor struct{}

func (DocxExtractor) Format() Format { return FormatWordDocument }

func (DocxExtractor) Extract(ctx context.Context, path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()

		paragraphs, err := bodyParagraphs(ctx, rc)
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		return strings.Join(paragraphs, "\n"), nil
	}

	return "", errNoDocumentPart
}

// bodyParagraphs streams WordprocessingML and collects the text of every
// w:p that is a direct child of w:body.
func bodyParagraphs(ctx context.Context, r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		stack      []string
		current    strings.Builder
		inBodyPara bool
		paraDepth  int
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			local := ""
			if t.Name.Space == wordNamespace {
				local = t.Name.Local
			}

			if local == "p" && !inBodyPara && len(stack) > 0 && stack[len(stack)-1] == "body" {
				inBodyPara = true
				paraDepth = len(stack)
				current.Reset()
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}

			if inBodyPara {
				switch local {
				case "t":
					inText = true
				case "tab":
					current.WriteByte('\t')
				case "br", "cr":
					current.WriteByte('\n')
				}
			}

			stack = append(stack, local)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New("unbalanced document")
			}
			stack = stack[:len(stack)-1]

			if t.Name.Space == wordNamespace && t.Name.Local == "t" {
				inText = false
			}
			if inBodyPara && len(stack) == paraDepth {
				paragraphs = append(paragraphs, current.String())
				inBodyPara = false
			}

		case xml.CharData:
			if inBodyPara && inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
