package extract

import (
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// sniffExtractor picks a variant from the file's leading bytes. It returns
// nil when detection fails or the type has no dedicated extractor.
func (r *Registry) sniffExtractor(path string) Extractor {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Content sniffing failed")
		return nil
	}

	switch {
	case mtype.Is("application/pdf"):
		return r.byExt[".pdf"]
	case mtype.Is(docxMIME):
		return r.byExt[".docx"]
	case mtype.Is("text/plain"):
		return r.byExt[".txt"]
	}
	return nil
}
