package domain

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	apperrors "estate-bridge/errors"
)

// Document is a supporting file attached to a listing (deed scan,
// floor plan). Only the name and detected media type travel with the
// listing; file bytes stay outside the ledger.
type Document struct {
	Name string `json:"name"`
	MIME string `json:"mime"`
}

var allowedDocumentMIMEs = map[string]struct{}{
	"application/pdf": {},
	"image/png":       {},
	"image/jpeg":      {},
}

// DetectDocument sniffs the content type from the file bytes and
// rejects anything outside the allowlist. The client-supplied filename
// is never trusted for type decisions.
func DetectDocument(name string, content []byte) (Document, error) {
	mt := mimetype.Detect(content)
	base, _, _ := strings.Cut(mt.String(), ";")
	base = strings.TrimSpace(base)
	if _, ok := allowedDocumentMIMEs[base]; !ok {
		return Document{}, fmt.Errorf("%w: %s", apperrors.ErrDocumentRejected, base)
	}
	return Document{Name: name, MIME: base}, nil
}
