package review

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// DetectMediaType normalises the declared media type of an upload. When the
// client sent nothing useful it falls back to the file extension.
func DetectMediaType(name, declared string) string {
	mt := strings.ToLower(strings.TrimSpace(declared))
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	if mt != "" && mt != "application/octet-stream" {
		return mt
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MediaTypePDF
	case ".txt":
		return MediaTypeText
	}
	return mt
}

// IsAccepted reports whether mt is one of the two upload types.
func IsAccepted(mt string) bool {
	return mt == MediaTypePDF || mt == MediaTypeText
}

// NewDocument validates an upload and wraps it as a Document.
func NewDocument(name, declared string, data []byte, now time.Time) (*Document, error) {
	mt := DetectMediaType(name, declared)
	if !IsAccepted(mt) {
		return nil, ErrUnsupportedMediaType
	}
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	sum := sha256.Sum256(data)
	return &Document{
		Name:      filepath.Base(name),
		MediaType: mt,
		Size:      int64(len(data)),
		SHA256:    hex.EncodeToString(sum[:]),
		LoadedAt:  now,
		Data:      data,
	}, nil
}

// EncodeDocument turns a document into a base64 part tagged with its media type.
func EncodeDocument(doc *Document) (DocumentPart, error) {
	if doc == nil || !IsAccepted(doc.MediaType) {
		return DocumentPart{}, ErrUnsupportedMediaType
	}
	return DocumentPart{
		MediaType: doc.MediaType,
		Data:      base64.StdEncoding.EncodeToString(doc.Data),
	}, nil
}

// Bytes decodes the part back to raw bytes.
func (p DocumentPart) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(p.Data)
}
