package review

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMediaType(t *testing.T) {
	assert.Equal(t, MediaTypePDF, DetectMediaType("contract.pdf", ""))
	assert.Equal(t, MediaTypePDF, DetectMediaType("contract.PDF", "application/octet-stream"))
	assert.Equal(t, MediaTypeText, DetectMediaType("terms", "text/plain; charset=utf-8"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		DetectMediaType("contract.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
	assert.Equal(t, "", DetectMediaType("contract.docx", ""))
}

func TestNewDocumentRejectsDocx(t *testing.T) {
	doc, err := NewDocument("contract.docx", "", []byte("PK..."), time.Now())
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
}

func TestNewDocumentRejectsEmpty(t *testing.T) {
	_, err := NewDocument("contract.txt", "text/plain", nil, time.Now())
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestEncodeDocument(t *testing.T) {
	data := []byte("Payment terms: Net 30.")
	doc, err := NewDocument("dir/contract.txt", "", data, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, "contract.txt", doc.Name)
	assert.Len(t, doc.SHA256, 64)

	part, err := EncodeDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, MediaTypeText, part.MediaType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), part.Data)

	back, err := part.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, back)
}

func TestChatMessageSettleOnce(t *testing.T) {
	m := ChatMessage{Status: StatusPending}
	m.Settle(false)
	assert.Equal(t, StatusFailed, m.Status)
	m.Settle(true)
	assert.Equal(t, StatusFailed, m.Status)
}
