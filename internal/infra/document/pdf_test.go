package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTextRemovesNulAndControls(t *testing.T) {
	in := "ab\x00cd\x01\x02\n\txy"
	assert.Equal(t, "abcd\n\txy", SanitizeText(in))
}

func TestPageCountRejectsGarbage(t *testing.T) {
	_, err := NewInspector().PageCount([]byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestExtractTextRejectsGarbage(t *testing.T) {
	_, err := ExtractText([]byte("definitely not a pdf"))
	assert.Error(t, err)
}
