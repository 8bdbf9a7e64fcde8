package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWorkspaceID(t *testing.T) {
	assert.NoError(t, ValidateWorkspaceID("7c9e6679-7425-40de-944b-e07fc1f90ae7"))
	assert.Error(t, ValidateWorkspaceID(""))
	assert.Error(t, ValidateWorkspaceID("../etc/passwd"))
}

func TestValidateMessage(t *testing.T) {
	msg, err := ValidateMessage("  what about\x00 indemnity?\x07 ")
	require.NoError(t, err)
	assert.Equal(t, "what about indemnity?", msg)

	msg, err = ValidateMessage(" \x01 ")
	require.NoError(t, err)
	assert.Empty(t, msg)

	_, err = ValidateMessage(strings.Repeat("a", MaxMessageRunes+1))
	assert.Error(t, err)
}

func TestValidateFileName(t *testing.T) {
	name, err := ValidateFileName(`C:\Users\me\vendor msa.pdf`)
	require.NoError(t, err)
	assert.Equal(t, "vendor msa.pdf", name)

	name, err = ValidateFileName("../../contract.txt")
	require.NoError(t, err)
	assert.Equal(t, "contract.txt", name)

	_, err = ValidateFileName("")
	assert.Error(t, err)
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 1, ValidatePage(-3))
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 100, ValidateLimit(1000))
	assert.Equal(t, 15, ValidateLimit(15))
}
