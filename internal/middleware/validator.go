package middleware

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Input validation and sanitization utilities

// MaxMessageRunes caps a single chat message.
const MaxMessageRunes = 4000

// ValidateWorkspaceID checks the workspace id is a UUID
func ValidateWorkspaceID(id string) error {
	if id == "" {
		return fmt.Errorf("workspace ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid workspace ID format")
	}
	return nil
}

// ValidateMessage sanitizes a chat message and enforces its length.
// An empty result is left to the caller to reject.
func ValidateMessage(msg string) (string, error) {
	msg = SanitizeString(msg)
	if utf8.RuneCountInString(msg) > MaxMessageRunes {
		return "", fmt.Errorf("message too long (max %d characters)", MaxMessageRunes)
	}
	return msg, nil
}

// ValidateFileName validates an uploaded file name
func ValidateFileName(name string) (string, error) {
	name = SanitizeString(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("file name cannot be empty")
	}
	if len(name) > 255 {
		return "", fmt.Errorf("file name too long")
	}
	return name, nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidatePage validates pagination page
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
