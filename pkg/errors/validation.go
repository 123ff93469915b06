package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateCommandText validates the text of a single chain command.
//
// Command semantics are not interpreted; the checks only reject input that
// cannot be stored in a command block:
//   - No empty commands
//   - No control characters (newlines split commands in text documents)
//   - Maximum length of 32500 characters (the command block limit)
func ValidateCommandText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidChain, "command cannot be empty")
	}

	const maxCommandLength = 32500
	if len(text) > maxCommandLength {
		return New(ErrCodeInvalidChain, "command too long (max %d characters)", maxCommandLength)
	}

	for _, r := range text {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidChain, "command contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates a relative output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidArgument, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidArgument, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidArgument, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidArgument, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// layoutIDRegex matches the canonical lowercase UUID form used for layout IDs.
var layoutIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateLayoutID validates a layout identifier taken from user input (URL paths).
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidArgument, "layout id cannot be empty")
	}
	if !layoutIDRegex.MatchString(id) {
		return New(ErrCodeInvalidArgument, "invalid layout id: %q", id)
	}
	return nil
}

// ValidateAuthor validates the author recorded in exported structure files.
func ValidateAuthor(author string) error {
	if len(author) > 64 {
		return New(ErrCodeInvalidArgument, "author too long (max 64 characters)")
	}
	for _, r := range author {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidArgument, "author contains invalid control characters")
		}
	}
	return nil
}
