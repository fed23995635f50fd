package errors

import (
	"strings"
	"unicode"
)

const (
	maxIdentifierLength = 256
	maxLabelLength      = 1024
	maxFilenameLength   = 255
)

// ValidateIdentifier validates a node identifier or cluster name.
//
// The rules are:
//   - No empty identifiers
//   - No control characters (including newlines)
//   - Maximum length of 256 bytes
func ValidateIdentifier(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}
	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidInput, "identifier too long (max %d characters)", maxIdentifierLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier %q contains control characters", id)
		}
	}
	return nil
}

// ValidateLabel validates a display label. Labels may span several lines,
// so newlines are accepted; every other control character is rejected.
func ValidateLabel(label string) error {
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxLabelLength)
	}
	for _, r := range label {
		if r != '\n' && unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label %q contains control characters", label)
		}
	}
	return nil
}

// ValidateFilename validates an output file name (without extension).
// It must be a plain basename: no separators, no traversal, no hidden files.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFilename, "filename cannot be empty")
	}
	if len(name) > maxFilenameLength {
		return New(ErrCodeInvalidFilename, "filename too long (max %d characters)", maxFilenameLength)
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidFilename, "filename %q cannot contain path separators", name)
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidFilename, "filename %q cannot be a hidden file", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFilename, "filename %q contains control characters", name)
		}
	}
	return nil
}
