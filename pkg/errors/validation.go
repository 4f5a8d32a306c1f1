package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidatePath validates a relative output path for safety.
// Sinks use it to keep record names from escaping their output directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No ".." path segments
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidInput, "path must be relative (cannot start with /)")
	}

	if slices.Contains(strings.Split(path, "/"), "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "path cannot contain backslashes")
	}

	return nil
}

// ValidateName validates a record name used as a storage key.
// Names follow the path rules and additionally may not be longer than 256
// characters or contain double slashes.
func ValidateName(name string) error {
	if err := ValidatePath(name); err != nil {
		return err
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}
	if strings.Contains(name, "//") {
		return New(ErrCodeInvalidInput, "name contains invalid characters: %q", "//")
	}
	return nil
}
