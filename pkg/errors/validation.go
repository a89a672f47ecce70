package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidatePath validates a POM path listed in a batch manifest.
// Entries are resolved against the manifest's base directory, so they
// must stay inside it.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal out of the base directory
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	clean := filepath.ToSlash(filepath.Clean(path))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return New(ErrCodeInvalidPath, "path escapes the base directory: %s", path)
	}

	return nil
}

// ValidateCoordinate checks a groupId or artifactId token.
// Maven allows letters, digits and the characters ._- in both; property
// references such as ${project.groupId} are let through unchanged.
func ValidateCoordinate(kind, value string) error {
	if value == "" {
		return New(ErrCodeInvalidDependency, "%s cannot be empty", kind)
	}
	if strings.HasPrefix(value, "${") {
		return nil
	}
	for _, r := range value {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidDependency, "%s %q contains whitespace or control characters", kind, value)
		}
	}
	return nil
}
