// Package storage stores uploaded post images. Two backends implement
// the same interface: local disk and S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrDisallowedExtension is returned when an upload's extension is not
// on the allow-list. Surfaced to the user as a validation error rather
// than silently dropping the file.
var ErrDisallowedExtension = errors.New("file extension not allowed")

// ImageStore persists uploaded images under generated keys
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// SanitizeFilename strips path components and unsafe characters from an
// uploaded file's name so it can be used as part of a storage key.
func SanitizeFilename(name string) string {
	// Path separators from any client OS
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	// Leading dots would make hidden or relative-looking names
	cleaned := strings.TrimLeft(b.String(), ".")
	if strings.Trim(cleaned, "._") == "" {
		return "file"
	}
	return cleaned
}

// extension returns the lower-cased extension without the leading dot
func extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// checkExtension validates the upload's extension against the allow-list
func checkExtension(name string, allowed []string) error {
	ext := extension(name)
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrDisallowedExtension, ext)
}

// generateKey builds a collision-free storage key from a sanitized
// filename. The random prefix means two uploads with the same name can
// never overwrite each other.
func generateKey(filename string) string {
	return fmt.Sprintf("%s_%s", uuid.New().String(), SanitizeFilename(filename))
}
