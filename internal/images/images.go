// Package images decodes self-describing base64 image payloads
// ("data:image/png;base64,...") and stores them under the media directory.
package images

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidDataURI is returned when the payload is not a base64 image data URI.
var ErrInvalidDataURI = errors.New("invalid image data URI")

const dataURIPrefix = "data:image/"

// Decode splits a data URI into its image format and raw bytes.
func Decode(dataURI string) (format string, data []byte, err error) {
	if !strings.HasPrefix(dataURI, dataURIPrefix) {
		return "", nil, ErrInvalidDataURI
	}
	rest := strings.TrimPrefix(dataURI, dataURIPrefix)

	sep := strings.Index(rest, ";base64,")
	if sep <= 0 {
		return "", nil, ErrInvalidDataURI
	}
	format = rest[:sep]
	encoded := rest[sep+len(";base64,"):]
	if encoded == "" {
		return "", nil, ErrInvalidDataURI
	}

	data, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, ErrInvalidDataURI
	}
	return format, data, nil
}

// Store writes decoded image bytes under dir/subdir with a random name and
// returns the path relative to dir.
func Store(dir, subdir, format string, data []byte) (string, error) {
	rel := filepath.Join(subdir, uuid.New().String()+"."+format)
	full := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return rel, nil
}

// DecodeAndStore decodes a data URI and persists it in one step.
func DecodeAndStore(dir, subdir, dataURI string) (string, error) {
	format, data, err := Decode(dataURI)
	if err != nil {
		return "", err
	}
	return Store(dir, subdir, format, data)
}
