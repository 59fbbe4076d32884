package validation

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxUploadBytes caps images sent to the profile image and background endpoints.
const MaxUploadBytes = 800 * 1024

var hexColor = regexp.MustCompile(`^#?(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseID parses a positive 64-bit status, message or user ID.
// A leading "#" is accepted.
func ParseID(s string, fieldName string) (int64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", fieldName, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", fieldName)
	}
	return id, nil
}

// ValidateHexColor checks a profile color such as "fff" or "#1da1f2".
func ValidateHexColor(field, value string) error {
	if value == "" {
		return nil
	}
	if !hexColor.MatchString(value) {
		return fmt.Errorf("invalid %s %q: expected a 3 or 6 digit hex color", field, value)
	}
	return nil
}

// uploadTypes are the image formats the profile endpoints accept.
var uploadTypes = []string{"image/jpeg", "image/png", "image/gif"}

// ValidateUploadFile checks that path names a regular file small enough to
// upload whose content is a JPEG, PNG or GIF image.
func ValidateUploadFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	if info.Size() > MaxUploadBytes {
		return fmt.Errorf("%s is %d bytes; uploads are limited to %d bytes", path, info.Size(), MaxUploadBytes)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	for _, t := range uploadTypes {
		if mt.Is(t) {
			return nil
		}
	}
	return fmt.Errorf("%s looks like %s; expected a JPEG, PNG or GIF image", path, mt.String())
}
