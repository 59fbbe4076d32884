package formdata

import "strings"

// MIMEType infers the content type of an upload from its path.
//
// Matching is case-sensitive and ".jpg" matches anywhere in the path while
// ".gif" and ".png" must be suffixes, so "photo.GIF" and "me.JPG" upload as
// application/octet-stream. Existing upload clients depend on this.
func MIMEType(path string) string {
	switch {
	case strings.Contains(path, ".jpg"):
		return "image/jpg"
	case strings.HasSuffix(path, ".gif"):
		return "image/gif"
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
