package api

import (
	"strconv"
	"strings"
)

// Identifier names a user either by numeric ID or by screen name.
type Identifier struct {
	id      int64
	handle  string
	numeric bool
}

// UserID identifies a user by numeric ID.
func UserID(id int64) Identifier {
	return Identifier{id: id, numeric: true}
}

// ScreenName identifies a user by screen name.
func ScreenName(name string) Identifier {
	return Identifier{handle: name}
}

// ParseIdentifier interprets command-line input: "@name" and anything that
// is not all digits is a screen name, otherwise a numeric ID.
func ParseIdentifier(s string) Identifier {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "@") {
		return ScreenName(strings.TrimPrefix(s, "@"))
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil && id >= 0 {
		return UserID(id)
	}
	return ScreenName(s)
}

// IsNumeric reports whether the identifier is a numeric ID.
func (i Identifier) IsNumeric() bool { return i.numeric }

// ID returns the numeric ID, or 0 for screen names.
func (i Identifier) ID() int64 { return i.id }

// ScreenName returns the screen name, or "" for numeric IDs.
func (i Identifier) ScreenName() string { return i.handle }

// String renders the identifier as it appears in paths and parameters.
func (i Identifier) String() string {
	if i.numeric {
		return strconv.FormatInt(i.id, 10)
	}
	return i.handle
}
