package formdata

import (
	"strconv"
	"time"

	"github.com/rs/xid"
)

// BoundarySource returns a candidate multipart boundary. Implementations
// must be safe for concurrent use.
type BoundarySource func() string

// DefaultBoundary draws an xid: creation time, machine, process and an
// atomic counter, so two calls in the same second still differ.
func DefaultBoundary() string {
	return xid.New().String()
}

// LegacyBoundary is the hex Unix-seconds boundary older clients sent. Calls
// within the same second return the same value; Build still rejects it when
// it occurs in the content.
func LegacyBoundary() string {
	return strconv.FormatInt(time.Now().Unix(), 16)
}
