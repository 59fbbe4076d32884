// Package formdata encodes multipart/form-data request bodies for profile
// image and background uploads.
//
// The framing is written by hand so that CRLF placement, field-name escaping
// and the trailing delimiter match what the upload endpoints have always
// received.
package formdata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
)

const crlf = "\r\n"

// maxBoundaryAttempts bounds how many boundaries are drawn before giving up
// on a payload whose content keeps colliding.
const maxBoundaryAttempts = 8

// ErrBoundaryCollision is returned when no drawn boundary was absent from
// the encoded content.
var ErrBoundaryCollision = errors.New("formdata: could not find a boundary absent from the payload")

// File is a file-like part value: a byte source plus the path or name it was
// opened from. *os.File satisfies it.
type File interface {
	io.Reader
	Name() string
}

// Part is one field of a multipart body. Value is either a File or a plain
// scalar written with fmt.Sprint; nil is written as an empty value.
type Part struct {
	Name  string
	Value any
}

// Payload is an encoded multipart body and the headers that must accompany it.
type Payload struct {
	Body    []byte
	Headers map[string]string
}

// ContentType returns the Content-Type header value of the payload.
func (p *Payload) ContentType() string {
	if p == nil {
		return ""
	}
	return p.Headers["Content-Type"]
}

// Option configures a Build call.
type Option func(*builder)

// WithBoundarySource replaces the default boundary source.
func WithBoundarySource(src BoundarySource) Option {
	return func(b *builder) {
		if src != nil {
			b.boundary = src
		}
	}
}

type builder struct {
	boundary BoundarySource
}

// field is a part whose value has been fully materialized.
type field struct {
	name     string
	filename string
	mimeType string
	content  []byte
	isFile   bool
}

// Build encodes parts, in order, into a multipart/form-data payload.
// File values are read to completion exactly once.
func Build(parts []Part, opts ...Option) (*Payload, error) {
	b := &builder{boundary: DefaultBoundary}
	for _, opt := range opts {
		opt(b)
	}

	fields, err := materialize(parts)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxBoundaryAttempts; attempt++ {
		boundary := b.boundary()
		if boundary == "" || collides(boundary, fields) {
			continue
		}
		return &Payload{
			Body: encode(boundary, fields),
			Headers: map[string]string{
				"Content-Type": "multipart/form-data; boundary=" + boundary,
			},
		}, nil
	}
	return nil, ErrBoundaryCollision
}

func materialize(parts []Part) ([]field, error) {
	fields := make([]field, 0, len(parts))
	for _, p := range parts {
		f := field{name: url.QueryEscape(p.Name)}
		if file, ok := p.Value.(File); ok {
			data, err := io.ReadAll(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read file for field %s: %w", p.Name, err)
			}
			f.isFile = true
			f.filename = filepath.Base(file.Name())
			f.mimeType = MIMEType(file.Name())
			f.content = data
		} else if p.Value != nil {
			f.content = []byte(fmt.Sprint(p.Value))
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func collides(boundary string, fields []field) bool {
	token := []byte("--" + boundary)
	for _, f := range fields {
		if bytes.Contains(f.content, token) || bytes.Contains([]byte(f.filename), token) {
			return true
		}
	}
	return false
}

func encode(boundary string, fields []field) []byte {
	var buf bytes.Buffer
	for _, f := range fields {
		buf.WriteString("--" + boundary + crlf)
		if f.isFile {
			fmt.Fprintf(&buf, "Content-Disposition: form-data; name=\"%s\"; filename=\"%s\"%s", f.name, f.filename, crlf)
			buf.WriteString("Content-Type: " + f.mimeType + crlf + crlf)
		} else {
			fmt.Fprintf(&buf, "Content-Disposition: form-data; name=\"%s\"%s%s", f.name, crlf, crlf)
		}
		buf.Write(f.content)
		buf.WriteString(crlf)
	}
	buf.WriteString("--" + boundary + "--" + crlf + crlf)
	return buf.Bytes()
}

// memFile is an in-memory File.
type memFile struct {
	*bytes.Reader
	name string
}

func (f *memFile) Name() string { return f.name }

// NewFile wraps data as a File named name.
func NewFile(name string, data []byte) File {
	return &memFile{Reader: bytes.NewReader(data), name: name}
}
