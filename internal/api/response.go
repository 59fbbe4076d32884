package api

import (
	"fmt"
	"net/http"
)

// Response is a completed API call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Doc is the decoded body; nil when the request asked for RawJSON.
	Doc *Document
}

// Document returns the decoded body, decoding it on demand for RawJSON
// responses. Undecodable bodies yield a null document.
func (r *Response) Document() *Document {
	if r == nil {
		return &Document{}
	}
	if r.Doc != nil {
		return r.Doc
	}
	doc, err := ParseDocument(r.Body)
	if err != nil {
		return &Document{}
	}
	return doc
}

// ErrorMessage returns the error indicator carried in the body, if any:
// the "error" member, or the first entry of an "errors" member.
func (r *Response) ErrorMessage() string {
	doc := r.Document()
	if msg := doc.String("error"); msg != "" {
		return msg
	}
	errs := doc.Get("errors")
	switch {
	case errs.Len() > 0 && errs.Index(0).Has("message"):
		return errs.Index(0).String("message")
	case errs.Len() > 0:
		return scalarString(errs.Index(0).Value())
	default:
		return scalarString(errs.Value())
	}
}

// errorCode returns the numeric code of the first "errors" entry, or 0.
func (r *Response) errorCode() int {
	errs := r.Document().Get("errors")
	if errs.Len() == 0 {
		return 0
	}
	return int(errs.Index(0).Int64("code"))
}

// HasError reports whether the body carries an error indicator.
func (r *Response) HasError() bool {
	return r.ErrorMessage() != ""
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Body) == 0 {
		return nil
	}
	if err := jsonAPI.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)
	}
	return nil
}
