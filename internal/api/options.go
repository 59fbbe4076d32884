package api

import "github.com/tweetkit/tw/internal/formdata"

// RequestOptions describes everything but the verb and path of a request.
type RequestOptions struct {
	// Query is appended to the URL. Used by GET and DELETE.
	Query Params
	// Body is sent form-encoded. Used by POST and PUT.
	Body Params
	// Payload is a pre-encoded body sent verbatim; it takes precedence over Body.
	Payload []byte
	// Headers are set on the request after the defaults, so they can
	// override Content-Type.
	Headers map[string]string
	// RawJSON skips decoding the response into a Document.
	RawJSON bool
}

func queryOptions(q Params) *RequestOptions {
	return &RequestOptions{Query: q}
}

func bodyOptions(b Params) *RequestOptions {
	return &RequestOptions{Body: b}
}

func multipartOptions(p *formdata.Payload) *RequestOptions {
	return &RequestOptions{Payload: p.Body, Headers: p.Headers}
}

// ContentType returns the effective Content-Type the executor will send.
func (o *RequestOptions) ContentType() string {
	if o == nil {
		return ""
	}
	if ct, ok := o.Headers["Content-Type"]; ok {
		return ct
	}
	if o.Payload == nil && o.Body.Len() > 0 {
		return "application/x-www-form-urlencoded"
	}
	return ""
}

// EncodedBody returns the bytes the executor will send as the request body.
func (o *RequestOptions) EncodedBody() []byte {
	if o == nil {
		return nil
	}
	if o.Payload != nil {
		return o.Payload
	}
	if o.Body.Len() > 0 {
		return []byte(o.Body.Encode())
	}
	return nil
}
