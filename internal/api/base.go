package api

import (
	"context"
	"log/slog"

	"github.com/tweetkit/tw/internal/formdata"
)

// Base exposes one method per remote action. Each method builds a resource
// path and RequestOptions and hands them to the Requester; nothing is cached
// between calls, so a Base is safe for concurrent use when its Requester is.
//
// Arguments are not validated locally. Malformed input surfaces as the
// error the API returns.
type Base struct {
	req      Requester
	logger   *slog.Logger
	boundary formdata.BoundarySource
}

// BaseOption configures a Base.
type BaseOption func(*Base)

// WithLogger sets the logger that receives deprecation warnings.
func WithLogger(l *slog.Logger) BaseOption {
	return func(b *Base) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithBoundarySource sets the multipart boundary source used for uploads.
func WithBoundarySource(src formdata.BoundarySource) BaseOption {
	return func(b *Base) {
		b.boundary = src
	}
}

// NewBase returns a Base sending requests through r.
func NewBase(r Requester, opts ...BaseOption) *Base {
	b := &Base{req: r, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Requester returns the collaborator the Base sends requests through.
func (b *Base) Requester() Requester {
	return b.req
}

func (b *Base) get(ctx context.Context, path string, q Params) (*Response, error) {
	return b.req.Get(ctx, path, queryOptions(q))
}

func (b *Base) post(ctx context.Context, path string, body Params) (*Response, error) {
	return b.req.Post(ctx, path, bodyOptions(body))
}

func (b *Base) upload(ctx context.Context, path string, parts []formdata.Part) (*Response, error) {
	var opts []formdata.Option
	if b.boundary != nil {
		opts = append(opts, formdata.WithBoundarySource(b.boundary))
	}
	payload, err := formdata.Build(parts, opts...)
	if err != nil {
		return nil, err
	}
	return b.req.Post(ctx, path, multipartOptions(payload))
}

// existsFromResult is the one place a failed request becomes a boolean: a
// not-found error means false, any other error is returned, and a response
// is true unless its body carries an error indicator.
func existsFromResult(resp *Response, err error) (bool, error) {
	if err != nil {
		if IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return !resp.HasError(), nil
}

func withCursor(q Params, cursor string) Params {
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	return q
}
