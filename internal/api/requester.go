package api

import "context"

// Requester performs one HTTP call per method. It is the only collaborator
// of the endpoint methods on Base.
//
// Implementations must return a *Response with Doc populated unless
// opts.RawJSON is set, and must report non-2xx statuses as an error that
// IsNotFoundError can classify. IsListMember turns a not-found error into
// false instead of failing, so an implementation that swallows 404s would
// make every membership check succeed.
//
// opts may be nil.
type Requester interface {
	Get(ctx context.Context, path string, opts *RequestOptions) (*Response, error)
	Post(ctx context.Context, path string, opts *RequestOptions) (*Response, error)
	Put(ctx context.Context, path string, opts *RequestOptions) (*Response, error)
	Delete(ctx context.Context, path string, opts *RequestOptions) (*Response, error)
}
