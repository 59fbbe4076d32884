// Package dryrun previews API calls instead of sending them.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"

	"github.com/tweetkit/tw/internal/api"
)

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Preview describes one request that would have been sent.
type Preview struct {
	Method  string
	Path    string
	Query   string
	Body    string
	Headers map[string]string
	// PayloadSize is the length of a pre-encoded (multipart) body.
	PayloadSize int
}

// Write outputs the preview to the writer.
func (p *Preview) Write(w io.Writer) {
	target := p.Path
	if p.Query != "" {
		target += "?" + p.Query
	}
	_, _ = fmt.Fprintf(w, "\n[DRY-RUN] Would %s %s\n", p.Method, target)
	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")

	if p.Body != "" {
		_, _ = fmt.Fprintf(w, "  body: %s\n", p.Body)
	}
	if p.PayloadSize > 0 {
		_, _ = fmt.Fprintf(w, "  payload: %d bytes\n", p.PayloadSize)
	}
	keys := make([]string, 0, len(p.Headers))
	for k := range p.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", k, p.Headers[k])
	}

	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintln(w, "No request sent (dry-run mode)")
}

// Recorder is an api.Requester that writes a Preview for each call and
// answers with an empty 200 response.
type Recorder struct {
	Out io.Writer

	mu    sync.Mutex
	calls []Preview
}

var _ api.Requester = (*Recorder)(nil)

// NewRecorder returns a Recorder writing previews to out.
func NewRecorder(out io.Writer) *Recorder {
	return &Recorder{Out: out}
}

// Calls returns the previews recorded so far.
func (r *Recorder) Calls() []Preview {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Preview(nil), r.calls...)
}

func (r *Recorder) Get(ctx context.Context, path string, opts *api.RequestOptions) (*api.Response, error) {
	return r.record(ctx, http.MethodGet, path, opts)
}

func (r *Recorder) Post(ctx context.Context, path string, opts *api.RequestOptions) (*api.Response, error) {
	return r.record(ctx, http.MethodPost, path, opts)
}

func (r *Recorder) Put(ctx context.Context, path string, opts *api.RequestOptions) (*api.Response, error) {
	return r.record(ctx, http.MethodPut, path, opts)
}

func (r *Recorder) Delete(ctx context.Context, path string, opts *api.RequestOptions) (*api.Response, error) {
	return r.record(ctx, http.MethodDelete, path, opts)
}

func (r *Recorder) record(ctx context.Context, method, path string, opts *api.RequestOptions) (*api.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := Preview{Method: method, Path: path}
	if opts != nil {
		p.Query = opts.Query.Encode()
		if opts.Payload != nil {
			p.PayloadSize = len(opts.Payload)
		} else {
			p.Body = opts.Body.Encode()
		}
		if len(opts.Headers) > 0 {
			p.Headers = make(map[string]string, len(opts.Headers))
			for k, v := range opts.Headers {
				p.Headers[k] = v
			}
		}
	}

	r.mu.Lock()
	r.calls = append(r.calls, p)
	r.mu.Unlock()

	if r.Out != nil {
		p.Write(r.Out)
	}
	resp := &api.Response{StatusCode: http.StatusOK, Header: http.Header{}}
	if opts == nil || !opts.RawJSON {
		resp.Doc = api.NewDocument(nil)
	}
	return resp, nil
}
