// Package fetcher defines the HTTP fetch contract the extraction pipeline
// depends on. Implementations perform exactly one GET per call: no retries,
// no redirects beyond the transport's defaults, whole-body reads only.
package fetcher

import (
	"context"
	"net/http"
	"time"
)

// Request describes a single page fetch.
type Request struct {
	URL     string
	Headers http.Header
}

// Response is the raw outcome of a fetch.
type Response struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// OK reports whether the response carries a usable body.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Fetcher retrieves one page. A transport failure or timeout surfaces as an
// error; callers downstream of the pipeline boundary translate both error
// and non-2xx outcomes into absence.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (Response, error)
}
