package channel

import (
	"context"
	nethttp "net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/hcc-go/hcc/retry"
	"github.com/hcc-go/hcc/trace"
)

const (
	// HeaderXRequestID is the standard header name for request tracing
	HeaderXRequestID = trace.HeaderXRequestID
	// HeaderTraceParent is the W3C trace context header name
	HeaderTraceParent = trace.HeaderTraceParent
)

// Client defines the channel interface for making HTTP requests with retries
type Client interface {
	Get(ctx context.Context, req *Request) (*Response, error)
	Post(ctx context.Context, req *Request) (*Response, error)
	Put(ctx context.Context, req *Request) (*Response, error)
	Patch(ctx context.Context, req *Request) (*Response, error)
	Delete(ctx context.Context, req *Request) (*Response, error)
	Do(ctx context.Context, method string, req *Request) (*Response, error)
}

// Request represents an HTTP request with all necessary data.
// Body and JSON are mutually exclusive: JSON is marshaled and sent with an
// application/json content type.
type Request struct {
	URL     string
	Query   map[string]string
	Headers map[string]string
	Body    []byte
	JSON    any
	Auth    *BasicAuth
}

// Response represents an HTTP response with tracking information
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats contains request execution statistics
type Stats struct {
	ElapsedTime time.Duration
	Attempts    int
	CallCount   int64
}

// BasicAuth contains basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// RequestInterceptor is called before sending the request
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// ResponseInterceptor is called after receiving the response
type ResponseInterceptor func(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error

// Config holds the channel configuration
type Config struct {
	Timeout time.Duration
	Retry   retry.Policy
	// RetryableStatusCodes lists response codes eligible for retry.
	// Empty falls back to 408, 429, 500, 502, 503 and 504.
	RetryableStatusCodes []int
	// SuccessStatusCodes restricts which codes count as success.
	// Empty means any 2xx.
	SuccessStatusCodes []int
	// RespectRetryAfter uses the Retry-After header as the backoff hint for
	// 429/503 responses, capped at the retry policy's MaxDelay.
	RespectRetryAfter    bool
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
	BasicAuth            *BasicAuth
	DefaultHeaders       map[string]string
	// Limiter optionally gates every attempt through a client-side rate limiter.
	Limiter *rate.Limiter
}

// NewRequestIDInterceptor creates a request interceptor that stamps the
// X-Request-ID header from context, generating an ID when none is present.
func NewRequestIDInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *nethttp.Request) error {
		if req.Header.Get(HeaderXRequestID) == "" {
			req.Header.Set(HeaderXRequestID, trace.EnsureID(ctx))
		}
		return nil
	}
}
