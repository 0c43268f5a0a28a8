package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/hcc-go/hcc/logger"
	"github.com/hcc-go/hcc/retry"
	"github.com/hcc-go/hcc/trace"
)

const (
	// DefaultTimeout is the default per-request timeout duration
	DefaultTimeout = 2 * time.Second

	headerContentType = "Content-Type"
	headerRetryAfter  = "Retry-After"
	contentTypeJSON   = "application/json"
)

// defaultRetryableStatuses are the response codes retried when none are configured.
var defaultRetryableStatuses = []int{
	nethttp.StatusRequestTimeout,
	nethttp.StatusTooManyRequests,
	nethttp.StatusInternalServerError,
	nethttp.StatusBadGateway,
	nethttp.StatusServiceUnavailable,
	nethttp.StatusGatewayTimeout,
}

// channel implements the Client interface
type channel struct {
	httpClient           *nethttp.Client
	logger               logger.Logger
	config               *Config
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	retryableStatuses    map[int]bool
	successStatuses      map[int]bool
	callCount            int64
}

// New creates a new channel client with default configuration:
// 2s timeout and the default retry policy (5 attempts, exponential backoff).
func New(log logger.Logger) Client {
	return NewBuilder(log).Build()
}

// Builder provides a fluent interface for configuring the channel client
type Builder struct {
	config     *Config
	logger     logger.Logger
	httpClient *nethttp.Client
	transport  nethttp.RoundTripper
}

// NewBuilder creates a new client builder
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		config: &Config{
			Timeout:              DefaultTimeout,
			Retry:                retry.DefaultPolicy(),
			RequestInterceptors:  []RequestInterceptor{},
			ResponseInterceptors: []ResponseInterceptor{},
			DefaultHeaders:       make(map[string]string),
		},
		logger: log,
	}
}

// WithTimeout sets the per-request timeout
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithRetryPolicy sets the retry budget and backoff schedule
func (b *Builder) WithRetryPolicy(p retry.Policy) *Builder {
	b.config.Retry = p
	return b
}

// WithRetryableStatuses replaces the set of response codes eligible for retry
func (b *Builder) WithRetryableStatuses(codes ...int) *Builder {
	b.config.RetryableStatusCodes = codes
	return b
}

// WithSuccessStatuses restricts which response codes count as success.
// Without it, any 2xx response succeeds.
func (b *Builder) WithSuccessStatuses(codes ...int) *Builder {
	b.config.SuccessStatusCodes = codes
	return b
}

// WithRetryAfter controls whether a Retry-After header on 429/503 responses
// overrides the computed backoff delay.
func (b *Builder) WithRetryAfter(respect bool) *Builder {
	b.config.RespectRetryAfter = respect
	return b
}

// WithBasicAuth sets basic authentication credentials
func (b *Builder) WithBasicAuth(username, password string) *Builder {
	b.config.BasicAuth = &BasicAuth{
		Username: username,
		Password: password,
	}
	return b
}

// WithDefaultHeader adds a default header that will be sent with all requests
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.config.DefaultHeaders[key] = value
	return b
}

// WithRequestInterceptor adds a request interceptor
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.config.RequestInterceptors = append(b.config.RequestInterceptors, interceptor)
	return b
}

// WithResponseInterceptor adds a response interceptor
func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.config.ResponseInterceptors = append(b.config.ResponseInterceptors, interceptor)
	return b
}

// WithHTTPClient supplies a custom *http.Client. Its zero timeout is
// replaced by the builder timeout.
func (b *Builder) WithHTTPClient(client *nethttp.Client) *Builder {
	b.httpClient = client
	return b
}

// WithTransport sets the transport for the default client,
// e.g. PooledTransport() for long-lived channels.
func (b *Builder) WithTransport(rt nethttp.RoundTripper) *Builder {
	b.transport = rt
	return b
}

// WithRateLimit gates every attempt through a client-side token bucket.
func (b *Builder) WithRateLimit(limit float64, burst int) *Builder {
	b.config.Limiter = rate.NewLimiter(rate.Limit(limit), burst)
	return b
}

// Build creates the channel client with the configured options
func (b *Builder) Build() Client {
	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &nethttp.Client{
			Timeout:   b.config.Timeout,
			Transport: b.transport,
		}
	} else if httpClient.Timeout == 0 {
		httpClient.Timeout = b.config.Timeout
	}

	return &channel{
		httpClient:           httpClient,
		logger:               b.logger,
		config:               b.config,
		requestInterceptors:  b.config.RequestInterceptors,
		responseInterceptors: b.config.ResponseInterceptors,
		retryableStatuses:    statusSet(b.config.RetryableStatusCodes, defaultRetryableStatuses),
		successStatuses:      statusSet(b.config.SuccessStatusCodes, nil),
	}
}

func statusSet(codes, fallback []int) map[int]bool {
	if len(codes) == 0 {
		codes = fallback
	}
	set := make(map[int]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}

// Get performs a GET request
func (c *channel) Get(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodGet, req)
}

// Post performs a POST request
func (c *channel) Post(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPost, req)
}

// Put performs a PUT request
func (c *channel) Put(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPut, req)
}

// Patch performs a PATCH request
func (c *channel) Patch(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPatch, req)
}

// Delete performs a DELETE request
func (c *channel) Delete(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodDelete, req)
}

// Do performs an HTTP request with the specified method, retrying transient
// failures per the configured policy.
func (c *channel) Do(ctx context.Context, method string, req *Request) (*Response, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	callCount := atomic.AddInt64(&c.callCount, 1)
	maxAttempts := c.config.Retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = retry.DefaultMaxAttempts
	}

	attempts := 0
	resp, err := retry.Do(ctx, c.config.Retry, func(ctx context.Context) (*Response, error) {
		attempts++
		return c.attempt(ctx, method, req, attempts, maxAttempts)
	})
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("method", method).
			Str("url", req.URL).
			Int("attempts", attempts).
			Msg("channel request failed")
		return nil, err
	}

	resp.Stats = Stats{
		ElapsedTime: time.Since(start),
		Attempts:    attempts,
		CallCount:   callCount,
	}
	c.logResponse(resp)
	return resp, nil
}

// attempt issues a single request and classifies the outcome for the retry loop.
func (c *channel) attempt(ctx context.Context, method string, req *Request, attempt, maxAttempts int) (*Response, error) {
	c.logRequest(method, req, attempt, maxAttempts)

	if c.config.Limiter != nil {
		if err := c.config.Limiter.Wait(ctx); err != nil {
			return nil, retry.Permanent(NewNetworkError("rate limiter wait aborted", err))
		}
	}

	httpReq, err := c.buildRequest(ctx, method, req)
	if err != nil {
		return nil, retry.Permanent(err)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classifyTransportError(err)
	}

	resp, err := c.buildResponse(ctx, httpReq, httpResp)
	if err != nil {
		return nil, err
	}

	if c.isSuccessStatus(resp.StatusCode) {
		return resp, nil
	}

	httpErr := NewHTTPError(
		fmt.Sprintf("HTTP request failed with status %d", resp.StatusCode),
		resp.StatusCode,
		resp.Body,
	)

	if !c.isRetryableStatus(resp.StatusCode) {
		return nil, retry.Permanent(httpErr)
	}

	if c.config.RespectRetryAfter && retryAfterApplies(resp.StatusCode) {
		if after, ok := parseRetryAfter(resp.Headers.Get(headerRetryAfter), time.Now()); ok {
			return nil, retry.Delayed(httpErr, after)
		}
	}
	return nil, httpErr
}

// classifyTransportError maps transport failures to the error taxonomy.
// Timeouts and connection errors are retryable; cancellation is not.
func (c *channel) classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return retry.Permanent(NewNetworkError("request canceled", err))
	}
	if isTimeout(err) {
		return NewTimeoutError("request timed out", c.config.Timeout, err)
	}
	return NewNetworkError("request execution failed", err)
}

// validateRequest validates the request before sending
func (c *channel) validateRequest(req *Request) error {
	if req == nil {
		return NewValidationError("request cannot be nil", "request")
	}
	if req.URL == "" {
		return NewValidationError("URL cannot be empty", "url")
	}
	if req.Body != nil && req.JSON != nil {
		return NewValidationError("only one of Body or JSON can be provided", "body")
	}
	return nil
}

// applyHeaders applies headers to the HTTP request
func (c *channel) applyHeaders(httpReq *nethttp.Request, req *Request) {
	// Apply default headers first
	for key, value := range c.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}

	// Apply request-specific headers (these override defaults)
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	// Set Content-Type if not already set and body is present
	if httpReq.Header.Get(headerContentType) == "" && (req.Body != nil || req.JSON != nil) {
		httpReq.Header.Set(headerContentType, contentTypeJSON)
	}
}

// applyAuth applies authentication to the HTTP request
func (c *channel) applyAuth(httpReq *nethttp.Request, req *Request) {
	// Request-specific auth takes precedence
	auth := req.Auth
	if auth == nil {
		auth = c.config.BasicAuth
	}

	if auth != nil {
		httpReq.SetBasicAuth(auth.Username, auth.Password)
	}
}

// buildRequest constructs an *http.Request, applies query parameters, headers,
// auth, and the request ID, then runs request interceptors.
func (c *channel) buildRequest(ctx context.Context, method string, req *Request) (*nethttp.Request, error) {
	var body io.Reader
	switch {
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, NewDecodeError("failed to marshal JSON body", err)
		}
		body = bytes.NewReader(data)
	case req.Body != nil:
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("failed to create HTTP request: %v", err), "url")
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for key, value := range req.Query {
			q.Set(key, value)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	c.applyHeaders(httpReq, req)
	c.applyAuth(httpReq, req)

	if httpReq.Header.Get(HeaderXRequestID) == "" {
		httpReq.Header.Set(HeaderXRequestID, trace.EnsureID(ctx))
	}

	if err := c.runRequestInterceptors(ctx, httpReq); err != nil {
		return nil, NewInterceptorError("request interceptor failed", "request", err)
	}
	return httpReq, nil
}

// buildResponse runs response interceptors, reads the body, and builds a Response.
func (c *channel) buildResponse(ctx context.Context, httpReq *nethttp.Request, httpResp *nethttp.Response) (*Response, error) {
	defer httpResp.Body.Close()

	if err := c.runResponseInterceptors(ctx, httpReq, httpResp); err != nil {
		return nil, retry.Permanent(NewInterceptorError("response interceptor failed", "response", err))
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
	}, nil
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return NewDecodeError("failed to decode response body", err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *channel) isRetryableStatus(code int) bool {
	return c.retryableStatuses[code]
}

func (c *channel) isSuccessStatus(code int) bool {
	if len(c.successStatuses) > 0 {
		return c.successStatuses[code]
	}
	return IsSuccessStatus(code)
}

func retryAfterApplies(code int) bool {
	return code == nethttp.StatusTooManyRequests || code == nethttp.StatusServiceUnavailable
}

// parseRetryAfter parses a Retry-After header value, either delay seconds or
// an HTTP date. Dates in the past yield a zero delay.
func parseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := nethttp.ParseTime(value); err == nil {
		d := t.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

// runRequestInterceptors executes all request interceptors
func (c *channel) runRequestInterceptors(ctx context.Context, req *nethttp.Request) error {
	for _, interceptor := range c.requestInterceptors {
		if err := interceptor(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// runResponseInterceptors executes all response interceptors
func (c *channel) runResponseInterceptors(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error {
	for _, interceptor := range c.responseInterceptors {
		if err := interceptor(ctx, req, resp); err != nil {
			return err
		}
	}
	return nil
}

// logRequest logs the outgoing request attempt
func (c *channel) logRequest(method string, req *Request, attempt, maxAttempts int) {
	logEvent := c.logger.Info().
		Str("direction", "outbound").
		Str("method", method).
		Str("url", req.URL).
		Int("attempt", attempt).
		Int("max_attempts", maxAttempts)

	if len(req.Headers) > 0 {
		logEvent = logEvent.Interface("headers", req.Headers)
	}

	if len(req.Body) > 0 {
		logEvent = logEvent.Bytes("body", req.Body)
	}

	logEvent.Msg("channel request")
}

// logResponse logs the incoming response
func (c *channel) logResponse(resp *Response) {
	c.logger.Info().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int("attempts", resp.Stats.Attempts).
		Int64("call_count", resp.Stats.CallCount).
		Msg("channel response")
}
