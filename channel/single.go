package channel

import (
	"context"
	nethttp "net/http"
	"strings"
	"sync"

	"github.com/hcc-go/hcc/logger"
)

// defaultClient backs the package-level single-request helpers. It uses the
// default configuration and a silent logger.
var defaultClient = sync.OnceValue(func() Client {
	return New(logger.NewNop())
})

// Get issues a single GET request with the default client configuration.
func Get(ctx context.Context, req *Request) (*Response, error) {
	return defaultClient().Get(ctx, req)
}

// Post issues a single POST request with the default client configuration.
func Post(ctx context.Context, req *Request) (*Response, error) {
	return defaultClient().Post(ctx, req)
}

// Put issues a single PUT request with the default client configuration.
func Put(ctx context.Context, req *Request) (*Response, error) {
	return defaultClient().Put(ctx, req)
}

// Patch issues a single PATCH request with the default client configuration.
func Patch(ctx context.Context, req *Request) (*Response, error) {
	return defaultClient().Patch(ctx, req)
}

// Delete issues a single DELETE request with the default client configuration.
func Delete(ctx context.Context, req *Request) (*Response, error) {
	return defaultClient().Delete(ctx, req)
}

// Do issues a single request with the given method. Supported methods are
// GET, POST, PUT, PATCH and DELETE (case-insensitive); anything else is a
// validation error.
func Do(ctx context.Context, method string, req *Request) (*Response, error) {
	switch strings.ToUpper(method) {
	case nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodPut, nethttp.MethodPatch, nethttp.MethodDelete:
		return defaultClient().Do(ctx, strings.ToUpper(method), req)
	default:
		return nil, NewValidationError("unsupported method: "+method, "method")
	}
}
