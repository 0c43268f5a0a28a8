package channel

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMethodEchoServer(t *testing.T) (*httptest.Server, *string) {
	t.Helper()
	var lastMethod string
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		lastMethod = r.Method
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)
	return server, &lastMethod
}

func TestSingleRequestHelpers(t *testing.T) {
	server, lastMethod := newMethodEchoServer(t)
	ctx := context.Background()
	req := &Request{URL: server.URL}

	tests := []struct {
		method string
		fn     func(context.Context, *Request) (*Response, error)
	}{
		{nethttp.MethodGet, Get},
		{nethttp.MethodPost, Post},
		{nethttp.MethodPut, Put},
		{nethttp.MethodPatch, Patch},
		{nethttp.MethodDelete, Delete},
	}

	for _, tc := range tests {
		t.Run(tc.method, func(t *testing.T) {
			resp, err := tc.fn(ctx, req)
			require.NoError(t, err)
			assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.method, *lastMethod)
		})
	}
}

func TestSingleDoMethodIsCaseInsensitive(t *testing.T) {
	server, lastMethod := newMethodEchoServer(t)

	tests := map[string]string{
		"get":    nethttp.MethodGet,
		"GET":    nethttp.MethodGet,
		"post":   nethttp.MethodPost,
		"PaTcH":  nethttp.MethodPatch,
		"delete": nethttp.MethodDelete,
	}

	for method, want := range tests {
		_, err := Do(context.Background(), method, &Request{URL: server.URL})
		require.NoError(t, err)
		assert.Equal(t, want, *lastMethod)
	}
}

func TestSingleDoRejectsUnsupportedMethod(t *testing.T) {
	_, err := Do(context.Background(), "OPTIONS", &Request{URL: "http://upstream.invalid/"})

	require.Error(t, err)
	assert.True(t, IsErrorType(err, ValidationError))
}
