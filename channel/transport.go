package channel

import (
	"net"
	nethttp "net/http"
	"net/url"
	"runtime"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
)

// connectTimeout bounds the TCP connect phase, independent of the per-request timeout.
const connectTimeout = 5 * time.Second

// DefaultTransport returns an http.RoundTripper with similar default values
// to http.DefaultTransport, but with idle connections and keepalives disabled.
// The transport is configured to emit OTel spans.
func DefaultTransport() nethttp.RoundTripper {
	transport := pooledTransport()
	transport.DisableKeepAlives = true
	transport.MaxIdleConnsPerHost = -1
	return otelhttp.NewTransport(transport)
}

// PooledTransport returns an http.RoundTripper with similar default values to
// http.DefaultTransport. Do not use this for transient channels as it can
// leak file descriptors over time. Only use this for channels that will be
// re-used for the same host(s).
func PooledTransport() nethttp.RoundTripper {
	return otelhttp.NewTransport(pooledTransport())
}

// EgressTransport returns an http.RoundTripper designed to call arbitrary
// 3rd-party endpoints. It accepts a proxy function which in production should
// point to a suitable egress proxy, and does not forward any trace context.
func EgressTransport(proxy func(*nethttp.Request) (*url.URL, error)) nethttp.RoundTripper {
	transport := pooledTransport()
	transport.Proxy = proxy

	noopPropagator := propagation.NewCompositeTextMapPropagator()

	return otelhttp.NewTransport(transport, otelhttp.WithPropagators(noopPropagator))
}

func pooledTransport() *nethttp.Transport {
	return &nethttp.Transport{
		Proxy: nethttp.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   runtime.GOMAXPROCS(0) + 1,
	}
}
