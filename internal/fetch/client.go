package fetch

import (
	"net/http"
	"time"
)

type debugLogger interface {
	Debugf(string, ...any)
}

// ClientOptions configures the shared HTTP client. One client is built per
// run and reused for every target.
type ClientOptions struct {
	Timeout     time.Duration
	UserAgent   string
	Retry       RetryPolicy
	Transport   http.RoundTripper
	DebugLogger debugLogger
}

// NewClient builds a client that sends browser-like headers on every request
// and retries transient failures inside the transport, so callers only see
// the final response or a final connection error.
func NewClient(opts ClientOptions) *http.Client {
	base := opts.Transport
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DisableCompression:  false,
			MaxIdleConns:        100,
			MaxConnsPerHost:     100,
			MaxIdleConnsPerHost: 100,
			ForceAttemptHTTP2:   true,
		}
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: roundTripper{
			base: &retryTransport{base: base, policy: opts.Retry, log: opts.DebugLogger},
			ua:   opts.UserAgent,
			log:  opts.DebugLogger,
		},
	}

	if opts.DebugLogger != nil {
		opts.DebugLogger.Debugf("HTTP client initialized (timeout=%s, ua=%q, retries=%d)\n",
			opts.Timeout, opts.UserAgent, opts.Retry.MaxRetries)
	}

	return client
}

type roundTripper struct {
	base http.RoundTripper
	ua   string
	log  debugLogger
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.ua != "" {
		req.Header.Set("User-Agent", rt.ua)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ru,en;q=0.8")
	req.Header.Set("Connection", "keep-alive")

	if rt.log != nil {
		rt.log.Debugf("HTTP %s %s\n", req.Method, req.URL.String())
	}

	return rt.base.RoundTrip(req)
}
