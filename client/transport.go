package client

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/adamwoolhether/dispatch/client/throttle"
)

// Transport performs the network exchange for a built request.
// [http.Client] satisfies it.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// requestIDHeader is set by [WithRequestID].
const requestIDHeader = "X-Request-Id"

// newHTTPClient assembles the default [Transport] from the options.
func newHTTPClient(opts options, logFn func() *slog.Logger) (*http.Client, error) {
	hc := &http.Client{}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}

	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.requestID {
		transport = requestID{base: transport}
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(opts.throttle.RPS, opts.throttle.Burst, logFn, transport)
		if err != nil {
			return nil, err
		}
		transport = rt
	}
	hc.Transport = transport

	return hc, nil
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

// requestID is an http.RoundTripper tagging each request with a random id.
// An id already set under any casing of the header key is kept.
type requestID struct {
	base http.RoundTripper
}

func (rid requestID) RoundTrip(r *http.Request) (*http.Response, error) {
	for k, v := range r.Header {
		if strings.EqualFold(k, requestIDHeader) && len(v) > 0 {
			return rid.base.RoundTrip(r)
		}
	}

	cpy := r.Clone(r.Context())
	cpy.Header.Set(requestIDHeader, uuid.NewString())
	return rid.base.RoundTrip(cpy)
}
