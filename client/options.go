package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/dispatch/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	doer              Transport
	timeout           *time.Duration
	userAgent         string
	requestID         bool
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	builder           Builder
	codec             Codec
	useJSONNumber     bool
	tracerProvider    trace.TracerProvider
	maxErrBody        *int
	strictErrorModel  bool
}

// WithClient uses a copy of hc as the base [http.Client]. hc itself is
// never modified.
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithDoer replaces the whole network layer with t. When set, the
// [http.Client] related options (WithClient, WithTransport, WithTimeout,
// WithUserAgent, WithRequestID, WithThrottle, WithNoFollowRedirects)
// are rejected.
func WithDoer(t Transport) Option {
	return func(c *options) error {
		if t == nil {
			return errors.New("doer must not be nil")
		}
		c.doer = t
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithRequestID sets a random X-Request-Id header on every outgoing request
// that does not already carry one.
func WithRequestID() Option {
	return func(c *options) error {
		c.requestID = true
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		c.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithBuilder replaces the default [RequestBuilder].
func WithBuilder(b Builder) Option {
	return func(c *options) error {
		if b == nil {
			return errors.New("builder must not be nil")
		}
		c.builder = b
		return nil
	}
}

// WithCodec replaces the default [JSONCodec] for both request encoding
// and response decoding.
func WithCodec(codec Codec) Option {
	return func(c *options) error {
		if codec == nil {
			return errors.New("codec must not be nil")
		}
		c.codec = codec
		return nil
	}
}

// WithJSONNumber tells the default codec to use [json.Decoder.UseNumber],
// preserving number precision as [json.Number] instead of float64.
// It has no effect when combined with WithCodec.
func WithJSONNumber() Option {
	return func(c *options) error {
		c.useJSONNumber = true
		return nil
	}
}

// WithTracerProvider sets the provider used to create a span per send.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		c.tracerProvider = tp
		return nil
	}
}

// WithMaxErrorBody caps the body text kept on an [InvalidResponseCodeError].
// Zero keeps the full body.
func WithMaxErrorBody(n int) Option {
	return func(c *options) error {
		if n < 0 {
			return errors.New("max error body must not be negative")
		}
		c.maxErrBody = &n
		return nil
	}
}

// WithStrictErrorModel rejects error bodies carrying fields the error
// model does not declare. By default unknown fields are ignored.
func WithStrictErrorModel() Option {
	return func(c *options) error {
		c.strictErrorModel = true
		return nil
	}
}

func (o options) usesHTTPClient() bool {
	return o.client != nil || o.rt != nil || o.timeout != nil || o.userAgent != "" ||
		o.requestID || o.throttle != nil || o.noFollowRedirects
}
