package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/adamwoolhether/dispatch/client"

// Client sends [Request] values built against its [Session] and interprets
// the responses. E is the expected error model decoded from non 200
// responses; use [NoError] to disable error model decoding.
//
// A Client holds only immutable configuration and may be shared by any
// number of goroutines.
type Client[E any] struct {
	session    *Session
	doer       Transport
	builder    Builder
	codec      Codec
	logger     *slog.Logger
	tracer     trace.Tracer
	maxErrBody int
	strictErr  bool
}

// Build returns a Client bound to session. If not specified, requests are
// sent through a fresh [http.Client] over [http.DefaultTransport].
func Build[E any](session *Session, optFns ...Option) (*Client[E], error) {
	if session == nil {
		return nil, errors.New("session must not be nil")
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client[E]{
		session:    session,
		logger:     slog.Default(),
		maxErrBody: maxErrBodySize,
		strictErr:  opts.strictErrorModel,
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.maxErrBody != nil {
		client.maxErrBody = *opts.maxErrBody
	}

	client.codec = JSONCodec{UseNumber: opts.useJSONNumber}
	if opts.codec != nil {
		client.codec = opts.codec
	}

	client.builder = RequestBuilder{Codec: client.codec}
	if opts.builder != nil {
		client.builder = opts.builder
	}

	tp := otel.GetTracerProvider()
	if opts.tracerProvider != nil {
		tp = opts.tracerProvider
	}
	client.tracer = tp.Tracer(tracerName)

	switch {
	case opts.doer != nil && opts.usesHTTPClient():
		return nil, errors.New("doer cannot be combined with http client options")
	case opts.doer != nil:
		client.doer = opts.doer
	default:
		hc, err := newHTTPClient(opts, func() *slog.Logger { return client.logger })
		if err != nil {
			return nil, fmt.Errorf("configuring transport: %w", err)
		}
		client.doer = hc
	}

	return client, nil
}

// Session returns the session the client was built with.
func (c *Client[E]) Session() *Session {
	return c.session
}

// Send builds req against a snapshot of the client's session, sends it and
// interprets the response:
//
//   - 200: the body is decoded into R and returned as the response Model.
//   - 204: a response with neither Model nor Error is returned.
//   - any other status: the body is decoded into E and returned as the
//     response Error, or an [InvalidResponseCodeError] is returned when
//     that decoding fails.
//
// If ctx is cancelled before the response has been read, Send returns a
// nil response and a nil error. Transport errors are returned unchanged.
// No status code is retried.
func Send[R, E any](ctx context.Context, c *Client[E], req Request[R]) (*Response[R, E], error) {
	ctx, span := c.tracer.Start(ctx, "client.Send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	resp, err := send(ctx, c, req, span)
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case resp == nil:
		span.SetAttributes(attribute.Bool("dispatch.cancelled", true))
	default:
		span.SetAttributes(
			attribute.Int("http.response.status_code", resp.Code),
			attribute.String("dispatch.outcome", resp.Outcome().String()),
		)
	}

	return resp, err
}

func send[R, E any](ctx context.Context, c *Client[E], req Request[R], span trace.Span) (*Response[R, E], error) {
	httpReq, err := c.builder.Build(ctx, req, c.session.Snapshot())
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("http.request.method", httpReq.Method),
		attribute.String("url.full", httpReq.URL.String()),
	)

	start := time.Now()
	httpResp, body, err := c.exec(httpReq)
	if err != nil {
		if cancelled(ctx, err) {
			c.logger.Debug("dispatch cancelled", "method", httpReq.Method, "path", httpReq.URL.Path)
			return nil, nil
		}
		return nil, err
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		c.logger.Debug("dispatch cancelled", "method", httpReq.Method, "path", httpReq.URL.Path)
		return nil, nil
	}

	if httpResp == nil {
		return nil, ErrResponseType
	}

	c.logger.Debug("dispatch complete",
		"method", httpReq.Method,
		"path", httpReq.URL.Path,
		"status", httpResp.StatusCode,
		"elapsed", time.Since(start).String(),
	)

	return interpret[R, E](c, httpResp.StatusCode, httpResp.Header, body)
}

// exec runs the request through the transport and reads the whole body.
// A nil response with a nil error is passed back for the caller to classify.
func (c *Client[E]) exec(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp == nil {
		return nil, nil, nil
	}
	if resp.Body == nil {
		return resp, nil, nil
	}

	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			c.logger.Error("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	return resp, body, nil
}

// interpret maps status code and body onto a Response or an error.
func interpret[R, E any](c *Client[E], code int, header http.Header, body []byte) (*Response[R, E], error) {
	resp := &Response[R, E]{
		Code:   code,
		Header: header,
	}

	if code == http.StatusNoContent {
		return resp, nil
	}

	if len(body) == 0 {
		return nil, ErrNoData
	}

	if code == http.StatusOK {
		var model R
		if err := c.codec.Unmarshal(body, &model); err != nil {
			return nil, &DecodeError{StatusCode: code, Err: err}
		}
		if err := checkShape(&model); err != nil {
			return nil, &DecodeError{StatusCode: code, Err: err}
		}

		resp.Model = &model
		return resp, nil
	}

	decode := c.codec.Unmarshal
	if c.strictErr {
		decode = c.codec.UnmarshalStrict
	}

	var errModel E
	if err := decode(body, &errModel); err != nil {
		return nil, newInvalidResponseCodeError(code, body, c.maxErrBody)
	}
	if err := checkShape(&errModel); err != nil {
		return nil, newInvalidResponseCodeError(code, body, c.maxErrBody)
	}

	resp.Error = &errModel
	return resp, nil
}

// cancelled reports whether a transport failure stems from ctx being cancelled.
// Deadlines are not cancellation and surface as errors.
func cancelled(ctx context.Context, err error) bool {
	return errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled)
}
