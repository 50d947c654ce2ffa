package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/adamwoolhether/dispatch/client"
)

type mockResponse struct {
	Int int `json:"int"`
}

// mockErrorResponse requires both keys to be present; pointers let a
// present zero value through.
type mockErrorResponse struct {
	Message *string `json:"message" validate:"required"`
	Code    *int    `json:"code" validate:"required"`
}

func newMockError(message string, code int) mockErrorResponse {
	return mockErrorResponse{Message: &message, Code: &code}
}

// simpleRequest encodes only a_value; method, path and headers are
// unexported and never reach the payload.
type simpleRequest struct {
	client.Endpoint[mockResponse]
	AValue int `json:"a_value"`

	method  client.Method
	path    string
	headers map[string]string
}

func (r simpleRequest) Method() client.Method      { return r.method }
func (r simpleRequest) Path() string               { return r.path }
func (r simpleRequest) Headers() map[string]string { return r.headers }

func newSimpleRequest(method client.Method, path string) simpleRequest {
	return simpleRequest{AValue: 42, method: method, path: path}
}

type embedded struct {
	Foo string `json:"foo"`
	Bar []int  `json:"bar"`
}

type complexRequest struct {
	client.Endpoint[mockResponse]
	Member embedded   `json:"member"`
	List   []embedded `json:"list"`

	method client.Method
	path   string
}

func (r complexRequest) Method() client.Method { return r.method }
func (r complexRequest) Path() string          { return r.path }

// defaultsRequest relies on the Endpoint defaults for method and headers.
type defaultsRequest struct {
	client.Endpoint[mockResponse]
	ID    int     `json:"-"`
	Query string  `json:"q"`
	Note  *string `json:"note"`
}

func (r defaultsRequest) Path() string { return "/items/" + strconv.Itoa(r.ID) }

type listRequest struct {
	client.Endpoint[mockResponse]
}

func (listRequest) Path() string                 { return "/list" }
func (listRequest) MarshalJSON() ([]byte, error) { return []byte(`[1,2]`), nil }

type patchRequest struct {
	client.Endpoint[mockResponse]
}

func (patchRequest) Path() string          { return "/patch" }
func (patchRequest) Method() client.Method { return client.Method(http.MethodPatch) }

// mockNetwork is a [client.Transport] answering every request with the
// configured status, headers and JSON-encoded body.
type mockNetwork struct {
	statusCode      int
	responseModel   any
	rawBody         []byte
	responseHeaders http.Header
	err             error
	delay           time.Duration
	nilResponse     bool

	lastRequest *http.Request
}

func newMockNetwork() *mockNetwork {
	return &mockNetwork{
		statusCode:      http.StatusOK,
		responseHeaders: make(http.Header),
	}
}

func (m *mockNetwork) Do(r *http.Request) (*http.Response, error) {
	m.lastRequest = r

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-r.Context().Done():
			return nil, r.Context().Err()
		}
	}

	if m.err != nil {
		return nil, m.err
	}
	if m.nilResponse {
		return nil, nil
	}

	body := m.rawBody
	if m.responseModel != nil {
		data, err := json.Marshal(m.responseModel)
		if err != nil {
			return nil, err
		}
		body = data
	}

	return &http.Response{
		StatusCode: m.statusCode,
		Header:     m.responseHeaders,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    r,
	}, nil
}

// doerFunc adapts a function into a [client.Transport].
type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) {
	return f(r)
}

// roundTripFunc adapts a function into an http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// fixedBuilder ignores the descriptor and session, mirroring a request
// factory that always produces the same request.
type fixedBuilder struct {
	url string
}

func (b fixedBuilder) Build(ctx context.Context, _ client.Descriptor, _ client.SessionSnapshot) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
}
