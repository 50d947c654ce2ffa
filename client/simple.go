package client

import "context"

// SimpleClient is a [Client] that never decodes error bodies and collapses
// each response into a value or an error.
type SimpleClient struct {
	client *Client[NoError]
}

// NewSimple returns a SimpleClient bound to session.
func NewSimple(session *Session, optFns ...Option) (*SimpleClient, error) {
	c, err := Build[NoError](session, optFns...)
	if err != nil {
		return nil, err
	}

	return &SimpleClient{client: c}, nil
}

// NewSimpleForHost is NewSimple with a fresh [Session] for host.
func NewSimpleForHost(host string, optFns ...Option) (*SimpleClient, error) {
	return NewSimple(NewSession(host), optFns...)
}

// Session returns the session the client was built with.
func (c *SimpleClient) Session() *Session {
	return c.client.Session()
}

// SendSimple sends req and returns the decoded success model.
// It returns nil and a nil error when the server answered 204 or ctx was
// cancelled. Any status other than 200 and 204 fails with
// [InvalidResponseCodeError].
func SendSimple[R any](ctx context.Context, c *SimpleClient, req Request[R]) (*R, error) {
	resp, err := Send(ctx, c.client, req)
	if err != nil {
		return nil, err
	}

	return Collapse(resp)
}

// Collapse turns a [Response] into a value or an error: the Model when
// present, an [ExpectedError] carrying the Error model when present, and
// nil otherwise. A nil response collapses to nil.
func Collapse[R, E any](resp *Response[R, E]) (*R, error) {
	switch resp.Outcome() {
	case Success:
		return resp.Model, nil
	case Failure:
		return nil, &ExpectedError[E]{StatusCode: resp.Code, Model: *resp.Error}
	default:
		return nil, nil
	}
}
