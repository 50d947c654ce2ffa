package client

import "net/http"

// Response is the outcome of a [Send] that reached the server and was
// interpreted. At most one of Model and Error is set; both are nil only
// for 204 No Content.
type Response[R, E any] struct {
	// Model is the decoded success body (status 200).
	Model *R
	// Error is the decoded expected error body (any other status).
	Error *E
	// Code is the response status code.
	Code int
	// Header holds the response headers.
	Header http.Header
}

// Outcome returns [Success] when Model is set, [Failure] when Error is set
// and [NoResult] otherwise.
func (r *Response[R, E]) Outcome() Outcome {
	switch {
	case r == nil:
		return NoResult
	case r.Model != nil:
		return Success
	case r.Error != nil:
		return Failure
	default:
		return NoResult
	}
}
