package client

import (
	"errors"
	"net/http"
)

// maxErrBodySize caps the amount of response body kept on an
// [InvalidResponseCodeError]. The full body is still read so it can be
// offered to the error model decoder.
const maxErrBodySize = 4 << 10 // 4KB

// defaultContentType is the first header layer of every built request.
const defaultContentType = "application/json"

// Method is the HTTP method of a descriptor.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

// carriesBody reports whether the descriptor payload is sent as the body.
func (m Method) carriesBody() bool {
	return m == MethodPost || m == MethodPut
}

// carriesQuery reports whether the descriptor payload is sent as query items.
func (m Method) carriesQuery() bool {
	return m == MethodGet || m == MethodDelete
}

func (m Method) valid() bool {
	return m.carriesBody() || m.carriesQuery()
}

// Outcome is the derived, ternary view over a [Response].
type Outcome int

const (
	// NoResult means neither a model nor an error model is present (204).
	NoResult Outcome = iota
	// Success means the success model was decoded.
	Success
	// Failure means the expected error model was decoded.
	Failure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "no result"
	}
}

// errNoErrorModel is returned by [NoError] whenever it is asked to decode.
var errNoErrorModel = errors.New("no expected error model defined")

// NoError is the error model type used when no expected-error decoding
// is wanted. It never decodes, so non 200 responses always surface as
// [InvalidResponseCodeError].
type NoError struct{}

// UnmarshalJSON always fails.
func (*NoError) UnmarshalJSON([]byte) error {
	return errNoErrorModel
}
