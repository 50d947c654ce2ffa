package client

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

var (
	// ErrTypeMismatch is returned when a descriptor does not encode to a
	// flat JSON object and therefore cannot be turned into query items.
	ErrTypeMismatch = errors.New("descriptor payload is not an object")
	// ErrURLComponents is returned when the session host cannot be parsed.
	ErrURLComponents = errors.New("unable to parse url components")
	// ErrURLCreation is the sentinel wrapped by [URLCreationError].
	ErrURLCreation = errors.New("unable to create url")
	// ErrUnsupportedMethod is returned for methods outside GET, POST, PUT and DELETE.
	ErrUnsupportedMethod = errors.New("unsupported method")
	// ErrEmptyPath is returned when a descriptor declares no path.
	ErrEmptyPath = errors.New("descriptor path must not be empty")
	// ErrResponseType is returned when the transport hands back no HTTP response.
	ErrResponseType = errors.New("response was not an http response")
	// ErrNoData is returned when a response other than 204 carries an empty body.
	ErrNoData = errors.New("no data returned from host")
	// ErrDecode is the sentinel wrapped by [DecodeError].
	ErrDecode = errors.New("decoding response body")
	// ErrInvalidResponseCode is the sentinel wrapped by [InvalidResponseCodeError].
	ErrInvalidResponseCode = errors.New("invalid response code")
	// ErrAuthFailure is joined with [ErrInvalidResponseCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
	// ErrExpectedError is the sentinel wrapped by [ExpectedError].
	ErrExpectedError = errors.New("expected error model returned")
)

// URLCreationError is returned when the composed URL components
// do not form a usable absolute URL.
type URLCreationError struct {
	Path string
}

func (e *URLCreationError) Error() string {
	return fmt.Sprintf("%v: path %q", ErrURLCreation, e.Path)
}

func (e *URLCreationError) Unwrap() error {
	return ErrURLCreation
}

// InvalidResponseCodeError is returned when the status code is neither
// 200 nor 204 and the body could not be decoded as the expected error model.
type InvalidResponseCodeError struct {
	StatusCode int
	Body       string
	Err        error
}

func newInvalidResponseCodeError(code int, body []byte, limit int) *InvalidResponseCodeError {
	if limit > 0 && len(body) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}

	err := ErrInvalidResponseCode
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		err = fmt.Errorf("%w: %w", ErrAuthFailure, ErrInvalidResponseCode)
	}

	return &InvalidResponseCodeError{
		StatusCode: code,
		Body:       string(body),
		Err:        err,
	}
}

func (e *InvalidResponseCodeError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *InvalidResponseCodeError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a 200 response body does not match
// the declared success model.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v (status %d): %v", ErrDecode, e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// ExpectedError surfaces a decoded error model as a Go error.
// It is produced by [Collapse] and [SendSimple].
type ExpectedError[E any] struct {
	StatusCode int
	Model      E
}

func (e *ExpectedError[E]) Error() string {
	return fmt.Sprintf("%v: %d: %+v", ErrExpectedError, e.StatusCode, e.Model)
}

func (e *ExpectedError[E]) Unwrap() error {
	return ErrExpectedError
}
