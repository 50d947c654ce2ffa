package client

import (
	"fmt"
	"maps"
	"strings"
	"sync"
)

// Session holds the configuration shared by every request sent through a
// [Client]: the base host plus default headers and query parameters.
// A Session is safe for concurrent use; every read and write goes through
// its own lock, so a dispatch never observes a partial update.
type Session struct {
	host string

	mu          sync.RWMutex
	headers     map[string]string
	queryParams map[string]string
}

// SessionSnapshot is a consistent copy of a [Session] taken at one instant.
type SessionSnapshot struct {
	Host        string
	Headers     map[string]string
	QueryParams map[string]string
}

// NewSession returns a Session targeting host. A host without a scheme
// is treated as https.
func NewSession(host string) *Session {
	return &Session{
		host:        host,
		headers:     make(map[string]string),
		queryParams: make(map[string]string),
	}
}

// Host returns the base host the session was created with.
func (s *Session) Host() string {
	return s.host
}

// SetHeader sets a header that is included in every request.
func (s *Session) SetHeader(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.headers[key] = value
}

// RemoveHeader removes every header whose key matches key, ignoring case.
func (s *Session) RemoveHeader(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maps.DeleteFunc(s.headers, func(k, _ string) bool {
		return strings.EqualFold(k, key)
	})
}

// SetQueryParam sets a query parameter that is included in every request,
// regardless of method. The value is rendered with [fmt.Sprint].
func (s *Session) SetQueryParam(key string, value any) {
	rendered := fmt.Sprint(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.queryParams[key] = rendered
}

// RemoveQueryParam removes the query parameter matching key exactly.
func (s *Session) RemoveQueryParam(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.queryParams, key)
}

// Headers returns a copy of the session headers.
func (s *Session) Headers() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.headers)
}

// QueryParams returns a copy of the session query parameters.
func (s *Session) QueryParams() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.queryParams)
}

// Snapshot copies host, headers and query parameters under a single lock.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SessionSnapshot{
		Host:        s.host,
		Headers:     maps.Clone(s.headers),
		QueryParams: maps.Clone(s.queryParams),
	}
}
