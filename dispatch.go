// Package dispatch exposes client constructors.
package dispatch

import (
	"github.com/adamwoolhether/dispatch/client"
)

// NewClient instantiates a client for host that does not decode error
// bodies. If not specified, a fresh http.Client over http.DefaultTransport
// is used.
func NewClient(host string, opts ...client.Option) (*client.Client[client.NoError], error) {
	return client.Build[client.NoError](client.NewSession(host), opts...)
}

// NewTypedClient instantiates a client for host that decodes responses
// other than 200 and 204 into E.
func NewTypedClient[E any](host string, opts ...client.Option) (*client.Client[E], error) {
	return client.Build[E](client.NewSession(host), opts...)
}

// NewSimpleClient instantiates a SimpleClient for host.
func NewSimpleClient(host string, opts ...client.Option) (*client.SimpleClient, error) {
	return client.NewSimpleForHost(host, opts...)
}
