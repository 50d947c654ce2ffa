// Package throttle provides an [http.RoundTripper] that rate-limits
// outbound dispatches using a token-bucket algorithm from
// [golang.org/x/time/rate].
//
// Most callers enable it through client.WithThrottle. To wrap a
// transport directly use [NewRoundTripper]:
//
//	rt, err := throttle.NewRoundTripper(
//		10, // requests per second
//		5,  // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//
// When the bucket is empty, requests block until a token becomes
// available or the request context ends. Retrying is left to the caller.
package throttle
