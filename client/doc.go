// Package client provides a typed request/response dispatch pipeline
// built on [net/http].
//
// # Sessions
//
// A [Session] carries the base host plus default headers and query
// parameters shared by every request. It may be mutated at any time from
// any goroutine; each send works from a consistent snapshot.
//
//	s := client.NewSession("https://api.example.com/v1")
//	s.SetHeader("Authorization", "Bearer "+token)
//	s.SetQueryParam("appid", key)
//
// # Describing Requests
//
// A request type embeds [Endpoint] to declare its success model and
// implements Path. The struct's JSON fields become the query string for
// GET and DELETE and the body for POST and PUT. Fields tagged `json:"-"`
// are excluded, which keeps path values out of the payload:
//
//	type UpdateUser struct {
//		client.Endpoint[User]
//		ID   int    `json:"-"`
//		Name string `json:"name"`
//	}
//
//	func (r UpdateUser) Path() string   { return fmt.Sprintf("/users/%d", r.ID) }
//	func (UpdateUser) Method() client.Method { return client.MethodPut }
//
// # Sending
//
// [Build] returns a [Client] typed on the expected error model. [Send]
// returns a [Response] holding either the decoded model or the decoded
// error model, or nil when the context was cancelled:
//
//	c, err := client.Build[APIError](s, client.WithTimeout(10*time.Second))
//	resp, err := client.Send[User](ctx, c, UpdateUser{ID: 44, Name: "alice"})
//	switch resp.Outcome() {
//	case client.Success: // resp.Model
//	case client.Failure: // resp.Error
//	}
//
// [SimpleClient] skips error model decoding and collapses the response
// into a value or an error:
//
//	sc, err := client.NewSimple(s)
//	user, err := client.SendSimple[User](ctx, sc, UpdateUser{ID: 44, Name: "alice"})
//
// # Model Shape
//
// Decoded models may carry `validate` struct tags from
// [github.com/go-playground/validator/v10]. A 200 body that violates them
// fails with [DecodeError]; an error body that violates them is not accepted
// as the error model. Unknown fields are ignored unless
// [WithStrictErrorModel] is set.
//
// The `required` tag rejects zero values, so a required `int` field fails on
// a body holding 0. Use a pointer field to require only that the key is
// present:
//
//	type apiError struct {
//		Message *string `json:"message" validate:"required"`
//		Code    *int    `json:"code" validate:"required"`
//	}
//
// # Rate Limiting
//
// [WithThrottle] wraps the transport with the token bucket from the
// [github.com/adamwoolhether/dispatch/client/throttle] package.
package client
