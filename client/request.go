package client

// Descriptor describes a single API call. The descriptor value doubles as
// the request payload: its encodable fields become the JSON body for
// POST and PUT, and query items for GET and DELETE. Fields tagged
// `json:"-"` are left out, which is how values embedded in Path are kept
// out of the payload.
type Descriptor interface {
	// Method returns the HTTP method.
	Method() Method
	// Path returns the path relative to the session host.
	Path() string
	// Headers returns headers for this call only. They take precedence
	// over session headers.
	Headers() map[string]string
}

// Request is a [Descriptor] whose success response decodes into R.
//
// Implementations embed [Endpoint] to declare R:
//
//	type GetUser struct {
//		client.Endpoint[User]
//		ID int `json:"-"`
//	}
//
//	func (r GetUser) Path() string { return fmt.Sprintf("/users/%d", r.ID) }
type Request[R any] interface {
	Descriptor
	responseShape(*R)
}

// Endpoint is embedded by request types to declare the success model R.
// It defaults the method to GET and supplies no extra headers; both can be
// overridden by declaring Method or Headers on the outer type.
type Endpoint[R any] struct{}

// Method returns [MethodGet].
func (Endpoint[R]) Method() Method { return MethodGet }

// Headers returns nil.
func (Endpoint[R]) Headers() map[string]string { return nil }

func (Endpoint[R]) responseShape(*R) {}
