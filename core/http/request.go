package http

import (
	"fmt"

	"github.com/searchktools/mock-server/core/codec"
)

// Request is a request as it was received on the wire. It is created once by
// ReadRequest and must be treated as read-only afterwards.
type Request struct {
	// Method is upper-cased and one of the supported methods
	Method string
	// Path is the raw request target, unparsed
	Path    string
	Version string
	Headers Header
	Body    []byte
}

// Header returns the value of the named header, matched case-insensitively
func (r *Request) Header(name string) string {
	v, _ := r.Headers.Value(name)
	return v
}

// BodyString returns the body as a string
func (r *Request) BodyString() string {
	return string(r.Body)
}

// Decode decodes the body into v with the given codec
func (r *Request) Decode(c codec.Codec, v any) error {
	if err := c.Decode(r.Body, v); err != nil {
		return fmt.Errorf("decode %s request body: %w", c.Name(), err)
	}
	return nil
}

// String renders the request line
func (r *Request) String() string {
	return r.Method + " " + r.Path + " " + r.Version
}
