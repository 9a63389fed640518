package http

import (
	"fmt"
	"iter"
	"strconv"
	"time"

	"golang.org/x/net/http/httpguts"

	"github.com/searchktools/mock-server/core/codec"
)

// Response is a canned response. Build it with NewResponse or one of the
// other constructors; the With* methods return modified copies so a value
// handed to a server is never changed afterwards.
type Response struct {
	StatusCode int
	Headers    Header
	// Body produces the body bytes chunk by chunk. Every chunk is flushed
	// to the peer as soon as it is produced. Nil means no body.
	Body iter.Seq[[]byte]
	// Delay is slept before the response is written
	Delay time.Duration
}

// NewResponse returns an empty-bodied response with "Content-Length: 0"
func NewResponse(statusCode int) *Response {
	return &Response{
		StatusCode: statusCode,
		Headers:    NewHeader(HeaderContentLength, "0"),
	}
}

// NewBytesResponse returns a response with a fixed body and a matching
// Content-Length
func NewBytesResponse(statusCode int, body []byte) *Response {
	return &Response{
		StatusCode: statusCode,
		Headers:    NewHeader(HeaderContentLength, strconv.Itoa(len(body))),
		Body:       Chunks(body),
	}
}

// NewStringResponse is NewBytesResponse for a string body
func NewStringResponse(statusCode int, body string) *Response {
	return NewBytesResponse(statusCode, []byte(body))
}

// NewStreamingResponse returns a "Transfer-Encoding: chunked" response whose
// body parts are framed as HTTP chunks as they are produced
func NewStreamingResponse(statusCode int, parts iter.Seq[[]byte]) *Response {
	return &Response{
		StatusCode: statusCode,
		Headers:    NewHeader(HeaderTransferEncoding, "chunked"),
		Body:       ChunkedBody(parts),
	}
}

// NewEncodedResponse encodes v with c and returns it as the body, with
// Content-Type and Content-Length set
func NewEncodedResponse(statusCode int, c codec.Codec, v any) (*Response, error) {
	data, err := c.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s response body: %w", c.Name(), err)
	}
	return NewBytesResponse(statusCode, data).WithHeader(HeaderContentType, c.ContentType()), nil
}

func (r *Response) clone() *Response {
	c := *r
	c.Headers = r.Headers.Clone()
	return &c
}

// WithHeader returns a copy with name set to value
func (r *Response) WithHeader(name, value string) *Response {
	c := r.clone()
	c.Headers.Set(name, value)
	return c
}

// WithDelay returns a copy that waits d before being written
func (r *Response) WithDelay(d time.Duration) *Response {
	c := r.clone()
	c.Delay = d
	return c
}

// WithBody returns a copy with a different body producer. Framing headers
// are left untouched.
func (r *Response) WithBody(body iter.Seq[[]byte]) *Response {
	c := r.clone()
	c.Body = body
	return c
}

// Validate reports a status code or header that cannot be put on the wire
func (r *Response) Validate() error {
	if r.StatusCode < 100 || r.StatusCode > 999 {
		return fmt.Errorf("invalid status code %d", r.StatusCode)
	}
	for k, v := range r.Headers.All() {
		if !httpguts.ValidHeaderFieldName(k) {
			return fmt.Errorf("invalid header name %q", k)
		}
		if !httpguts.ValidHeaderFieldValue(v) {
			return fmt.Errorf("invalid value for header %q", k)
		}
	}
	return nil
}

// Chunks returns a body producer yielding each part in order
func Chunks(parts ...[]byte) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for _, p := range parts {
			if !yield(p) {
				return
			}
		}
	}
}
