package http

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoMoreRequests is returned by ReadRequest when the peer closed the
// connection before sending a request line. It is the normal way a
// connection ends and is not a failure.
var ErrNoMoreRequests = errors.New("no more requests")

// ProtocolError reports a request that cannot be parsed
type ProtocolError struct {
	Reason string
	Line   string
}

func (e *ProtocolError) Error() string {
	if e.Line == "" {
		return "protocol error: " + e.Reason
	}
	return fmt.Sprintf("protocol error: %s: %q", e.Reason, e.Line)
}

// Protocol error reasons
const (
	ReasonMalformedRequestLine = "malformed request line"
	ReasonUnknownMethod        = "unknown method"
	ReasonInvalidHeader        = "invalid header"
	ReasonUnsupportedEncoding  = "unsupported transfer encoding"
	ReasonInvalidChunkSize     = "invalid chunk size"
)

var supportedMethods = map[string]struct{}{
	"GET":     {},
	"POST":    {},
	"PUT":     {},
	"DELETE":  {},
	"HEAD":    {},
	"OPTIONS": {},
	"PATCH":   {},
}

// ReadRequest reads one request off r.
//
// It returns ErrNoMoreRequests if the stream ends before any byte of a
// request line, and a *ProtocolError for malformed input. The body is read
// using chunked framing when Transfer-Encoding says so, otherwise
// Content-Length bytes are read (0 when absent or unparsable).
func ReadRequest(r *bufio.Reader) (*Request, error) {
	line, err := readLine(r)
	if err != nil {
		if err == io.EOF {
			return nil, ErrNoMoreRequests
		}
		return nil, err
	}

	method, path, version, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Method:  method,
		Path:    path,
		Version: version,
	}

	for {
		line, err = readLine(r)
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("reading headers: %w", io.ErrUnexpectedEOF)
			}
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			break
		}

		key, value, err := parseHeader(line)
		if err != nil {
			return nil, err
		}
		req.Headers.Set(key, value)
	}

	chunked := false
	if te, ok := req.Headers.Value(HeaderTransferEncoding); ok {
		switch strings.ToLower(strings.TrimSpace(te)) {
		case "identity":
		case "chunked":
			chunked = true
		default:
			return nil, &ProtocolError{Reason: ReasonUnsupportedEncoding, Line: te}
		}
	}

	if chunked {
		req.Body, err = readChunked(r)
		if err != nil {
			return nil, err
		}
		if req.Body == nil {
			req.Body = []byte{}
		}
		return req, nil
	}

	var body bytes.Buffer
	if err := readBody(&body, r, contentLength(req.Headers)); err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	req.Body = body.Bytes()
	if req.Body == nil {
		req.Body = []byte{}
	}

	return req, nil
}

// readBody copies exactly n bytes of r into dst. The declared length is never
// allocated up front; dst grows only with the bytes that actually arrive.
func readBody(dst *bytes.Buffer, r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	if _, err := io.CopyN(dst, r, n); err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

// parseRequestLine splits "METHOD PATH VERSION"
func parseRequestLine(line string) (method, path, version string, err error) {
	sp1 := strings.IndexByte(line, ' ')
	if sp1 == -1 {
		return "", "", "", &ProtocolError{Reason: ReasonMalformedRequestLine, Line: line}
	}

	sp2 := strings.IndexByte(line[sp1+1:], ' ')
	if sp2 == -1 {
		return "", "", "", &ProtocolError{Reason: ReasonMalformedRequestLine, Line: line}
	}
	sp2 += sp1 + 1

	version = line[sp2+1:]
	if version == "" {
		return "", "", "", &ProtocolError{Reason: ReasonMalformedRequestLine, Line: line}
	}

	method = strings.ToUpper(line[:sp1])
	if _, ok := supportedMethods[method]; !ok {
		return "", "", "", &ProtocolError{Reason: ReasonUnknownMethod, Line: method}
	}

	return method, line[sp1+1 : sp2], version, nil
}

// parseHeader splits a header line on its first colon
func parseHeader(line string) (string, string, error) {
	colon := strings.IndexByte(line, ':')
	if colon == -1 {
		return "", "", &ProtocolError{Reason: ReasonInvalidHeader, Line: line}
	}
	return strings.TrimSpace(line[:colon]), strings.TrimSpace(line[colon+1:]), nil
}

func contentLength(h Header) int64 {
	v, ok := h.Value(HeaderContentLength)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// readChunked reads a "Transfer-Encoding: chunked" body. Each chunk is a hex
// size line followed by that many bytes and a line terminator; a zero-size
// chunk ends the body, after which trailer lines up to the blank line are
// discarded.
func readChunked(r *bufio.Reader) ([]byte, error) {
	var body bytes.Buffer

	for {
		line, err := readLine(r)
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("reading chunk size: %w", io.ErrUnexpectedEOF)
			}
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return body.Bytes(), nil
		}

		// Chunk extensions are ignored
		if semi := strings.IndexByte(line, ';'); semi != -1 {
			line = strings.TrimSpace(line[:semi])
		}

		size, err := strconv.ParseInt(line, 16, 64)
		if err != nil || size < 0 {
			return nil, &ProtocolError{Reason: ReasonInvalidChunkSize, Line: line}
		}
		if size == 0 {
			break
		}

		if err := readBody(&body, r, size); err != nil {
			return nil, fmt.Errorf("reading chunk: %w", err)
		}

		// CRLF after chunk data
		if _, err := readLine(r); err != nil && err != io.EOF {
			return nil, err
		}
	}

	for {
		line, err := readLine(r)
		if err == io.EOF || (err == nil && strings.TrimSpace(line) == "") {
			return body.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// readLine reads up to and including '\n' and strips the line terminator.
// A final line without terminator is returned as-is; io.EOF is only returned
// when no byte was read.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSuffix(line, "\r"), nil
		}
		return "", err
	}
	line = line[:len(line)-1]
	return strings.TrimSuffix(line, "\r"), nil
}
