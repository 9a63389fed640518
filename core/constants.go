package core

import (
	"errors"
	"fmt"
)

// Error definitions
var (
	// ErrStopped is returned by operations on a server after Stop
	ErrStopped = errors.New("mock server is stopped")
	// ErrNoResponse means a request arrived while the response queue was empty
	ErrNoResponse = errors.New("no more responses in queue")
	// ErrNoRequest means TakeRequest was called with nothing recorded
	ErrNoRequest = errors.New("no recorded request")
)

// BindError reports a failure to set up the listening socket
type BindError struct {
	Op  string
	Err error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("cannot %s socket: %v", e.Op, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// Connection states
const (
	StateWaitReadable connState = iota
	StateReadingRequest
	StateDispatching
	StateWritingResponse
	StateClosed
)

type connState int

func (s connState) String() string {
	switch s {
	case StateWaitReadable:
		return "wait-readable"
	case StateReadingRequest:
		return "reading-request"
	case StateDispatching:
		return "dispatching"
	case StateWritingResponse:
		return "writing-response"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
