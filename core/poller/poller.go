//go:build linux || darwin

package poller

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultTimeout bounds every readiness wait. The waker is the primary way
// to interrupt a wait; the timeout only guarantees that a cleared running
// flag is noticed eventually.
const DefaultTimeout = time.Second

// Event is the outcome of a single wait
type Event struct {
	// Readable is set when the watched descriptor has data, a pending
	// connection, or a hang-up/error to report
	Readable bool
	// Woken is set when the waker fired
	Woken bool
}

// Poller waits for one descriptor to become readable or for its Waker to
// fire, whichever comes first, with a bounded timeout.
type Poller struct {
	waker   *Waker
	timeout time.Duration
}

// New creates a Poller with its own Waker. A non-positive timeout selects
// DefaultTimeout.
func New(timeout time.Duration) (*Poller, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	w, err := NewWaker()
	if err != nil {
		return nil, err
	}

	return &Poller{waker: w, timeout: timeout}, nil
}

// Wait blocks until fd is readable, the waker fired, or the timeout
// elapsed. A timeout returns the zero Event.
func (p *Poller) Wait(fd int) (Event, error) {
	fds := []unix.PollFd{
		{Fd: int32(fd), Events: unix.POLLIN},
		{Fd: int32(p.waker.Fd()), Events: unix.POLLIN},
	}

	_, err := unix.Poll(fds, timeoutMillis(p.timeout))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return Event{}, nil
		}
		return Event{}, fmt.Errorf("poll: %w", err)
	}

	const ready = unix.POLLIN | unix.POLLHUP | unix.POLLERR
	return Event{
		Readable: fds[0].Revents&ready != 0,
		Woken:    fds[1].Revents&ready != 0,
	}, nil
}

// timeoutMillis converts d to a poll(2) timeout, rounding up so that a
// sub-millisecond timeout still blocks
func timeoutMillis(d time.Duration) int {
	ms := (d + time.Millisecond - 1) / time.Millisecond
	if ms < 1 {
		ms = 1
	}
	return int(ms)
}

// WaitConn is Wait for a socket owned by the Go runtime, such as a
// *net.TCPConn or *net.TCPListener
func (p *Poller) WaitConn(c syscall.Conn) (Event, error) {
	rc, err := c.SyscallConn()
	if err != nil {
		return Event{}, err
	}

	var (
		ev      Event
		waitErr error
	)
	if err := rc.Control(func(fd uintptr) {
		ev, waitErr = p.Wait(int(fd))
	}); err != nil {
		return Event{}, err
	}
	return ev, waitErr
}

// Wake interrupts the current and every later Wait
func (p *Poller) Wake() error {
	return p.waker.Wake()
}

// Close releases the waker. It must only be called once no goroutine is
// waiting anymore.
func (p *Poller) Close() error {
	return p.waker.Close()
}
