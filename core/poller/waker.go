//go:build linux || darwin

package poller

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Waker is a self-pipe. Writing a byte to the write end makes the read end
// readable, which unblocks any poll that watches it. The byte is never
// drained, so once woken the read end stays readable.
type Waker struct {
	fds       [2]int
	closeOnce sync.Once
	closeErr  error
}

// NewWaker creates the pipe with both ends non-blocking and close-on-exec
func NewWaker() (*Waker, error) {
	w := &Waker{}
	if err := unix.Pipe(w.fds[:]); err != nil {
		return nil, fmt.Errorf("cannot create pipe: %w", err)
	}

	for _, fd := range w.fds {
		unix.CloseOnExec(fd)
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(w.fds[0])
			unix.Close(w.fds[1])
			return nil, fmt.Errorf("cannot set pipe non-blocking: %w", err)
		}
	}

	return w, nil
}

// Fd returns the read end
func (w *Waker) Fd() int {
	return w.fds[0]
}

// Wake writes a placeholder byte to the write end
func (w *Waker) Wake() error {
	_, err := unix.Write(w.fds[1], []byte{0})
	if err != nil && !errors.Is(err, unix.EAGAIN) {
		return fmt.Errorf("cannot write to pipe: %w", err)
	}
	return nil
}

// Close closes both ends. Subsequent calls return the first result.
func (w *Waker) Close() error {
	w.closeOnce.Do(func() {
		err0 := unix.Close(w.fds[0])
		err1 := unix.Close(w.fds[1])
		w.closeErr = errors.Join(err0, err1)
	})
	return w.closeErr
}
