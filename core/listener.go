//go:build linux || darwin

package core

import (
	"errors"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// listenTCP opens an IPv4 socket on the wildcard address with an OS-assigned
// port and the given listen backlog. The port is read back with getsockname.
func listenTCP(backlog int) (*net.TCPListener, int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, 0, &BindError{Op: "open", Err: err}
	}
	unix.CloseOnExec(fd)

	// Ephemeral ports are reused quickly by tests
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)

	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: 0}); err != nil {
		unix.Close(fd)
		return nil, 0, &BindError{Op: "bind", Err: err}
	}

	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return nil, 0, &BindError{Op: "listen on", Err: err}
	}

	sa, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return nil, 0, &BindError{Op: "read address of", Err: err}
	}
	inet4, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		unix.Close(fd)
		return nil, 0, &BindError{Op: "read address of", Err: errors.New("unexpected address family")}
	}

	// FileListener dups the descriptor, so the file is closed either way
	f := os.NewFile(uintptr(fd), "mockserver-listener")
	defer f.Close()

	ln, err := net.FileListener(f)
	if err != nil {
		return nil, 0, &BindError{Op: "wrap", Err: err}
	}

	tl, ok := ln.(*net.TCPListener)
	if !ok {
		ln.Close()
		return nil, 0, &BindError{Op: "wrap", Err: errors.New("not a TCP listener")}
	}

	return tl, inet4.Port, nil
}
