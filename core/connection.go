package core

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/searchktools/mock-server/core/http"
)

// connection is the accepted socket currently served by the network
// goroutine
type connection struct {
	id     uint64
	conn   *net.TCPConn
	reader *bufio.Reader
	writer *bufio.Writer
	state  connState
	log    zerolog.Logger
}

// handle serves conn until the peer closes it, the server stops, or the
// exchange fails. conn is always closed on return.
func (s *Server) handle(conn *net.TCPConn) {
	c := &connection{
		id:     s.connID.Add(1),
		conn:   conn,
		reader: s.buffers.GetReader(conn),
		writer: s.buffers.GetWriter(conn),
		state:  StateWaitReadable,
	}
	c.log = s.log.With().
		Uint64("conn", c.id).
		Str("remote", conn.RemoteAddr().String()).
		Logger()

	c.log.Debug().Msg("connection accepted")

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("connection %d panicked in state %s: %v", c.id, c.state, r)
			c.log.Error().Err(err).Msg("connection aborted")
			s.journal.recordError(err)
		}

		c.state = StateClosed
		conn.Close()
		s.buffers.PutReader(c.reader)
		s.buffers.PutWriter(c.writer)
		c.log.Debug().Msg("connection closed")
	}()

	if err := s.serve(c); err != nil {
		c.log.Error().Err(err).Str("state", c.state.String()).Msg("connection aborted")
		s.journal.recordError(err)
	}
}

// serve runs the request/response loop. A nil return means the connection
// ended normally; any error aborts it.
func (s *Server) serve(c *connection) error {
	for {
		c.state = StateWaitReadable
		if !s.running.Load() {
			return nil
		}

		// Bytes already buffered need no readiness wait
		if c.reader.Buffered() == 0 {
			ev, err := s.poller.WaitConn(c.conn)
			if err != nil {
				return fmt.Errorf("wait for request: %w", err)
			}
			if ev.Woken || !s.running.Load() {
				return nil
			}
			if !ev.Readable {
				continue
			}
		}

		c.state = StateReadingRequest
		req, err := http.ReadRequest(c.reader)
		if err != nil {
			if errors.Is(err, http.ErrNoMoreRequests) {
				return nil
			}
			if errors.Is(err, syscall.ECONNRESET) {
				c.log.Debug().Err(err).Msg("connection reset by peer")
				return nil
			}
			return fmt.Errorf("connection %d: %w", c.id, err)
		}
		s.received.Add(1)

		c.log.Debug().
			Str("method", req.Method).
			Str("path", req.Path).
			Int("body_bytes", len(req.Body)).
			Msg("request received")

		c.state = StateDispatching
		resp, err := s.journal.exchange(req)
		if err != nil {
			return fmt.Errorf("connection %d: %w", c.id, err)
		}

		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		c.state = StateWritingResponse
		if err := http.WriteResponse(c.writer, resp, req.Version); err != nil {
			// The peer went away; nothing to report to the test
			c.log.Warn().Err(err).Int("status", resp.StatusCode).Msg("cannot write response")
			return nil
		}
		s.responded.Add(1)

		c.log.Debug().Int("status", resp.StatusCode).Msg("response written")
	}
}
