package core

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/searchktools/mock-server/core/codec"
	"github.com/searchktools/mock-server/core/http"
	"github.com/searchktools/mock-server/core/poller"
	"github.com/searchktools/mock-server/core/pools"
)

// Server is a scripted HTTP/1.x server for tests. Responses are queued with
// Enqueue and served one per request in order; every request received is
// recorded and can be inspected with TakeRequest.
//
// Connections are served strictly one at a time on a single network
// goroutine. Stop can only take effect between complete request/response
// exchanges: a peer that stalls in the middle of a request keeps Stop
// waiting until it sends the rest or disconnects.
type Server struct {
	listener *net.TCPListener
	port     int
	opts     options
	log      zerolog.Logger

	poller  *poller.Poller
	journal *journal
	buffers *pools.BufioPool

	running atomic.Bool
	done    chan struct{}
	stopMu  sync.Mutex
	stopped atomic.Bool

	connID    atomic.Uint64
	accepted  atomic.Uint64
	received  atomic.Uint64
	responded atomic.Uint64
}

// New binds a listening socket on an ephemeral port and starts the network
// goroutine. The server accepts connections as soon as New returns.
func New(opts ...Option) (*Server, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ln, port, err := listenTCP(o.backlog)
	if err != nil {
		return nil, err
	}

	p, err := poller.New(o.pollTimeout)
	if err != nil {
		ln.Close()
		return nil, &BindError{Op: "create wakeup pipe for", Err: err}
	}

	s := &Server{
		listener: ln,
		port:     port,
		opts:     o,
		log:      o.logger,
		poller:   p,
		journal:  newJournal(),
		buffers:  pools.NewBufioPool(pools.DefaultBufioSize),
		done:     make(chan struct{}),
	}
	s.running.Store(true)

	go s.run()

	s.log.Info().
		Int("port", port).
		Dur("accept_delay", o.acceptDelay).
		Msg("mock server listening")

	return s, nil
}

// Port returns the port assigned by the OS at bind time
func (s *Server) Port() int {
	return s.port
}

// URL returns the base URL, e.g. "http://localhost:54321/"
func (s *Server) URL() string {
	return "http://" + net.JoinHostPort(s.opts.host, strconv.Itoa(s.port)) + "/"
}

// Enqueue appends resp to the response queue. Responses are served in the
// order they were enqueued, whatever the requests look like.
func (s *Server) Enqueue(resp *http.Response) error {
	if s.stopped.Load() {
		return fmt.Errorf("cannot enqueue a response: %w", ErrStopped)
	}
	if resp == nil {
		return errors.New("cannot enqueue a nil response")
	}
	if err := resp.Validate(); err != nil {
		return fmt.Errorf("cannot enqueue response: %w", err)
	}

	s.journal.enqueue(resp)
	return nil
}

// EnqueueString enqueues a response with a fixed string body
func (s *Server) EnqueueString(statusCode int, body string) error {
	return s.Enqueue(http.NewStringResponse(statusCode, body))
}

// EnqueueJSON enqueues a 200 response carrying v encoded as JSON
func (s *Server) EnqueueJSON(v any) error {
	resp, err := http.NewEncodedResponse(200, codec.JSON, v)
	if err != nil {
		return err
	}
	return s.Enqueue(resp)
}

// TakeRequest removes and returns the oldest recorded request. It never
// waits: calling it before the request has been received is an error.
func (s *Server) TakeRequest() (*http.Request, error) {
	if s.stopped.Load() {
		return nil, fmt.Errorf("cannot take a request: %w", ErrStopped)
	}
	return s.journal.take()
}

// DrainRequests removes and returns every recorded request not taken yet,
// oldest first. Unlike TakeRequest it keeps working after Stop, so the final
// log can be read once the network goroutine has exited.
func (s *Server) DrainRequests() []*http.Request {
	return s.journal.drain()
}

// RequestCount returns the number of recorded requests not taken yet
func (s *Server) RequestCount() int {
	_, n := s.journal.pending()
	return n
}

// ConnectionErrors returns every error that aborted a connection so far,
// oldest first
func (s *Server) ConnectionErrors() []error {
	return s.journal.errors()
}

// Stop signals the network goroutine, waits for it to exit and releases the
// listener and wakeup pipe. Calling Stop again is a no-op.
func (s *Server) Stop() error {
	s.stopMu.Lock()
	defer s.stopMu.Unlock()

	if s.stopped.Load() {
		return nil
	}
	s.stopped.Store(true)
	s.running.Store(false)

	wakeErr := s.poller.Wake()
	if wakeErr != nil {
		// The bounded wait still notices the cleared running flag
		s.log.Warn().Err(wakeErr).Msg("cannot wake network goroutine")
	}

	<-s.done

	closeErr := s.poller.Close()
	s.log.Info().Int("port", s.port).Msg("mock server stopped")

	return errors.Join(wakeErr, closeErr)
}

// run is the accept loop. It owns the listener and closes it on exit.
func (s *Server) run() {
	defer close(s.done)
	defer s.listener.Close()

	for s.running.Load() {
		ev, err := s.poller.WaitConn(s.listener)
		if err != nil {
			s.fail(fmt.Errorf("wait for connection: %w", err))
			return
		}
		if ev.Woken || !s.running.Load() {
			return
		}
		if !ev.Readable {
			continue
		}

		if s.opts.acceptDelay > 0 {
			time.Sleep(s.opts.acceptDelay)
		}

		// The pending connection may be gone by now; never block past
		// the poll bound
		s.listener.SetDeadline(time.Now().Add(s.opts.pollTimeout))
		conn, err := s.listener.AcceptTCP()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			s.fail(fmt.Errorf("cannot accept connection: %w", err))
			return
		}

		s.accepted.Add(1)
		s.handle(conn)
	}
}

func (s *Server) fail(err error) {
	s.log.Error().Err(err).Msg("network goroutine failed")
	s.journal.recordError(err)
}
