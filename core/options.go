package core

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/searchktools/mock-server/config"
)

// Option configures a Server
type Option func(*options)

type options struct {
	host        string
	acceptDelay time.Duration
	pollTimeout time.Duration
	backlog     int
	logger      zerolog.Logger
}

func defaultOptions() options {
	cfg := config.LoadDefault().Server
	return options{
		host:        cfg.Host,
		acceptDelay: cfg.AcceptDelay(),
		pollTimeout: cfg.PollTimeout(),
		backlog:     cfg.Backlog,
		logger:      zerolog.Nop(),
	}
}

// WithAcceptDelay sleeps d before every accept, to simulate slow servers.
// Zero disables the delay.
func WithAcceptDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.acceptDelay = d
		}
	}
}

// WithPollTimeout bounds every readiness wait on the network goroutine
func WithPollTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollTimeout = d
		}
	}
}

// WithBacklog sets the listen backlog
func WithBacklog(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.backlog = n
		}
	}
}

// WithHost sets the host name URL() reports
func WithHost(host string) Option {
	return func(o *options) {
		if host != "" {
			o.host = host
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithConfig applies every server setting from cfg
func WithConfig(cfg config.ServerConfig) Option {
	return func(o *options) {
		WithHost(cfg.Host)(o)
		WithAcceptDelay(cfg.AcceptDelay())(o)
		WithPollTimeout(cfg.PollTimeout())(o)
		WithBacklog(cfg.Backlog)(o)
	}
}
