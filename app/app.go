package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/searchktools/mock-server/config"
	"github.com/searchktools/mock-server/core"
	"github.com/searchktools/mock-server/core/http"
	"github.com/searchktools/mock-server/core/logging"
)

var errDrained = errors.New("all scripted responses served")

// Options tune the standalone process
type Options struct {
	// ExitWhenDrained stops the server once every scripted response has
	// been written
	ExitWhenDrained bool
	// Output receives the URL banner and the final report. Defaults to
	// stdout.
	Output io.Writer
}

// App runs a mock server as a standalone process
type App struct {
	opts      Options
	log       zerolog.Logger
	server    *core.Server
	scripted  int
	drainPoll time.Duration
}

// New starts a server from cfg and enqueues the responses of cfg.Script
func New(cfg *config.Config, opts Options) (*App, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	logger := logging.FromConfig(cfg.Logging)

	var responses []*http.Response
	if cfg.Script != "" {
		script, err := LoadScript(cfg.Script)
		if err != nil {
			return nil, err
		}
		responses, err = script.Build()
		if err != nil {
			return nil, fmt.Errorf("invalid script %s: %w", cfg.Script, err)
		}
	}

	server, err := core.New(
		core.WithConfig(cfg.Server),
		core.WithLogger(logging.WithComponent(logger, "server")),
	)
	if err != nil {
		return nil, fmt.Errorf("server startup failed: %w", err)
	}

	for _, resp := range responses {
		if err := server.Enqueue(resp); err != nil {
			_ = server.Stop()
			return nil, err
		}
	}

	return &App{
		opts:      opts,
		log:       logger,
		server:    server,
		scripted:  len(responses),
		drainPoll: 50 * time.Millisecond,
	}, nil
}

// Server returns the underlying mock server
func (a *App) Server() *core.Server {
	return a.server
}

// Run serves until ctx is cancelled, SIGINT/SIGTERM is received, or, with
// ExitWhenDrained, the script is exhausted. It then reports the recorded
// requests and stops the server.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Fprintf(a.opts.Output, "mock server listening on %s (%d scripted responses)\n", a.server.URL(), a.scripted)

	g, gctx := errgroup.WithContext(ctx)

	if a.opts.ExitWhenDrained {
		g.Go(func() error {
			return a.awaitDrained(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info().Msg("shutting down")
		err := a.server.Stop()
		a.report()
		return err
	})

	err := g.Wait()
	if errors.Is(err, errDrained) {
		return nil
	}
	return err
}

func (a *App) awaitDrained(ctx context.Context) error {
	ticker := time.NewTicker(a.drainPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			st := a.server.Stats()
			if st.PendingResponses == 0 && st.ResponsesWritten >= uint64(a.scripted) {
				return errDrained
			}
		}
	}
}

// report prints every recorded request that was not taken yet. It runs
// after Stop so that no request can arrive once the log is read.
func (a *App) report() {
	w := a.opts.Output
	method := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)
	warn := color.New(color.FgRed)

	requests := a.server.DrainRequests()
	fmt.Fprintf(w, "\nRecorded requests (%d)\n", len(requests))
	for _, req := range requests {
		method.Fprintf(w, "%-7s ", req.Method)
		fmt.Fprintf(w, "%s ", req.Path)
		dim.Fprintf(w, "%s headers=%d body=%dB\n", req.Version, req.Headers.Len(), len(req.Body))
	}

	for _, err := range a.server.ConnectionErrors() {
		warn.Fprintf(w, "connection error: %v\n", err)
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, a.server.StatsText())
}
