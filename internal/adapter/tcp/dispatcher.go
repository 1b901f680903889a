package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"atm-server/internal/core/ports"

	"github.com/rs/zerolog"
)

const maxAcceptDelay = time.Second

// Dispatcher accepts connections and runs one Session per connection in
// its own goroutine.
type Dispatcher struct {
	engine   ports.BankingEngine
	audit    ports.AuditService
	cfg      SessionConfig
	log      zerolog.Logger
	limiter  ports.ConnectionLimiter
	observer ports.ConnectionObserver

	live     atomic.Int64
	stopping atomic.Bool

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
}

func NewDispatcher(engine ports.BankingEngine, audit ports.AuditService, cfg SessionConfig, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		engine: engine,
		audit:  audit,
		cfg:    cfg,
		log:    log,
		conns:  make(map[net.Conn]struct{}),
	}
}

// WithLimiter enables per-host connection admission.
func (d *Dispatcher) WithLimiter(l ports.ConnectionLimiter) *Dispatcher {
	d.limiter = l
	return d
}

// WithObserver registers a connection lifecycle observer.
func (d *Dispatcher) WithObserver(o ports.ConnectionObserver) *Dispatcher {
	d.observer = o
	return d
}

// Live returns the number of open connections.
func (d *Dispatcher) Live() int64 {
	return d.live.Load()
}

// Serve accepts connections on l until l is closed, ctx is cancelled or
// Shutdown is called. It returns nil on a requested stop.
func (d *Dispatcher) Serve(ctx context.Context, l net.Listener) error {
	d.mu.Lock()
	d.listener = l
	d.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer stop()

	d.log.Info().Str("addr", l.Addr().String()).Msg("ATM server listening")

	var delay time.Duration
	for {
		conn, err := l.Accept()
		if err != nil {
			if d.stopping.Load() || ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			d.log.Warn().Err(err).Dur("retry_in", delay).Msg("accept failed")
			time.Sleep(delay)
			continue
		}
		delay = 0

		if !d.track(conn) {
			conn.Close()
			return nil
		}
		go d.handle(ctx, conn)
	}
}

func (d *Dispatcher) track(conn net.Conn) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopping.Load() {
		return false
	}
	d.conns[conn] = struct{}{}
	d.wg.Add(1)
	return true
}

func (d *Dispatcher) untrack(conn net.Conn) {
	d.mu.Lock()
	delete(d.conns, conn)
	d.mu.Unlock()
}

func (d *Dispatcher) handle(ctx context.Context, conn net.Conn) {
	live := d.live.Add(1)
	if d.observer != nil {
		d.observer.OnConnectionOpen()
	}
	remote := conn.RemoteAddr().String()
	log := d.log.With().Str("remote_addr", remote).Logger()

	defer func() {
		conn.Close()
		d.untrack(conn)
		d.live.Add(-1)
		if d.observer != nil {
			d.observer.OnConnectionClose()
		}
		log.Info().Msg("connection closed")
		d.wg.Done()
	}()

	log.Info().Int64("live", live).Msg("new connection")

	if !d.admit(ctx, conn, remote, log) {
		return
	}

	sess := NewSession(conn, d.engine, d.audit, d.cfg, log)
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", string(debug.Stack())).
				Msg("panic recovered in session")
			sess.fail(ctx)
		}
	}()

	if err := sess.Run(ctx); err != nil {
		log.Error().Err(err).Msg("session failed")
	}
}

// admit applies the connection limiter. Limiter errors admit the
// connection.
func (d *Dispatcher) admit(ctx context.Context, conn net.Conn, remote string, log zerolog.Logger) bool {
	if d.limiter == nil {
		return true
	}

	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}

	ok, err := d.limiter.Allow(ctx, host)
	if err != nil {
		log.Warn().Err(err).Msg("connection limiter unavailable, admitting")
		return true
	}
	if !ok {
		log.Warn().Str("host", host).Msg("connection rejected by rate limit")
		_, _ = io.WriteString(conn, msgTooManyConnections)
		return false
	}
	return true
}

// Shutdown stops accepting, closes live connections and waits for their
// sessions to finish or ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.stopping.Store(true)
	if d.listener != nil {
		d.listener.Close()
	}
	for conn := range d.conns {
		conn.Close()
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.log.Info().Msg("all sessions finished")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for sessions: %w", ctx.Err())
	}
}
