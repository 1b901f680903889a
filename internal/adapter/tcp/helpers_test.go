package tcp

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"atm-server/internal/adapter/storage/memory"
	"atm-server/internal/core/domain"
	"atm-server/internal/core/ports"
	"atm-server/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const ioTimeout = 3 * time.Second

// peer is the client end of a session under test.
type peer struct {
	t       *testing.T
	conn    net.Conn
	pending string
}

func newPeer(t *testing.T, conn net.Conn) *peer {
	return &peer{t: t, conn: conn}
}

// expect reads until want has been received and returns everything up to
// and including it.
func (p *peer) expect(want string) string {
	p.t.Helper()
	require.NoError(p.t, p.conn.SetReadDeadline(time.Now().Add(ioTimeout)))

	buf := make([]byte, 512)
	for !strings.Contains(p.pending, want) {
		n, err := p.conn.Read(buf)
		require.NoError(p.t, err, "waiting for %q, received %q", want, p.pending)
		p.pending += string(buf[:n])
	}

	idx := strings.Index(p.pending, want) + len(want)
	out := p.pending[:idx]
	p.pending = p.pending[idx:]
	return out
}

func (p *peer) send(text string) {
	p.t.Helper()
	require.NoError(p.t, p.conn.SetWriteDeadline(time.Now().Add(ioTimeout)))
	_, err := p.conn.Write([]byte(text + "\n"))
	require.NoError(p.t, err)
}

// expectClosed asserts the server closed the connection with nothing more
// to say.
func (p *peer) expectClosed() {
	p.t.Helper()
	require.NoError(p.t, p.conn.SetReadDeadline(time.Now().Add(ioTimeout)))
	buf := make([]byte, 64)
	n, err := p.conn.Read(buf)
	require.Error(p.t, err, "unexpected data %q", string(buf[:n]))
}

// recordingAudit collects recorded events in order.
type recordingAudit struct {
	mu     sync.Mutex
	events []*domain.AuditEvent
}

func (a *recordingAudit) Record(_ context.Context, ev *domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAudit) Close() {}

func (a *recordingAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Action)
	}
	return out
}

func (a *recordingAudit) last() *domain.AuditEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.events) == 0 {
		return nil
	}
	return a.events[len(a.events)-1]
}

func testSessionConfig() SessionConfig {
	cfg := DefaultSessionConfig()
	cfg.InfoDelay = 0
	return cfg
}

func newTestEngine(t *testing.T) *service.Engine {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.EnsureSchema(context.Background(), decimal.RequireFromString("10000.00")))
	hasher := service.NewArgon2HashServiceWithParams(service.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32})
	return service.NewEngine(store, hasher, service.DefaultPolicy(), zerolog.Nop())
}

// startSession runs a Session over net.Pipe and returns the client end and
// a channel carrying Run's result.
func startSession(t *testing.T, engine ports.BankingEngine, audit ports.AuditService) (*peer, <-chan error) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { client.Close() })

	sess := NewSession(server, engine, audit, testSessionConfig(), zerolog.Nop())
	done := make(chan error, 1)
	go func() {
		err := sess.Run(context.Background())
		server.Close()
		done <- err
	}()
	return newPeer(t, client), done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(ioTimeout):
		t.Fatal("session did not finish")
		return nil
	}
}
