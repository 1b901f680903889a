package tcp

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"atm-server/internal/core/domain"
	"atm-server/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// startDispatcher serves d on a loopback listener and returns its address
// and a channel carrying Serve's result.
func startDispatcher(t *testing.T, d *Dispatcher) (string, <-chan error) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- d.Serve(context.Background(), l) }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		_ = d.Shutdown(ctx)
	})
	return l.Addr().String(), done
}

func dial(t *testing.T, addr string) *peer {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, ioTimeout)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return newPeer(t, conn)
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, ioTimeout, 10*time.Millisecond, msg)
}

func TestDispatcher_ConcurrentSessions(t *testing.T) {
	d := NewDispatcher(newTestEngine(t), &recordingAudit{}, testSessionConfig(), zerolog.Nop())
	addr, _ := startDispatcher(t, d)

	peers := make([]*peer, 3)
	for i := range peers {
		peers[i] = dial(t, addr)
		peers[i].expect(msgWelcome)
	}
	eventually(t, func() bool { return d.Live() == 3 }, "three live connections")

	ids := []string{"11111", "22222", "33333"}
	for i, p := range peers {
		p.send(ids[i])
		p.expect("New user registered. Your PIN is " + ids[i] + ".")
		p.expect(pinPrompt)
	}

	for _, p := range peers {
		p.send("exit")
		p.expect(msgFarewellVisit)
		p.expectClosed()
	}
	eventually(t, func() bool { return d.Live() == 0 }, "live counter back to zero")
}

func TestDispatcher_NotifiesObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	observer := mocks.NewMockConnectionObserver(ctrl)
	closed := make(chan struct{})
	observer.EXPECT().OnConnectionOpen()
	observer.EXPECT().OnConnectionClose().Do(func() { close(closed) })

	d := NewDispatcher(mocks.NewMockBankingEngine(ctrl), &recordingAudit{}, testSessionConfig(), zerolog.Nop()).
		WithObserver(observer)
	addr, _ := startDispatcher(t, d)

	p := dial(t, addr)
	p.expect(msgWelcome)
	p.send("exit")
	p.expect(msgFarewellVisit)

	select {
	case <-closed:
	case <-time.After(ioTimeout):
		t.Fatal("observer not notified of close")
	}
}

func TestDispatcher_LimiterRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	limiter := mocks.NewMockConnectionLimiter(ctrl)
	limiter.EXPECT().Allow(gomock.Any(), "127.0.0.1").Return(false, nil)

	d := NewDispatcher(mocks.NewMockBankingEngine(ctrl), &recordingAudit{}, testSessionConfig(), zerolog.Nop()).
		WithLimiter(limiter)
	addr, _ := startDispatcher(t, d)

	p := dial(t, addr)
	p.expect(msgTooManyConnections)
	p.expectClosed()
}

func TestDispatcher_LimiterErrorAdmits(t *testing.T) {
	ctrl := gomock.NewController(t)
	limiter := mocks.NewMockConnectionLimiter(ctrl)
	limiter.EXPECT().Allow(gomock.Any(), "127.0.0.1").Return(false, errors.New("redis down"))

	d := NewDispatcher(mocks.NewMockBankingEngine(ctrl), &recordingAudit{}, testSessionConfig(), zerolog.Nop()).
		WithLimiter(limiter)
	addr, _ := startDispatcher(t, d)

	p := dial(t, addr)
	p.expect(msgWelcome)
	p.send("exit")
	p.expect(msgFarewellVisit)
}

func TestDispatcher_RecoversSessionPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockBankingEngine(ctrl)
	engine.EXPECT().RegisterOrGet(gomock.Any(), "12345").DoAndReturn(func(context.Context, string) (*domain.Registration, error) {
		panic("nil map write")
	})

	d := NewDispatcher(engine, &recordingAudit{}, testSessionConfig(), zerolog.Nop())
	addr, _ := startDispatcher(t, d)

	p := dial(t, addr)
	p.expect(msgWelcome)
	p.send("12345")
	p.expect(msgServerError)
	p.expectClosed()
	eventually(t, func() bool { return d.Live() == 0 }, "live counter released after panic")

	// The server keeps serving.
	p2 := dial(t, addr)
	p2.expect(msgWelcome)
}

func TestDispatcher_ShutdownClosesSessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := NewDispatcher(mocks.NewMockBankingEngine(ctrl), &recordingAudit{}, testSessionConfig(), zerolog.Nop())
	addr, served := startDispatcher(t, d)

	p := dial(t, addr)
	p.expect(msgWelcome)
	eventually(t, func() bool { return d.Live() == 1 }, "one live connection")

	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(ioTimeout):
		t.Fatal("Serve did not return")
	}
	p.expectClosed()
	assert.Equal(t, int64(0), d.Live())

	_, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
	assert.Error(t, err)
}

func TestDispatcher_ServeStopsOnContextCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := NewDispatcher(mocks.NewMockBankingEngine(ctrl), &recordingAudit{}, testSessionConfig(), zerolog.Nop())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Serve(ctx, l) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ioTimeout):
		t.Fatal("Serve did not return")
	}
}
