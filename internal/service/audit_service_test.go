package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"atm-server/internal/core/domain"
	"atm-server/internal/core/ports/mocks"
	"atm-server/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestAuditService_Record_FansOutToSinks(t *testing.T) {
	ctrl := gomock.NewController(t)

	journal := mocks.NewMockAuditSink(ctrl)
	repo := mocks.NewMockAuditSink(ctrl)
	svc := NewAuditService(newTestLogger(), journal, repo)

	reserve := dec("9400.00")
	ev := &domain.AuditEvent{
		AccountID: "9000000001",
		Action:    domain.AuditActionWithdraw,
		Reserve:   &reserve,
	}

	journal.EXPECT().Write(gomock.Any(), ev).Return(nil)
	repo.EXPECT().Write(gomock.Any(), ev).Return(nil)

	svc.Record(context.Background(), ev)
	svc.Close()

	assert.NotEqual(t, uuid.Nil, ev.ID, "ID assigned on record")
	assert.False(t, ev.CreatedAt.IsZero(), "CreatedAt assigned on record")
}

func TestAuditService_Record_PreservesOrder(t *testing.T) {
	ctrl := gomock.NewController(t)

	sink := mocks.NewMockAuditSink(ctrl)
	svc := NewAuditService(newTestLogger(), sink)

	actions := []domain.AuditAction{
		domain.AuditActionLogin,
		domain.AuditActionWithdraw,
		domain.AuditActionDeposit,
		domain.AuditActionLogout,
	}

	var got []domain.AuditAction
	sink.EXPECT().Write(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ev *domain.AuditEvent) error {
			got = append(got, ev.Action)
			return nil
		}).Times(len(actions))

	for _, a := range actions {
		svc.Record(context.Background(), &domain.AuditEvent{AccountID: "9000000001", Action: a})
	}
	svc.Close()

	assert.Equal(t, actions, got)
}

func TestAuditService_SinkFailureIsLoggedNotReturned(t *testing.T) {
	ctrl := gomock.NewController(t)

	var buf bytes.Buffer
	failing := mocks.NewMockAuditSink(ctrl)
	healthy := mocks.NewMockAuditSink(ctrl)
	svc := NewAuditService(logger.NewWithWriter("info", &buf), failing, healthy)

	failing.EXPECT().Write(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	healthy.EXPECT().Write(gomock.Any(), gomock.Any()).Return(nil)

	svc.Record(context.Background(), &domain.AuditEvent{AccountID: "9000000001", Action: domain.AuditActionLogin})
	svc.Close()

	assert.Contains(t, buf.String(), "failed to persist audit event")
	assert.Contains(t, buf.String(), "disk full")
}

func TestAuditService_NoSinks(t *testing.T) {
	var buf bytes.Buffer
	svc := NewAuditService(logger.NewWithWriter("info", &buf))

	svc.Record(context.Background(), &domain.AuditEvent{
		AccountID:    "9000000001",
		Action:       domain.AuditActionExit,
		SessionStart: time.Now().Add(-time.Second),
		Elapsed:      time.Second,
	})
	svc.Close()

	assert.Contains(t, buf.String(), `"action":"EXIT"`)
	assert.Contains(t, buf.String(), `"account_id":"9000000001"`)
}

func TestAuditService_RecordAfterClose(t *testing.T) {
	ctrl := gomock.NewController(t)

	sink := mocks.NewMockAuditSink(ctrl)
	svc := NewAuditService(newTestLogger(), sink)
	svc.Close()
	svc.Close()

	// No Write expectation: the event must be dropped, not panic.
	require.NotPanics(t, func() {
		svc.Record(context.Background(), &domain.AuditEvent{Action: domain.AuditActionLogout})
	})
}

func TestAuditService_StalledSinkDoesNotBlockRecord(t *testing.T) {
	ctrl := gomock.NewController(t)

	var buf syncBuffer
	sink := mocks.NewMockAuditSink(ctrl)
	svc := NewAuditService(logger.NewWithWriter("info", &buf), sink)

	release := make(chan struct{})
	sink.EXPECT().Write(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *domain.AuditEvent) error {
			<-release
			return nil
		}).AnyTimes()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < auditBufferSize+10; i++ {
			svc.Record(context.Background(), &domain.AuditEvent{AccountID: "9000000001", Action: domain.AuditActionLogin})
		}
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		close(release)
		t.Fatal("Record blocked behind a stalled sink")
	}

	close(release)
	svc.Close()

	assert.Contains(t, buf.String(), "audit queue full, event dropped")
}

// syncBuffer is a bytes.Buffer safe for the logger and the test to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
