package service

import (
	"context"
	"sync"
	"time"

	"atm-server/internal/core/domain"
	"atm-server/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	auditBufferSize   = 1024
	auditWriteTimeout = 5 * time.Second
)

// AuditService implements ports.AuditService. Events are logged
// immediately and handed to a single writer goroutine, which fans them out
// to every sink in the order they were recorded.
type AuditService struct {
	sinks  []ports.AuditSink
	log    zerolog.Logger
	events chan *domain.AuditEvent
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAuditService creates a new audit service.
// With no sinks, audit events are only written to the logger.
func NewAuditService(log zerolog.Logger, sinks ...ports.AuditSink) *AuditService {
	s := &AuditService{
		sinks:  sinks,
		log:    log,
		events: make(chan *domain.AuditEvent, auditBufferSize),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Record queues an audit event (fire-and-forget). It never blocks: when the
// queue is full because a sink is stalled, the event is logged and dropped.
func (s *AuditService) Record(_ context.Context, ev *domain.AuditEvent) {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	logEvent := s.log.Info().
		Str("action", string(ev.Action)).
		Str("account_id", ev.AccountID)
	if ev.Amount != nil {
		logEvent = logEvent.Str("amount", domain.FormatMoney(*ev.Amount))
	}
	if ev.Balance != nil {
		logEvent = logEvent.Str("balance", domain.FormatMoney(*ev.Balance))
	}
	if !ev.SessionStart.IsZero() {
		logEvent = logEvent.Dur("elapsed", ev.Elapsed)
	}
	logEvent.Msg("audit")

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.log.Warn().Str("action", string(ev.Action)).Msg("audit service closed, event not persisted")
		return
	}
	select {
	case s.events <- ev:
	default:
		s.log.Warn().
			Str("action", string(ev.Action)).
			Str("account_id", ev.AccountID).
			Msg("audit queue full, event dropped")
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (s *AuditService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	close(s.events)
	s.mu.Unlock()

	<-s.done
}

func (s *AuditService) run() {
	defer close(s.done)
	for ev := range s.events {
		for _, sink := range s.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
			if err := sink.Write(ctx, ev); err != nil {
				s.log.Warn().Err(err).
					Str("action", string(ev.Action)).
					Str("account_id", ev.AccountID).
					Msg("failed to persist audit event")
			}
			cancel()
		}
	}
}
