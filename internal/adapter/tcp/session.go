package tcp

import (
	"context"
	"fmt"
	"net"
	"time"

	"atm-server/internal/core/domain"
	"atm-server/internal/core/ports"
	"atm-server/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type sessionState int

const (
	stateAwaitIdentifier sessionState = iota
	stateAwaitPIN
	stateAuthenticated
	stateTerminated
)

func (s sessionState) String() string {
	switch s {
	case stateAwaitIdentifier:
		return "await_identifier"
	case stateAwaitPIN:
		return "await_pin"
	case stateAuthenticated:
		return "authenticated"
	case stateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// SessionConfig holds the per-session protocol limits.
type SessionConfig struct {
	InfoDelay           time.Duration
	MinIdentifierLength int
	PINLength           int
	MaxPINAttempts      int
	MaxAmountAttempts   int
	CurrencySymbol      string
}

// DefaultSessionConfig returns the stock protocol limits.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		InfoDelay:           100 * time.Millisecond,
		MinIdentifierLength: 5,
		PINLength:           5,
		MaxPINAttempts:      5,
		MaxAmountAttempts:   5,
		CurrencySymbol:      "₹",
	}
}

// Session drives one connected peer through identification, PIN
// authentication and the transaction menu.
type Session struct {
	conn   *lineConn
	engine ports.BankingEngine
	audit  ports.AuditService
	cfg    SessionConfig
	log    zerolog.Logger

	state       sessionState
	accountID   string
	start       time.Time
	pinAttempts int
	ended       bool // session-end audit event recorded
}

func NewSession(conn net.Conn, engine ports.BankingEngine, audit ports.AuditService, cfg SessionConfig, log zerolog.Logger) *Session {
	return &Session{
		conn:   newLineConn(conn, cfg.InfoDelay),
		engine: engine,
		audit:  audit,
		cfg:    cfg,
		log:    log,
		state:  stateAwaitIdentifier,
		start:  time.Now(),
	}
}

// Run processes the session until it terminates. A peer that goes away ends
// the session without error. Any other error has already been reported to
// the peer when Run returns.
func (s *Session) Run(ctx context.Context) error {
	for s.state != stateTerminated {
		var (
			next sessionState
			err  error
		)
		switch s.state {
		case stateAwaitIdentifier:
			next, err = s.awaitIdentifier(ctx)
		case stateAwaitPIN:
			next, err = s.awaitPIN(ctx)
		case stateAuthenticated:
			next, err = s.authenticated(ctx)
		}

		if err != nil {
			if apperror.IsCategory(err, apperror.CategoryProtocol) {
				s.log.Info().Str("state", s.state.String()).Msg("peer disconnected")
				s.end(ctx, domain.AuditActionDisconnect)
				s.state = stateTerminated
				return nil
			}
			s.fail(ctx)
			return err
		}
		s.state = next
	}
	return nil
}

// fail reports a server-side failure to the peer and records it, unless the
// session already said goodbye.
func (s *Session) fail(ctx context.Context) {
	s.end(ctx, domain.AuditActionServerError)
	if !s.conn.closed {
		_ = s.conn.send(farewell(msgServerError))
	}
	s.state = stateTerminated
}

func (s *Session) awaitIdentifier(ctx context.Context) (sessionState, error) {
	if err := s.conn.send(prompt(msgWelcome)); err != nil {
		return stateTerminated, err
	}
	input, err := s.conn.readLine()
	if err != nil {
		return stateTerminated, err
	}

	if isExit(input) {
		return stateTerminated, s.conn.send(farewell(msgFarewellVisit))
	}
	if !domain.ValidIdentifier(input, s.cfg.MinIdentifierLength) {
		s.log.Info().Msg("invalid identifier")
		return stateTerminated, s.conn.send(farewell(msgInvalidIdentifier))
	}

	reg, err := s.engine.RegisterOrGet(ctx, input)
	if err != nil {
		return stateTerminated, fmt.Errorf("register %s: %w", input, err)
	}

	s.accountID = input
	s.log = s.log.With().Str("account_id", input).Logger()

	msg := msgAlreadyRegistered
	if reg.IsNew() {
		msg = fmt.Sprintf(msgRegistered, reg.PIN, s.cfg.CurrencySymbol, domain.FormatMoney(reg.Balance))
	}
	if err := s.conn.send(info(msg)); err != nil {
		return stateTerminated, err
	}

	s.audit.Record(ctx, s.event(domain.AuditActionLogin))
	return stateAwaitPIN, nil
}

func (s *Session) awaitPIN(ctx context.Context) (sessionState, error) {
	if err := s.conn.send(prompt(fmt.Sprintf(msgPINPrompt, s.cfg.PINLength))); err != nil {
		return stateTerminated, err
	}
	input, err := s.conn.readLine()
	if err != nil {
		return stateTerminated, err
	}

	if isExit(input) {
		return s.close(ctx, msgFarewellVisit, domain.AuditActionExit)
	}

	res, err := s.engine.Authenticate(ctx, s.accountID, input)
	switch {
	case err != nil:
		if !apperror.IsCategory(err, apperror.CategoryStore) {
			return stateTerminated, fmt.Errorf("authenticate: %w", err)
		}
		s.log.Warn().Err(err).Msg("authentication failed on store error")
		if err := s.conn.send(info(peerMessage(err))); err != nil {
			return stateTerminated, err
		}
		s.pinAttempts++

	case res.Terminal():
		s.log.Warn().Str("status", string(res.Status)).Msg("blacklisted account rejected")
		s.end(ctx, domain.AuditActionBlacklisted)
		return stateTerminated, s.conn.send(farewell(authMessage(res) + "\n"))

	case res.Status == domain.AuthSuccess:
		s.log.Info().Msg("authenticated")
		return stateAuthenticated, s.conn.send(info(authMessage(res)))

	case res.Status == domain.AuthWrongPIN:
		if err := s.conn.send(info(authMessage(res))); err != nil {
			return stateTerminated, err
		}

	default:
		if err := s.conn.send(info(authMessage(res))); err != nil {
			return stateTerminated, err
		}
		s.pinAttempts++
	}

	if s.pinAttempts >= s.cfg.MaxPINAttempts {
		return s.close(ctx, msgTooManyPINFailures, domain.AuditActionAuthFailed)
	}
	return stateAwaitPIN, nil
}

func (s *Session) authenticated(ctx context.Context) (sessionState, error) {
	if err := s.conn.send(prompt(msgMenu)); err != nil {
		return stateTerminated, err
	}
	input, err := s.conn.readLine()
	if err != nil {
		return stateTerminated, err
	}

	switch {
	case input == "1":
		return s.transact(ctx, domain.TransactionWithdraw)
	case input == "2":
		return s.transact(ctx, domain.TransactionDeposit)
	case input == "3":
		return s.close(ctx, msgFarewellUse, domain.AuditActionLogout)
	case isExit(input):
		return s.close(ctx, msgFarewellUse, domain.AuditActionExit)
	default:
		return stateAuthenticated, s.conn.send(line(msgInvalidOption))
	}
}

func (s *Session) transact(ctx context.Context, kind domain.TransactionKind) (sessionState, error) {
	amountPrompt := msgDepositPrompt
	if kind == domain.TransactionWithdraw {
		amountPrompt = msgWithdrawPrompt
	}
	if err := s.conn.send(prompt(amountPrompt)); err != nil {
		return stateTerminated, err
	}

	amount, ok, err := s.readAmount()
	if err != nil || !ok {
		return stateAuthenticated, err
	}

	var receipt *domain.Receipt
	if kind == domain.TransactionWithdraw {
		receipt, err = s.engine.Withdraw(ctx, s.accountID, amount)
	} else {
		receipt, err = s.engine.Deposit(ctx, s.accountID, amount)
	}
	if err != nil {
		if _, isApp := apperror.As(err); !isApp {
			return stateTerminated, fmt.Errorf("%s: %w", kind, err)
		}
		if apperror.IsCategory(err, apperror.CategoryStore) {
			s.log.Error().Err(err).Str("kind", string(kind)).Msg("transaction failed")
		}
		return stateAuthenticated, s.conn.send(info(peerMessage(err)))
	}

	okMsg := msgDepositOK
	if kind == domain.TransactionWithdraw {
		okMsg = msgWithdrawOK
	}
	if err := s.conn.send(info(fmt.Sprintf(okMsg, s.cfg.CurrencySymbol, domain.FormatMoney(receipt.Balance)))); err != nil {
		return stateTerminated, err
	}

	s.audit.Record(ctx, domain.NewMovementEvent(s.accountID, receipt, s.start))
	return stateAuthenticated, nil
}

// readAmount reads amount text until it parses. The bool is false when the
// transaction was cancelled.
func (s *Session) readAmount() (decimal.Decimal, bool, error) {
	for attempts := 0; ; {
		input, err := s.conn.readLine()
		if err != nil {
			return decimal.Zero, false, err
		}
		if isExit(input) {
			return decimal.Zero, false, s.conn.send(line(msgTransactionCancelled))
		}

		amount, perr := domain.ParseNumber(input)
		if perr == nil {
			return amount, true, nil
		}

		attempts++
		if attempts >= s.cfg.MaxAmountAttempts {
			return decimal.Zero, false, s.conn.send(line(msgTooManyInvalidInputs))
		}
		if err := s.conn.send(prompt(msgInvalidAmount)); err != nil {
			return decimal.Zero, false, err
		}
	}
}

// close sends the final line and records the session-end event.
func (s *Session) close(ctx context.Context, text string, action domain.AuditAction) (sessionState, error) {
	s.end(ctx, action)
	return stateTerminated, s.conn.send(farewell(text))
}

// end records the session-end event once, if the peer was identified.
func (s *Session) end(ctx context.Context, action domain.AuditAction) {
	if s.ended || s.accountID == "" {
		return
	}
	s.ended = true
	s.audit.Record(ctx, s.event(action))
	s.log.Info().
		Str("action", string(action)).
		Dur("elapsed", time.Since(s.start)).
		Msg("session ended")
}

func (s *Session) event(action domain.AuditAction) *domain.AuditEvent {
	return &domain.AuditEvent{
		AccountID:    s.accountID,
		Action:       action,
		SessionStart: s.start,
		Elapsed:      time.Since(s.start),
	}
}

func authMessage(res *domain.AuthResult) string {
	switch res.Status {
	case domain.AuthSuccess:
		return msgAuthSuccess
	case domain.AuthWrongPIN:
		return fmt.Sprintf(msgWrongPIN, res.Remaining)
	case domain.AuthBlacklistedNow:
		return msgBlacklistedNow
	case domain.AuthBlacklisted:
		return msgBlacklisted
	default:
		return msgNotRegistered
	}
}

// peerMessage returns the text an AppError shows to the peer.
func peerMessage(err error) string {
	if appErr, ok := apperror.As(err); ok {
		return appErr.Message
	}
	return apperror.ErrStore(err).Message
}
