package tcp

import (
	"errors"
	"fmt"
	"testing"

	"atm-server/internal/core/domain"
	"atm-server/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// auditAction matches an *domain.AuditEvent by action and account.
type auditAction struct {
	action    domain.AuditAction
	accountID string
}

func (m auditAction) Matches(x any) bool {
	ev, ok := x.(*domain.AuditEvent)
	return ok && ev.Action == m.action && ev.AccountID == m.accountID
}

func (m auditAction) String() string {
	return fmt.Sprintf("audit event %s for %s", m.action, m.accountID)
}

func TestSession_SessionEndRecordedOnce(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(engine *mocks.MockBankingEngine)
		drive   func(p *peer)
		end     domain.AuditAction
		wantErr bool
	}{
		{
			name:  "exit at PIN",
			setup: func(e *mocks.MockBankingEngine) { existingUser(e, "12345") },
			drive: func(p *peer) {
				p.expect(msgWelcome)
				p.send("12345")
				p.expect(pinPrompt)
				p.send("exit")
				p.expect(msgFarewellVisit)
			},
			end: domain.AuditActionExit,
		},
		{
			name:  "logout from menu",
			setup: func(e *mocks.MockBankingEngine) { loggedIn(e, "12345") },
			drive: func(p *peer) {
				login(p, "12345")
				p.send("3")
				p.expect(msgFarewellUse)
			},
			end: domain.AuditActionLogout,
		},
		{
			name:  "exit from menu",
			setup: func(e *mocks.MockBankingEngine) { loggedIn(e, "12345") },
			drive: func(p *peer) {
				login(p, "12345")
				p.send("exit")
				p.expect(msgFarewellUse)
			},
			end: domain.AuditActionExit,
		},
		{
			name: "blacklisted",
			setup: func(e *mocks.MockBankingEngine) {
				existingUser(e, "12345")
				e.EXPECT().Authenticate(gomock.Any(), "12345", "90000").
					Return(&domain.AuthResult{Status: domain.AuthBlacklisted}, nil)
			},
			drive: func(p *peer) {
				p.expect(msgWelcome)
				p.send("12345")
				p.expect(pinPrompt)
				p.send("90000")
				p.expect(msgBlacklisted + "\n")
			},
			end: domain.AuditActionBlacklisted,
		},
		{
			name: "too many PIN failures",
			setup: func(e *mocks.MockBankingEngine) {
				existingUser(e, "12345")
				e.EXPECT().Authenticate(gomock.Any(), "12345", "90000").
					Return(&domain.AuthResult{Status: domain.AuthNotRegistered}, nil).
					Times(5)
			},
			drive: func(p *peer) {
				p.expect(msgWelcome)
				p.send("12345")
				for i := 0; i < 5; i++ {
					p.expect(pinPrompt)
					p.send("90000")
					p.expect(msgNotRegistered + "\n")
				}
				p.expect(msgTooManyPINFailures)
			},
			end: domain.AuditActionAuthFailed,
		},
		{
			name:  "peer disconnects",
			setup: func(e *mocks.MockBankingEngine) { loggedIn(e, "12345") },
			drive: func(p *peer) {
				login(p, "12345")
				p.conn.Close()
			},
			end: domain.AuditActionDisconnect,
		},
		{
			name: "unexpected engine failure",
			setup: func(e *mocks.MockBankingEngine) {
				loggedIn(e, "12345")
				e.EXPECT().Withdraw(gomock.Any(), "12345", gomock.Any()).
					Return(nil, errors.New("driver panic"))
			},
			drive: func(p *peer) {
				login(p, "12345")
				p.send("1")
				p.expect(msgWithdrawPrompt)
				p.send("200")
				p.expect(msgServerError)
			},
			end:     domain.AuditActionServerError,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			engine := mocks.NewMockBankingEngine(ctrl)
			tt.setup(engine)

			audit := mocks.NewMockAuditService(ctrl)
			gomock.InOrder(
				audit.EXPECT().Record(gomock.Any(), auditAction{domain.AuditActionLogin, "12345"}).Times(1),
				audit.EXPECT().Record(gomock.Any(), auditAction{tt.end, "12345"}).Times(1),
			)

			p, done := startSession(t, engine, audit)
			tt.drive(p)

			err := waitDone(t, done)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
