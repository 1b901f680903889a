package journal

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"atm-server/internal/core/domain"

	"github.com/shopspring/decimal"
)

const timestampLayout = "2006-01-02 15:04:05"

var (
	clientHeader = []string{"Mobile_Number", "Action", "Amount", "User_Balance", "Bank_Balance", "Timestamp", "Session_Start", "Elapsed_Time"}
	bankHeader   = []string{"Mobile_Number", "Action", "Amount", "Bank_Balance", "Timestamp"}
)

// Journal appends audit events to two tab-separated files: every event to
// the client journal, and reserve movements to the bank journal.
// It implements ports.AuditSink.
type Journal struct {
	mu     sync.Mutex
	client *journalFile
	bank   *journalFile
}

type journalFile struct {
	f *os.File
	w *csv.Writer
}

// Open opens (or creates) both journal files. A header row is written to
// files that are new or empty.
func Open(clientPath, bankPath string) (*Journal, error) {
	client, err := openFile(clientPath, clientHeader)
	if err != nil {
		return nil, err
	}
	bank, err := openFile(bankPath, bankHeader)
	if err != nil {
		client.f.Close()
		return nil, err
	}
	return &Journal{client: client, bank: bank}, nil
}

func openFile(path string, header []string) (*journalFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat journal %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'
	jf := &journalFile{f: f, w: w}

	if info.Size() == 0 {
		if err := jf.append(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("write journal header %s: %w", path, err)
		}
	}
	return jf, nil
}

func (jf *journalFile) append(record []string) error {
	if err := jf.w.Write(record); err != nil {
		return err
	}
	jf.w.Flush()
	return jf.w.Error()
}

// Write appends ev to the client journal and, for reserve movements, to the
// bank journal.
func (j *Journal) Write(_ context.Context, ev *domain.AuditEvent) error {
	ts := ev.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	action := strings.ToLower(string(ev.Action))

	var sessionStart, elapsed string
	if !ev.SessionStart.IsZero() {
		sessionStart = ev.SessionStart.Local().Format(timestampLayout)
		elapsed = fmt.Sprintf("%.2f", ev.Elapsed.Seconds())
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	err := j.client.append([]string{
		ev.AccountID,
		action,
		money(ev.Amount),
		money(ev.Balance),
		money(ev.Reserve),
		ts.Local().Format(timestampLayout),
		sessionStart,
		elapsed,
	})
	if err != nil {
		return fmt.Errorf("append client journal: %w", err)
	}

	if !ev.IsBankMovement() {
		return nil
	}
	err = j.bank.append([]string{
		ev.AccountID,
		action,
		money(ev.Amount),
		money(ev.Reserve),
		ts.Local().Format(timestampLayout),
	})
	if err != nil {
		return fmt.Errorf("append bank journal: %w", err)
	}
	return nil
}

// Close closes both files.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	errClient := j.client.f.Close()
	errBank := j.bank.f.Close()
	if errClient != nil {
		return errClient
	}
	return errBank
}

func money(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return domain.FormatMoney(*d)
}
