package postgres

import (
	"context"
	"fmt"
)

// schemaStatements create the tables if missing. Existing data is kept.
// Money columns carry no precision cap, since deposits have no maximum;
// the CHECKs hold them to whole cents.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id              TEXT PRIMARY KEY,
		pin_hash        TEXT NOT NULL,
		balance         NUMERIC NOT NULL CHECK (balance >= 0 AND balance = round(balance, 2)),
		failed_attempts INTEGER NOT NULL DEFAULT 0,
		blacklisted     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bank_reserve (
		id         SMALLINT PRIMARY KEY CHECK (id = 1),
		funds      NUMERIC NOT NULL CHECK (funds >= 0 AND funds = round(funds, 2)),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id            UUID PRIMARY KEY,
		account_id    TEXT NOT NULL,
		action        TEXT NOT NULL,
		amount        NUMERIC,
		balance       NUMERIC,
		reserve       NUMERIC,
		session_start TIMESTAMPTZ,
		elapsed_ms    BIGINT NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_events_account ON audit_events (account_id, created_at)`,
}

func createSchema(ctx context.Context, pool Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
