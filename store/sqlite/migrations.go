package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the MintGate store (SQLite).
var Migrations = migrate.NewGroup("mintgate")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_mintgate_settings",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mintgate_settings (
    id            INTEGER PRIMARY KEY CHECK (id = 1),
    price_wei     TEXT NOT NULL DEFAULT '0',
    authority_key TEXT NOT NULL DEFAULT '',
    base_uri      TEXT NOT NULL DEFAULT '',
    sale_state    TEXT NOT NULL DEFAULT 'inactive',
    updated_at    TEXT NOT NULL DEFAULT (datetime('now'))
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mintgate_settings`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mintgate_state",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mintgate_state (
    id           INTEGER PRIMARY KEY CHECK (id = 1),
    total_minted INTEGER NOT NULL DEFAULT 0,
    balance_wei  TEXT NOT NULL DEFAULT '0'
);

INSERT OR IGNORE INTO mintgate_state (id, total_minted, balance_wei) VALUES (1, 0, '0');
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mintgate_state`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mintgate_quotas",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mintgate_quotas (
    account    TEXT PRIMARY KEY,
    minted     INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mintgate_quotas`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mintgate_receipts",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mintgate_receipts (
    id             TEXT PRIMARY KEY,
    account        TEXT NOT NULL DEFAULT '',
    count          INTEGER NOT NULL DEFAULT 0,
    first_token    INTEGER NOT NULL DEFAULT 0,
    last_token     INTEGER NOT NULL DEFAULT 0,
    payment_wei    TEXT NOT NULL DEFAULT '0',
    unit_price_wei TEXT NOT NULL DEFAULT '0',
    voucher_digest TEXT NOT NULL DEFAULT '',
    tag            TEXT NOT NULL DEFAULT '',
    created_at     TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at     TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_mintgate_receipts_account ON mintgate_receipts (account, created_at);
CREATE INDEX IF NOT EXISTS idx_mintgate_receipts_created ON mintgate_receipts (created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mintgate_receipts`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mintgate_withdrawals",
			Version: "20240101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mintgate_withdrawals (
    id         TEXT PRIMARY KEY,
    by_account TEXT NOT NULL DEFAULT '',
    payout     TEXT NOT NULL DEFAULT '',
    amount_wei TEXT NOT NULL DEFAULT '0',
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_mintgate_withdrawals_created ON mintgate_withdrawals (created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mintgate_withdrawals`)
				return err
			},
		},
	)
}
