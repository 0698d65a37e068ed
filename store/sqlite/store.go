package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	mintgate "github.com/xraph/mintgate"
	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/quota"
	"github.com/xraph/mintgate/receipt"
	mintstore "github.com/xraph/mintgate/store"
	"github.com/xraph/mintgate/types"
)

// compile-time interface check
var _ mintstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("mintgate/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("mintgate/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Settings ====================

func (s *Store) SeedSettings(ctx context.Context, set *mintstore.Settings) error {
	m := toSettingsModel(set)
	m.UpdatedAt = now()
	_, err := s.sdb.NewInsert(m).
		OnConflict("(id) DO NOTHING").
		Exec(ctx)
	return err
}

func (s *Store) GetSettings(ctx context.Context) (*mintstore.Settings, error) {
	m := new(settingsModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", 1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mintgate.ErrSettingsNotSeeded
		}
		return nil, err
	}
	return fromSettingsModel(m)
}

func (s *Store) PutSettings(ctx context.Context, set *mintstore.Settings) error {
	m := toSettingsModel(set)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return mintgate.ErrSettingsNotSeeded
	}
	return nil
}

// ==================== Quota ledger ====================

func (s *Store) Reserve(ctx context.Context, account common.Address, count uint64) error {
	t := now()
	m := &quotaModel{
		Account:   account.Hex(),
		Minted:    count,
		CreatedAt: t,
		UpdatedAt: t,
	}
	_, err := s.sdb.NewInsert(m).
		OnConflict("(account) DO UPDATE").
		Set("minted = mintgate_quotas.minted + EXCLUDED.minted").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = s.sdb.NewUpdate((*stateModel)(nil)).
		Set("total_minted = total_minted + ?", count).
		Where("id = ?", 1).
		Exec(ctx)
	return err
}

func (s *Store) Release(ctx context.Context, account common.Address, count uint64) error {
	_, err := s.sdb.NewUpdate((*quotaModel)(nil)).
		Set("minted = minted - ?", count).
		Set("updated_at = ?", now()).
		Where("account = ?", account.Hex()).
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = s.sdb.NewUpdate((*stateModel)(nil)).
		Set("total_minted = total_minted - ?", count).
		Where("id = ?", 1).
		Exec(ctx)
	return err
}

func (s *Store) UsedBy(ctx context.Context, account common.Address) (uint64, error) {
	m := new(quotaModel)
	err := s.sdb.NewSelect(m).
		Where("account = ?", account.Hex()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, err
	}
	return m.Minted, nil
}

func (s *Store) GlobalUsed(ctx context.Context) (uint64, error) {
	m := new(stateModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", 1).
		Scan(ctx)
	if err != nil {
		return 0, err
	}
	return m.TotalMinted, nil
}

func (s *Store) ListQuotas(ctx context.Context, opts quota.ListOpts) ([]*quota.Record, error) {
	var models []quotaModel
	q := s.sdb.NewSelect(&models)

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*quota.Record, len(models))
	for i := range models {
		result[i] = fromQuotaModel(&models[i])
	}
	return result, nil
}

// ==================== Fund balance ====================

// The balance is an arbitrary-precision wei value stored as text, so the
// arithmetic happens in Go. The gate serializes all mutating calls, which
// makes the read-modify-write safe.

func (s *Store) Credit(ctx context.Context, amount types.Amount) error {
	balance, err := s.Balance(ctx)
	if err != nil {
		return err
	}
	return s.setBalance(ctx, balance.Add(amount))
}

func (s *Store) Balance(ctx context.Context) (types.Amount, error) {
	m := new(stateModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", 1).
		Scan(ctx)
	if err != nil {
		return types.Zero(), err
	}
	return types.Parse(m.BalanceWei)
}

func (s *Store) Drain(ctx context.Context) (types.Amount, error) {
	balance, err := s.Balance(ctx)
	if err != nil {
		return types.Zero(), err
	}
	if balance.IsZero() {
		return types.Zero(), nil
	}
	if err := s.setBalance(ctx, types.Zero()); err != nil {
		return types.Zero(), err
	}
	return balance, nil
}

func (s *Store) setBalance(ctx context.Context, balance types.Amount) error {
	_, err := s.sdb.NewUpdate((*stateModel)(nil)).
		Set("balance_wei = ?", balance.String()).
		Where("id = ?", 1).
		Exec(ctx)
	return err
}

// ==================== Receipts ====================

func (s *Store) CreateReceipt(ctx context.Context, r *receipt.Receipt) error {
	m := toReceiptModel(r)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetReceipt(ctx context.Context, receiptID id.ReceiptID) (*receipt.Receipt, error) {
	m := new(receiptModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", receiptID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mintgate.ErrReceiptNotFound
		}
		return nil, err
	}
	return fromReceiptModel(m)
}

func (s *Store) ListReceipts(ctx context.Context, account common.Address, opts receipt.ListOpts) ([]*receipt.Receipt, error) {
	var models []receiptModel
	q := s.sdb.NewSelect(&models)

	if account != (common.Address{}) {
		q = q.Where("account = ?", account.Hex())
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*receipt.Receipt, len(models))
	for i := range models {
		r, err := fromReceiptModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

// ==================== Withdrawals ====================

func (s *Store) CreateWithdrawal(ctx context.Context, w *receipt.Withdrawal) error {
	m := toWithdrawalModel(w)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) ListWithdrawals(ctx context.Context, opts receipt.ListOpts) ([]*receipt.Withdrawal, error) {
	var models []withdrawalModel
	q := s.sdb.NewSelect(&models)

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*receipt.Withdrawal, len(models))
	for i := range models {
		w, err := fromWithdrawalModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = w
	}
	return result, nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
