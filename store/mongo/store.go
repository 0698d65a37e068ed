package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ethereum/go-ethereum/common"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	mintgate "github.com/xraph/mintgate"
	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/quota"
	"github.com/xraph/mintgate/receipt"
	mintstore "github.com/xraph/mintgate/store"
	"github.com/xraph/mintgate/types"
)

// Collection name constants.
const (
	colSettings    = "mintgate_settings"
	colState       = "mintgate_state"
	colQuotas      = "mintgate_quotas"
	colReceipts    = "mintgate_receipts"
	colWithdrawals = "mintgate_withdrawals"
)

// compile-time interface check
var _ mintstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all mintgate collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("mintgate/mongo: migrate %s indexes: %w", col, err)
		}
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

	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": settingsDocID}).
		SetUpdate(bson.M{"$setOnInsert": bson.M{
			"_id":           settingsDocID,
			"price_wei":     m.PriceWei,
			"authority_key": m.AuthorityKey,
			"base_uri":      m.BaseURI,
			"sale_state":    m.SaleState,
			"updated_at":    m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mintgate/mongo: seed settings: %w", err)
	}
	return nil
}

func (s *Store) GetSettings(ctx context.Context) (*mintstore.Settings, error) {
	var m settingsModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": settingsDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, mintgate.ErrSettingsNotSeeded
		}
		return nil, fmt.Errorf("mintgate/mongo: get settings: %w", err)
	}
	return fromSettingsModel(&m)
}

func (s *Store) PutSettings(ctx context.Context, set *mintstore.Settings) error {
	m := toSettingsModel(set)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": settingsDocID}).
		SetUpdate(bson.M{"$set": bson.M{
			"price_wei":     m.PriceWei,
			"authority_key": m.AuthorityKey,
			"base_uri":      m.BaseURI,
			"sale_state":    m.SaleState,
			"updated_at":    m.UpdatedAt,
		}}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mintgate/mongo: put settings: %w", err)
	}
	if res.MatchedCount() == 0 {
		return mintgate.ErrSettingsNotSeeded
	}
	return nil
}

// ==================== Quota ledger ====================

func (s *Store) Reserve(ctx context.Context, account common.Address, count uint64) error {
	t := now()

	_, err := s.mdb.NewUpdate((*quotaModel)(nil)).
		Filter(bson.M{"_id": account.Hex()}).
		SetUpdate(bson.M{
			"$inc":         bson.M{"minted": int64(count)},
			"$set":         bson.M{"updated_at": t},
			"$setOnInsert": bson.M{"created_at": t},
		}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mintgate/mongo: reserve quota: %w", err)
	}

	return s.incTotal(ctx, int64(count))
}

func (s *Store) Release(ctx context.Context, account common.Address, count uint64) error {
	_, err := s.mdb.NewUpdate((*quotaModel)(nil)).
		Filter(bson.M{"_id": account.Hex()}).
		SetUpdate(bson.M{
			"$inc": bson.M{"minted": -int64(count)},
			"$set": bson.M{"updated_at": now()},
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mintgate/mongo: release quota: %w", err)
	}

	return s.incTotal(ctx, -int64(count))
}

// incTotal adjusts the aggregate counter, creating the state document on
// first use.
func (s *Store) incTotal(ctx context.Context, delta int64) error {
	_, err := s.mdb.NewUpdate((*stateModel)(nil)).
		Filter(bson.M{"_id": stateDocID}).
		SetUpdate(bson.M{
			"$inc":         bson.M{"total_minted": delta},
			"$setOnInsert": bson.M{"balance_wei": "0"},
		}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mintgate/mongo: update total: %w", err)
	}
	return nil
}

func (s *Store) UsedBy(ctx context.Context, account common.Address) (uint64, error) {
	var m quotaModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": account.Hex()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("mintgate/mongo: used by: %w", err)
	}
	return uint64(m.Minted), nil
}

func (s *Store) GlobalUsed(ctx context.Context) (uint64, error) {
	m, err := s.state(ctx)
	if err != nil {
		return 0, err
	}
	return uint64(m.TotalMinted), nil
}

func (s *Store) ListQuotas(ctx context.Context, opts quota.ListOpts) ([]*quota.Record, error) {
	var models []quotaModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("mintgate/mongo: list quotas: %w", err)
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
	m, err := s.state(ctx)
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

// state loads the aggregate state document; a missing document reads as
// all-zero state.
func (s *Store) state(ctx context.Context) (*stateModel, error) {
	var m stateModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": stateDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return &stateModel{ID: stateDocID, BalanceWei: "0"}, nil
		}
		return nil, fmt.Errorf("mintgate/mongo: get state: %w", err)
	}
	return &m, nil
}

func (s *Store) setBalance(ctx context.Context, balance types.Amount) error {
	_, err := s.mdb.NewUpdate((*stateModel)(nil)).
		Filter(bson.M{"_id": stateDocID}).
		SetUpdate(bson.M{
			"$set":         bson.M{"balance_wei": balance.String()},
			"$setOnInsert": bson.M{"total_minted": int64(0)},
		}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mintgate/mongo: set balance: %w", err)
	}
	return nil
}

// ==================== Receipts ====================

func (s *Store) CreateReceipt(ctx context.Context, r *receipt.Receipt) error {
	m := toReceiptModel(r)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("mintgate/mongo: create receipt: %w", err)
	}
	return nil
}

func (s *Store) GetReceipt(ctx context.Context, receiptID id.ReceiptID) (*receipt.Receipt, error) {
	var m receiptModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": receiptID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, mintgate.ErrReceiptNotFound
		}
		return nil, fmt.Errorf("mintgate/mongo: get receipt: %w", err)
	}
	return fromReceiptModel(&m)
}

func (s *Store) ListReceipts(ctx context.Context, account common.Address, opts receipt.ListOpts) ([]*receipt.Receipt, error) {
	var models []receiptModel

	filter := bson.M{}
	if account != (common.Address{}) {
		filter["account"] = account.Hex()
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("mintgate/mongo: list receipts: %w", err)
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
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("mintgate/mongo: create withdrawal: %w", err)
	}
	return nil
}

func (s *Store) ListWithdrawals(ctx context.Context, opts receipt.ListOpts) ([]*receipt.Withdrawal, error) {
	var models []withdrawalModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("mintgate/mongo: list withdrawals: %w", err)
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

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all mintgate collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colSettings: {},
		colState:    {},
		colQuotas: {
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
		colReceipts: {
			{Keys: bson.D{{Key: "account", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
		colWithdrawals: {
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
	}
}
