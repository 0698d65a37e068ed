// Package store defines the unified storage interface for MintGate state:
// sale settings, the quota ledger, the fund balance, and the mint/withdraw
// audit records. Implementations live in the memory, sqlite, postgres and
// mongo subpackages.
package store

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/quota"
	"github.com/xraph/mintgate/receipt"
	"github.com/xraph/mintgate/sale"
	"github.com/xraph/mintgate/types"
)

// Settings is the mutable gate configuration persisted alongside the
// quota ledger: unit price, trusted authority key, metadata base pointer,
// and the sale lifecycle state. MaxSupply is deliberately absent — it is
// immutable construction-time configuration, never stored.
type Settings struct {
	Price        types.Amount   `json:"price"`
	AuthorityKey common.Address `json:"authority_key"`
	BaseURI      string         `json:"base_uri"`
	SaleState    sale.State     `json:"sale_state"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Store is the unified storage interface for all MintGate state.
// The gate serializes all mutating calls, so implementations only need
// their own internal consistency, not cross-method transactions.
type Store interface {
	// Settings methods. SeedSettings inserts the initial settings only if
	// none exist yet, so restarts never clobber admin changes.
	SeedSettings(ctx context.Context, s *Settings) error
	GetSettings(ctx context.Context) (*Settings, error)
	PutSettings(ctx context.Context, s *Settings) error

	// Quota ledger methods. Reserve increments both the account record and
	// the aggregate counter by count; Release reverts a reservation after
	// a failed registry call. Both counters are monotonic outside of that
	// rollback path.
	Reserve(ctx context.Context, account common.Address, count uint64) error
	Release(ctx context.Context, account common.Address, count uint64) error
	UsedBy(ctx context.Context, account common.Address) (uint64, error)
	GlobalUsed(ctx context.Context) (uint64, error)
	ListQuotas(ctx context.Context, opts quota.ListOpts) ([]*quota.Record, error)

	// Fund balance methods. Drain returns the whole balance and zeroes it.
	Credit(ctx context.Context, amount types.Amount) error
	Balance(ctx context.Context) (types.Amount, error)
	Drain(ctx context.Context) (types.Amount, error)

	// Receipt methods
	CreateReceipt(ctx context.Context, r *receipt.Receipt) error
	GetReceipt(ctx context.Context, receiptID id.ReceiptID) (*receipt.Receipt, error)
	ListReceipts(ctx context.Context, account common.Address, opts receipt.ListOpts) ([]*receipt.Receipt, error)

	// Withdrawal methods
	CreateWithdrawal(ctx context.Context, w *receipt.Withdrawal) error
	ListWithdrawals(ctx context.Context, opts receipt.ListOpts) ([]*receipt.Withdrawal, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
