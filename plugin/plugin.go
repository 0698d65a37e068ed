// Package plugin provides an extensible hook system for MintGate.
// Plugins can observe gate lifecycle events (mints, rejections, sale state
// changes, admin actions) to extend functionality without touching the
// mint path itself.
package plugin

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/xraph/mintgate/receipt"
	"github.com/xraph/mintgate/sale"
	"github.com/xraph/mintgate/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the gate starts. The gate is passed as an opaque
// value to avoid an import cycle with the root package.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, gate interface{}) error
}

// OnShutdown is called when the gate is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Mint hooks
// ──────────────────────────────────────────────────

// OnMinted is called after a successful mint, with the persisted receipt.
type OnMinted interface {
	Plugin
	OnMinted(ctx context.Context, r *receipt.Receipt) error
}

// OnMintRejected is called when a mint fails any precondition. reason is
// one of the mintgate sentinel errors.
type OnMintRejected interface {
	Plugin
	OnMintRejected(ctx context.Context, account common.Address, count uint64, reason error) error
}

// OnQuotaExceeded is called when an account attempts to mint past its
// voucher quota.
type OnQuotaExceeded interface {
	Plugin
	OnQuotaExceeded(ctx context.Context, account common.Address, used, requested, maxQuota uint64) error
}

// OnSupplyExhausted is called once, when a mint brings the aggregate
// supply to the maximum.
type OnSupplyExhausted interface {
	Plugin
	OnSupplyExhausted(ctx context.Context, total uint64) error
}

// ──────────────────────────────────────────────────
// Sale and admin hooks
// ──────────────────────────────────────────────────

// OnSaleStateChanged is called whenever the sale lifecycle state is set,
// by an admin or by the automatic exhaustion latch.
type OnSaleStateChanged interface {
	Plugin
	OnSaleStateChanged(ctx context.Context, state sale.State, reason string) error
}

// OnPriceChanged is called after an admin changes the unit price.
type OnPriceChanged interface {
	Plugin
	OnPriceChanged(ctx context.Context, oldPrice, newPrice types.Amount) error
}

// OnAuthorityRotated is called after an admin rotates the voucher
// authority key.
type OnAuthorityRotated interface {
	Plugin
	OnAuthorityRotated(ctx context.Context, oldKey, newKey common.Address) error
}

// OnBaseURIChanged is called after an admin updates the metadata base
// pointer.
type OnBaseURIChanged interface {
	Plugin
	OnBaseURIChanged(ctx context.Context, oldURI, newURI string) error
}

// OnWithdrawal is called after an admin drains the accumulated balance.
type OnWithdrawal interface {
	Plugin
	OnWithdrawal(ctx context.Context, w *receipt.Withdrawal) error
}
