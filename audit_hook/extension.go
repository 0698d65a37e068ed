// Package audithook bridges MintGate lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/xraph/mintgate/plugin"
	"github.com/xraph/mintgate/receipt"
	"github.com/xraph/mintgate/sale"
	"github.com/xraph/mintgate/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin             = (*Extension)(nil)
	_ plugin.OnMinted           = (*Extension)(nil)
	_ plugin.OnMintRejected     = (*Extension)(nil)
	_ plugin.OnQuotaExceeded    = (*Extension)(nil)
	_ plugin.OnSupplyExhausted  = (*Extension)(nil)
	_ plugin.OnSaleStateChanged = (*Extension)(nil)
	_ plugin.OnPriceChanged     = (*Extension)(nil)
	_ plugin.OnAuthorityRotated = (*Extension)(nil)
	_ plugin.OnBaseURIChanged   = (*Extension)(nil)
	_ plugin.OnWithdrawal       = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges MintGate lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Mint lifecycle hooks
// ──────────────────────────────────────────────────

// OnMinted implements plugin.OnMinted.
func (e *Extension) OnMinted(ctx context.Context, r *receipt.Receipt) error {
	return e.record(ctx, ActionMintAccepted, SeverityInfo, OutcomeSuccess,
		ResourceMint, r.ID.String(), CategoryMinting, nil,
		"account", r.Account.Hex(),
		"count", r.Count,
		"first_token", r.FirstToken,
		"last_token", r.LastToken,
		"payment_wei", r.Payment.String(),
	)
}

// OnMintRejected implements plugin.OnMintRejected.
func (e *Extension) OnMintRejected(ctx context.Context, account common.Address, count uint64, reason error) error {
	return e.record(ctx, ActionMintRejected, SeverityWarning, OutcomeFailure,
		ResourceMint, account.Hex(), CategoryMinting, reason,
		"account", account.Hex(),
		"count", count,
	)
}

// OnQuotaExceeded implements plugin.OnQuotaExceeded.
func (e *Extension) OnQuotaExceeded(ctx context.Context, account common.Address, used, requested, maxQuota uint64) error {
	return e.record(ctx, ActionQuotaExceeded, SeverityWarning, OutcomeFailure,
		ResourceQuota, account.Hex(), CategoryAccess, nil,
		"account", account.Hex(),
		"used", used,
		"requested", requested,
		"max_quota", maxQuota,
	)
}

// OnSupplyExhausted implements plugin.OnSupplyExhausted.
func (e *Extension) OnSupplyExhausted(ctx context.Context, total uint64) error {
	return e.record(ctx, ActionSupplyExhausted, SeverityInfo, OutcomeSuccess,
		ResourceMint, "", CategoryMinting, nil,
		"total_minted", total,
	)
}

// ──────────────────────────────────────────────────
// Sale and admin hooks
// ──────────────────────────────────────────────────

// OnSaleStateChanged implements plugin.OnSaleStateChanged.
func (e *Extension) OnSaleStateChanged(ctx context.Context, state sale.State, reason string) error {
	return e.record(ctx, ActionSaleStateChanged, SeverityInfo, OutcomeSuccess,
		ResourceSale, "", CategoryAdmin, nil,
		"state", string(state),
		"change_reason", reason,
	)
}

// OnPriceChanged implements plugin.OnPriceChanged.
func (e *Extension) OnPriceChanged(ctx context.Context, oldPrice, newPrice types.Amount) error {
	return e.record(ctx, ActionPriceChanged, SeverityInfo, OutcomeSuccess,
		ResourceSale, "", CategoryAdmin, nil,
		"old_price_wei", oldPrice.String(),
		"new_price_wei", newPrice.String(),
	)
}

// OnAuthorityRotated implements plugin.OnAuthorityRotated.
func (e *Extension) OnAuthorityRotated(ctx context.Context, oldKey, newKey common.Address) error {
	return e.record(ctx, ActionAuthorityRotated, SeverityWarning, OutcomeSuccess,
		ResourceAuthority, newKey.Hex(), CategoryAdmin, nil,
		"old_key", oldKey.Hex(),
		"new_key", newKey.Hex(),
	)
}

// OnBaseURIChanged implements plugin.OnBaseURIChanged.
func (e *Extension) OnBaseURIChanged(ctx context.Context, oldURI, newURI string) error {
	return e.record(ctx, ActionBaseURIChanged, SeverityInfo, OutcomeSuccess,
		ResourceSale, "", CategoryAdmin, nil,
		"old_uri", oldURI,
		"new_uri", newURI,
	)
}

// OnWithdrawal implements plugin.OnWithdrawal.
func (e *Extension) OnWithdrawal(ctx context.Context, w *receipt.Withdrawal) error {
	return e.record(ctx, ActionWithdrawal, SeverityInfo, OutcomeSuccess,
		ResourceTreasury, w.ID.String(), CategoryPayment, nil,
		"by", w.By.Hex(),
		"payout", w.Payout.Hex(),
		"amount_wei", w.Amount.String(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
