package mintgate

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"

	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/plugin"
	"github.com/xraph/mintgate/principal"
	"github.com/xraph/mintgate/quota"
	"github.com/xraph/mintgate/receipt"
	"github.com/xraph/mintgate/registry"
	"github.com/xraph/mintgate/sale"
	"github.com/xraph/mintgate/store"
	"github.com/xraph/mintgate/types"
	"github.com/xraph/mintgate/voucher"
)

// Gate is the minting authorization engine. It composes the voucher
// verifier, the quota ledger, the sale lifecycle and the payment check
// into one serialized mint operation, and exposes the admin surface on
// top of the same state.
type Gate struct {
	cfg     Config
	store   store.Store
	tokens  registry.TokenRegistry
	admins  principal.Registry
	plugins *plugin.Registry
	logger  *slog.Logger
	payout  common.Address

	// mu gives every state-mutating operation single global
	// serialization. inFlight is true for the duration of the external
	// token-registry call; any operation entered while it is set is a
	// re-entrant callback and fails rather than deadlocking on mu.
	mu       sync.Mutex
	inFlight atomic.Bool
}

// New creates a Gate. Construction fails with ErrInvalidConfiguration if
// the config is invalid (zero max supply, missing name or symbol).
func New(cfg Config, s store.Store, tokens registry.TokenRegistry, admins principal.Registry, opts ...Option) (*Gate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s == nil || tokens == nil || admins == nil {
		return nil, ValidationError{Field: "collaborators", Message: "store, token registry and principal registry are required"}
	}

	g := &Gate{
		cfg:     cfg,
		store:   s,
		tokens:  tokens,
		admins:  admins,
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Option configures a Gate instance.
type Option func(*Gate)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
		g.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(g *Gate) {
		_ = g.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithPayout sets the payout address withdrawals are sent to. Defaults to
// the withdrawing admin itself.
func WithPayout(addr common.Address) Option {
	return func(g *Gate) {
		g.payout = addr
	}
}

// Start migrates the store and seeds the initial settings. Seeding is
// insert-if-absent: on restart the persisted settings win over Config.
func (g *Gate) Start(ctx context.Context) error {
	if err := g.store.Migrate(ctx); err != nil {
		return err
	}

	seed := &store.Settings{
		Price:        g.cfg.Price,
		AuthorityKey: g.cfg.AuthorityKey,
		BaseURI:      g.cfg.BaseURI,
		SaleState:    sale.FromActive(g.cfg.SaleActive),
	}
	if err := g.store.SeedSettings(ctx, seed); err != nil {
		return err
	}

	g.plugins.EmitInit(ctx, g)

	g.logger.Info("mintgate started",
		"name", g.cfg.Name,
		"symbol", g.cfg.Symbol,
		"max_supply", g.cfg.MaxSupply,
	)

	return nil
}

// Stop shuts down the gate.
func (g *Gate) Stop() error {
	g.plugins.EmitShutdown(context.Background())
	return g.store.Close()
}

// exclude acquires the gate's global serialization, failing fast with
// ErrReentrant if a token-registry call is in flight on this or any other
// path. The returned function releases the lock.
func (g *Gate) exclude() (func(), error) {
	if g.inFlight.Load() {
		return nil, ErrReentrant
	}
	g.mu.Lock()
	return g.mu.Unlock, nil
}

// ──────────────────────────────────────────────────
// Mint
// ──────────────────────────────────────────────────

// Mint authorizes and performs a mint of count units for caller, gated by
// a signed voucher and sufficient payment.
//
// Preconditions are checked in a fixed order so failures report
// consistently: sale state, global supply, account quota, payment,
// voucher binding, then signature. State changes only after every check
// passes; a registry failure rolls the quota reservation back, so a
// failed call never leaves partial state.
//
// Overpayment is accepted and retained.
func (g *Gate) Mint(ctx context.Context, caller common.Address, count uint64, v *voucher.Voucher, payment types.Amount) (*receipt.Receipt, error) {
	if count == 0 {
		// A zero-count mint that still charged payment would be a
		// pricing bug; the gate is the required upstream guard.
		return nil, ErrInvalidInput
	}
	if caller == (common.Address{}) {
		return nil, ErrInvalidInput
	}
	if v == nil || len(v.Signature) == 0 {
		return nil, g.reject(ctx, caller, count, ErrMalformedVoucher)
	}

	release, err := g.exclude()
	if err != nil {
		return nil, err
	}
	defer release()

	settings, err := g.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	// 1. Sale lifecycle
	if !settings.SaleState.Active() {
		return nil, g.reject(ctx, caller, count, ErrSaleNotActive)
	}

	// 2. Global supply ceiling
	globalUsed, err := g.store.GlobalUsed(ctx)
	if err != nil {
		return nil, err
	}
	if count > g.cfg.MaxSupply || globalUsed > g.cfg.MaxSupply-count {
		return nil, g.reject(ctx, caller, count, ErrSupplyExceeded)
	}

	// 3. Per-account quota against the presented voucher's ceiling
	used, err := g.store.UsedBy(ctx, caller)
	if err != nil {
		return nil, err
	}
	if count > v.MaxQuota || used > v.MaxQuota-count {
		g.plugins.EmitQuotaExceeded(ctx, caller, used, count, v.MaxQuota)
		return nil, g.reject(ctx, caller, count, ErrQuotaExceeded)
	}

	// 4. Payment sufficiency
	required := settings.Price.Mul(count)
	if payment.LessThan(required) {
		return nil, g.reject(ctx, caller, count, ErrInsufficientPayment)
	}

	// 5. Voucher binding: the digest must match a claim recomputed from
	// the caller and the quota the gate just enforced, so a caller can
	// never smuggle in someone else's ceiling.
	claim := voucher.Claim{IssuedTo: caller, MaxQuota: v.MaxQuota, Tag: v.Tag}
	if voucher.Digest(claim) != v.Digest {
		return nil, g.reject(ctx, caller, count, ErrMalformedVoucher)
	}

	// 6. Authority signature
	if !voucher.Verify(claim, v.Signature, settings.AuthorityKey) {
		return nil, g.reject(ctx, caller, count, ErrSignatureInvalid)
	}

	// All checks passed — apply effects.
	if err := g.store.Reserve(ctx, caller, count); err != nil {
		return nil, err
	}

	rng, err := g.issueTokens(ctx, caller, count)
	if err != nil {
		return nil, err
	}

	// Past this point the registry has issued tokens, which cannot be
	// recalled. A store failure now is surfaced to the caller and logged
	// as an inconsistency: the quota reservation stays applied to match
	// the issued tokens, but the balance or receipt write is missing.
	if err := g.store.Credit(ctx, payment); err != nil {
		g.logger.Error("payment credit failed after token issuance",
			"account", caller,
			"count", count,
			"first_token", rng.First,
			"last_token", rng.Last,
			"payment", payment,
			"error", err,
		)
		return nil, err
	}

	rec := &receipt.Receipt{
		Entity:     types.NewEntity(),
		ID:         id.NewReceiptID(),
		Account:    caller,
		Count:      count,
		FirstToken: rng.First,
		LastToken:  rng.Last,
		Payment:    payment,
		UnitPrice:  settings.Price,
		VoucherDig: v.Digest,
		Tag:        v.Tag,
	}
	if err := g.store.CreateReceipt(ctx, rec); err != nil {
		g.logger.Error("receipt write failed after token issuance",
			"account", caller,
			"count", count,
			"first_token", rng.First,
			"last_token", rng.Last,
			"error", err,
		)
		return nil, err
	}

	// Exhaustion latch: advisory convenience, not the supply guard — the
	// global cap check above remains authoritative even if an admin
	// unpauses afterwards.
	total := globalUsed + count
	if total >= g.cfg.MaxSupply {
		settings.SaleState = sale.StateInactive
		if err := g.store.PutSettings(ctx, settings); err != nil {
			return nil, err
		}
		g.plugins.EmitSupplyExhausted(ctx, total)
		g.plugins.EmitSaleStateChanged(ctx, sale.StateInactive, "supply exhausted")
	}

	g.plugins.EmitMinted(ctx, rec)

	g.logger.Info("minted",
		"account", caller,
		"count", count,
		"first_token", rng.First,
		"last_token", rng.Last,
		"total_minted", total,
	)

	return rec, nil
}

// issueTokens delegates to the token registry with the in-flight flag
// held for exactly the duration of the call. Both the flag clear and the
// reservation rollback are deferred, so every exit path releases them,
// including a registry panic: the panic still propagates, but it cannot
// wedge the gate or leave reserved units the registry never issued.
func (g *Gate) issueTokens(ctx context.Context, caller common.Address, count uint64) (registry.Range, error) {
	g.inFlight.Store(true)
	defer g.inFlight.Store(false)

	issued := false
	defer func() {
		if issued {
			return
		}
		if rerr := g.store.Release(ctx, caller, count); rerr != nil {
			g.logger.Error("quota rollback failed after registry error",
				"account", caller,
				"count", count,
				"error", rerr,
			)
		}
	}()

	rng, err := g.tokens.Mint(ctx, caller, count)
	if err != nil {
		return registry.Range{}, fmt.Errorf("%w: %v", ErrRegistryMint, err)
	}
	issued = true
	return rng, nil
}

// reject emits the rejection hook and returns the reason unchanged.
func (g *Gate) reject(ctx context.Context, caller common.Address, count uint64, reason error) error {
	g.plugins.EmitMintRejected(ctx, caller, count, reason)
	return reason
}

// ──────────────────────────────────────────────────
// Admin surface
// ──────────────────────────────────────────────────

func (g *Gate) requireAdmin(ctx context.Context, caller common.Address) error {
	if !g.admins.IsAdmin(ctx, caller) {
		return ErrUnauthorized
	}
	return nil
}

// SetPrice changes the unit price. Setting the current price again is
// rejected as a cheap sanity guard against fat-fingered no-ops.
func (g *Gate) SetPrice(ctx context.Context, caller common.Address, price types.Amount) error {
	if err := g.requireAdmin(ctx, caller); err != nil {
		return err
	}

	release, err := g.exclude()
	if err != nil {
		return err
	}
	defer release()

	settings, err := g.store.GetSettings(ctx)
	if err != nil {
		return err
	}
	if settings.Price.Equal(price) {
		return ErrPriceUnchanged
	}

	old := settings.Price
	settings.Price = price
	if err := g.store.PutSettings(ctx, settings); err != nil {
		return err
	}

	g.plugins.EmitPriceChanged(ctx, old, price)
	g.logger.Info("price changed", "old", old, "new", price, "by", caller)
	return nil
}

// RotateAuthorityKey replaces the trusted voucher signing identity.
// The zero address is rejected: it would silently invalidate every
// voucher while looking like a configured key.
func (g *Gate) RotateAuthorityKey(ctx context.Context, caller common.Address, key common.Address) error {
	if err := g.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if key == (common.Address{}) {
		return ErrZeroAuthority
	}

	release, err := g.exclude()
	if err != nil {
		return err
	}
	defer release()

	settings, err := g.store.GetSettings(ctx)
	if err != nil {
		return err
	}

	old := settings.AuthorityKey
	settings.AuthorityKey = key
	if err := g.store.PutSettings(ctx, settings); err != nil {
		return err
	}

	g.plugins.EmitAuthorityRotated(ctx, old, key)
	g.logger.Info("authority key rotated", "old", old, "new", key, "by", caller)
	return nil
}

// SetBaseURI updates the metadata base pointer.
func (g *Gate) SetBaseURI(ctx context.Context, caller common.Address, uri string) error {
	if err := g.requireAdmin(ctx, caller); err != nil {
		return err
	}

	release, err := g.exclude()
	if err != nil {
		return err
	}
	defer release()

	settings, err := g.store.GetSettings(ctx)
	if err != nil {
		return err
	}

	old := settings.BaseURI
	settings.BaseURI = uri
	if err := g.store.PutSettings(ctx, settings); err != nil {
		return err
	}

	g.plugins.EmitBaseURIChanged(ctx, old, uri)
	return nil
}

// Pause blocks minting.
func (g *Gate) Pause(ctx context.Context, caller common.Address) error {
	return g.setSaleState(ctx, caller, sale.StateInactive, "paused by admin")
}

// Unpause permits minting again. After supply exhaustion this reopens the
// lifecycle gate but subsequent mints still fail on the global cap.
func (g *Gate) Unpause(ctx context.Context, caller common.Address) error {
	return g.setSaleState(ctx, caller, sale.StateActive, "unpaused by admin")
}

func (g *Gate) setSaleState(ctx context.Context, caller common.Address, state sale.State, reason string) error {
	if err := g.requireAdmin(ctx, caller); err != nil {
		return err
	}

	release, err := g.exclude()
	if err != nil {
		return err
	}
	defer release()

	settings, err := g.store.GetSettings(ctx)
	if err != nil {
		return err
	}

	settings.SaleState = state
	if err := g.store.PutSettings(ctx, settings); err != nil {
		return err
	}

	g.plugins.EmitSaleStateChanged(ctx, state, reason)
	g.logger.Info("sale state changed", "state", state, "reason", reason, "by", caller)
	return nil
}

// Withdraw transfers the entire accumulated balance to the configured
// payout address (or the withdrawing admin if none was configured) and
// records the withdrawal. Partial withdrawals are not supported.
func (g *Gate) Withdraw(ctx context.Context, caller common.Address) (*receipt.Withdrawal, error) {
	if err := g.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	release, err := g.exclude()
	if err != nil {
		return nil, err
	}
	defer release()

	amount, err := g.store.Drain(ctx)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, ErrWithdrawalEmpty
	}

	payout := g.payout
	if payout == (common.Address{}) {
		payout = caller
	}

	w := &receipt.Withdrawal{
		Entity: types.NewEntity(),
		ID:     id.NewWithdrawalID(),
		By:     caller,
		Payout: payout,
		Amount: amount,
	}
	if err := g.store.CreateWithdrawal(ctx, w); err != nil {
		return nil, err
	}

	g.plugins.EmitWithdrawal(ctx, w)
	g.logger.Info("withdrawn", "amount", amount, "payout", payout, "by", caller)
	return w, nil
}

// ──────────────────────────────────────────────────
// Query surface
// ──────────────────────────────────────────────────
//
// Reads are served without the gate lock: the counters are monotonic and
// only ever reflect fully committed prior state, and the store has its
// own synchronization.

// Name returns the collection name.
func (g *Gate) Name() string { return g.cfg.Name }

// Symbol returns the collection symbol.
func (g *Gate) Symbol() string { return g.cfg.Symbol }

// MaxSupply returns the immutable global supply ceiling.
func (g *Gate) MaxSupply() uint64 { return g.cfg.MaxSupply }

// Price returns the current unit price.
func (g *Gate) Price(ctx context.Context) (types.Amount, error) {
	settings, err := g.store.GetSettings(ctx)
	if err != nil {
		return types.Zero(), err
	}
	return settings.Price, nil
}

// AuthorityKey returns the current voucher authority.
func (g *Gate) AuthorityKey(ctx context.Context) (common.Address, error) {
	settings, err := g.store.GetSettings(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return settings.AuthorityKey, nil
}

// SaleActive reports whether minting is currently permitted.
func (g *Gate) SaleActive(ctx context.Context) (bool, error) {
	settings, err := g.store.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return settings.SaleState.Active(), nil
}

// MintedBy returns the cumulative units minted by account.
func (g *Gate) MintedBy(ctx context.Context, account common.Address) (uint64, error) {
	return g.store.UsedBy(ctx, account)
}

// TotalMinted returns the aggregate units minted across all accounts.
func (g *Gate) TotalMinted(ctx context.Context) (uint64, error) {
	return g.store.GlobalUsed(ctx)
}

// Balance returns the accumulated, unwithdrawn payment balance.
func (g *Gate) Balance(ctx context.Context) (types.Amount, error) {
	return g.store.Balance(ctx)
}

// Quotas lists the per-account quota records.
func (g *Gate) Quotas(ctx context.Context, opts quota.ListOpts) ([]*quota.Record, error) {
	return g.store.ListQuotas(ctx, opts)
}

// Receipts lists mint receipts, optionally filtered to one account
// (pass the zero address for all).
func (g *Gate) Receipts(ctx context.Context, account common.Address, opts receipt.ListOpts) ([]*receipt.Receipt, error) {
	return g.store.ListReceipts(ctx, account, opts)
}

// Withdrawals lists withdrawal records.
func (g *Gate) Withdrawals(ctx context.Context, opts receipt.ListOpts) ([]*receipt.Withdrawal, error) {
	return g.store.ListWithdrawals(ctx, opts)
}

// TokenURI returns the metadata URI for an issued token, or ErrNotFound
// if the token was never issued.
func (g *Gate) TokenURI(ctx context.Context, tokenID uint64) (string, error) {
	_, issued, err := g.tokens.OwnerOf(ctx, tokenID)
	if err != nil {
		return "", err
	}
	if !issued {
		return "", ErrNotFound
	}

	settings, err := g.store.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	return settings.BaseURI + strconv.FormatUint(tokenID, 10), nil
}
