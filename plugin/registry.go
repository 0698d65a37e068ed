package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/xraph/mintgate/receipt"
	"github.com/xraph/mintgate/sale"
	"github.com/xraph/mintgate/types"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery so emission is a slice walk, not a type
// assertion per event.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit             []OnInit
	onShutdown         []OnShutdown
	onMinted           []OnMinted
	onMintRejected     []OnMintRejected
	onQuotaExceeded    []OnQuotaExceeded
	onSupplyExhausted  []OnSupplyExhausted
	onSaleStateChanged []OnSaleStateChanged
	onPriceChanged     []OnPriceChanged
	onAuthorityRotated []OnAuthorityRotated
	onBaseURIChanged   []OnBaseURIChanged
	onWithdrawal       []OnWithdrawal
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnMinted); ok {
		r.onMinted = append(r.onMinted, v)
	}
	if v, ok := p.(OnMintRejected); ok {
		r.onMintRejected = append(r.onMintRejected, v)
	}
	if v, ok := p.(OnQuotaExceeded); ok {
		r.onQuotaExceeded = append(r.onQuotaExceeded, v)
	}
	if v, ok := p.(OnSupplyExhausted); ok {
		r.onSupplyExhausted = append(r.onSupplyExhausted, v)
	}
	if v, ok := p.(OnSaleStateChanged); ok {
		r.onSaleStateChanged = append(r.onSaleStateChanged, v)
	}
	if v, ok := p.(OnPriceChanged); ok {
		r.onPriceChanged = append(r.onPriceChanged, v)
	}
	if v, ok := p.(OnAuthorityRotated); ok {
		r.onAuthorityRotated = append(r.onAuthorityRotated, v)
	}
	if v, ok := p.(OnBaseURIChanged); ok {
		r.onBaseURIChanged = append(r.onBaseURIChanged, v)
	}
	if v, ok := p.(OnWithdrawal); ok {
		r.onWithdrawal = append(r.onWithdrawal, v)
	}

	return nil
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, gate interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, gate)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitMinted emits a successful-mint event.
func (r *Registry) EmitMinted(ctx context.Context, rec *receipt.Receipt) {
	r.mu.RLock()
	plugins := r.onMinted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMinted(ctx, rec)
		}); err != nil {
			r.logger.Warn("plugin OnMinted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitMintRejected emits a mint-rejection event.
func (r *Registry) EmitMintRejected(ctx context.Context, account common.Address, count uint64, reason error) {
	r.mu.RLock()
	plugins := r.onMintRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMintRejected(ctx, account, count, reason)
		}); err != nil {
			r.logger.Warn("plugin OnMintRejected failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitQuotaExceeded emits a quota-exceeded event.
func (r *Registry) EmitQuotaExceeded(ctx context.Context, account common.Address, used, requested, maxQuota uint64) {
	r.mu.RLock()
	plugins := r.onQuotaExceeded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnQuotaExceeded(ctx, account, used, requested, maxQuota)
		}); err != nil {
			r.logger.Warn("plugin OnQuotaExceeded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSupplyExhausted emits a supply-exhausted event.
func (r *Registry) EmitSupplyExhausted(ctx context.Context, total uint64) {
	r.mu.RLock()
	plugins := r.onSupplyExhausted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSupplyExhausted(ctx, total)
		}); err != nil {
			r.logger.Warn("plugin OnSupplyExhausted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSaleStateChanged emits a sale-state-change event.
func (r *Registry) EmitSaleStateChanged(ctx context.Context, state sale.State, reason string) {
	r.mu.RLock()
	plugins := r.onSaleStateChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSaleStateChanged(ctx, state, reason)
		}); err != nil {
			r.logger.Warn("plugin OnSaleStateChanged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPriceChanged emits a price-change event.
func (r *Registry) EmitPriceChanged(ctx context.Context, oldPrice, newPrice types.Amount) {
	r.mu.RLock()
	plugins := r.onPriceChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPriceChanged(ctx, oldPrice, newPrice)
		}); err != nil {
			r.logger.Warn("plugin OnPriceChanged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitAuthorityRotated emits an authority-key-rotation event.
func (r *Registry) EmitAuthorityRotated(ctx context.Context, oldKey, newKey common.Address) {
	r.mu.RLock()
	plugins := r.onAuthorityRotated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAuthorityRotated(ctx, oldKey, newKey)
		}); err != nil {
			r.logger.Warn("plugin OnAuthorityRotated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitBaseURIChanged emits a metadata-pointer-change event.
func (r *Registry) EmitBaseURIChanged(ctx context.Context, oldURI, newURI string) {
	r.mu.RLock()
	plugins := r.onBaseURIChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBaseURIChanged(ctx, oldURI, newURI)
		}); err != nil {
			r.logger.Warn("plugin OnBaseURIChanged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitWithdrawal emits a withdrawal event.
func (r *Registry) EmitWithdrawal(ctx context.Context, w *receipt.Withdrawal) {
	r.mu.RLock()
	plugins := r.onWithdrawal
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnWithdrawal(ctx, w)
		}); err != nil {
			r.logger.Warn("plugin OnWithdrawal failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout runs a hook with a hard timeout so a misbehaving plugin
// cannot stall the mint path.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
