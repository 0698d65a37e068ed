// Package observability provides a metrics extension for MintGate that
// records lifecycle event counts via a MetricFactory.
package observability

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/xraph/mintgate/plugin"
	"github.com/xraph/mintgate/receipt"
	"github.com/xraph/mintgate/sale"
	"github.com/xraph/mintgate/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin             = (*MetricsExtension)(nil)
	_ plugin.OnInit             = (*MetricsExtension)(nil)
	_ plugin.OnMinted           = (*MetricsExtension)(nil)
	_ plugin.OnMintRejected     = (*MetricsExtension)(nil)
	_ plugin.OnQuotaExceeded    = (*MetricsExtension)(nil)
	_ plugin.OnSupplyExhausted  = (*MetricsExtension)(nil)
	_ plugin.OnSaleStateChanged = (*MetricsExtension)(nil)
	_ plugin.OnPriceChanged     = (*MetricsExtension)(nil)
	_ plugin.OnWithdrawal       = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Gate plugin to automatically track mint metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Mint metrics
	MintsAccepted Counter
	MintsRejected Counter
	UnitsMinted   Counter
	MintBatchSize Histogram
	PaymentWei    Histogram

	// Quota and supply metrics
	QuotaDenied     Counter
	SupplyExhausted Counter

	// Sale metrics
	SaleActivated   Counter
	SaleDeactivated Counter
	PriceChanges    Counter

	// Treasury metrics
	Withdrawals  Counter
	WithdrawnWei Histogram
}

// NewMetricsExtension creates a MetricsExtension with the provided
// MetricFactory. Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Mint metrics
		MintsAccepted: factory.Counter("mintgate.mint.accepted"),
		MintsRejected: factory.Counter("mintgate.mint.rejected"),
		UnitsMinted:   factory.Counter("mintgate.mint.units"),
		MintBatchSize: factory.Histogram("mintgate.mint.batch.size"),
		PaymentWei:    factory.Histogram("mintgate.mint.payment_wei"),

		// Quota and supply metrics
		QuotaDenied:     factory.Counter("mintgate.quota.denied"),
		SupplyExhausted: factory.Counter("mintgate.supply.exhausted"),

		// Sale metrics
		SaleActivated:   factory.Counter("mintgate.sale.activated"),
		SaleDeactivated: factory.Counter("mintgate.sale.deactivated"),
		PriceChanges:    factory.Counter("mintgate.price.changes"),

		// Treasury metrics
		Withdrawals:  factory.Counter("mintgate.withdrawal.count"),
		WithdrawnWei: factory.Histogram("mintgate.withdrawal.amount_wei"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Mint lifecycle hooks
// ──────────────────────────────────────────────────

// OnMinted implements plugin.OnMinted.
func (m *MetricsExtension) OnMinted(_ context.Context, r *receipt.Receipt) error {
	m.MintsAccepted.Inc()
	m.UnitsMinted.Add(float64(r.Count))
	m.MintBatchSize.Observe(float64(r.Count))
	m.PaymentWei.Observe(weiFloat(r.Payment))
	return nil
}

// OnMintRejected implements plugin.OnMintRejected.
func (m *MetricsExtension) OnMintRejected(_ context.Context, _ common.Address, _ uint64, _ error) error {
	m.MintsRejected.Inc()
	return nil
}

// OnQuotaExceeded implements plugin.OnQuotaExceeded.
func (m *MetricsExtension) OnQuotaExceeded(_ context.Context, _ common.Address, _, _, _ uint64) error {
	m.QuotaDenied.Inc()
	return nil
}

// OnSupplyExhausted implements plugin.OnSupplyExhausted.
func (m *MetricsExtension) OnSupplyExhausted(_ context.Context, _ uint64) error {
	m.SupplyExhausted.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Sale and admin hooks
// ──────────────────────────────────────────────────

// OnSaleStateChanged implements plugin.OnSaleStateChanged.
func (m *MetricsExtension) OnSaleStateChanged(_ context.Context, state sale.State, _ string) error {
	if state.Active() {
		m.SaleActivated.Inc()
	} else {
		m.SaleDeactivated.Inc()
	}
	return nil
}

// OnPriceChanged implements plugin.OnPriceChanged.
func (m *MetricsExtension) OnPriceChanged(_ context.Context, _, _ types.Amount) error {
	m.PriceChanges.Inc()
	return nil
}

// OnWithdrawal implements plugin.OnWithdrawal.
func (m *MetricsExtension) OnWithdrawal(_ context.Context, w *receipt.Withdrawal) error {
	m.Withdrawals.Inc()
	m.WithdrawnWei.Observe(weiFloat(w.Amount))
	return nil
}

// weiFloat converts an Amount to a float64 for histogram observation.
// Precision loss above 2^53 wei is acceptable for metrics.
func weiFloat(a types.Amount) float64 {
	f, _ := new(big.Float).SetInt(a.BigInt()).Float64()
	return f
}
