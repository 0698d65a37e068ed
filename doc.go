// Package mintgate provides a signed-voucher minting authorization engine
// for Go applications.
//
// MintGate is designed as a library, not a service. Import it directly
// into your Go application to gate the issuance of a bounded supply of
// sequentially numbered tokens behind an off-chain allowlist. It provides:
//
//   - ECDSA voucher verification with canonical claim digests
//   - A per-account quota ledger with a global supply ceiling
//   - A pause/unpause sale lifecycle with an automatic exhaustion latch
//   - A single serialized mint path with re-entrancy exclusion and
//     full rollback on registry failure
//   - An admin surface gated by a pluggable principal registry
//   - Mint receipts and withdrawal records as a persistent audit trail
//   - Pluggable storage (memory, SQLite, PostgreSQL, MongoDB)
//
// # Quick Start
//
// Create a gate with your preferred store and token registry:
//
//	import (
//	    "github.com/xraph/mintgate"
//	    "github.com/xraph/mintgate/principal"
//	    "github.com/xraph/mintgate/registry"
//	    "github.com/xraph/mintgate/store/memory"
//	)
//
//	gate, err := mintgate.New(mintgate.Config{
//	    Name:         "Creatures",
//	    Symbol:       "CRT",
//	    BaseURI:      "ipfs://Qm.../",
//	    MaxSupply:    10000,
//	    Price:        mintgate.Ether(1),
//	    AuthorityKey: authority,
//	    SaleActive:   true,
//	}, memory.New(), registry.NewCollection("Creatures", "CRT"), principal.NewStatic(owner))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := gate.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer gate.Stop()
//
// # Core Concepts
//
// Vouchers are signed off-chain by a trusted authority and prove both
// allowlist membership and a per-account quota ceiling:
//
//	issuer := voucher.NewIssuer(authorityKey)
//	v, err := issuer.Issue(account, 5, "genesis")
//
// Minting re-proves the quota on every call — the ceiling is never
// persisted, only the cumulative usage:
//
//	rec, err := gate.Mint(ctx, account, 2, v, mintgate.Ether(2))
//
// Every rejection is one of the package's sentinel errors
// (ErrSaleNotActive, ErrSupplyExceeded, ErrQuotaExceeded,
// ErrInsufficientPayment, ErrMalformedVoucher, ErrSignatureInvalid,
// ErrReentrant), all terminal for the triggering call: the caller decides
// whether to resubmit with corrected inputs.
//
// # Invariants
//
// After every operation the aggregate supply equals the sum of all
// per-account counters and never exceeds MaxSupply. Failed calls leave no
// observable state change. All monetary values use arbitrary-precision
// integer wei via the Amount type — no floating point.
//
// # TypeID
//
// Persisted audit records use TypeID for globally unique, type-safe
// identifiers:
//
//	mint_01h2xcejqtf2nbrexx3vqjhp41  // Mint receipt
//	wd_01h455vb4pex5vsknk084sn02q    // Withdrawal record
//
// TypeIDs are K-sortable, providing natural time-ordering of records.
package mintgate
