// Package registry defines the Token Registry collaborator: the component
// that owns the actual token ledger (ownership, issuance order). The gate
// is its sole writer path, so TotalIssued always agrees with the gate's
// aggregate supply counter.
package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Range is the contiguous block of token ids issued by a single mint.
// Token ids are 1-based and strictly increasing across mints.
type Range struct {
	First uint64 `json:"first"`
	Last  uint64 `json:"last"`
}

// Count returns the number of tokens in the range.
func (r Range) Count() uint64 {
	if r.Last < r.First {
		return 0
	}
	return r.Last - r.First + 1
}

// Contains reports whether tokenID falls inside the range.
func (r Range) Contains(tokenID uint64) bool {
	return tokenID >= r.First && tokenID <= r.Last
}

// TokenRegistry is the external token-ownership ledger the gate delegates
// unit creation to. Implementations must be synchronous: Mint either
// issues the full range or fails without issuing anything.
type TokenRegistry interface {
	// Mint issues count new tokens owned by owner and returns the issued
	// id range. A failure must leave the registry unchanged.
	Mint(ctx context.Context, owner common.Address, count uint64) (Range, error)

	// TotalIssued returns the total number of tokens issued so far.
	TotalIssued(ctx context.Context) (uint64, error)

	// OwnerOf returns the owner of a token, or false if it was never issued.
	OwnerOf(ctx context.Context, tokenID uint64) (common.Address, bool, error)
}
