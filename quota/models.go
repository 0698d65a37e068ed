// Package quota holds the per-account cumulative mint records tracked by
// the gate. A record is created implicitly on an account's first mint,
// only ever increases, and is never deleted. The quota ceiling itself is
// not stored here — it is re-proven on every call by a fresh voucher.
package quota

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/xraph/mintgate/types"
)

// Record is the cumulative mint count for a single account.
type Record struct {
	types.Entity
	Account common.Address `json:"account"`
	Minted  uint64         `json:"minted"`
}

// ListOpts controls quota record listing.
type ListOpts struct {
	Limit  int
	Offset int
}
