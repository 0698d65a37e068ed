// Package receipt defines the persisted audit records the gate writes on
// every successful mint and withdrawal, mirroring the event log a hosting
// ledger would emit.
package receipt

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/types"
)

// Receipt records one successful mint: who minted, which token range was
// issued, what was paid, and the digest of the voucher that authorized it.
type Receipt struct {
	types.Entity
	ID         id.ReceiptID   `json:"id"`
	Account    common.Address `json:"account"`
	Count      uint64         `json:"count"`
	FirstToken uint64         `json:"first_token"`
	LastToken  uint64         `json:"last_token"`
	Payment    types.Amount   `json:"payment"`
	UnitPrice  types.Amount   `json:"unit_price"`
	VoucherDig common.Hash    `json:"voucher_digest"`
	Tag        string         `json:"tag,omitempty"`
}

// Withdrawal records one full-balance fund withdrawal by an admin.
type Withdrawal struct {
	types.Entity
	ID     id.WithdrawalID `json:"id"`
	By     common.Address  `json:"by"`
	Payout common.Address  `json:"payout"`
	Amount types.Amount    `json:"amount"`
}

// ListOpts controls receipt and withdrawal listing.
type ListOpts struct {
	Limit  int
	Offset int
}
