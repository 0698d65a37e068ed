package voucher

import (
	"github.com/ethereum/go-ethereum/common"
)

// Claim is the unforgeable statement carried by a voucher: the account it
// was issued to, the maximum cumulative number of units that account may
// mint, and an optional free-form tag (drop name, tier label).
//
// A claim is never trusted on its own — the gate recomputes its canonical
// digest from the values it will actually account against and requires a
// valid authority signature over that digest.
type Claim struct {
	IssuedTo common.Address `json:"issued_to"`
	MaxQuota uint64         `json:"max_quota"`
	Tag      string         `json:"tag,omitempty"`
}

// Voucher is a claim plus its canonical digest and a detached authority
// signature over that digest. Vouchers are ephemeral: verified per call,
// never persisted.
type Voucher struct {
	Claim
	Digest    common.Hash `json:"digest"`
	Signature []byte      `json:"signature"`
}

// SignatureLength is the expected length of a voucher signature:
// 65 bytes [R || S || V].
const SignatureLength = 65
