// Package voucher implements the signed-voucher scheme that authorizes
// accounts to mint: an off-chain authority signs a canonical encoding of
// (account, quota, tag), and the gate verifies the signature before
// accounting against the claimed quota.
package voucher

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Digest computes the canonical digest of a claim.
//
// The encoding is fixed and order-preserving: the 20 raw address bytes,
// then MaxQuota as a 32-byte big-endian integer, then the raw tag bytes.
// Field order and widths must match exactly what the issuing authority
// signed — any deviation is a verification failure, not a crash.
func Digest(c Claim) common.Hash {
	buf := make([]byte, 0, common.AddressLength+32+len(c.Tag))
	buf = append(buf, c.IssuedTo.Bytes()...)

	var quota [32]byte
	binary.BigEndian.PutUint64(quota[24:], c.MaxQuota)
	buf = append(buf, quota[:]...)

	buf = append(buf, c.Tag...)
	return crypto.Keccak256Hash(buf)
}

// Verify reports whether sig is a valid authority signature over the
// canonical digest of claim. The digest is wrapped with the standard
// Ethereum signed-message prefix before recovery, so a raw transaction or
// typed-data signature can never replay as a voucher.
//
// Verify never returns an error: any malformed input is simply an invalid
// signature, letting the caller produce one uniform authorization failure.
func Verify(c Claim, sig []byte, authority common.Address) bool {
	if len(sig) != SignatureLength {
		return false
	}
	if authority == (common.Address{}) {
		return false
	}

	// Normalize the recovery id: on-chain convention is V in {27, 28},
	// crypto.SigToPub wants {0, 1}.
	norm := make([]byte, SignatureLength)
	copy(norm, sig)
	if norm[64] >= 27 {
		norm[64] -= 27
	}
	if norm[64] > 1 {
		return false
	}

	digest := Digest(c)
	prefixed := accounts.TextHash(digest.Bytes())

	pub, err := crypto.SigToPub(prefixed, norm)
	if err != nil {
		return false
	}

	return crypto.PubkeyToAddress(*pub) == authority
}

// VerifyVoucher checks a full voucher against an authority key: the
// embedded digest must match the recomputed canonical digest, and the
// signature must recover to the authority.
func VerifyVoucher(v *Voucher, authority common.Address) bool {
	if v == nil {
		return false
	}
	if Digest(v.Claim) != v.Digest {
		return false
	}
	return Verify(v.Claim, v.Signature, authority)
}
