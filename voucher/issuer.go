package voucher

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Issuer signs allowlist claims with an authority private key. It is the
// signing counterpart of Verify, intended for operator tooling and tests;
// running it as a service (key custody, rate limiting, allowlist sourcing)
// is out of scope for this library.
type Issuer struct {
	key *ecdsa.PrivateKey
}

// NewIssuer creates an Issuer from an ECDSA private key.
func NewIssuer(key *ecdsa.PrivateKey) *Issuer {
	return &Issuer{key: key}
}

// NewIssuerFromHex creates an Issuer from a hex-encoded private key.
func NewIssuerFromHex(hexKey string) (*Issuer, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("voucher: parse issuer key: %w", err)
	}
	return &Issuer{key: key}, nil
}

// GenerateIssuer creates an Issuer with a fresh random key. Test helper.
func GenerateIssuer() (*Issuer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("voucher: generate issuer key: %w", err)
	}
	return &Issuer{key: key}, nil
}

// Address returns the authority address corresponding to the signing key.
// This is the value the gate must be configured with for vouchers from
// this issuer to verify.
func (is *Issuer) Address() common.Address {
	return crypto.PubkeyToAddress(is.key.PublicKey)
}

// Issue signs a claim for the given account and returns the complete
// voucher. The signature uses the Ethereum signed-message prefix over the
// canonical claim digest, with the recovery id in on-chain form (27/28).
func (is *Issuer) Issue(to common.Address, maxQuota uint64, tag string) (*Voucher, error) {
	c := Claim{IssuedTo: to, MaxQuota: maxQuota, Tag: tag}
	digest := Digest(c)

	sig, err := crypto.Sign(accounts.TextHash(digest.Bytes()), is.key)
	if err != nil {
		return nil, fmt.Errorf("voucher: sign claim for %s: %w", to, err)
	}
	sig[64] += 27

	return &Voucher{Claim: c, Digest: digest, Signature: sig}, nil
}
