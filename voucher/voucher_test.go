package voucher_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/xraph/mintgate/voucher"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer, err := voucher.GenerateIssuer()
	if err != nil {
		t.Fatal(err)
	}

	account := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	v, err := issuer.Issue(account, 5, "genesis")
	if err != nil {
		t.Fatal(err)
	}

	if v.IssuedTo != account {
		t.Errorf("issued to %s, want %s", v.IssuedTo, account)
	}
	if v.MaxQuota != 5 {
		t.Errorf("max quota %d, want 5", v.MaxQuota)
	}
	if !voucher.VerifyVoucher(v, issuer.Address()) {
		t.Error("voucher did not verify against its own issuer")
	}
}

func TestVerifyRejectsTamperedClaims(t *testing.T) {
	issuer, err := voucher.GenerateIssuer()
	if err != nil {
		t.Fatal(err)
	}

	account := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	v, err := issuer.Issue(account, 5, "genesis")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*voucher.Voucher)
	}{
		{"recipient swapped", func(m *voucher.Voucher) {
			m.IssuedTo = common.HexToAddress("0x00000000000000000000000000000000000000b2")
		}},
		{"quota inflated", func(m *voucher.Voucher) {
			m.MaxQuota = 500
		}},
		{"tag changed", func(m *voucher.Voucher) {
			m.Tag = "presale"
		}},
		{"signature truncated", func(m *voucher.Voucher) {
			m.Signature = m.Signature[:64]
		}},
		{"signature bit flipped", func(m *voucher.Voucher) {
			sig := make([]byte, len(m.Signature))
			copy(sig, m.Signature)
			sig[10] ^= 0x01
			m.Signature = sig
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mutated := *v
			tt.mutate(&mutated)
			// Recompute the digest so the failure is attributable to the
			// signature, not the digest binding.
			mutated.Digest = voucher.Digest(mutated.Claim)
			if voucher.Verify(mutated.Claim, mutated.Signature, issuer.Address()) {
				t.Error("tampered voucher verified")
			}
		})
	}
}

func TestVerifyVoucherRejectsDigestMismatch(t *testing.T) {
	issuer, err := voucher.GenerateIssuer()
	if err != nil {
		t.Fatal(err)
	}

	account := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	v, err := issuer.Issue(account, 5, "")
	if err != nil {
		t.Fatal(err)
	}

	// A caller substituting claim fields while keeping the original digest
	// must fail the digest binding even though the signature itself is valid.
	v.MaxQuota = 100
	if voucher.VerifyVoucher(v, issuer.Address()) {
		t.Error("voucher with stale digest verified")
	}
}

func TestVerifyRejectsWrongAuthority(t *testing.T) {
	issuer, err := voucher.GenerateIssuer()
	if err != nil {
		t.Fatal(err)
	}
	other, err := voucher.GenerateIssuer()
	if err != nil {
		t.Fatal(err)
	}

	account := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	v, err := issuer.Issue(account, 3, "")
	if err != nil {
		t.Fatal(err)
	}

	if voucher.Verify(v.Claim, v.Signature, other.Address()) {
		t.Error("voucher verified against the wrong authority")
	}
	if voucher.Verify(v.Claim, v.Signature, common.Address{}) {
		t.Error("voucher verified against the zero authority")
	}
}

func TestDigestFieldSensitivity(t *testing.T) {
	base := voucher.Claim{
		IssuedTo: common.HexToAddress("0x00000000000000000000000000000000000000a1"),
		MaxQuota: 7,
		Tag:      "genesis",
	}

	variants := []voucher.Claim{
		{IssuedTo: common.HexToAddress("0x00000000000000000000000000000000000000b2"), MaxQuota: 7, Tag: "genesis"},
		{IssuedTo: base.IssuedTo, MaxQuota: 8, Tag: "genesis"},
		{IssuedTo: base.IssuedTo, MaxQuota: 7, Tag: "presale"},
		{IssuedTo: base.IssuedTo, MaxQuota: 7},
	}

	baseDigest := voucher.Digest(base)
	if baseDigest != voucher.Digest(base) {
		t.Fatal("digest is not deterministic")
	}
	for i, c := range variants {
		if voucher.Digest(c) == baseDigest {
			t.Errorf("variant %d collides with base digest", i)
		}
	}
}
