package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	mintgate "github.com/xraph/mintgate"
	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/quota"
	"github.com/xraph/mintgate/receipt"
	"github.com/xraph/mintgate/sale"
	mintstore "github.com/xraph/mintgate/store"
	"github.com/xraph/mintgate/store/memory"
	"github.com/xraph/mintgate/types"
)

var (
	alice = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bob   = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func testSettings() *mintstore.Settings {
	return &mintstore.Settings{
		Price:        types.Gwei(1),
		AuthorityKey: common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		BaseURI:      "ipfs://test/",
		SaleState:    sale.StateActive,
	}
}

func TestSettingsLifecycle(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	_, err := s.GetSettings(ctx)
	if !errors.Is(err, mintgate.ErrSettingsNotSeeded) {
		t.Fatalf("expected ErrSettingsNotSeeded, got %v", err)
	}

	if err := s.SeedSettings(ctx, testSettings()); err != nil {
		t.Fatalf("SeedSettings failed: %v", err)
	}

	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.BaseURI != "ipfs://test/" {
		t.Errorf("BaseURI: got %q, want %q", got.BaseURI, "ipfs://test/")
	}

	// Seeding again must not clobber existing settings.
	other := testSettings()
	other.BaseURI = "ipfs://other/"
	if err := s.SeedSettings(ctx, other); err != nil {
		t.Fatalf("second SeedSettings failed: %v", err)
	}
	got, err = s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.BaseURI != "ipfs://test/" {
		t.Errorf("seed overwrote settings: got %q", got.BaseURI)
	}

	// PutSettings replaces.
	got.BaseURI = "ipfs://updated/"
	if err := s.PutSettings(ctx, got); err != nil {
		t.Fatalf("PutSettings failed: %v", err)
	}
	got, err = s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.BaseURI != "ipfs://updated/" {
		t.Errorf("BaseURI after put: got %q", got.BaseURI)
	}
}

func TestSettingsCopiedOnRead(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	if err := s.SeedSettings(ctx, testSettings()); err != nil {
		t.Fatalf("SeedSettings failed: %v", err)
	}

	first, _ := s.GetSettings(ctx)
	first.BaseURI = "mutated"

	second, _ := s.GetSettings(ctx)
	if second.BaseURI != "ipfs://test/" {
		t.Error("GetSettings returned a shared pointer")
	}
}

func TestQuotaLedger(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	if err := s.Reserve(ctx, alice, 3); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if err := s.Reserve(ctx, alice, 2); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if err := s.Reserve(ctx, bob, 1); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	used, err := s.UsedBy(ctx, alice)
	if err != nil {
		t.Fatalf("UsedBy failed: %v", err)
	}
	if used != 5 {
		t.Errorf("alice used: got %d, want 5", used)
	}

	global, err := s.GlobalUsed(ctx)
	if err != nil {
		t.Fatalf("GlobalUsed failed: %v", err)
	}
	if global != 6 {
		t.Errorf("global used: got %d, want 6", global)
	}

	// Release rolls back a reservation.
	if err := s.Release(ctx, alice, 2); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	used, _ = s.UsedBy(ctx, alice)
	if used != 3 {
		t.Errorf("alice used after release: got %d, want 3", used)
	}
	global, _ = s.GlobalUsed(ctx)
	if global != 4 {
		t.Errorf("global used after release: got %d, want 4", global)
	}
}

func TestUsedByUnknownAccount(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	used, err := s.UsedBy(ctx, alice)
	if err != nil {
		t.Fatalf("UsedBy failed: %v", err)
	}
	if used != 0 {
		t.Errorf("unknown account used: got %d, want 0", used)
	}
}

func TestReleaseRejectsUnderflow(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	if err := s.Release(ctx, alice, 1); !errors.Is(err, mintgate.ErrInvalidInput) {
		t.Errorf("release of unknown account: got %v, want ErrInvalidInput", err)
	}

	if err := s.Reserve(ctx, alice, 2); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if err := s.Release(ctx, alice, 3); !errors.Is(err, mintgate.ErrInvalidInput) {
		t.Errorf("over-release: got %v, want ErrInvalidInput", err)
	}

	used, _ := s.UsedBy(ctx, alice)
	if used != 2 {
		t.Errorf("failed release mutated quota: got %d, want 2", used)
	}
}

func TestListQuotas(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	_ = s.Reserve(ctx, alice, 1)
	_ = s.Reserve(ctx, bob, 2)

	records, err := s.ListQuotas(ctx, quota.ListOpts{})
	if err != nil {
		t.Fatalf("ListQuotas failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	limited, err := s.ListQuotas(ctx, quota.ListOpts{Limit: 1})
	if err != nil {
		t.Fatalf("ListQuotas failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited list: got %d records, want 1", len(limited))
	}
}

func TestListBoundsClamped(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	_ = s.Reserve(ctx, alice, 1)
	_ = s.Reserve(ctx, bob, 2)

	tests := []struct {
		name string
		opts quota.ListOpts
		want int
	}{
		{"Negative offset", quota.ListOpts{Offset: -1}, 2},
		{"Negative limit", quota.ListOpts{Limit: -1}, 2},
		{"Both negative", quota.ListOpts{Offset: -3, Limit: -3}, 2},
		{"Offset past end", quota.ListOpts{Offset: 10}, 0},
		{"Limit past end", quota.ListOpts{Limit: 10}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := s.ListQuotas(ctx, tt.opts)
			if err != nil {
				t.Fatalf("ListQuotas failed: %v", err)
			}
			if len(records) != tt.want {
				t.Errorf("got %d records, want %d", len(records), tt.want)
			}
		})
	}
}

func TestBalance(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	bal, err := s.Balance(ctx)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if !bal.IsZero() {
		t.Errorf("fresh store balance: got %s, want 0", bal)
	}

	if err := s.Credit(ctx, types.Gwei(3)); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if err := s.Credit(ctx, types.Gwei(2)); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	bal, _ = s.Balance(ctx)
	if !bal.Equal(types.Gwei(5)) {
		t.Errorf("balance: got %s, want %s", bal, types.Gwei(5))
	}

	drained, err := s.Drain(ctx)
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if !drained.Equal(types.Gwei(5)) {
		t.Errorf("drained: got %s, want %s", drained, types.Gwei(5))
	}

	bal, _ = s.Balance(ctx)
	if !bal.IsZero() {
		t.Errorf("balance after drain: got %s, want 0", bal)
	}

	// Draining an empty balance yields zero.
	drained, err = s.Drain(ctx)
	if err != nil {
		t.Fatalf("second Drain failed: %v", err)
	}
	if !drained.IsZero() {
		t.Errorf("second drain: got %s, want 0", drained)
	}
}

func newReceipt(account common.Address, first, count uint64) *receipt.Receipt {
	return &receipt.Receipt{
		Entity:     types.NewEntity(),
		ID:         id.NewReceiptID(),
		Account:    account,
		Count:      count,
		FirstToken: first,
		LastToken:  first + count - 1,
		Payment:    types.Gwei(int64(count)),
		UnitPrice:  types.Gwei(1),
	}
}

func TestReceipts(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	r1 := newReceipt(alice, 1, 2)
	r2 := newReceipt(bob, 3, 1)
	r3 := newReceipt(alice, 4, 1)
	for _, r := range []*receipt.Receipt{r1, r2, r3} {
		if err := s.CreateReceipt(ctx, r); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}
	}

	got, err := s.GetReceipt(ctx, r2.ID)
	if err != nil {
		t.Fatalf("GetReceipt failed: %v", err)
	}
	if got.Account != bob || got.FirstToken != 3 {
		t.Errorf("GetReceipt returned wrong record: %+v", got)
	}

	_, err = s.GetReceipt(ctx, id.NewReceiptID())
	if !errors.Is(err, mintgate.ErrReceiptNotFound) {
		t.Errorf("unknown receipt: got %v, want ErrReceiptNotFound", err)
	}

	// Zero account lists all, in insertion order.
	all, err := s.ListReceipts(ctx, common.Address{}, receipt.ListOpts{})
	if err != nil {
		t.Fatalf("ListReceipts failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d receipts, want 3", len(all))
	}
	if all[0].ID.String() != r1.ID.String() || all[2].ID.String() != r3.ID.String() {
		t.Error("receipts not in insertion order")
	}

	mine, err := s.ListReceipts(ctx, alice, receipt.ListOpts{})
	if err != nil {
		t.Fatalf("ListReceipts failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("alice receipts: got %d, want 2", len(mine))
	}

	page, err := s.ListReceipts(ctx, common.Address{}, receipt.ListOpts{Offset: 1, Limit: 1})
	if err != nil {
		t.Fatalf("ListReceipts failed: %v", err)
	}
	if len(page) != 1 || page[0].ID.String() != r2.ID.String() {
		t.Errorf("paged receipts wrong: got %d entries", len(page))
	}
}

func TestWithdrawals(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	w := &receipt.Withdrawal{
		Entity: types.NewEntity(),
		ID:     id.NewWithdrawalID(),
		By:     alice,
		Payout: alice,
		Amount: types.Ether(1),
	}
	if err := s.CreateWithdrawal(ctx, w); err != nil {
		t.Fatalf("CreateWithdrawal failed: %v", err)
	}

	list, err := s.ListWithdrawals(ctx, receipt.ListOpts{})
	if err != nil {
		t.Fatalf("ListWithdrawals failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d withdrawals, want 1", len(list))
	}
	if !list[0].Amount.Equal(types.Ether(1)) {
		t.Errorf("amount: got %s, want %s", list[0].Amount, types.Ether(1))
	}
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := s.Ping(ctx); !errors.Is(err, mintgate.ErrStoreClosed) {
		t.Errorf("Ping after close: got %v, want ErrStoreClosed", err)
	}
	if err := s.Reserve(ctx, alice, 1); !errors.Is(err, mintgate.ErrStoreClosed) {
		t.Errorf("Reserve after close: got %v, want ErrStoreClosed", err)
	}
	if _, err := s.Balance(ctx); !errors.Is(err, mintgate.ErrStoreClosed) {
		t.Errorf("Balance after close: got %v, want ErrStoreClosed", err)
	}
	if err := s.CreateReceipt(ctx, newReceipt(alice, 1, 1)); !errors.Is(err, mintgate.ErrStoreClosed) {
		t.Errorf("CreateReceipt after close: got %v, want ErrStoreClosed", err)
	}
}
