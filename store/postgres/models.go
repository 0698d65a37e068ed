package postgres

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/xraph/grove"

	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/quota"
	"github.com/xraph/mintgate/receipt"
	"github.com/xraph/mintgate/sale"
	"github.com/xraph/mintgate/store"
	"github.com/xraph/mintgate/types"
)

// ==================== Settings model ====================

// settingsModel is a singleton row (id = 1).
type settingsModel struct {
	grove.BaseModel `grove:"table:mintgate_settings"`

	ID           int       `grove:"id,pk"`
	PriceWei     string    `grove:"price_wei"`
	AuthorityKey string    `grove:"authority_key"`
	BaseURI      string    `grove:"base_uri"`
	SaleState    string    `grove:"sale_state"`
	UpdatedAt    time.Time `grove:"updated_at"`
}

func toSettingsModel(s *store.Settings) *settingsModel {
	return &settingsModel{
		ID:           1,
		PriceWei:     s.Price.String(),
		AuthorityKey: s.AuthorityKey.Hex(),
		BaseURI:      s.BaseURI,
		SaleState:    string(s.SaleState),
		UpdatedAt:    s.UpdatedAt,
	}
}

func fromSettingsModel(m *settingsModel) (*store.Settings, error) {
	price, err := types.Parse(m.PriceWei)
	if err != nil {
		return nil, err
	}
	return &store.Settings{
		Price:        price,
		AuthorityKey: common.HexToAddress(m.AuthorityKey),
		BaseURI:      m.BaseURI,
		SaleState:    sale.State(m.SaleState),
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

// ==================== State model ====================

// stateModel is a singleton row (id = 1) holding the aggregate mint
// counter and the accumulated payment balance. The migration inserts the
// initial row so counter updates are plain UPDATEs.
type stateModel struct {
	grove.BaseModel `grove:"table:mintgate_state"`

	ID          int    `grove:"id,pk"`
	TotalMinted uint64 `grove:"total_minted"`
	BalanceWei  string `grove:"balance_wei"`
}

// ==================== Quota model ====================

type quotaModel struct {
	grove.BaseModel `grove:"table:mintgate_quotas"`

	Account   string    `grove:"account,pk"`
	Minted    uint64    `grove:"minted"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func fromQuotaModel(m *quotaModel) *quota.Record {
	return &quota.Record{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Account: common.HexToAddress(m.Account),
		Minted:  m.Minted,
	}
}

// ==================== Receipt model ====================

type receiptModel struct {
	grove.BaseModel `grove:"table:mintgate_receipts"`

	ID            string    `grove:"id,pk"`
	Account       string    `grove:"account"`
	Count         uint64    `grove:"count"`
	FirstToken    uint64    `grove:"first_token"`
	LastToken     uint64    `grove:"last_token"`
	PaymentWei    string    `grove:"payment_wei"`
	UnitPriceWei  string    `grove:"unit_price_wei"`
	VoucherDigest string    `grove:"voucher_digest"`
	Tag           string    `grove:"tag"`
	CreatedAt     time.Time `grove:"created_at"`
	UpdatedAt     time.Time `grove:"updated_at"`
}

func toReceiptModel(r *receipt.Receipt) *receiptModel {
	return &receiptModel{
		ID:            r.ID.String(),
		Account:       r.Account.Hex(),
		Count:         r.Count,
		FirstToken:    r.FirstToken,
		LastToken:     r.LastToken,
		PaymentWei:    r.Payment.String(),
		UnitPriceWei:  r.UnitPrice.String(),
		VoucherDigest: r.VoucherDig.Hex(),
		Tag:           r.Tag,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func fromReceiptModel(m *receiptModel) (*receipt.Receipt, error) {
	receiptID, err := id.ParseReceiptID(m.ID)
	if err != nil {
		return nil, err
	}
	payment, err := types.Parse(m.PaymentWei)
	if err != nil {
		return nil, err
	}
	unitPrice, err := types.Parse(m.UnitPriceWei)
	if err != nil {
		return nil, err
	}

	return &receipt.Receipt{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:         receiptID,
		Account:    common.HexToAddress(m.Account),
		Count:      m.Count,
		FirstToken: m.FirstToken,
		LastToken:  m.LastToken,
		Payment:    payment,
		UnitPrice:  unitPrice,
		VoucherDig: common.HexToHash(m.VoucherDigest),
		Tag:        m.Tag,
	}, nil
}

// ==================== Withdrawal model ====================

type withdrawalModel struct {
	grove.BaseModel `grove:"table:mintgate_withdrawals"`

	ID        string    `grove:"id,pk"`
	ByAccount string    `grove:"by_account"`
	Payout    string    `grove:"payout"`
	AmountWei string    `grove:"amount_wei"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toWithdrawalModel(w *receipt.Withdrawal) *withdrawalModel {
	return &withdrawalModel{
		ID:        w.ID.String(),
		ByAccount: w.By.Hex(),
		Payout:    w.Payout.Hex(),
		AmountWei: w.Amount.String(),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func fromWithdrawalModel(m *withdrawalModel) (*receipt.Withdrawal, error) {
	withdrawalID, err := id.ParseWithdrawalID(m.ID)
	if err != nil {
		return nil, err
	}
	amount, err := types.Parse(m.AmountWei)
	if err != nil {
		return nil, err
	}

	return &receipt.Withdrawal{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:     withdrawalID,
		By:     common.HexToAddress(m.ByAccount),
		Payout: common.HexToAddress(m.Payout),
		Amount: amount,
	}, nil
}
