package mongo

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

// settingsModel is a singleton document (_id = "settings").
type settingsModel struct {
	grove.BaseModel `grove:"table:mintgate_settings"`

	ID           string    `grove:"id,pk"         bson:"_id"`
	PriceWei     string    `grove:"price_wei"     bson:"price_wei"`
	AuthorityKey string    `grove:"authority_key" bson:"authority_key"`
	BaseURI      string    `grove:"base_uri"      bson:"base_uri"`
	SaleState    string    `grove:"sale_state"    bson:"sale_state"`
	UpdatedAt    time.Time `grove:"updated_at"    bson:"updated_at"`
}

const settingsDocID = "settings"

func toSettingsModel(s *store.Settings) *settingsModel {
	return &settingsModel{
		ID:           settingsDocID,
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

// stateModel is a singleton document (_id = "state") holding the aggregate
// mint counter and the accumulated payment balance.
type stateModel struct {
	grove.BaseModel `grove:"table:mintgate_state"`

	ID          string `grove:"id,pk"        bson:"_id"`
	TotalMinted int64  `grove:"total_minted" bson:"total_minted"`
	BalanceWei  string `grove:"balance_wei"  bson:"balance_wei"`
}

const stateDocID = "state"

// ==================== Quota model ====================

type quotaModel struct {
	grove.BaseModel `grove:"table:mintgate_quotas"`

	Account   string    `grove:"account,pk" bson:"_id"`
	Minted    int64     `grove:"minted"     bson:"minted"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
}

func fromQuotaModel(m *quotaModel) *quota.Record {
	return &quota.Record{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Account: common.HexToAddress(m.Account),
		Minted:  uint64(m.Minted),
	}
}

// ==================== Receipt model ====================

type receiptModel struct {
	grove.BaseModel `grove:"table:mintgate_receipts"`

	ID            string    `grove:"id,pk"          bson:"_id"`
	Account       string    `grove:"account"        bson:"account"`
	Count         int64     `grove:"count"          bson:"count"`
	FirstToken    int64     `grove:"first_token"    bson:"first_token"`
	LastToken     int64     `grove:"last_token"     bson:"last_token"`
	PaymentWei    string    `grove:"payment_wei"    bson:"payment_wei"`
	UnitPriceWei  string    `grove:"unit_price_wei" bson:"unit_price_wei"`
	VoucherDigest string    `grove:"voucher_digest" bson:"voucher_digest"`
	Tag           string    `grove:"tag"            bson:"tag"`
	CreatedAt     time.Time `grove:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time `grove:"updated_at"     bson:"updated_at"`
}

func toReceiptModel(r *receipt.Receipt) *receiptModel {
	return &receiptModel{
		ID:            r.ID.String(),
		Account:       r.Account.Hex(),
		Count:         int64(r.Count),
		FirstToken:    int64(r.FirstToken),
		LastToken:     int64(r.LastToken),
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
		Count:      uint64(m.Count),
		FirstToken: uint64(m.FirstToken),
		LastToken:  uint64(m.LastToken),
		Payment:    payment,
		UnitPrice:  unitPrice,
		VoucherDig: common.HexToHash(m.VoucherDigest),
		Tag:        m.Tag,
	}, nil
}

// ==================== Withdrawal model ====================

type withdrawalModel struct {
	grove.BaseModel `grove:"table:mintgate_withdrawals"`

	ID        string    `grove:"id,pk"      bson:"_id"`
	ByAccount string    `grove:"by_account" bson:"by_account"`
	Payout    string    `grove:"payout"     bson:"payout"`
	AmountWei string    `grove:"amount_wei" bson:"amount_wei"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
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
