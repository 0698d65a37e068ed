// Package memory provides an in-memory Store for tests and
// single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	mintgate "github.com/xraph/mintgate"
	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/quota"
	"github.com/xraph/mintgate/receipt"
	mintstore "github.com/xraph/mintgate/store"
	"github.com/xraph/mintgate/types"
)

// compile-time interface check
var _ mintstore.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	settings *mintstore.Settings

	// Quota ledger
	records    map[common.Address]*quota.Record
	globalUsed uint64

	// Fund balance
	balance types.Amount

	// Audit records
	receipts    map[string]*receipt.Receipt
	receiptIDs  []string // insertion order
	withdrawals []*receipt.Withdrawal

	closed bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		records:  make(map[common.Address]*quota.Record),
		receipts: make(map[string]*receipt.Receipt),
	}
}

// Settings store implementation

func (s *Store) SeedSettings(_ context.Context, st *mintstore.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}
	if s.settings != nil {
		return nil
	}
	cp := *st
	s.settings = &cp
	return nil
}

func (s *Store) GetSettings(_ context.Context) (*mintstore.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, mintgate.ErrStoreClosed
	}
	if s.settings == nil {
		return nil, mintgate.ErrSettingsNotSeeded
	}
	cp := *s.settings
	return &cp, nil
}

func (s *Store) PutSettings(_ context.Context, st *mintstore.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}
	cp := *st
	s.settings = &cp
	return nil
}

// Quota ledger implementation

func (s *Store) Reserve(_ context.Context, account common.Address, count uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}

	rec, ok := s.records[account]
	if !ok {
		rec = &quota.Record{Entity: types.NewEntity(), Account: account}
		s.records[account] = rec
	}
	rec.Minted += count
	rec.Touch()
	s.globalUsed += count
	return nil
}

func (s *Store) Release(_ context.Context, account common.Address, count uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}

	rec, ok := s.records[account]
	if !ok || rec.Minted < count || s.globalUsed < count {
		return mintgate.ErrInvalidInput
	}
	rec.Minted -= count
	rec.Touch()
	s.globalUsed -= count
	return nil
}

func (s *Store) UsedBy(_ context.Context, account common.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, mintgate.ErrStoreClosed
	}
	if rec, ok := s.records[account]; ok {
		return rec.Minted, nil
	}
	return 0, nil
}

func (s *Store) GlobalUsed(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, mintgate.ErrStoreClosed
	}
	return s.globalUsed, nil
}

func (s *Store) ListQuotas(_ context.Context, opts quota.ListOpts) ([]*quota.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, mintgate.ErrStoreClosed
	}

	result := make([]*quota.Record, 0, len(s.records))
	for _, rec := range s.records {
		cp := *rec
		result = append(result, &cp)
	}
	return paginate(result, opts.Offset, opts.Limit), nil
}

// Fund balance implementation

func (s *Store) Credit(_ context.Context, amount types.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}
	s.balance = s.balance.Add(amount)
	return nil
}

func (s *Store) Balance(_ context.Context) (types.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.Zero(), mintgate.ErrStoreClosed
	}
	return s.balance, nil
}

func (s *Store) Drain(_ context.Context) (types.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.Zero(), mintgate.ErrStoreClosed
	}
	drained := s.balance
	s.balance = types.Zero()
	return drained, nil
}

// Receipt store implementation

func (s *Store) CreateReceipt(_ context.Context, r *receipt.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}
	cp := *r
	s.receipts[r.ID.String()] = &cp
	s.receiptIDs = append(s.receiptIDs, r.ID.String())
	return nil
}

func (s *Store) GetReceipt(_ context.Context, receiptID id.ReceiptID) (*receipt.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, mintgate.ErrStoreClosed
	}
	if r, ok := s.receipts[receiptID.String()]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, mintgate.ErrReceiptNotFound
}

func (s *Store) ListReceipts(_ context.Context, account common.Address, opts receipt.ListOpts) ([]*receipt.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, mintgate.ErrStoreClosed
	}

	result := make([]*receipt.Receipt, 0)
	for _, rid := range s.receiptIDs {
		r := s.receipts[rid]
		if account == (common.Address{}) || r.Account == account {
			cp := *r
			result = append(result, &cp)
		}
	}
	return paginate(result, opts.Offset, opts.Limit), nil
}

// Withdrawal store implementation

func (s *Store) CreateWithdrawal(_ context.Context, w *receipt.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}
	cp := *w
	s.withdrawals = append(s.withdrawals, &cp)
	return nil
}

func (s *Store) ListWithdrawals(_ context.Context, opts receipt.ListOpts) ([]*receipt.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, mintgate.ErrStoreClosed
	}

	result := make([]*receipt.Withdrawal, len(s.withdrawals))
	for i, w := range s.withdrawals {
		cp := *w
		result[i] = &cp
	}
	return paginate(result, opts.Offset, opts.Limit), nil
}

// Core implementation

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return mintgate.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// paginate applies offset/limit slicing the way list endpoints expect.
// Out-of-range values are clamped; a non-positive limit means no limit.
func paginate[T any](items []T, offset, limit int) []T {
	start := offset
	if start < 0 {
		start = 0
	}
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
