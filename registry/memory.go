package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Collection is an in-process TokenRegistry: a named token collection with
// sequential 1-based ids and an owner index. It stands in for an on-chain
// ownership ledger in tests and single-process deployments.
type Collection struct {
	name   string
	symbol string

	mu     sync.RWMutex
	owners map[uint64]common.Address
	byAcct map[common.Address][]uint64
	next   uint64
}

var _ TokenRegistry = (*Collection)(nil)

// NewCollection creates an empty collection.
func NewCollection(name, symbol string) *Collection {
	return &Collection{
		name:   name,
		symbol: symbol,
		owners: make(map[uint64]common.Address),
		byAcct: make(map[common.Address][]uint64),
		next:   1,
	}
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Symbol returns the collection symbol.
func (c *Collection) Symbol() string { return c.symbol }

// Mint implements TokenRegistry.
func (c *Collection) Mint(_ context.Context, owner common.Address, count uint64) (Range, error) {
	if count == 0 {
		return Range{}, fmt.Errorf("registry: mint count must be positive")
	}
	if owner == (common.Address{}) {
		return Range{}, fmt.Errorf("registry: mint to the zero address")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rng := Range{First: c.next, Last: c.next + count - 1}
	for tokenID := rng.First; tokenID <= rng.Last; tokenID++ {
		c.owners[tokenID] = owner
		c.byAcct[owner] = append(c.byAcct[owner], tokenID)
	}
	c.next = rng.Last + 1

	return rng, nil
}

// TotalIssued implements TokenRegistry.
func (c *Collection) TotalIssued(_ context.Context) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.next - 1, nil
}

// OwnerOf implements TokenRegistry.
func (c *Collection) OwnerOf(_ context.Context, tokenID uint64) (common.Address, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	owner, ok := c.owners[tokenID]
	return owner, ok, nil
}

// BalanceOf returns the number of tokens held by account.
func (c *Collection) BalanceOf(account common.Address) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return uint64(len(c.byAcct[account]))
}

// TokensOf returns the token ids held by account, in issuance order.
func (c *Collection) TokensOf(account common.Address) []uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tokens := make([]uint64, len(c.byAcct[account]))
	copy(tokens, c.byAcct[account])
	return tokens
}
