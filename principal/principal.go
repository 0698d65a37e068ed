// Package principal defines the Principal Registry collaborator: the
// authority that decides which callers may invoke admin operations.
package principal

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Registry answers admin-membership queries for the gate.
type Registry interface {
	IsAdmin(ctx context.Context, caller common.Address) bool
}

// Func adapts a plain function into a Registry.
type Func func(ctx context.Context, caller common.Address) bool

// IsAdmin implements Registry.
func (f Func) IsAdmin(ctx context.Context, caller common.Address) bool {
	return f(ctx, caller)
}

// Static is a fixed admin set. The zero address is never an admin.
type Static struct {
	mu     sync.RWMutex
	admins map[common.Address]struct{}
}

var _ Registry = (*Static)(nil)

// NewStatic creates a Static registry with the given admin addresses.
func NewStatic(admins ...common.Address) *Static {
	s := &Static{admins: make(map[common.Address]struct{}, len(admins))}
	for _, a := range admins {
		if a != (common.Address{}) {
			s.admins[a] = struct{}{}
		}
	}
	return s
}

// IsAdmin implements Registry.
func (s *Static) IsAdmin(_ context.Context, caller common.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.admins[caller]
	return ok
}

// Grant adds an admin.
func (s *Static) Grant(addr common.Address) {
	if addr == (common.Address{}) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[addr] = struct{}{}
}

// Revoke removes an admin.
func (s *Static) Revoke(addr common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.admins, addr)
}
