/**
 * @description
 * In-memory implementation of the SessionRepository. It backs two uses:
 * unit tests, and a degraded boot mode when Redis is unreachable (the service
 * stays usable for the session, but accounts do not survive a restart).
 */

package store

import (
	"context"
	"sync"

	"github.com/myhandle/studio-service/internal/domain"
)

// MemoryRepository keeps the two session slots in process memory.
type MemoryRepository struct {
	mu       sync.Mutex
	accounts []domain.Account
	selected string
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// LoadAccounts returns a copy of the stored account list.
func (r *MemoryRepository) LoadAccounts(_ context.Context) []domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// SaveAccounts overwrites the stored account list.
func (r *MemoryRepository) SaveAccounts(_ context.Context, accounts []domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = make([]domain.Account, len(accounts))
	copy(r.accounts, accounts)
	return nil
}

// LoadSelectedID returns the stored selection, or "".
func (r *MemoryRepository) LoadSelectedID(_ context.Context) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected
}

// SaveSelectedID overwrites the stored selection.
func (r *MemoryRepository) SaveSelectedID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = id
	return nil
}
