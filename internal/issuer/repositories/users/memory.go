package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/tokenbridge/internal/common"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/models"
)

// MemoryRepository keeps users in a map. The existence check and the insert
// happen under the same lock.
type MemoryRepository struct {
	mu     sync.Mutex
	byName map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byName: make(map[string]models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.UserName]; ok {
		return nil, common.ErrDuplicateUser
	}
	r.byName[user.UserName] = *user

	stored := *user
	return &stored, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byName[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &user, nil
}

// Len reports how many users are stored.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byName)
}
