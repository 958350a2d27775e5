package users

import (
	"context"

	"github.com/dmitrijs2005/tokenbridge/internal/issuer/models"
)

// Repository is the persistence capability the credential store relies on.
//
// Create must be atomic with respect to the username: when two calls race
// on the same username exactly one succeeds and the other returns
// common.ErrDuplicateUser. GetUserByLogin returns common.ErrorNotFound for
// unknown usernames.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
