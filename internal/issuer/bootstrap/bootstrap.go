// Package bootstrap seeds configured users before the issuer takes traffic.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tokenbridge/internal/common"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/config"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/models"
	"github.com/dmitrijs2005/tokenbridge/internal/logging"
)

// Registrar is the slice of the credential store bootstrap needs.
type Registrar interface {
	Register(ctx context.Context, userName, password string) (*models.User, error)
}

// Run registers every seed user. A user that already exists counts as
// seeded, so running it again is harmless.
func Run(ctx context.Context, store Registrar, seeds []config.SeedUser, logger logging.Logger) error {
	for i, seed := range seeds {
		u, err := store.Register(ctx, seed.Username, seed.Password)
		switch {
		case err == nil:
			logger.Info(ctx, "seed user created", "username", u.UserName, "id", u.ID)
		case errors.Is(err, common.ErrDuplicateUser):
			logger.Debug(ctx, "seed user already present", "username", seed.Username)
		default:
			return fmt.Errorf("seed user #%d: %w", i, err)
		}
	}
	return nil
}
