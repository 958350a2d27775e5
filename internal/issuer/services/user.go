// Package services contains the issuer's business logic. UserService is the
// credential store: it registers users and verifies their passwords.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/tokenbridge/internal/common"
	"github.com/dmitrijs2005/tokenbridge/internal/cryptox"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/models"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	maxUserNameLength = 64
	// Argon2 reads the whole password.
	maxPasswordLength = 1024
)

// UserService owns user identity records. Passwords are only ever handled
// as input to the hasher; they are never stored or logged.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.PasswordHasher
	newID       func() string
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService wires the service to a storage backend. db may be nil for
// the in-memory backend.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, h cryptox.PasswordHasher) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      h,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// NormalizeUserName is the canonical form used for storage and lookup.
func NormalizeUserName(userName string) string {
	return strings.ToLower(strings.TrimSpace(userName))
}

// Register creates a user. It fails with a *common.ValidationError for
// empty or oversized input and with common.ErrDuplicateUser when the
// normalized username is taken.
func (s *UserService) Register(ctx context.Context, userName, password string) (*models.User, error) {
	name := NormalizeUserName(userName)
	if err := validateCredentials(name, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           s.newID(),
		UserName:     name,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUser) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Verify checks a username/password pair. Unknown users and wrong passwords
// both yield common.ErrAuthentication, and an unknown user still costs one
// hash comparison.
func (s *UserService) Verify(ctx context.Context, userName, password string) (*models.User, error) {
	name := NormalizeUserName(userName)
	if err := validateCredentials(name, password); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.compareDummy(ctx, password)
			return nil, common.ErrAuthentication
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := s.hasher.Compare(ctx, user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("error comparing password: %w", err)
	}
	if !ok {
		return nil, common.ErrAuthentication
	}
	return user, nil
}

func (s *UserService) compareDummy(ctx context.Context, password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(context.Background(), uuid.NewString())
	})
	_, _ = s.hasher.Compare(ctx, s.dummyHash, password)
}

func validateCredentials(name, password string) error {
	var problems []string
	switch {
	case name == "":
		problems = append(problems, "username is required")
	case utf8.RuneCountInString(name) > maxUserNameLength:
		problems = append(problems, fmt.Sprintf("username must be at most %d characters", maxUserNameLength))
	}
	switch {
	case password == "":
		problems = append(problems, "password is required")
	case len(password) > maxPasswordLength:
		problems = append(problems, fmt.Sprintf("password must be at most %d bytes", maxPasswordLength))
	}
	if len(problems) > 0 {
		return &common.ValidationError{Problems: problems}
	}
	return nil
}
