// Package services contains server-side business logic. This file implements
// UserService, which handles registration, per-request credential
// verification, profile reads, password rotation, and account deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/dpavlenko/cashcard/internal/common"
	"github.com/dpavlenko/cashcard/internal/dbx"
	"github.com/dpavlenko/cashcard/internal/server/auth"
	"github.com/dpavlenko/cashcard/internal/server/authz"
	"github.com/dpavlenko/cashcard/internal/server/models"
	"github.com/dpavlenko/cashcard/internal/server/repositories/repomanager"
)

// usernamePattern mirrors the registration contract: 3-20 characters,
// letters, digits, underscore and hyphen.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

const (
	passwordMinLen = 8
	passwordMaxLen = 100
)

// Profile is the client-visible account representation. The password hash
// never leaves the service layer.
type Profile struct {
	Username string
	Role     string
}

// UserService provides account lifecycle operations. Every mutating
// operation re-verifies the caller's identity against the target username;
// password hashing always happens outside any store transaction.
type UserService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	hasher auth.PasswordHasher
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, h auth.PasswordHasher) *UserService {
	return &UserService{db: db, repos: m, hasher: h}
}

// Register validates the username and password, hashes the password, and
// inserts the credential. A taken username yields common.ErrorConflict;
// the store maps the duplicate-key race to the same error.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: username must be 3-20 characters (letters, numbers, underscore, hyphen)", common.ErrorValidation)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	repo := s.repos.Users(s.db)

	exists, err := repo.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if exists {
		return nil, common.ErrorConflict
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: hash}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Authenticate resolves a transport credential into a caller identity.
// Unknown usernames and wrong passwords are indistinguishable to the
// caller; both come back as common.ErrorUnauthenticated.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (string, error) {
	repo := s.repos.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthenticated
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}

	if !s.hasher.Check(password, user.PasswordHash) {
		return "", common.ErrorUnauthenticated
	}

	return user.Username, nil
}

// Profile returns the account representation for target. Usernames are not
// secret, so a mismatched caller gets common.ErrorForbidden rather than a
// masked not-found. The role is derived from card ownership on the spot.
func (s *UserService) Profile(ctx context.Context, caller, target string) (*Profile, error) {
	if !authz.Authorize(caller, target) {
		return nil, common.ErrorForbidden
	}

	user, err := s.repos.Users(s.db).GetByUsername(ctx, target)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	role, err := authz.DeriveRole(ctx, s.repos.Cards(s.db), user.Username)
	if err != nil {
		return nil, fmt.Errorf("error deriving role: %w", err)
	}

	return &Profile{Username: user.Username, Role: role}, nil
}

// ChangePassword rotates the credential after re-verifying the current
// password. The old password is invalid the moment the new hash is stored;
// verification always runs against the single current hash.
func (s *UserService) ChangePassword(ctx context.Context, caller, target, currentPassword, newPassword string) error {
	if !authz.Authorize(caller, target) {
		return common.ErrorForbidden
	}

	repo := s.repos.Users(s.db)

	user, err := repo.GetByUsername(ctx, target)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}

	if !s.hasher.Check(currentPassword, user.PasswordHash) {
		return common.ErrorUnauthorized
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := repo.UpdatePassword(ctx, target, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	return nil
}

// DeleteAccount removes the credential after re-verifying the password.
// The account's cards are deleted in the same transaction; authorization
// re-derives ownership on every request, so orphaned cards would be
// unreachable forever anyway.
func (s *UserService) DeleteAccount(ctx context.Context, caller, target, password string) error {
	if !authz.Authorize(caller, target) {
		return common.ErrorForbidden
	}

	user, err := s.repos.Users(s.db).GetByUsername(ctx, target)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}

	if !s.hasher.Check(password, user.PasswordHash) {
		return common.ErrorUnauthorized
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Cards(tx).DeleteByOwner(ctx, target); err != nil {
			return fmt.Errorf("error deleting cards: %w", err)
		}
		if err := s.repos.Users(tx).Delete(ctx, target); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
}

func validatePassword(password string) error {
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return fmt.Errorf("%w: password must be %d-%d characters", common.ErrorValidation, passwordMinLen, passwordMaxLen)
	}
	return nil
}
