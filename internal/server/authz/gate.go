// Package authz is the single decision point binding every resource access
// to an owner identity. The rule is deliberately tiny: a caller may touch a
// resource only when its identity equals the resource owner's username.
package authz

import (
	"context"

	"github.com/dpavlenko/cashcard/internal/server/repositories/cards"
)

// Roles derived from ownership. A role is never stored; it is recomputed
// from the card store each time it is needed, so it can never go stale.
const (
	RoleCardOwner = "CARD_OWNER"
	RoleNonOwner  = "NON_OWNER"
)

// Authorize reports whether caller may access a resource owned by owner.
// An empty caller (unauthenticated) is always denied. The decision is pure:
// no store access, no side effects.
func Authorize(caller, owner string) bool {
	if caller == "" {
		return false
	}
	return caller == owner
}

// DeriveRole computes the caller's role from whether it currently owns any
// card.
func DeriveRole(ctx context.Context, repo cards.Repository, username string) (string, error) {
	isOwner, err := repo.ExistsByOwner(ctx, username)
	if err != nil {
		return "", err
	}
	if isOwner {
		return RoleCardOwner, nil
	}
	return RoleNonOwner, nil
}
