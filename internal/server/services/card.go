package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dpavlenko/cashcard/internal/common"
	"github.com/dpavlenko/cashcard/internal/server/models"
	"github.com/dpavlenko/cashcard/internal/server/paging"
	"github.com/dpavlenko/cashcard/internal/server/repositories/repomanager"
)

// CardService implements owner-bound card operations. Reads and writes are
// keyed by the (id, owner) pair as a single predicate, so a card owned by
// someone else reports common.ErrorNotFound, never a forbidden status that
// would confirm its existence.
type CardService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewCardService(db *sql.DB, m repomanager.RepositoryManager) *CardService {
	return &CardService{db: db, repos: m}
}

// Create inserts a card for owner. The owner always comes from the
// authenticated caller; any owner value a client may have supplied in the
// payload is ignored long before this point.
func (s *CardService) Create(ctx context.Context, owner string, amount decimal.Decimal) (*models.CashCard, error) {
	if owner == "" {
		return nil, common.ErrorUnauthenticated
	}

	card := &models.CashCard{Amount: amount, Owner: owner}
	card, err := s.repos.Cards(s.db).Create(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("error creating card: %w", err)
	}

	return card, nil
}

// Get returns the card only when it exists and belongs to caller.
func (s *CardService) Get(ctx context.Context, caller string, id int64) (*models.CashCard, error) {
	card, err := s.repos.Cards(s.db).FindByIDAndOwner(ctx, id, caller)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading card: %w", err)
	}
	return card, nil
}

// List returns the caller's cards for the resolved page. The owner filter
// is applied in the store; no other owner's card can appear regardless of
// the page/size/sort combination.
func (s *CardService) List(ctx context.Context, caller string, page paging.Page) ([]*models.CashCard, error) {
	cards, err := s.repos.Cards(s.db).FindByOwner(ctx, caller, page)
	if err != nil {
		return nil, fmt.Errorf("error listing cards: %w", err)
	}
	return cards, nil
}

// Update replaces the card's amount, preserving id and owner.
func (s *CardService) Update(ctx context.Context, caller string, id int64, amount decimal.Decimal) error {
	repo := s.repos.Cards(s.db)

	exists, err := repo.ExistsByIDAndOwner(ctx, id, caller)
	if err != nil {
		return fmt.Errorf("error checking card: %w", err)
	}
	if !exists {
		return common.ErrorNotFound
	}

	card := &models.CashCard{ID: id, Amount: amount, Owner: caller}
	if err := repo.Update(ctx, card); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error updating card: %w", err)
	}

	return nil
}

// Delete removes the card when it exists and belongs to caller.
func (s *CardService) Delete(ctx context.Context, caller string, id int64) error {
	repo := s.repos.Cards(s.db)

	exists, err := repo.ExistsByIDAndOwner(ctx, id, caller)
	if err != nil {
		return fmt.Errorf("error checking card: %w", err)
	}
	if !exists {
		return common.ErrorNotFound
	}

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting card: %w", err)
	}

	return nil
}
