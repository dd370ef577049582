package cards

import (
	"context"

	"github.com/dpavlenko/cashcard/internal/server/models"
	"github.com/dpavlenko/cashcard/internal/server/paging"
)

// Repository is the record store for cash cards. The ...AndOwner lookups
// evaluate existence and ownership as a single predicate, so a card owned
// by someone else is indistinguishable from a card that does not exist.
type Repository interface {
	Create(ctx context.Context, card *models.CashCard) (*models.CashCard, error)
	FindByIDAndOwner(ctx context.Context, id int64, owner string) (*models.CashCard, error)
	ExistsByIDAndOwner(ctx context.Context, id int64, owner string) (bool, error)
	FindByOwner(ctx context.Context, owner string, page paging.Page) ([]*models.CashCard, error)
	ExistsByOwner(ctx context.Context, owner string) (bool, error)
	Update(ctx context.Context, card *models.CashCard) error
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, owner string) (int64, error)
}
