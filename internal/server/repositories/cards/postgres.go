// Package cards provides the PostgreSQL-backed store for cash cards.
package cards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dpavlenko/cashcard/internal/common"
	"github.com/dpavlenko/cashcard/internal/dbx"
	"github.com/dpavlenko/cashcard/internal/server/models"
	"github.com/dpavlenko/cashcard/internal/server/paging"
)

// PostgresRepository implements card storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a card and fills in the database-assigned ID.
func (r *PostgresRepository) Create(ctx context.Context, card *models.CashCard) (*models.CashCard, error) {
	query :=
		`INSERT INTO cash_cards (amount, owner)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, card.Amount, card.Owner).Scan(&card.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return card, nil
}

func (r *PostgresRepository) FindByIDAndOwner(ctx context.Context, id int64, owner string) (*models.CashCard, error) {
	query :=
		`SELECT id, amount, owner FROM cash_cards
		 WHERE id = $1 AND owner = $2
		 `

	card := &models.CashCard{}
	err := r.db.QueryRowContext(ctx, query, id, owner).Scan(&card.ID, &card.Amount, &card.Owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return card, nil
}

func (r *PostgresRepository) ExistsByIDAndOwner(ctx context.Context, id int64, owner string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM cash_cards WHERE id = $1 AND owner = $2)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id, owner).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

// FindByOwner lists the owner's cards using the resolved page shape.
// The ORDER BY body comes from the paging package's closed enumerations.
func (r *PostgresRepository) FindByOwner(ctx context.Context, owner string, page paging.Page) ([]*models.CashCard, error) {
	query := fmt.Sprintf(
		`SELECT id, amount, owner FROM cash_cards
		 WHERE owner = $1
		 ORDER BY %s
		 LIMIT $2 OFFSET $3
		 `, page.OrderBy())

	rows, err := r.db.QueryContext(ctx, query, owner, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.CashCard
	for rows.Next() {
		var card models.CashCard
		if err := rows.Scan(&card.ID, &card.Amount, &card.Owner); err != nil {
			return nil, err
		}
		result = append(result, &card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) ExistsByOwner(ctx context.Context, owner string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM cash_cards WHERE owner = $1)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, owner).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

// Update replaces the amount of an existing card. ID and owner are kept as
// stored; the WHERE clause re-checks ownership so a stale caller cannot
// move a card between owners.
func (r *PostgresRepository) Update(ctx context.Context, card *models.CashCard) error {
	query :=
		`UPDATE cash_cards SET amount = $3
		 WHERE id = $1 AND owner = $2
		 `

	res, err := r.db.ExecContext(ctx, query, card.ID, card.Owner, card.Amount)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM cash_cards
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// DeleteByOwner removes every card the owner holds and reports how many
// rows went away. Zero is not an error: an account may own no cards.
func (r *PostgresRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	query :=
		`DELETE FROM cash_cards
		 WHERE owner = $1
		 `

	res, err := r.db.ExecContext(ctx, query, owner)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}

	return n, nil
}
