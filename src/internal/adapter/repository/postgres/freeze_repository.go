package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
)

type FreezeRepository struct {
	db *sql.DB
}

func NewFreezeRepository(db *sql.DB) *FreezeRepository {
	return &FreezeRepository{db: db}
}

func (r *FreezeRepository) ActiveForAccount(ctx context.Context, accountID string) (*domain.AccountFreeze, error) {
	query := `SELECT ` + freezeColumns + ` FROM account_freezes WHERE account_id = $1 AND is_active`

	var freeze domain.AccountFreeze
	if err := scanFreeze(r.db.QueryRowContext(ctx, query, accountID), &freeze); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active freeze: %w", err)
	}
	return &freeze, nil
}

func (r *FreezeRepository) History(ctx context.Context, accountID string) ([]domain.AccountFreeze, error) {
	query := `SELECT ` + freezeColumns + ` FROM account_freezes WHERE account_id = $1 ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list freezes: %w", err)
	}
	defer rows.Close()

	freezes := make([]domain.AccountFreeze, 0)
	for rows.Next() {
		var freeze domain.AccountFreeze
		if err := scanFreeze(rows, &freeze); err != nil {
			return nil, fmt.Errorf("scan freeze: %w", err)
		}
		freezes = append(freezes, freeze)
	}
	return freezes, rows.Err()
}
