package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return r.getOne(ctx, "id", id)
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	return r.getOne(ctx, "account_number", accountNumber)
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (domain.Account, error) {
	return r.getOne(ctx, "user_id", userID)
}

// getOne is only called with fixed column names.
func (r *AccountRepository) getOne(ctx context.Context, column string, value string) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + column + ` = $1 ORDER BY created_at LIMIT 1`

	var account domain.Account
	if err := scanAccount(r.db.QueryRowContext(ctx, query, value), &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, fmt.Errorf("%w: account %s=%s", domain.ErrRecordNotFound, column, value)
		}
		logger.Error("account repository get failed", err, logger.Fields{column: value})
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}
