package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
)

type BeneficiaryRepository struct {
	db *sql.DB
}

func NewBeneficiaryRepository(db *sql.DB) *BeneficiaryRepository {
	return &BeneficiaryRepository{db: db}
}

// SaveIfAbsent relies on the partial unique index over active
// (user_id, account_number) rows; a conflict only refreshes last_used.
func (r *BeneficiaryRepository) SaveIfAbsent(ctx context.Context, b domain.Beneficiary) (domain.Beneficiary, bool, error) {
	insert := `
INSERT INTO beneficiaries (user_id, beneficiary_account_id, name, account_number, bank_name, is_active, last_used)
VALUES ($1, $2, $3, $4, $5, TRUE, NOW())
ON CONFLICT (user_id, account_number) WHERE is_active DO NOTHING
RETURNING ` + beneficiaryColumns

	var saved domain.Beneficiary
	err := scanBeneficiary(r.db.QueryRowContext(ctx, insert, b.UserID, b.BeneficiaryAccountID, b.Name, b.AccountNumber, b.BankName), &saved)
	if err == nil {
		return saved, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		logger.Error("beneficiary repository save failed", err, logger.Fields{"userId": b.UserID})
		return domain.Beneficiary{}, false, fmt.Errorf("save beneficiary: %w", err)
	}

	touch := `
UPDATE beneficiaries
SET last_used = NOW()
WHERE user_id = $1 AND account_number = $2 AND is_active
RETURNING ` + beneficiaryColumns
	if err := scanBeneficiary(r.db.QueryRowContext(ctx, touch, b.UserID, b.AccountNumber), &saved); err != nil {
		return domain.Beneficiary{}, false, fmt.Errorf("touch beneficiary: %w", err)
	}
	return saved, false, nil
}

func (r *BeneficiaryRepository) ListForUser(ctx context.Context, userID string) ([]domain.Beneficiary, error) {
	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries WHERE user_id = $1 AND is_active ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list beneficiaries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Beneficiary, 0)
	for rows.Next() {
		var b domain.Beneficiary
		if err := scanBeneficiary(rows, &b); err != nil {
			return nil, fmt.Errorf("scan beneficiary: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BeneficiaryRepository) Deactivate(ctx context.Context, userID string, beneficiaryID int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE beneficiaries SET is_active = FALSE WHERE id = $1 AND user_id = $2 AND is_active`, beneficiaryID, userID)
	if err != nil {
		return fmt.Errorf("deactivate beneficiary: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate beneficiary: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: beneficiary %d", domain.ErrRecordNotFound, beneficiaryID)
	}
	return nil
}
