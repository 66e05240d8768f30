package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
)

type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Get(ctx context.Context, transactionID string) (domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE transaction_id = $1`

	var entry domain.Entry
	if err := scanEntry(r.db.QueryRowContext(ctx, query, transactionID), &entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Entry{}, fmt.Errorf("%w: transaction %s", domain.ErrRecordNotFound, transactionID)
		}
		logger.Error("entry repository get failed", err, logger.Fields{"transactionId": transactionID})
		return domain.Entry{}, fmt.Errorf("get ledger entry: %w", err)
	}
	return entry, nil
}

// List returns entries the user owns or is the counterparty of, newest
// first.
func (r *EntryRepository) List(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, error) {
	logger.Info("entry repository list", logger.Fields{
		"userId": filter.UserID,
		"kind":   filter.Kind,
		"status": filter.Status,
		"search": filter.Search,
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultEntryListLimit
	}

	query := `
SELECT ` + entryColumns + `
FROM ledger_entries
WHERE ($1::text = '' OR user_id = $1 OR counterparty_user_id = $1)
  AND ($2::text = '' OR kind = $2)
  AND ($3::text = '' OR status = $3)
  AND ($4::text = '' OR transaction_id ILIKE '%' || $4 || '%' OR description ILIKE '%' || $4 || '%')
ORDER BY created_at DESC, transaction_id DESC
LIMIT $5`

	rows, err := r.db.QueryContext(ctx, query, filter.UserID, string(filter.Kind), string(filter.Status), filter.Search, limit)
	if err != nil {
		logger.Error("entry repository list failed", err, nil)
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0)
	for rows.Next() {
		var entry domain.Entry
		if err := scanEntry(rows, &entry); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, nil
}
