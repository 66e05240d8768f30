package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type UnitOfWork struct {
	db *sql.DB
}

func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// WithinTx runs fn inside one READ COMMITTED transaction. Row locks taken
// through the LedgerTx are released on commit or rollback.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.LedgerTx) error) (err error) {
	sqlTx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("postgres unit of work begin tx failed", err, nil)
		return fmt.Errorf("begin ledger transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(ctx, &ledgerTx{tx: sqlTx}); err != nil {
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		logger.Error("postgres unit of work commit failed", err, nil)
		return fmt.Errorf("commit ledger transaction: %w", err)
	}
	return nil
}

type ledgerTx struct {
	tx       *sql.Tx
	lockUsed bool
}

func (t *ledgerTx) LockAccounts(ctx context.Context, accountIDs ...string) (map[string]domain.Account, error) {
	if t.lockUsed {
		return nil, errors.New("accounts already locked in this transaction")
	}
	t.lockUsed = true

	ids := make([]string, 0, len(accountIDs))
	seen := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := t.tx.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("lock accounts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Account, len(ids))
	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, fmt.Errorf("scan locked account: %w", err)
		}
		out[account.ID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lock accounts: %w", err)
	}

	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", domain.ErrRecordNotFound, id)
		}
	}
	return out, nil
}

func (t *ledgerTx) SetBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	const query = `UPDATE accounts SET balance = $2, updated_at = NOW() WHERE id = $1`
	return t.execOne(ctx, "set balance", query, accountID, balance)
}

func (t *ledgerTx) UpdatePinState(ctx context.Context, account domain.Account) error {
	const query = `
UPDATE accounts
SET failed_pin_attempts = $2,
    pin_lockout_until = $3,
    updated_at = NOW()
WHERE id = $1`
	return t.execOne(ctx, "update pin state", query, account.ID, account.FailedPinAttempts, account.PinLockoutUntil)
}

func (t *ledgerTx) UpdatePinHash(ctx context.Context, accountID string, pinHash string) error {
	const query = `UPDATE accounts SET pin_hash = $2, updated_at = NOW() WHERE id = $1`
	return t.execOne(ctx, "update pin hash", query, accountID, pinHash)
}

func (t *ledgerTx) ActiveFreeze(ctx context.Context, accountID string) (*domain.AccountFreeze, error) {
	query := `SELECT ` + freezeColumns + ` FROM account_freezes WHERE account_id = $1 AND is_active`

	var freeze domain.AccountFreeze
	if err := scanFreeze(t.tx.QueryRowContext(ctx, query, accountID), &freeze); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active freeze: %w", err)
	}
	return &freeze, nil
}

func (t *ledgerTx) InsertFreeze(ctx context.Context, freeze domain.AccountFreeze) (domain.AccountFreeze, error) {
	query := `
INSERT INTO account_freezes (account_id, reason, notes, is_active, frozen_at)
VALUES ($1, $2, $3, TRUE, $4)
RETURNING ` + freezeColumns

	var created domain.AccountFreeze
	if err := scanFreeze(t.tx.QueryRowContext(ctx, query, freeze.AccountID, freeze.Reason, freeze.Notes, freeze.FrozenAt), &created); err != nil {
		if isUniqueViolation(err) {
			return domain.AccountFreeze{}, fmt.Errorf("%w: active freeze on %s", domain.ErrDuplicateKey, freeze.AccountID)
		}
		return domain.AccountFreeze{}, fmt.Errorf("insert freeze: %w", err)
	}
	return created, nil
}

func (t *ledgerTx) DeactivateFreeze(ctx context.Context, freezeID int64, liftedAt time.Time) error {
	const query = `UPDATE account_freezes SET is_active = FALSE, lifted_at = $2 WHERE id = $1 AND is_active`
	return t.execOne(ctx, "deactivate freeze", query, freezeID, liftedAt)
}

func (t *ledgerTx) InsertEntry(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	details, err := encodeDetails(entry)
	if err != nil {
		return domain.Entry{}, err
	}

	query := `
INSERT INTO ledger_entries (
	transaction_id,
	kind,
	user_id,
	account_id,
	counterparty_user_id,
	counterparty_account_id,
	amount,
	status,
	description,
	details,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
RETURNING ` + entryColumns

	var created domain.Entry
	if err := scanEntry(t.tx.QueryRowContext(
		ctx,
		query,
		entry.TransactionID,
		entry.Kind,
		entry.UserID,
		entry.AccountID,
		nullString(entry.CounterpartyUserID()),
		nullString(entry.CounterpartyAccountID()),
		entry.Amount,
		entry.Status,
		entry.Description,
		string(details),
		entry.CreatedAt,
	), &created); err != nil {
		if isUniqueViolation(err) {
			return domain.Entry{}, fmt.Errorf("%w: transaction %s", domain.ErrDuplicateKey, entry.TransactionID)
		}
		logger.Error("postgres insert entry failed", err, logger.Fields{"transactionId": entry.TransactionID})
		return domain.Entry{}, fmt.Errorf("insert ledger entry: %w", err)
	}
	return created, nil
}

// GetEntry reads and row-locks the entry.
func (t *ledgerTx) GetEntry(ctx context.Context, transactionID string) (domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE transaction_id = $1 FOR UPDATE`

	var entry domain.Entry
	if err := scanEntry(t.tx.QueryRowContext(ctx, query, transactionID), &entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Entry{}, fmt.Errorf("%w: transaction %s", domain.ErrRecordNotFound, transactionID)
		}
		return domain.Entry{}, fmt.Errorf("get ledger entry: %w", err)
	}
	return entry, nil
}

func (t *ledgerTx) CompareAndSetStatus(ctx context.Context, transactionID string, from domain.Status, to domain.Status) error {
	const query = `
UPDATE ledger_entries
SET status = $3,
    updated_at = NOW()
WHERE transaction_id = $1
  AND status = $2`

	rows, err := t.exec(ctx, "compare and set status", query, transactionID, from, to)
	if err != nil {
		return err
	}
	if rows == 0 {
		return t.explainMiss(ctx, transactionID)
	}
	return nil
}

func (t *ledgerTx) DeleteEntry(ctx context.Context, transactionID string, status domain.Status) error {
	const query = `DELETE FROM ledger_entries WHERE transaction_id = $1 AND status = $2`

	rows, err := t.exec(ctx, "delete ledger entry", query, transactionID, status)
	if err != nil {
		return err
	}
	if rows == 0 {
		return t.explainMiss(ctx, transactionID)
	}
	return nil
}

func (t *ledgerTx) InsertNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	query := `
INSERT INTO notifications (id, user_id, type, amount, is_read, transaction_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + notificationColumns

	var created domain.Notification
	if err := scanNotification(t.tx.QueryRowContext(ctx, query, n.ID, n.UserID, n.Type, n.Amount, n.IsRead, n.TransactionID, n.CreatedAt), &created); err != nil {
		return domain.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return created, nil
}

// explainMiss distinguishes a lost compare-and-set from an unknown id.
func (t *ledgerTx) explainMiss(ctx context.Context, transactionID string) error {
	var status domain.Status
	err := t.tx.QueryRowContext(ctx, `SELECT status FROM ledger_entries WHERE transaction_id = $1`, transactionID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: transaction %s", domain.ErrRecordNotFound, transactionID)
	}
	if err != nil {
		return fmt.Errorf("read ledger entry status: %w", err)
	}
	return fmt.Errorf("%w: %s is %s", domain.ErrAlreadyProcessed, transactionID, status)
}

func (t *ledgerTx) exec(ctx context.Context, op string, query string, args ...any) (int64, error) {
	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error("postgres "+op+" failed", err, nil)
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: read rows affected: %w", op, err)
	}
	return rows, nil
}

func (t *ledgerTx) execOne(ctx context.Context, op string, query string, args ...any) error {
	rows, err := t.exec(ctx, op, query, args...)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrRecordNotFound)
	}
	return nil
}
