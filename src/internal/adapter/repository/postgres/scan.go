package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/lib/pq"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const accountColumns = `id, user_id, account_number, balance, pin_hash, failed_pin_attempts, pin_lockout_until, kyc_confirmed, status, created_at, updated_at`

func scanAccount(row rowScanner, account *domain.Account) error {
	var lockoutUntil sql.NullTime
	if err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.AccountNumber,
		&account.Balance,
		&account.PinHash,
		&account.FailedPinAttempts,
		&lockoutUntil,
		&account.KYCConfirmed,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return err
	}

	account.PinLockoutUntil = nil
	if lockoutUntil.Valid {
		value := lockoutUntil.Time
		account.PinLockoutUntil = &value
	}
	return nil
}

const entryColumns = `transaction_id, kind, user_id, account_id, amount, status, description, details, created_at, updated_at`

func scanEntry(row rowScanner, entry *domain.Entry) error {
	var details []byte
	if err := row.Scan(
		&entry.TransactionID,
		&entry.Kind,
		&entry.UserID,
		&entry.AccountID,
		&entry.Amount,
		&entry.Status,
		&entry.Description,
		&details,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return err
	}
	return decodeDetails(entry, details)
}

// encodeDetails serialises the variant payload stored in the details
// column.
func encodeDetails(entry domain.Entry) ([]byte, error) {
	var details any
	switch entry.Kind {
	case domain.KindTransfer:
		details = entry.Transfer
	case domain.KindDeposit:
		details = entry.Deposit
	case domain.KindWithdrawal:
		details = entry.Withdrawal
	case domain.KindPaymentRequest:
		details = entry.PaymentRequest
	default:
		return nil, fmt.Errorf("unknown entry kind %q", entry.Kind)
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encode %s details: %w", entry.Kind, err)
	}
	return raw, nil
}

func decodeDetails(entry *domain.Entry, raw []byte) error {
	entry.Transfer = nil
	entry.Deposit = nil
	entry.Withdrawal = nil
	entry.PaymentRequest = nil

	var target any
	switch entry.Kind {
	case domain.KindTransfer:
		entry.Transfer = &domain.TransferDetails{}
		target = entry.Transfer
	case domain.KindDeposit:
		entry.Deposit = &domain.DepositDetails{}
		target = entry.Deposit
	case domain.KindWithdrawal:
		entry.Withdrawal = &domain.WithdrawalDetails{}
		target = entry.Withdrawal
	case domain.KindPaymentRequest:
		entry.PaymentRequest = &domain.PaymentRequestDetails{}
		target = entry.PaymentRequest
	default:
		return fmt.Errorf("unknown entry kind %q", entry.Kind)
	}

	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s details: %w", entry.Kind, err)
	}
	return nil
}

const freezeColumns = `id, account_id, reason, notes, is_active, frozen_at, lifted_at`

func scanFreeze(row rowScanner, freeze *domain.AccountFreeze) error {
	var liftedAt sql.NullTime
	if err := row.Scan(
		&freeze.ID,
		&freeze.AccountID,
		&freeze.Reason,
		&freeze.Notes,
		&freeze.IsActive,
		&freeze.FrozenAt,
		&liftedAt,
	); err != nil {
		return err
	}

	freeze.LiftedAt = nil
	if liftedAt.Valid {
		value := liftedAt.Time
		freeze.LiftedAt = &value
	}
	return nil
}

const notificationColumns = `id, user_id, type, amount, is_read, transaction_id, created_at`

func scanNotification(row rowScanner, n *domain.Notification) error {
	var transactionID sql.NullString
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Amount, &n.IsRead, &transactionID, &n.CreatedAt); err != nil {
		return err
	}

	n.TransactionID = nil
	if transactionID.Valid {
		value := transactionID.String
		n.TransactionID = &value
	}
	return nil
}

const beneficiaryColumns = `id, user_id, beneficiary_account_id, name, account_number, bank_name, is_active, created_at, last_used`

func scanBeneficiary(row rowScanner, b *domain.Beneficiary) error {
	var (
		accountID sql.NullString
		lastUsed  sql.NullTime
	)
	if err := row.Scan(&b.ID, &b.UserID, &accountID, &b.Name, &b.AccountNumber, &b.BankName, &b.IsActive, &b.CreatedAt, &lastUsed); err != nil {
		return err
	}

	b.BeneficiaryAccountID = nil
	if accountID.Valid {
		value := accountID.String
		b.BeneficiaryAccountID = &value
	}
	b.LastUsed = nil
	if lastUsed.Valid {
		value := lastUsed.Time
		b.LastUsed = &value
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
