package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/paylio-ledger/src/internal/commons"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

// failure builds the error envelope for err. Domain errors carry a message
// safe to show the caller; anything else is reported generically.
func failure[T any](message string, err error) commons.Response[T] {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return commons.ValidationFailed[T](validationErr.Problems...)
	}

	switch {
	case errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrKYCRequired),
		errors.Is(err, domain.ErrAccountFrozen),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrIncorrectPin),
		errors.Is(err, domain.ErrLocked),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyProcessed):
		return commons.ErrorResponse[T](message, err.Error())
	}
	return commons.ErrorResponse[T](message, "Unable to process request right now")
}

func callerAccount(ctx context.Context, accounts domain.AccountRepository, userID string) (domain.Account, error) {
	account, err := accounts.GetByUserID(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Account{}, fmt.Errorf("%w: no account for user", domain.ErrRecordNotFound)
		}
		return domain.Account{}, err
	}
	return account, nil
}

// ensureCanTransact gates money movement on an active, KYC-confirmed account.
func ensureCanTransact(account domain.Account) error {
	if !account.KYCConfirmed {
		return domain.ErrKYCRequired
	}
	if !account.IsActive() {
		return domain.NewValidationError("account is not active")
	}
	return nil
}

func ensureSufficient(account domain.Account, amount decimal.Decimal) error {
	if account.Balance.LessThan(amount) {
		return fmt.Errorf("%w: available %s", domain.ErrInsufficientBalance, account.Balance.StringFixed(2))
	}
	return nil
}

// loadEntry resolves the kind from the transaction id prefix before the
// lookup so a mismatched id fails without a store round trip.
func loadEntry(ctx context.Context, entries domain.EntryRepository, transactionID string, kind domain.Kind) (domain.Entry, error) {
	transactionID = strings.ToUpper(strings.TrimSpace(transactionID))
	resolved, err := domain.KindFromTransactionID(transactionID)
	if err != nil {
		return domain.Entry{}, err
	}
	if kind != "" && resolved != kind {
		return domain.Entry{}, fmt.Errorf("%w: %s is not a %s", domain.ErrRecordNotFound, transactionID, kind)
	}
	return entries.Get(ctx, transactionID)
}

func ownedBy(userID string) func(domain.Entry) error {
	return func(entry domain.Entry) error {
		if entry.UserID != userID {
			return domain.ErrForbidden
		}
		return nil
	}
}
