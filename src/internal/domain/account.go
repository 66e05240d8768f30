package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "in-active"
)

// Account is the balance holder. Balance is written only by the ledger
// engine; PIN counters only by the account guard.
type Account struct {
	ID                string
	UserID            string
	AccountNumber     string
	Balance           decimal.Decimal
	PinHash           string
	FailedPinAttempts int
	PinLockoutUntil   *time.Time
	KYCConfirmed      bool
	Status            AccountStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}
