package domain

import (
	"context"
	"time"
)

const InternalBankName = "Paylio"

type Beneficiary struct {
	ID                   int64
	UserID               string
	BeneficiaryAccountID *string
	Name                 string
	AccountNumber        string
	BankName             string
	IsActive             bool
	CreatedAt            time.Time
	LastUsed             *time.Time
}

// Bank is a destination institution offered for external transfers and
// withdrawals.
type Bank struct {
	Name string
	Code string
}

type BankDirectory interface {
	GetAll(ctx context.Context) ([]Bank, error)
}
