package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type CreateWithdrawalRequest struct {
	UserID        string          `json:"-"`
	Amount        decimal.Decimal `json:"amount"`
	BankName      string          `json:"bankName"`
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	Description   string          `json:"description,omitempty"`
}

func (r CreateWithdrawalRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "user is required")
	}
	errs = append(errs, validateAmount("amount", r.Amount)...)
	if strings.TrimSpace(r.BankName) == "" {
		errs = append(errs, "bankName is required")
	}
	accountNumber := strings.TrimSpace(r.AccountNumber)
	if accountNumber == "" {
		errs = append(errs, "accountNumber is required")
	} else if !digitsOnly(accountNumber) {
		errs = append(errs, "accountNumber must contain digits only")
	}
	if strings.TrimSpace(r.AccountName) == "" {
		errs = append(errs, "accountName is required")
	}

	return problems(errs)
}
