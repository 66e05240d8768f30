package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type CreateTransferRequest struct {
	UserID          string          `json:"-"`
	AccountNumber   string          `json:"accountNumber"`
	AccountName     string          `json:"accountName,omitempty"`
	BankName        string          `json:"bankName,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
	SaveBeneficiary bool            `json:"saveBeneficiary,omitempty"`
}

func (r CreateTransferRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "user is required")
	}
	accountNumber := strings.TrimSpace(r.AccountNumber)
	if accountNumber == "" {
		errs = append(errs, "accountNumber is required")
	} else if !digitsOnly(accountNumber) {
		errs = append(errs, "accountNumber must contain digits only")
	}
	errs = append(errs, validateAmount("amount", r.Amount)...)
	if len(r.Description) > 255 {
		errs = append(errs, "description cannot exceed 255 characters")
	}

	return problems(errs)
}

type AuthorizeTransferResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	// AwaitingApproval is set for external transfers parked for an operator.
	AwaitingApproval bool `json:"awaitingApproval"`
}
