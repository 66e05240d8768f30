package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequestRequest asks the owner of PayerAccountNumber for money.
type CreatePaymentRequestRequest struct {
	UserID             string          `json:"-"`
	PayerAccountNumber string          `json:"payerAccountNumber"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description,omitempty"`
}

func (r CreatePaymentRequestRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "user is required")
	}
	if strings.TrimSpace(r.PayerAccountNumber) == "" {
		errs = append(errs, "payerAccountNumber is required")
	}
	errs = append(errs, validateAmount("amount", r.Amount)...)
	if len(r.Description) > 255 {
		errs = append(errs, "description cannot exceed 255 characters")
	}

	return problems(errs)
}

type DeletePaymentRequestRequest struct {
	UserID        string `json:"-"`
	TransactionID string `json:"transactionId"`
}

func (r DeletePaymentRequestRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "user is required")
	}
	if strings.TrimSpace(r.TransactionID) == "" {
		errs = append(errs, "transactionId is required")
	}

	return problems(errs)
}
