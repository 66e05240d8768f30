package models

import (
	"strings"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateDepositRequest struct {
	UserID    string          `json:"-"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	CardID    string          `json:"cardId,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

func (r CreateDepositRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "user is required")
	}
	errs = append(errs, validateAmount("amount", r.Amount)...)

	method := domain.DepositMethod(strings.TrimSpace(r.Method))
	if !method.Valid() {
		errs = append(errs, "method must be one of bank_transfer, card_payment, saved_card")
	} else if method == domain.DepositSavedCard && strings.TrimSpace(r.CardID) == "" {
		errs = append(errs, "cardId is required for saved_card deposits")
	}

	return problems(errs)
}

type ConfirmDepositRequest struct {
	UserID        string `json:"-"`
	TransactionID string `json:"transactionId"`
}

func (r ConfirmDepositRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "user is required")
	}
	if strings.TrimSpace(r.TransactionID) == "" {
		errs = append(errs, "transactionId is required")
	}

	return problems(errs)
}
