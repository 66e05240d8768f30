package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AccountResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	KYCConfirmed  bool            `json:"kycConfirmed"`
	Frozen        bool            `json:"frozen"`
	FreezeReason  string          `json:"freezeReason,omitempty"`
	FreezeNotes   string          `json:"freezeNotes,omitempty"`
	PinLocked     bool            `json:"pinLocked"`
	PinLockedTill *time.Time      `json:"pinLockedUntil,omitempty"`
}

type ChangePinRequest struct {
	UserID     string `json:"-"`
	CurrentPin string `json:"currentPin"`
	NewPin     string `json:"newPin"`
}

func (r ChangePinRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "user is required")
	}
	if strings.TrimSpace(r.CurrentPin) == "" {
		errs = append(errs, "currentPin is required")
	}
	newPin := strings.TrimSpace(r.NewPin)
	if len(newPin) != 4 || !digitsOnly(newPin) {
		errs = append(errs, "newPin must be exactly 4 digits")
	}

	return problems(errs)
}

type BankResponse struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type AccountLookupResponse struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
}
