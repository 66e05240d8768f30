package models

import (
	"strings"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
)

type FreezeAccountRequest struct {
	AccountNumber string `json:"accountNumber"`
	Reason        string `json:"reason"`
	Notes         string `json:"notes,omitempty"`
}

func (r FreezeAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountNumber) == "" {
		errs = append(errs, "accountNumber is required")
	}
	if !domain.FreezeReason(strings.TrimSpace(r.Reason)).Valid() {
		errs = append(errs, "reason must be one of suspicious_activity, user_request, compliance, security, other")
	}

	return problems(errs)
}

type UnfreezeAccountRequest struct {
	AccountNumber string `json:"accountNumber"`
}

func (r UnfreezeAccountRequest) Validate() error {
	if strings.TrimSpace(r.AccountNumber) == "" {
		return domain.NewValidationError("accountNumber is required")
	}
	return nil
}

type FreezeResponse struct {
	ID            int64      `json:"id"`
	AccountNumber string     `json:"accountNumber"`
	Reason        string     `json:"reason"`
	ReasonDisplay string     `json:"reasonDisplay"`
	Notes         string     `json:"notes,omitempty"`
	IsActive      bool       `json:"isActive"`
	FrozenAt      time.Time  `json:"frozenAt"`
	LiftedAt      *time.Time `json:"liftedAt,omitempty"`
	// Created is false when the account was already frozen.
	Created bool `json:"created"`
}

func NewFreezeResponse(accountNumber string, freeze domain.AccountFreeze, created bool) FreezeResponse {
	return FreezeResponse{
		ID:            freeze.ID,
		AccountNumber: accountNumber,
		Reason:        string(freeze.Reason),
		ReasonDisplay: freeze.Reason.Display(),
		Notes:         freeze.Notes,
		IsActive:      freeze.IsActive,
		FrozenAt:      freeze.FrozenAt,
		LiftedAt:      freeze.LiftedAt,
		Created:       created,
	}
}

type UnfreezeResponse struct {
	AccountNumber string `json:"accountNumber"`
	Lifted        bool   `json:"lifted"`
}

// TransitionTransactionRequest is an operator status change, e.g. approving
// or failing an external transfer or completing a deposit.
type TransitionTransactionRequest struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

func (r TransitionTransactionRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.TransactionID) == "" {
		errs = append(errs, "transactionId is required")
	}
	switch domain.Status(strings.TrimSpace(r.Status)) {
	case domain.StatusCompleted, domain.StatusFailed:
	default:
		errs = append(errs, "status must be one of completed, failed")
	}

	return problems(errs)
}
