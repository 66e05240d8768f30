package models

import (
	"strings"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/ledger"
	"github.com/shopspring/decimal"
)

// AuthorizeTransactionRequest carries the PIN for any authorization step.
type AuthorizeTransactionRequest struct {
	UserID        string `json:"-"`
	TransactionID string `json:"transactionId"`
	Pin           string `json:"pin"`
}

func (r AuthorizeTransactionRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "user is required")
	}
	if strings.TrimSpace(r.TransactionID) == "" {
		errs = append(errs, "transactionId is required")
	}
	if strings.TrimSpace(r.Pin) == "" {
		errs = append(errs, "pin is required")
	}

	return problems(errs)
}

type ListTransactionsRequest struct {
	UserID string
	Kind   string
	Status string
	Search string
	Limit  int
}

func (r ListTransactionsRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "user is required")
	}
	if kind := strings.TrimSpace(r.Kind); kind != "" && !domain.Kind(kind).Valid() {
		errs = append(errs, "kind must be one of transfer, deposit, withdrawal, payment_request")
	}
	if r.Limit < 0 {
		errs = append(errs, "limit cannot be negative")
	}

	return problems(errs)
}

func (r ListTransactionsRequest) Filter() domain.EntryFilter {
	return domain.EntryFilter{
		UserID: strings.TrimSpace(r.UserID),
		Kind:   domain.Kind(strings.TrimSpace(r.Kind)),
		Status: domain.Status(strings.TrimSpace(r.Status)),
		Search: strings.TrimSpace(r.Search),
		Limit:  r.Limit,
	}
}

type TransactionResponse struct {
	TransactionID string          `json:"transactionId"`
	Kind          string          `json:"kind"`
	Status        string          `json:"status"`
	Final         bool            `json:"final"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	UserID        string          `json:"userId"`
	AccountID     string          `json:"accountId"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	Transfer       *domain.TransferDetails       `json:"transfer,omitempty"`
	Deposit        *domain.DepositDetails        `json:"deposit,omitempty"`
	Withdrawal     *domain.WithdrawalDetails     `json:"withdrawal,omitempty"`
	PaymentRequest *domain.PaymentRequestDetails `json:"paymentRequest,omitempty"`
}

func NewTransactionResponse(entry domain.Entry) TransactionResponse {
	return TransactionResponse{
		TransactionID:  entry.TransactionID,
		Kind:           string(entry.Kind),
		Status:         string(entry.Status),
		Final:          ledger.IsTerminal(entry.Kind, entry.Status),
		Amount:         entry.Amount,
		Description:    entry.Description,
		UserID:         entry.UserID,
		AccountID:      entry.AccountID,
		CreatedAt:      entry.CreatedAt,
		UpdatedAt:      entry.UpdatedAt,
		Transfer:       entry.Transfer,
		Deposit:        entry.Deposit,
		Withdrawal:     entry.Withdrawal,
		PaymentRequest: entry.PaymentRequest,
	}
}

func NewTransactionResponses(entries []domain.Entry) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, NewTransactionResponse(entry))
	}
	return out
}

func validateAmount(field string, amount decimal.Decimal) []string {
	if amount.LessThanOrEqual(decimal.Zero) {
		return []string{field + " must be greater than zero"}
	}
	if !amount.Equal(amount.Round(2)) {
		return []string{field + " must have at most two decimal places"}
	}
	if amount.GreaterThan(domain.MaxEntryAmount) {
		return []string{field + " must not exceed " + domain.MaxEntryAmount.StringFixed(2)}
	}
	return nil
}

func digitsOnly(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func problems(errs []string) error {
	if len(errs) > 0 {
		return domain.NewValidationError(errs...)
	}
	return nil
}
