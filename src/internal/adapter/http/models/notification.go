package models

import (
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type NotificationResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	IsRead        bool            `json:"isRead"`
	TransactionID *string         `json:"transactionId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}

func NewNotificationResponses(notifications []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, NotificationResponse{
			ID:            n.ID,
			Type:          string(n.Type),
			Amount:        n.Amount,
			IsRead:        n.IsRead,
			TransactionID: n.TransactionID,
			CreatedAt:     n.CreatedAt,
		})
	}
	return out
}

type BeneficiaryResponse struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	AccountNumber string     `json:"accountNumber"`
	BankName      string     `json:"bankName"`
	Internal      bool       `json:"internal"`
	LastUsed      *time.Time `json:"lastUsed,omitempty"`
}

func NewBeneficiaryResponses(beneficiaries []domain.Beneficiary) []BeneficiaryResponse {
	out := make([]BeneficiaryResponse, 0, len(beneficiaries))
	for _, b := range beneficiaries {
		out = append(out, BeneficiaryResponse{
			ID:            b.ID,
			Name:          b.Name,
			AccountNumber: b.AccountNumber,
			BankName:      b.BankName,
			Internal:      b.BeneficiaryAccountID != nil,
			LastUsed:      b.LastUsed,
		})
	}
	return out
}
