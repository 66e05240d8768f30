package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type NotificationType string

const (
	NotificationCreditAlert            NotificationType = "Credit Alert"
	NotificationDebitAlert             NotificationType = "Debit Alert"
	NotificationDepositRequest         NotificationType = "Deposit Request"
	NotificationSentPaymentRequest     NotificationType = "Sent Payment Request"
	NotificationReceivedPaymentRequest NotificationType = "Received Payment Request"
	NotificationAccountFrozen          NotificationType = "Account Frozen"
	NotificationAccountRestored        NotificationType = "Account Restored"
)

// Notification is append-only apart from IsRead.
type Notification struct {
	ID            string
	UserID        string
	Type          NotificationType
	Amount        decimal.Decimal
	IsRead        bool
	TransactionID *string
	CreatedAt     time.Time
}

// Message is an outbound e-mail. Recipients are user ids resolved at
// dispatch time; ToOperators adds the configured operator list.
type Message struct {
	UserIDs     []string
	ToOperators bool
	Subject     string
	Body        string
}
