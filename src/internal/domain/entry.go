package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindTransfer       Kind = "transfer"
	KindDeposit        Kind = "deposit"
	KindWithdrawal     Kind = "withdrawal"
	KindPaymentRequest Kind = "payment_request"
)

var kindPrefixes = map[Kind]string{
	KindTransfer:       "TRF",
	KindDeposit:        "DEP",
	KindWithdrawal:     "WTH",
	KindPaymentRequest: "REQ",
}

func (k Kind) Valid() bool {
	_, ok := kindPrefixes[k]
	return ok
}

type Status string

const (
	StatusPending        Status = "pending"
	StatusProcessing     Status = "processing"
	StatusCompleted      Status = "completed"
	StatusFailed         Status = "failed"
	StatusRequestSent    Status = "request_sent"
	StatusRequestSettled Status = "request_settled"
)

type TransferType string

const (
	TransferInternal TransferType = "internal"
	TransferExternal TransferType = "external"
)

type DepositMethod string

const (
	DepositBankTransfer DepositMethod = "bank_transfer"
	DepositCardPayment  DepositMethod = "card_payment"
	DepositSavedCard    DepositMethod = "saved_card"
)

func (m DepositMethod) Valid() bool {
	switch m {
	case DepositBankTransfer, DepositCardPayment, DepositSavedCard:
		return true
	}
	return false
}

type TransferDetails struct {
	Type                  TransferType `json:"type"`
	ReceiverUserID        string       `json:"receiverUserId,omitempty"`
	ReceiverAccountID     string       `json:"receiverAccountId,omitempty"`
	ReceiverName          string       `json:"receiverName,omitempty"`
	ReceiverBank          string       `json:"receiverBank,omitempty"`
	ReceiverAccountNumber string       `json:"receiverAccountNumber,omitempty"`
}

type DepositDetails struct {
	Method    DepositMethod `json:"method"`
	CardID    string        `json:"cardId,omitempty"`
	Reference string        `json:"reference,omitempty"`
}

type WithdrawalDetails struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

// PaymentRequestDetails: the sender asked for money and is credited on
// settlement; the receiver was asked and is debited.
type PaymentRequestDetails struct {
	SenderUserID      string `json:"senderUserId"`
	SenderAccountID   string `json:"senderAccountId"`
	ReceiverUserID    string `json:"receiverUserId"`
	ReceiverAccountID string `json:"receiverAccountId"`
}

// Entry is a ledger entity. Exactly one of the detail pointers is set,
// matching Kind.
type Entry struct {
	TransactionID string
	Kind          Kind
	UserID        string
	AccountID     string
	Amount        decimal.Decimal
	Status        Status
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Transfer       *TransferDetails
	Deposit        *DepositDetails
	Withdrawal     *WithdrawalDetails
	PaymentRequest *PaymentRequestDetails
}

// AccountIDs lists every account a status change on this entry may touch.
func (e Entry) AccountIDs() []string {
	ids := []string{e.AccountID}
	switch e.Kind {
	case KindTransfer:
		if e.Transfer != nil && e.Transfer.ReceiverAccountID != "" {
			ids = append(ids, e.Transfer.ReceiverAccountID)
		}
	case KindPaymentRequest:
		if e.PaymentRequest != nil {
			ids = append(ids, e.PaymentRequest.SenderAccountID, e.PaymentRequest.ReceiverAccountID)
		}
	}
	return uniqueNonEmpty(ids)
}

// CounterpartyUserID is the other user who sees this entry in their history.
func (e Entry) CounterpartyUserID() string {
	switch {
	case e.Transfer != nil:
		return e.Transfer.ReceiverUserID
	case e.PaymentRequest != nil:
		return e.PaymentRequest.ReceiverUserID
	}
	return ""
}

func (e Entry) CounterpartyAccountID() string {
	switch {
	case e.Transfer != nil:
		return e.Transfer.ReceiverAccountID
	case e.PaymentRequest != nil:
		return e.PaymentRequest.ReceiverAccountID
	}
	return ""
}

func (e Entry) IsInternalTransfer() bool {
	return e.Kind == KindTransfer && e.Transfer != nil && e.Transfer.Type == TransferInternal
}

type EntryFilter struct {
	UserID string
	Kind   Kind
	Status Status
	Search string
	Limit  int
}

const DefaultEntryListLimit = 50

// MaxEntryAmount caps a single ledger entry.
var MaxEntryAmount = decimal.RequireFromString("100000.00")

func NewTransactionID(kind Kind) (string, error) {
	prefix, ok := kindPrefixes[kind]
	if !ok {
		return "", fmt.Errorf("unknown entry kind %q", kind)
	}

	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + raw[:15], nil
}

func KindFromTransactionID(transactionID string) (Kind, error) {
	id := strings.ToUpper(strings.TrimSpace(transactionID))
	for kind, prefix := range kindPrefixes {
		if strings.HasPrefix(id, prefix) {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: unknown transaction id %q", ErrRecordNotFound, transactionID)
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
