package ledger

import (
	"fmt"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

// Posting is a signed balance change on one account.
type Posting struct {
	AccountID      string
	Amount         decimal.Decimal
	AllowOverdraft bool
}

// Effect is everything a single status edge causes. It is applied in the
// same unit of work as the status write.
type Effect struct {
	Postings      []Posting
	Notifications []domain.Notification
	Messages      []domain.Message
}

func (e Effect) IsZero() bool {
	return len(e.Postings) == 0 && len(e.Notifications) == 0 && len(e.Messages) == 0
}

// React maps an edge to its effect. It is keyed on the edge, not on the
// destination, so a status reached by two different edges only applies
// the effect that belongs to the edge actually taken. from is "" for a
// freshly created entry.
func React(entry domain.Entry, from domain.Status, to domain.Status) Effect {
	if from == to {
		return Effect{}
	}

	switch entry.Kind {
	case domain.KindDeposit:
		return reactDeposit(entry, from, to)
	case domain.KindTransfer:
		return reactTransfer(entry, from, to)
	case domain.KindWithdrawal:
		return reactWithdrawal(entry, from, to)
	case domain.KindPaymentRequest:
		return reactPaymentRequest(entry, from, to)
	}
	return Effect{}
}

func reactDeposit(entry domain.Entry, from domain.Status, to domain.Status) Effect {
	amount := entry.Amount.StringFixed(2)

	switch to {
	case domain.StatusProcessing:
		return Effect{
			Notifications: []domain.Notification{notification(entry.UserID, domain.NotificationDepositRequest, entry)},
			Messages: []domain.Message{
				{
					ToOperators: true,
					Subject:     fmt.Sprintf("New Deposit Request: $%s", amount),
					Body:        fmt.Sprintf("A deposit of $%s has been requested.\nTransaction ID: %s\n\nPlease review and approve.", amount, entry.TransactionID),
				},
				{
					UserIDs: []string{entry.UserID},
					Subject: fmt.Sprintf("Deposit Request Received: $%s", amount),
					Body:    fmt.Sprintf("We have received your deposit request of $%s.\nTransaction ID: %s\n\nOnce approved, the funds will be credited to your account immediately.", amount, entry.TransactionID),
				},
			},
		}
	case domain.StatusCompleted:
		return Effect{
			Postings:      []Posting{{AccountID: entry.AccountID, Amount: entry.Amount}},
			Notifications: []domain.Notification{notification(entry.UserID, domain.NotificationCreditAlert, entry)},
			Messages: []domain.Message{{
				UserIDs: []string{entry.UserID},
				Subject: fmt.Sprintf("Deposit Completed: +$%s", amount),
				Body:    fmt.Sprintf("Your deposit of $%s has been successfully processed and credited to your account.\nTransaction ID: %s", amount, entry.TransactionID),
			}},
		}
	}
	return Effect{}
}

func reactTransfer(entry domain.Entry, from domain.Status, to domain.Status) Effect {
	if entry.Transfer == nil {
		return Effect{}
	}
	details := entry.Transfer
	amount := entry.Amount.StringFixed(2)
	internal := details.Type == domain.TransferInternal

	switch {
	case from == domain.StatusProcessing && to == domain.StatusCompleted && internal:
		return Effect{
			Postings: []Posting{
				{AccountID: entry.AccountID, Amount: entry.Amount.Neg()},
				{AccountID: details.ReceiverAccountID, Amount: entry.Amount},
			},
			Notifications: []domain.Notification{
				notification(entry.UserID, domain.NotificationDebitAlert, entry),
				notification(details.ReceiverUserID, domain.NotificationCreditAlert, entry),
			},
			Messages: []domain.Message{
				{
					UserIDs: []string{entry.UserID},
					Subject: fmt.Sprintf("Debit Alert: -$%s", amount),
					Body:    fmt.Sprintf("You sent $%s to %s.\nTransaction ID: %s", amount, details.ReceiverName, entry.TransactionID),
				},
				{
					UserIDs: []string{details.ReceiverUserID},
					Subject: fmt.Sprintf("Credit Alert: +$%s", amount),
					Body:    fmt.Sprintf("You received $%s.\nTransaction ID: %s", amount, entry.TransactionID),
				},
			},
		}

	case from == domain.StatusProcessing && to == domain.StatusPending && !internal:
		approval := fmt.Sprintf("An external transfer of $%s to %s (%s, %s) has been requested.\nTransaction ID: %s\n\nPlease review and approve.",
			amount, details.ReceiverName, details.ReceiverBank, details.ReceiverAccountNumber, entry.TransactionID)
		return Effect{
			Postings:      []Posting{{AccountID: entry.AccountID, Amount: entry.Amount.Neg()}},
			Notifications: []domain.Notification{notification(entry.UserID, domain.NotificationDebitAlert, entry)},
			Messages: []domain.Message{
				{
					ToOperators: true,
					Subject:     fmt.Sprintf("New External Transfer Request: $%s", amount),
					Body:        approval,
				},
				{
					UserIDs: []string{entry.UserID},
					Subject: fmt.Sprintf("Debit Alert: -$%s", amount),
					Body:    fmt.Sprintf("You sent $%s to %s. The transfer is awaiting approval.\nTransaction ID: %s", amount, details.ReceiverName, entry.TransactionID),
				},
			},
		}

	case from == domain.StatusPending && to == domain.StatusFailed:
		return refund(entry, false)

	case from == domain.StatusCompleted && to == domain.StatusFailed:
		return refund(entry, internal)
	}
	return Effect{}
}

// refund reverses a settled transfer. The receiver leg may overdraw: the
// reversal is an operator decision and must not be blocked by what the
// receiver has since spent.
func refund(entry domain.Entry, reverseReceiver bool) Effect {
	amount := entry.Amount.StringFixed(2)
	effect := Effect{
		Postings:      []Posting{{AccountID: entry.AccountID, Amount: entry.Amount}},
		Notifications: []domain.Notification{notification(entry.UserID, domain.NotificationCreditAlert, entry)},
		Messages: []domain.Message{{
			UserIDs: []string{entry.UserID},
			Subject: fmt.Sprintf("Credit Alert: Refund +$%s", amount),
			Body:    fmt.Sprintf("Your transfer of $%s (ID: %s) failed and has been refunded to your account.", amount, entry.TransactionID),
		}},
	}

	if reverseReceiver && entry.Transfer.ReceiverAccountID != "" {
		effect.Postings = append(effect.Postings, Posting{
			AccountID:      entry.Transfer.ReceiverAccountID,
			Amount:         entry.Amount.Neg(),
			AllowOverdraft: true,
		})
		effect.Notifications = append(effect.Notifications, notification(entry.Transfer.ReceiverUserID, domain.NotificationDebitAlert, entry))
	}
	return effect
}

func reactWithdrawal(entry domain.Entry, from domain.Status, to domain.Status) Effect {
	if from != domain.StatusProcessing || to != domain.StatusCompleted {
		return Effect{}
	}

	amount := entry.Amount.StringFixed(2)
	return Effect{
		Postings:      []Posting{{AccountID: entry.AccountID, Amount: entry.Amount.Neg()}},
		Notifications: []domain.Notification{notification(entry.UserID, domain.NotificationDebitAlert, entry)},
		Messages: []domain.Message{{
			UserIDs: []string{entry.UserID},
			Subject: fmt.Sprintf("Debit Alert: -$%s", amount),
			Body:    fmt.Sprintf("Your withdrawal of $%s has been processed.\nTransaction ID: %s", amount, entry.TransactionID),
		}},
	}
}

func reactPaymentRequest(entry domain.Entry, from domain.Status, to domain.Status) Effect {
	if entry.PaymentRequest == nil {
		return Effect{}
	}
	details := entry.PaymentRequest

	switch {
	case from == domain.StatusProcessing && to == domain.StatusRequestSent:
		return Effect{
			Notifications: []domain.Notification{
				notification(details.ReceiverUserID, domain.NotificationReceivedPaymentRequest, entry),
				notification(details.SenderUserID, domain.NotificationSentPaymentRequest, entry),
			},
		}
	case from == domain.StatusRequestSent && to == domain.StatusRequestSettled:
		return Effect{
			Postings: []Posting{
				{AccountID: details.ReceiverAccountID, Amount: entry.Amount.Neg()},
				{AccountID: details.SenderAccountID, Amount: entry.Amount},
			},
			Notifications: []domain.Notification{
				notification(details.ReceiverUserID, domain.NotificationDebitAlert, entry),
				notification(details.SenderUserID, domain.NotificationCreditAlert, entry),
			},
		}
	}
	return Effect{}
}

func notification(userID string, kind domain.NotificationType, entry domain.Entry) domain.Notification {
	transactionID := entry.TransactionID
	return domain.Notification{
		UserID:        userID,
		Type:          kind,
		Amount:        entry.Amount,
		TransactionID: &transactionID,
	}
}
