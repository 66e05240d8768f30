// Package ledger owns every balance mutation. Status transitions on ledger
// entries and the balance effects they cause are applied together inside
// one unit of work; notifications leave the engine only after commit.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/guard"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const maxTransactionIDAttempts = 5

// Dispatcher receives committed notifications and outbound messages.
// Implementations must not block.
type Dispatcher interface {
	Dispatch(ctx context.Context, notifications []domain.Notification, messages []domain.Message)
}

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(context.Context, []domain.Notification, []domain.Message) {}

type Engine struct {
	uow        domain.UnitOfWork
	guard      *guard.Guard
	dispatcher Dispatcher
	pinCost    int
	now        func() time.Time
}

type EngineOption func(*Engine)

func WithDispatcher(d Dispatcher) EngineOption {
	return func(e *Engine) {
		if d != nil {
			e.dispatcher = d
		}
	}
}

func WithPinCost(cost int) EngineOption {
	return func(e *Engine) {
		e.pinCost = cost
	}
}

func WithNow(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(uow domain.UnitOfWork, g *guard.Guard, opts ...EngineOption) *Engine {
	if g == nil {
		g = guard.New()
	}
	e := &Engine{
		uow:        uow,
		guard:      g,
		dispatcher: noopDispatcher{},
		pinCost:    bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type CreateRequest struct {
	Entry domain.Entry
	// RequireUnfrozen lists accounts that must not carry an active freeze.
	RequireUnfrozen []string
}

// Create persists a new entry in its initial status. An entry created
// directly in a settling status (a deposit created as completed) has the
// creation edge's effect applied in the same unit of work.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (domain.Entry, error) {
	entry := req.Entry
	if err := validateEntry(entry); err != nil {
		return domain.Entry{}, err
	}
	if err := CheckTransition(entry, "", entry.Status); err != nil {
		return domain.Entry{}, err
	}

	logger.Info("ledger engine create entry", logger.Fields{
		"kind":      entry.Kind,
		"accountId": entry.AccountID,
		"amount":    entry.Amount.StringFixed(2),
		"status":    entry.Status,
	})

	var (
		created domain.Entry
		out     outbound
		err     error
	)
	for attempt := 0; attempt < maxTransactionIDAttempts; attempt++ {
		entry.TransactionID, err = domain.NewTransactionID(entry.Kind)
		if err != nil {
			return domain.Entry{}, err
		}
		now := e.now().UTC()
		entry.CreatedAt = now
		entry.UpdatedAt = now

		err = e.uow.WithinTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			accounts, err := tx.LockAccounts(ctx, entry.AccountIDs()...)
			if err != nil {
				return err
			}
			if err := e.ensureNotFrozen(ctx, tx, req.RequireUnfrozen); err != nil {
				return err
			}

			created, err = tx.InsertEntry(ctx, entry)
			if err != nil {
				return err
			}

			out, err = e.apply(ctx, tx, accounts, React(created, "", created.Status))
			return err
		})
		if !errors.Is(err, domain.ErrDuplicateKey) {
			break
		}
	}
	if err != nil {
		logger.Error("ledger engine create entry failed", err, logger.Fields{
			"kind":      entry.Kind,
			"accountId": entry.AccountID,
		})
		return domain.Entry{}, err
	}

	e.dispatch(ctx, out)
	logger.Info("ledger engine create entry success", logger.Fields{
		"transactionId": created.TransactionID,
		"status":        created.Status,
	})
	return created, nil
}

type TransitionRequest struct {
	TransactionID string
	// From is the status the caller read; the write fails with
	// domain.ErrAlreadyProcessed if the entry has moved since.
	From domain.Status
	To   domain.Status
	// RequireUnfrozen rejects the transition if any account on the entry
	// is frozen. Operator actions leave it off.
	RequireUnfrozen bool
	// Check runs against the locked entry before anything is written.
	Check func(entry domain.Entry) error
}

// Transition moves an entry along one edge of its state machine and applies
// the edge's balance effect atomically with the status write.
func (e *Engine) Transition(ctx context.Context, req TransitionRequest) (domain.Entry, error) {
	logger.Info("ledger engine transition", logger.Fields{
		"transactionId": req.TransactionID,
		"from":          req.From,
		"to":            req.To,
	})

	var (
		updated domain.Entry
		out     outbound
	)
	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
		entry, err := tx.GetEntry(ctx, req.TransactionID)
		if err != nil {
			return err
		}
		accounts, err := tx.LockAccounts(ctx, entry.AccountIDs()...)
		if err != nil {
			return err
		}
		entry, err = tx.GetEntry(ctx, req.TransactionID)
		if err != nil {
			return err
		}
		if err := e.precheck(ctx, tx, entry, req); err != nil {
			return err
		}

		out, err = e.apply(ctx, tx, accounts, React(entry, req.From, req.To))
		if err != nil {
			return err
		}
		if err := tx.CompareAndSetStatus(ctx, entry.TransactionID, req.From, req.To); err != nil {
			return err
		}

		entry.Status = req.To
		entry.UpdatedAt = e.now().UTC()
		updated = entry
		return nil
	})
	if err != nil {
		logger.Error("ledger engine transition failed", err, logger.Fields{
			"transactionId": req.TransactionID,
			"from":          req.From,
			"to":            req.To,
		})
		return domain.Entry{}, err
	}

	e.dispatch(ctx, out)
	logger.Info("ledger engine transition success", logger.Fields{
		"transactionId": updated.TransactionID,
		"status":        updated.Status,
	})
	return updated, nil
}

type AuthorizeRequest struct {
	PinAccountID string
	Pin          string
	Transition   TransitionRequest
}

// Authorize verifies the PIN of PinAccountID and, on success, performs the
// transition. The PIN counter update commits on its own so failed attempts
// persist even though the transition is never attempted.
func (e *Engine) Authorize(ctx context.Context, req AuthorizeRequest) (domain.Entry, error) {
	if err := e.verifyPin(ctx, req); err != nil {
		return domain.Entry{}, err
	}
	return e.Transition(ctx, req.Transition)
}

func (e *Engine) verifyPin(ctx context.Context, req AuthorizeRequest) error {
	var pinErr error
	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
		entry, err := tx.GetEntry(ctx, req.Transition.TransactionID)
		if err != nil {
			return err
		}
		accounts, err := tx.LockAccounts(ctx, req.PinAccountID)
		if err != nil {
			return err
		}
		if err := e.precheck(ctx, tx, entry, req.Transition); err != nil {
			return err
		}

		account := accounts[req.PinAccountID]
		pinErr = e.guard.VerifyPin(&account, req.Pin)
		return tx.UpdatePinState(ctx, account)
	})
	if err != nil {
		return err
	}
	if pinErr != nil {
		logger.Info("ledger engine pin rejected", logger.Fields{
			"accountId":     req.PinAccountID,
			"transactionId": req.Transition.TransactionID,
			"reason":        pinErr.Error(),
		})
	}
	return pinErr
}

// ChangePin replaces the account PIN after verifying the current one.
// Failed verification counts towards the lockout like any other attempt.
func (e *Engine) ChangePin(ctx context.Context, accountID string, currentPin string, newPin string) error {
	if err := guard.ValidatePinFormat(newPin); err != nil {
		return err
	}

	var pinErr error
	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
		accounts, err := tx.LockAccounts(ctx, accountID)
		if err != nil {
			return err
		}
		account := accounts[accountID]
		pinErr = e.guard.VerifyPin(&account, currentPin)
		if err := tx.UpdatePinState(ctx, account); err != nil {
			return err
		}
		if pinErr != nil {
			return nil
		}

		hash, err := guard.HashPinWithCost(newPin, e.pinCost)
		if err != nil {
			return err
		}
		return tx.UpdatePinHash(ctx, accountID, hash)
	})
	if err != nil {
		return err
	}
	return pinErr
}

// Freeze places an active freeze on the account. A second freeze while one
// is active returns the existing record with created=false and emits
// nothing.
func (e *Engine) Freeze(ctx context.Context, accountID string, reason domain.FreezeReason, notes string) (domain.AccountFreeze, bool, error) {
	if !reason.Valid() {
		return domain.AccountFreeze{}, false, domain.NewValidationError("reason is not supported")
	}

	var (
		freeze  domain.AccountFreeze
		created bool
		out     outbound
	)
	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
		accounts, err := tx.LockAccounts(ctx, accountID)
		if err != nil {
			return err
		}
		active, err := tx.ActiveFreeze(ctx, accountID)
		if err != nil {
			return err
		}
		if active != nil {
			freeze = *active
			return nil
		}

		freeze, err = tx.InsertFreeze(ctx, domain.AccountFreeze{
			AccountID: accountID,
			Reason:    reason,
			Notes:     strings.TrimSpace(notes),
			IsActive:  true,
			FrozenAt:  e.now().UTC(),
		})
		if err != nil {
			return err
		}
		created = true

		owner := accounts[accountID].UserID
		out, err = e.apply(ctx, tx, accounts, Effect{
			Notifications: []domain.Notification{{UserID: owner, Type: domain.NotificationAccountFrozen}},
			Messages: []domain.Message{{
				UserIDs: []string{owner},
				Subject: "Urgent: Account Frozen",
				Body:    fmt.Sprintf("Your account has been frozen due to: %s.\n\nNotes: %s\n\nPlease contact support immediately.", reason.Display(), freeze.Notes),
			}},
		})
		return err
	})
	if err != nil {
		logger.Error("ledger engine freeze failed", err, logger.Fields{"accountId": accountID})
		return domain.AccountFreeze{}, false, err
	}

	e.dispatch(ctx, out)
	logger.Info("ledger engine freeze", logger.Fields{
		"accountId": accountID,
		"freezeId":  freeze.ID,
		"created":   created,
	})
	return freeze, created, nil
}

// Unfreeze lifts the active freeze, if any. lifted is false when the
// account was not frozen.
func (e *Engine) Unfreeze(ctx context.Context, accountID string) (bool, error) {
	var (
		lifted bool
		out    outbound
	)
	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
		accounts, err := tx.LockAccounts(ctx, accountID)
		if err != nil {
			return err
		}
		active, err := tx.ActiveFreeze(ctx, accountID)
		if err != nil || active == nil {
			return err
		}
		if err := tx.DeactivateFreeze(ctx, active.ID, e.now().UTC()); err != nil {
			return err
		}
		lifted = true

		owner := accounts[accountID].UserID
		out, err = e.apply(ctx, tx, accounts, Effect{
			Notifications: []domain.Notification{{UserID: owner, Type: domain.NotificationAccountRestored}},
			Messages: []domain.Message{{
				UserIDs: []string{owner},
				Subject: "Account Restored: Freeze Lifted",
				Body:    "Good news! The freeze on your account has been lifted. You can now access your funds normally.",
			}},
		})
		return err
	})
	if err != nil {
		logger.Error("ledger engine unfreeze failed", err, logger.Fields{"accountId": accountID})
		return false, err
	}

	e.dispatch(ctx, out)
	logger.Info("ledger engine unfreeze", logger.Fields{"accountId": accountID, "lifted": lifted})
	return lifted, nil
}

// DeletePaymentRequest hard-deletes a request that has not been sent yet.
// Only its creator may do so; no funds have moved, so nothing is reversed.
func (e *Engine) DeletePaymentRequest(ctx context.Context, transactionID string, userID string) error {
	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
		entry, err := tx.GetEntry(ctx, transactionID)
		if err != nil {
			return err
		}
		if entry.Kind != domain.KindPaymentRequest {
			return domain.NewValidationError("only payment requests can be deleted")
		}
		if entry.UserID != userID {
			return domain.ErrForbidden
		}
		if entry.Status != domain.StatusProcessing {
			return fmt.Errorf("%w: payment request is %s", domain.ErrInvalidTransition, entry.Status)
		}
		return tx.DeleteEntry(ctx, transactionID, domain.StatusProcessing)
	})
	if err != nil {
		logger.Error("ledger engine delete payment request failed", err, logger.Fields{"transactionId": transactionID})
		return err
	}

	logger.Info("ledger engine delete payment request", logger.Fields{"transactionId": transactionID})
	return nil
}

func (e *Engine) precheck(ctx context.Context, tx domain.LedgerTx, entry domain.Entry, req TransitionRequest) error {
	if entry.Status != req.From {
		return fmt.Errorf("%w: %s is %s", domain.ErrAlreadyProcessed, entry.TransactionID, entry.Status)
	}
	if req.Check != nil {
		if err := req.Check(entry); err != nil {
			return err
		}
	}
	if err := CheckTransition(entry, req.From, req.To); err != nil {
		return err
	}
	if req.RequireUnfrozen {
		return e.ensureNotFrozen(ctx, tx, entry.AccountIDs())
	}
	return nil
}

func (e *Engine) ensureNotFrozen(ctx context.Context, tx domain.LedgerTx, accountIDs []string) error {
	for _, id := range accountIDs {
		freeze, err := tx.ActiveFreeze(ctx, id)
		if err != nil {
			return err
		}
		if err := e.guard.CheckNotFrozen(id, freeze); err != nil {
			return err
		}
	}
	return nil
}

type outbound struct {
	notifications []domain.Notification
	messages      []domain.Message
}

// apply writes an effect's postings against the locked accounts and
// persists its notifications. Balances are re-validated here, under the
// account locks, immediately before each debit.
func (e *Engine) apply(ctx context.Context, tx domain.LedgerTx, accounts map[string]domain.Account, effect Effect) (outbound, error) {
	if effect.IsZero() {
		return outbound{}, nil
	}
	for _, posting := range effect.Postings {
		account, ok := accounts[posting.AccountID]
		if !ok {
			return outbound{}, fmt.Errorf("posting on unlocked account %q", posting.AccountID)
		}

		balance := account.Balance.Add(posting.Amount)
		if balance.IsNegative() && !posting.AllowOverdraft {
			return outbound{}, fmt.Errorf("%w: account %s", domain.ErrInsufficientBalance, account.AccountNumber)
		}
		if err := tx.SetBalance(ctx, account.ID, balance); err != nil {
			return outbound{}, err
		}

		account.Balance = balance
		accounts[posting.AccountID] = account
	}

	out := outbound{messages: effect.Messages}
	for _, n := range effect.Notifications {
		if n.UserID == "" {
			continue
		}
		n.ID = uuid.NewString()
		n.CreatedAt = e.now().UTC()
		saved, err := tx.InsertNotification(ctx, n)
		if err != nil {
			return outbound{}, err
		}
		out.notifications = append(out.notifications, saved)
	}
	return out, nil
}

func (e *Engine) dispatch(ctx context.Context, out outbound) {
	if len(out.notifications) == 0 && len(out.messages) == 0 {
		return
	}
	e.dispatcher.Dispatch(context.WithoutCancel(ctx), out.notifications, out.messages)
}

func validateEntry(entry domain.Entry) error {
	var problems []string

	if !entry.Kind.Valid() {
		problems = append(problems, "kind is not supported")
	}
	if strings.TrimSpace(entry.AccountID) == "" {
		problems = append(problems, "account is required")
	}
	if !entry.Amount.IsPositive() {
		problems = append(problems, "amount must be greater than zero")
	} else if !entry.Amount.Equal(entry.Amount.Round(2)) {
		problems = append(problems, "amount must have at most two decimal places")
	} else if entry.Amount.GreaterThan(domain.MaxEntryAmount) {
		problems = append(problems, "amount must not exceed "+domain.MaxEntryAmount.StringFixed(2))
	}

	switch entry.Kind {
	case domain.KindTransfer:
		if entry.Transfer == nil {
			problems = append(problems, "transfer details are required")
		} else if entry.Transfer.Type == domain.TransferInternal && entry.Transfer.ReceiverAccountID == "" {
			problems = append(problems, "receiver account is required for internal transfers")
		} else if entry.Transfer.ReceiverAccountID == entry.AccountID {
			problems = append(problems, "sender and receiver accounts cannot be the same")
		}
	case domain.KindDeposit:
		if entry.Deposit == nil {
			problems = append(problems, "deposit details are required")
		}
	case domain.KindWithdrawal:
		if entry.Withdrawal == nil {
			problems = append(problems, "withdrawal details are required")
		}
	case domain.KindPaymentRequest:
		if entry.PaymentRequest == nil {
			problems = append(problems, "payment request details are required")
		} else if entry.PaymentRequest.SenderAccountID == entry.PaymentRequest.ReceiverAccountID {
			problems = append(problems, "payment request sender and receiver cannot be the same account")
		}
	}

	if len(problems) > 0 {
		return domain.NewValidationError(problems...)
	}
	return nil
}
