package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/guard"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPin = "1234"

type recordingDispatcher struct {
	mu            sync.Mutex
	notifications []domain.Notification
	messages      []domain.Message
}

func (d *recordingDispatcher) Dispatch(_ context.Context, notifications []domain.Notification, messages []domain.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifications = append(d.notifications, notifications...)
	d.messages = append(d.messages, messages...)
}

func (d *recordingDispatcher) types() []domain.NotificationType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.NotificationType, 0, len(d.notifications))
	for _, n := range d.notifications {
		out = append(out, n.Type)
	}
	return out
}

type harness struct {
	store      *memory.Store
	engine     *Engine
	dispatcher *recordingDispatcher
}

func newHarness(t *testing.T, balances map[string]string) *harness {
	t.Helper()

	hash, err := guard.HashPinWithCost(testPin, bcrypt.MinCost)
	require.NoError(t, err)

	store := memory.NewStore()
	for _, id := range []string{"a", "b"} {
		userID := "user-" + id
		store.AddUser(domain.User{ID: userID, Email: id + "@example.com"})
		balance := decimal.Zero
		if raw, ok := balances[id]; ok {
			balance = decimal.RequireFromString(raw)
		}
		require.NoError(t, store.AddAccount(domain.Account{
			ID:            "acc-" + id,
			UserID:        userID,
			AccountNumber: "10000000" + id,
			Balance:       balance,
			PinHash:       hash,
			KYCConfirmed:  true,
		}))
	}

	dispatcher := &recordingDispatcher{}
	engine := NewEngine(store, guard.New(), WithDispatcher(dispatcher), WithPinCost(bcrypt.MinCost))
	return &harness{store: store, engine: engine, dispatcher: dispatcher}
}

func (h *harness) balance(accountID string) string {
	return h.store.Balance(accountID).StringFixed(2)
}

func internalTransfer(amount string) domain.Entry {
	return domain.Entry{
		Kind:      domain.KindTransfer,
		UserID:    "user-a",
		AccountID: "acc-a",
		Amount:    decimal.RequireFromString(amount),
		Status:    domain.StatusProcessing,
		Transfer: &domain.TransferDetails{
			Type:              domain.TransferInternal,
			ReceiverUserID:    "user-b",
			ReceiverAccountID: "acc-b",
			ReceiverName:      "B",
			ReceiverBank:      domain.InternalBankName,
		},
	}
}

func externalTransfer(amount string) domain.Entry {
	return domain.Entry{
		Kind:      domain.KindTransfer,
		UserID:    "user-a",
		AccountID: "acc-a",
		Amount:    decimal.RequireFromString(amount),
		Status:    domain.StatusProcessing,
		Transfer: &domain.TransferDetails{
			Type:                  domain.TransferExternal,
			ReceiverName:          "Acme",
			ReceiverBank:          "Acme Bank",
			ReceiverAccountNumber: "123456",
		},
	}
}

func authorize(id string, from, to domain.Status, pin string) AuthorizeRequest {
	return AuthorizeRequest{
		PinAccountID: "acc-a",
		Pin:          pin,
		Transition: TransitionRequest{
			TransactionID:   id,
			From:            from,
			To:              to,
			RequireUnfrozen: true,
		},
	}
}

func TestInternalTransferMovesExactAmount(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "100.00", "b": "25.50"})
	ctx := context.Background()

	entry, err := h.engine.Create(ctx, CreateRequest{Entry: internalTransfer("40.25"), RequireUnfrozen: []string{"acc-a", "acc-b"}})
	require.NoError(t, err)
	assert.Regexp(t, `^TRF[0-9A-F]{15}$`, entry.TransactionID)
	assert.Equal(t, "100.00", h.balance("acc-a"), "creation moves no funds")

	done, err := h.engine.Authorize(ctx, authorize(entry.TransactionID, domain.StatusProcessing, domain.StatusCompleted, testPin))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status)

	assert.Equal(t, "59.75", h.balance("acc-a"))
	assert.Equal(t, "65.75", h.balance("acc-b"))
	assert.True(t, h.store.Balance("acc-a").Add(h.store.Balance("acc-b")).Equal(decimal.RequireFromString("125.50")))
	assert.Equal(t, []domain.NotificationType{domain.NotificationDebitAlert, domain.NotificationCreditAlert}, h.dispatcher.types())
}

func TestReversalRestoresBalancesOnce(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "100.00", "b": "0.00"})
	ctx := context.Background()

	entry, err := h.engine.Create(ctx, CreateRequest{Entry: internalTransfer("30.00")})
	require.NoError(t, err)
	_, err = h.engine.Authorize(ctx, authorize(entry.TransactionID, domain.StatusProcessing, domain.StatusCompleted, testPin))
	require.NoError(t, err)

	reverse := TransitionRequest{TransactionID: entry.TransactionID, From: domain.StatusCompleted, To: domain.StatusFailed}
	_, err = h.engine.Transition(ctx, reverse)
	require.NoError(t, err)
	assert.Equal(t, "100.00", h.balance("acc-a"))
	assert.Equal(t, "0.00", h.balance("acc-b"))

	_, err = h.engine.Transition(ctx, reverse)
	require.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Equal(t, "100.00", h.balance("acc-a"))
	assert.Equal(t, "0.00", h.balance("acc-b"))
}

func TestReversalMayOverdrawReceiver(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "50.00"})
	ctx := context.Background()

	entry, err := h.engine.Create(ctx, CreateRequest{Entry: internalTransfer("50.00")})
	require.NoError(t, err)
	_, err = h.engine.Authorize(ctx, authorize(entry.TransactionID, domain.StatusProcessing, domain.StatusCompleted, testPin))
	require.NoError(t, err)

	// receiver spends the funds
	require.NoError(t, h.store.WithinTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
		if _, err := tx.LockAccounts(ctx, "acc-b"); err != nil {
			return err
		}
		return tx.SetBalance(ctx, "acc-b", decimal.RequireFromString("10.00"))
	}))

	_, err = h.engine.Transition(ctx, TransitionRequest{TransactionID: entry.TransactionID, From: domain.StatusCompleted, To: domain.StatusFailed})
	require.NoError(t, err)
	assert.Equal(t, "50.00", h.balance("acc-a"))
	assert.Equal(t, "-40.00", h.balance("acc-b"))
}

func TestDepositCreditedExactlyOnce(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	entry, err := h.engine.Create(ctx, CreateRequest{Entry: domain.Entry{
		Kind:      domain.KindDeposit,
		UserID:    "user-a",
		AccountID: "acc-a",
		Amount:    decimal.RequireFromString("75.00"),
		Status:    domain.StatusPending,
		Deposit:   &domain.DepositDetails{Method: domain.DepositBankTransfer},
	}})
	require.NoError(t, err)

	complete := TransitionRequest{TransactionID: entry.TransactionID, From: domain.StatusPending, To: domain.StatusCompleted}
	_, err = h.engine.Transition(ctx, complete)
	require.NoError(t, err)
	_, err = h.engine.Transition(ctx, complete)
	require.ErrorIs(t, err, domain.ErrAlreadyProcessed)

	_, err = h.engine.Transition(ctx, TransitionRequest{TransactionID: entry.TransactionID, From: domain.StatusCompleted, To: domain.StatusCompleted})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, "75.00", h.balance("acc-a"))
}

func TestDepositCreatedCompletedCreditsOnCreate(t *testing.T) {
	h := newHarness(t, nil)

	entry, err := h.engine.Create(context.Background(), CreateRequest{Entry: domain.Entry{
		Kind:      domain.KindDeposit,
		UserID:    "user-a",
		AccountID: "acc-a",
		Amount:    decimal.RequireFromString("12.34"),
		Status:    domain.StatusCompleted,
		Deposit:   &domain.DepositDetails{Method: domain.DepositSavedCard, CardID: "card-1"},
	}})
	require.NoError(t, err)
	assert.Regexp(t, `^DEP`, entry.TransactionID)
	assert.Equal(t, "12.34", h.balance("acc-a"))
	assert.Equal(t, []domain.NotificationType{domain.NotificationCreditAlert}, h.dispatcher.types())
}

func TestAuthorizeFrozenSenderMovesNothing(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "100.00"})
	ctx := context.Background()

	entry, err := h.engine.Create(ctx, CreateRequest{Entry: internalTransfer("10.00")})
	require.NoError(t, err)

	_, created, err := h.engine.Freeze(ctx, "acc-a", domain.FreezeReasonSecurity, "card stolen")
	require.NoError(t, err)
	require.True(t, created)

	_, err = h.engine.Authorize(ctx, authorize(entry.TransactionID, domain.StatusProcessing, domain.StatusCompleted, testPin))
	require.ErrorIs(t, err, domain.ErrAccountFrozen)

	var frozen *domain.FrozenError
	require.ErrorAs(t, err, &frozen)
	assert.Equal(t, domain.FreezeReasonSecurity, frozen.Reason)
	assert.Equal(t, "card stolen", frozen.Notes)

	assert.Equal(t, "100.00", h.balance("acc-a"))
	assert.Equal(t, "0.00", h.balance("acc-b"))
	stored, err := h.store.Entries().Get(ctx, entry.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, stored.Status)
}

func TestCreateRejectsFrozenAccount(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "100.00"})
	ctx := context.Background()

	_, _, err := h.engine.Freeze(ctx, "acc-b", domain.FreezeReasonCompliance, "")
	require.NoError(t, err)

	_, err = h.engine.Create(ctx, CreateRequest{Entry: internalTransfer("10.00"), RequireUnfrozen: []string{"acc-a", "acc-b"}})
	require.ErrorIs(t, err, domain.ErrAccountFrozen)

	list, err := h.store.Entries().List(ctx, domain.EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestConcurrentAuthorizeSettlesOnce(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "100.00"})
	ctx := context.Background()

	entry, err := h.engine.Create(ctx, CreateRequest{Entry: internalTransfer("60.00")})
	require.NoError(t, err)

	const callers = 2
	errs := make([]error, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = h.engine.Authorize(ctx, authorize(entry.TransactionID, domain.StatusProcessing, domain.StatusCompleted, testPin))
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, "40.00", h.balance("acc-a"))
	assert.Equal(t, "60.00", h.balance("acc-b"))
}

func reverseTransfer(amount string) domain.Entry {
	entry := internalTransfer(amount)
	entry.UserID, entry.AccountID = "user-b", "acc-b"
	entry.Transfer.ReceiverUserID, entry.Transfer.ReceiverAccountID = "user-a", "acc-a"
	entry.Transfer.ReceiverName = "A"
	return entry
}

func TestOpposingTransfersDoNotDeadlock(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "1000.00", "b": "1000.00"})
	ctx := context.Background()

	const perDirection = 25
	requests := make([]AuthorizeRequest, 0, 2*perDirection)
	for i := 0; i < perDirection; i++ {
		forward, err := h.engine.Create(ctx, CreateRequest{Entry: internalTransfer("3.00")})
		require.NoError(t, err)
		requests = append(requests, authorize(forward.TransactionID, domain.StatusProcessing, domain.StatusCompleted, testPin))

		backward, err := h.engine.Create(ctx, CreateRequest{Entry: reverseTransfer("5.00")})
		require.NoError(t, err)
		req := authorize(backward.TransactionID, domain.StatusProcessing, domain.StatusCompleted, testPin)
		req.PinAccountID = "acc-b"
		requests = append(requests, req)
	}

	errs := make([]error, len(requests))
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req AuthorizeRequest) {
			defer wg.Done()
			<-start
			_, errs[i] = h.engine.Authorize(ctx, req)
		}(i, req)
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	close(start)

	select {
	case <-finished:
	case <-time.After(10 * time.Second):
		t.Fatal("opposing transfers did not finish, accounts are locked in inconsistent order")
	}

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, "1050.00", h.balance("acc-a"))
	assert.Equal(t, "950.00", h.balance("acc-b"))
	assert.True(t, h.store.Balance("acc-a").Add(h.store.Balance("acc-b")).Equal(decimal.RequireFromString("2000.00")))
}

func TestWithdrawalRechecksBalanceBeforeDebit(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "100.00"})
	ctx := context.Background()

	withdrawal, err := h.engine.Create(ctx, CreateRequest{Entry: domain.Entry{
		Kind:       domain.KindWithdrawal,
		UserID:     "user-a",
		AccountID:  "acc-a",
		Amount:     decimal.RequireFromString("80.00"),
		Status:     domain.StatusPending,
		Withdrawal: &domain.WithdrawalDetails{BankName: "Acme Bank", AccountNumber: "123456", AccountName: "A"},
	}})
	require.NoError(t, err)

	transfer, err := h.engine.Create(ctx, CreateRequest{Entry: internalTransfer("50.00")})
	require.NoError(t, err)
	_, err = h.engine.Authorize(ctx, authorize(transfer.TransactionID, domain.StatusProcessing, domain.StatusCompleted, testPin))
	require.NoError(t, err)

	_, err = h.engine.Authorize(ctx, authorize(withdrawal.TransactionID, domain.StatusPending, domain.StatusProcessing, testPin))
	require.NoError(t, err)
	_, err = h.engine.Transition(ctx, TransitionRequest{TransactionID: withdrawal.TransactionID, From: domain.StatusProcessing, To: domain.StatusCompleted})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	assert.Equal(t, "50.00", h.balance("acc-a"))
	stored, err := h.store.Entries().Get(ctx, withdrawal.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, stored.Status)
}

func TestExternalTransferHeldThenRefunded(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "100.00"})
	ctx := context.Background()

	entry, err := h.engine.Create(ctx, CreateRequest{Entry: externalTransfer("40.00")})
	require.NoError(t, err)

	_, err = h.engine.Authorize(ctx, authorize(entry.TransactionID, domain.StatusProcessing, domain.StatusCompleted, testPin))
	require.ErrorIs(t, err, domain.ErrInvalidTransition, "external transfers wait for approval")

	pending, err := h.engine.Authorize(ctx, authorize(entry.TransactionID, domain.StatusProcessing, domain.StatusPending, testPin))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, pending.Status)
	assert.Equal(t, "60.00", h.balance("acc-a"))

	_, err = h.engine.Transition(ctx, TransitionRequest{TransactionID: entry.TransactionID, From: domain.StatusPending, To: domain.StatusFailed})
	require.NoError(t, err)
	assert.Equal(t, "100.00", h.balance("acc-a"))
}

func TestExternalTransferApprovalKeepsDebit(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "100.00"})
	ctx := context.Background()

	entry, err := h.engine.Create(ctx, CreateRequest{Entry: externalTransfer("40.00")})
	require.NoError(t, err)
	_, err = h.engine.Authorize(ctx, authorize(entry.TransactionID, domain.StatusProcessing, domain.StatusPending, testPin))
	require.NoError(t, err)

	_, err = h.engine.Transition(ctx, TransitionRequest{TransactionID: entry.TransactionID, From: domain.StatusPending, To: domain.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, "60.00", h.balance("acc-a"))

	_, err = h.engine.Transition(ctx, TransitionRequest{TransactionID: entry.TransactionID, From: domain.StatusCompleted, To: domain.StatusFailed})
	require.NoError(t, err)
	assert.Equal(t, "100.00", h.balance("acc-a"))
}

func TestIncorrectPinPersistsAcrossEntries(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "100.00"})
	ctx := context.Background()

	first, err := h.engine.Create(ctx, CreateRequest{Entry: internalTransfer("1.00")})
	require.NoError(t, err)
	second, err := h.engine.Create(ctx, CreateRequest{Entry: internalTransfer("2.00")})
	require.NoError(t, err)

	_, err = h.engine.Authorize(ctx, authorize(first.TransactionID, domain.StatusProcessing, domain.StatusCompleted, "0000"))
	var pinErr *domain.IncorrectPinError
	require.ErrorAs(t, err, &pinErr)
	assert.Equal(t, 4, pinErr.AttemptsRemaining)

	_, err = h.engine.Authorize(ctx, authorize(second.TransactionID, domain.StatusProcessing, domain.StatusCompleted, "0000"))
	require.ErrorAs(t, err, &pinErr)
	assert.Equal(t, 3, pinErr.AttemptsRemaining)

	account, err := h.store.Accounts().GetByID(ctx, "acc-a")
	require.NoError(t, err)
	assert.Equal(t, 2, account.FailedPinAttempts)
	assert.Equal(t, "100.00", h.balance("acc-a"))

	_, err = h.engine.Authorize(ctx, authorize(second.TransactionID, domain.StatusProcessing, domain.StatusCompleted, testPin))
	require.NoError(t, err)
	account, err = h.store.Accounts().GetByID(ctx, "acc-a")
	require.NoError(t, err)
	assert.Zero(t, account.FailedPinAttempts)
}

func TestAuthorizeLocksAfterRepeatedFailures(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "100.00"})
	ctx := context.Background()

	entry, err := h.engine.Create(ctx, CreateRequest{Entry: internalTransfer("1.00")})
	require.NoError(t, err)

	for i := 0; i < guard.DefaultMaxPinAttempts-1; i++ {
		_, err = h.engine.Authorize(ctx, authorize(entry.TransactionID, domain.StatusProcessing, domain.StatusCompleted, "9999"))
		require.ErrorIs(t, err, domain.ErrIncorrectPin)
	}
	_, err = h.engine.Authorize(ctx, authorize(entry.TransactionID, domain.StatusProcessing, domain.StatusCompleted, "9999"))
	require.ErrorIs(t, err, domain.ErrLocked)

	_, err = h.engine.Authorize(ctx, authorize(entry.TransactionID, domain.StatusProcessing, domain.StatusCompleted, testPin))
	require.ErrorIs(t, err, domain.ErrLocked)
	assert.Equal(t, "100.00", h.balance("acc-a"))
}

func TestPaymentRequestLifecycle(t *testing.T) {
	h := newHarness(t, map[string]string{"b": "30.00"})
	ctx := context.Background()

	request, err := h.engine.Create(ctx, CreateRequest{Entry: domain.Entry{
		Kind:      domain.KindPaymentRequest,
		UserID:    "user-a",
		AccountID: "acc-a",
		Amount:    decimal.RequireFromString("20.00"),
		Status:    domain.StatusProcessing,
		PaymentRequest: &domain.PaymentRequestDetails{
			SenderUserID:      "user-a",
			SenderAccountID:   "acc-a",
			ReceiverUserID:    "user-b",
			ReceiverAccountID: "acc-b",
		},
	}})
	require.NoError(t, err)
	assert.Regexp(t, `^REQ`, request.TransactionID)

	_, err = h.engine.Authorize(ctx, authorize(request.TransactionID, domain.StatusProcessing, domain.StatusRequestSent, testPin))
	require.NoError(t, err)
	assert.Equal(t, []domain.NotificationType{domain.NotificationReceivedPaymentRequest, domain.NotificationSentPaymentRequest}, h.dispatcher.types())

	require.ErrorIs(t, h.engine.DeletePaymentRequest(ctx, request.TransactionID, "user-a"), domain.ErrInvalidTransition)

	settle := AuthorizeRequest{
		PinAccountID: "acc-b",
		Pin:          testPin,
		Transition: TransitionRequest{
			TransactionID:   request.TransactionID,
			From:            domain.StatusRequestSent,
			To:              domain.StatusRequestSettled,
			RequireUnfrozen: true,
		},
	}
	_, err = h.engine.Authorize(ctx, settle)
	require.NoError(t, err)
	assert.Equal(t, "20.00", h.balance("acc-a"))
	assert.Equal(t, "10.00", h.balance("acc-b"))
}

func TestPaymentRequestSettlementShortLeavesStatus(t *testing.T) {
	h := newHarness(t, map[string]string{"b": "5.00"})
	ctx := context.Background()

	request, err := h.engine.Create(ctx, CreateRequest{Entry: domain.Entry{
		Kind:      domain.KindPaymentRequest,
		UserID:    "user-a",
		AccountID: "acc-a",
		Amount:    decimal.RequireFromString("20.00"),
		Status:    domain.StatusProcessing,
		PaymentRequest: &domain.PaymentRequestDetails{
			SenderUserID:      "user-a",
			SenderAccountID:   "acc-a",
			ReceiverUserID:    "user-b",
			ReceiverAccountID: "acc-b",
		},
	}})
	require.NoError(t, err)
	_, err = h.engine.Transition(ctx, TransitionRequest{TransactionID: request.TransactionID, From: domain.StatusProcessing, To: domain.StatusRequestSent})
	require.NoError(t, err)

	_, err = h.engine.Transition(ctx, TransitionRequest{TransactionID: request.TransactionID, From: domain.StatusRequestSent, To: domain.StatusRequestSettled})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	stored, err := h.store.Entries().Get(ctx, request.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRequestSent, stored.Status)
	assert.Equal(t, "5.00", h.balance("acc-b"))
	assert.Equal(t, "0.00", h.balance("acc-a"))
}

func TestDeletePaymentRequestCreatorOnly(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	request, err := h.engine.Create(ctx, CreateRequest{Entry: domain.Entry{
		Kind:      domain.KindPaymentRequest,
		UserID:    "user-a",
		AccountID: "acc-a",
		Amount:    decimal.RequireFromString("20.00"),
		Status:    domain.StatusProcessing,
		PaymentRequest: &domain.PaymentRequestDetails{
			SenderUserID:      "user-a",
			SenderAccountID:   "acc-a",
			ReceiverUserID:    "user-b",
			ReceiverAccountID: "acc-b",
		},
	}})
	require.NoError(t, err)

	require.ErrorIs(t, h.engine.DeletePaymentRequest(ctx, request.TransactionID, "user-b"), domain.ErrForbidden)
	require.NoError(t, h.engine.DeletePaymentRequest(ctx, request.TransactionID, "user-a"))

	_, err = h.store.Entries().Get(ctx, request.TransactionID)
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestFreezeIsIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	first, created, err := h.engine.Freeze(ctx, "acc-a", domain.FreezeReasonSuspiciousActivity, "  odd logins ")
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, "odd logins", first.Notes)

	again, created, err := h.engine.Freeze(ctx, "acc-a", domain.FreezeReasonOther, "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, []domain.NotificationType{domain.NotificationAccountFrozen}, h.dispatcher.types())

	_, _, err = h.engine.Freeze(ctx, "acc-a", domain.FreezeReason("bogus"), "")
	require.ErrorIs(t, err, domain.ErrValidation)

	lifted, err := h.engine.Unfreeze(ctx, "acc-a")
	require.NoError(t, err)
	assert.True(t, lifted)

	lifted, err = h.engine.Unfreeze(ctx, "acc-a")
	require.NoError(t, err)
	assert.False(t, lifted)

	assert.Equal(t, []domain.NotificationType{domain.NotificationAccountFrozen, domain.NotificationAccountRestored}, h.dispatcher.types())
}

func TestChangePin(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	require.ErrorIs(t, h.engine.ChangePin(ctx, "acc-a", testPin, "12a4"), domain.ErrValidation)
	require.ErrorIs(t, h.engine.ChangePin(ctx, "acc-a", "0000", "4321"), domain.ErrIncorrectPin)
	require.NoError(t, h.engine.ChangePin(ctx, "acc-a", testPin, "4321"))

	account, err := h.store.Accounts().GetByID(ctx, "acc-a")
	require.NoError(t, err)
	assert.Zero(t, account.FailedPinAttempts)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PinHash), []byte("4321")))
}

func TestCreateValidatesEntry(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	zero := internalTransfer("0")
	_, err := h.engine.Create(ctx, CreateRequest{Entry: zero})
	require.ErrorIs(t, err, domain.ErrValidation)

	fractional := internalTransfer("1.005")
	_, err = h.engine.Create(ctx, CreateRequest{Entry: fractional})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.engine.Create(ctx, CreateRequest{Entry: internalTransfer("100000.01")})
	require.ErrorIs(t, err, domain.ErrValidation)

	self := internalTransfer("1.00")
	self.Transfer.ReceiverAccountID = "acc-a"
	_, err = h.engine.Create(ctx, CreateRequest{Entry: self})
	require.ErrorIs(t, err, domain.ErrValidation)

	wrongStart := internalTransfer("1.00")
	wrongStart.Status = domain.StatusCompleted
	_, err = h.engine.Create(ctx, CreateRequest{Entry: wrongStart})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	missing := internalTransfer("1.00")
	missing.Transfer.ReceiverAccountID = "acc-missing"
	_, err = h.engine.Create(ctx, CreateRequest{Entry: missing})
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestTransitionCheckRunsBeforeWrites(t *testing.T) {
	h := newHarness(t, map[string]string{"a": "100.00"})
	ctx := context.Background()

	entry, err := h.engine.Create(ctx, CreateRequest{Entry: internalTransfer("10.00")})
	require.NoError(t, err)

	_, err = h.engine.Transition(ctx, TransitionRequest{
		TransactionID: entry.TransactionID,
		From:          domain.StatusProcessing,
		To:            domain.StatusCompleted,
		Check: func(e domain.Entry) error {
			if e.UserID != "user-b" {
				return domain.ErrForbidden
			}
			return nil
		},
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "100.00", h.balance("acc-a"))

	_, err = h.engine.Transition(ctx, TransitionRequest{TransactionID: "TRF000000000000000", From: domain.StatusProcessing, To: domain.StatusCompleted})
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}
