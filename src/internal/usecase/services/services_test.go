package services_test

import (
	"context"
	"testing"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/guard"
	"github.com/api-sage/paylio-ledger/src/internal/ledger"
	"github.com/api-sage/paylio-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	alice = "user-alice"
	bob   = "user-bob"
	carol = "user-carol"

	aliceAccountNumber = "1000000001"
	bobAccountNumber   = "1000000002"

	pin = "1234"
)

type fixture struct {
	store         *memory.Store
	transfers     *services.TransferService
	deposits      *services.DepositService
	withdrawals   *services.WithdrawalService
	requests      *services.PaymentRequestService
	operator      *services.OperatorService
	accounts      *services.AccountService
	transactions  *services.TransactionService
	beneficiaries *services.BeneficiaryService
	notifications *services.NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hash, err := guard.HashPinWithCost(pin, bcrypt.MinCost)
	require.NoError(t, err)

	store := memory.NewStore()
	seed := []struct {
		user    domain.User
		account domain.Account
	}{
		{
			user:    domain.User{ID: alice, Username: "alice", FullName: "Alice Adams", Email: "alice@example.com"},
			account: domain.Account{ID: "acc-alice", UserID: alice, AccountNumber: aliceAccountNumber, Balance: decimal.NewFromInt(100), KYCConfirmed: true},
		},
		{
			user:    domain.User{ID: bob, Username: "bob", FullName: "Bob Brown", Email: "bob@example.com"},
			account: domain.Account{ID: "acc-bob", UserID: bob, AccountNumber: bobAccountNumber, Balance: decimal.NewFromInt(50), KYCConfirmed: true},
		},
		{
			user:    domain.User{ID: carol, Username: "carol", Email: "carol@example.com"},
			account: domain.Account{ID: "acc-carol", UserID: carol, AccountNumber: "1000000003", Balance: decimal.NewFromInt(100)},
		},
	}
	for _, s := range seed {
		store.AddUser(s.user)
		s.account.PinHash = hash
		require.NoError(t, store.AddAccount(s.account))
	}

	g := guard.New()
	engine := ledger.NewEngine(store, g, ledger.WithPinCost(bcrypt.MinCost))
	accounts, entries, users := store.Accounts(), store.Entries(), store.Users()

	return &fixture{
		store:         store,
		transfers:     services.NewTransferService(engine, accounts, users, entries, store.Beneficiaries()),
		deposits:      services.NewDepositService(engine, accounts, entries),
		withdrawals:   services.NewWithdrawalService(engine, accounts, entries),
		requests:      services.NewPaymentRequestService(engine, accounts, entries),
		operator:      services.NewOperatorService(engine, accounts, entries, store.Freezes()),
		accounts:      services.NewAccountService(engine, g, accounts, users, store.Freezes(), memory.NewBankDirectory()),
		transactions:  services.NewTransactionService(entries),
		beneficiaries: services.NewBeneficiaryService(store.Beneficiaries()),
		notifications: services.NewNotificationService(store.Notifications()),
	}
}

func (f *fixture) balance(accountID string) string {
	return f.store.Balance(accountID).StringFixed(2)
}

func (f *fixture) status(t *testing.T, transactionID string) domain.Status {
	t.Helper()
	entry, err := f.store.Entries().Get(context.Background(), transactionID)
	require.NoError(t, err)
	return entry.Status
}

func (f *fixture) createTransfer(t *testing.T, req models.CreateTransferRequest) string {
	t.Helper()
	resp, err := f.transfers.CreateTransfer(context.Background(), req)
	require.NoError(t, err)
	require.True(t, resp.Success)
	return resp.Data.TransactionID
}

func amount(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}
