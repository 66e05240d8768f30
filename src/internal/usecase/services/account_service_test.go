package services_test

import (
	"context"
	"testing"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAccountReportsFreeze(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.accounts.GetAccount(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, aliceAccountNumber, resp.Data.AccountNumber)
	assert.Equal(t, "100", resp.Data.Balance.String())
	assert.False(t, resp.Data.Frozen)

	_, err = f.operator.FreezeAccount(ctx, models.FreezeAccountRequest{AccountNumber: aliceAccountNumber, Reason: "compliance", Notes: "docs"})
	require.NoError(t, err)

	resp, err = f.accounts.GetAccount(ctx, alice)
	require.NoError(t, err)
	assert.True(t, resp.Data.Frozen)
	assert.Equal(t, "Compliance Review Required", resp.Data.FreezeReason)
	assert.Equal(t, "docs", resp.Data.FreezeNotes)

	_, err = f.accounts.GetAccount(ctx, "user-nobody")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestChangePinRequiresCurrentPin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.ChangePin(ctx, models.ChangePinRequest{UserID: alice, CurrentPin: "0000", NewPin: "4321"})
	require.ErrorIs(t, err, domain.ErrIncorrectPin)

	resp, err := f.accounts.ChangePin(ctx, models.ChangePinRequest{UserID: alice, CurrentPin: pin, NewPin: "4321"})
	require.NoError(t, err)
	assert.Equal(t, "pin changed successfully", resp.Message)

	id := f.createTransfer(t, models.CreateTransferRequest{UserID: alice, AccountNumber: bobAccountNumber, Amount: amount("1")})
	_, err = f.transfers.AuthorizeTransfer(ctx, models.AuthorizeTransactionRequest{UserID: alice, TransactionID: id, Pin: pin})
	require.ErrorIs(t, err, domain.ErrIncorrectPin)
	_, err = f.transfers.AuthorizeTransfer(ctx, models.AuthorizeTransactionRequest{UserID: alice, TransactionID: id, Pin: "4321"})
	require.NoError(t, err)
}

func TestLookupAccountAndBanks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lookup, err := f.accounts.LookupAccount(ctx, bobAccountNumber)
	require.NoError(t, err)
	assert.Equal(t, "Bob Brown", lookup.Data.AccountName)
	assert.Equal(t, domain.InternalBankName, lookup.Data.BankName)

	_, err = f.accounts.LookupAccount(ctx, "")
	require.ErrorIs(t, err, domain.ErrValidation)

	banks, err := f.accounts.ListBanks(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, *banks.Data)
}
