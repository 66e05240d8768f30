package ledger

import (
	"testing"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactIsKeyedOnEdge(t *testing.T) {
	amount := decimal.RequireFromString("40.00")
	external := domain.Entry{
		TransactionID: "TRF000000000000001",
		Kind:          domain.KindTransfer,
		UserID:        "user-a",
		AccountID:     "acc-a",
		Amount:        amount,
		Transfer:      &domain.TransferDetails{Type: domain.TransferExternal, ReceiverName: "Acme"},
	}

	hold := React(external, domain.StatusProcessing, domain.StatusPending)
	require.Len(t, hold.Postings, 1)
	assert.True(t, hold.Postings[0].Amount.Equal(amount.Neg()))

	// completed reached from pending moves nothing; the debit already happened
	approved := React(external, domain.StatusPending, domain.StatusCompleted)
	assert.True(t, approved.IsZero())

	// failed reached from processing never debited, so nothing to refund
	assert.True(t, React(external, domain.StatusProcessing, domain.StatusFailed).IsZero())

	refunded := React(external, domain.StatusPending, domain.StatusFailed)
	require.Len(t, refunded.Postings, 1)
	assert.True(t, refunded.Postings[0].Amount.Equal(amount))
}

func TestReactInternalReversal(t *testing.T) {
	entry := domain.Entry{
		TransactionID: "TRF000000000000002",
		Kind:          domain.KindTransfer,
		UserID:        "user-a",
		AccountID:     "acc-a",
		Amount:        decimal.RequireFromString("10.00"),
		Transfer: &domain.TransferDetails{
			Type:              domain.TransferInternal,
			ReceiverUserID:    "user-b",
			ReceiverAccountID: "acc-b",
		},
	}

	effect := React(entry, domain.StatusCompleted, domain.StatusFailed)
	require.Len(t, effect.Postings, 2)
	assert.Equal(t, "acc-a", effect.Postings[0].AccountID)
	assert.True(t, effect.Postings[0].Amount.IsPositive())
	assert.False(t, effect.Postings[0].AllowOverdraft)
	assert.Equal(t, "acc-b", effect.Postings[1].AccountID)
	assert.True(t, effect.Postings[1].Amount.IsNegative())
	assert.True(t, effect.Postings[1].AllowOverdraft)

	require.Len(t, effect.Notifications, 2)
	assert.Equal(t, domain.NotificationCreditAlert, effect.Notifications[0].Type)
	assert.Equal(t, "user-b", effect.Notifications[1].UserID)
	assert.Equal(t, domain.NotificationDebitAlert, effect.Notifications[1].Type)
}

func TestReactDeposit(t *testing.T) {
	entry := domain.Entry{
		TransactionID: "DEP000000000000001",
		Kind:          domain.KindDeposit,
		UserID:        "user-a",
		AccountID:     "acc-a",
		Amount:        decimal.RequireFromString("5.00"),
	}

	for _, from := range []domain.Status{"", domain.StatusPending, domain.StatusProcessing} {
		effect := React(entry, from, domain.StatusCompleted)
		require.Len(t, effect.Postings, 1, "from %q", from)
		assert.True(t, effect.Postings[0].Amount.Equal(entry.Amount))
	}

	confirm := React(entry, domain.StatusPending, domain.StatusProcessing)
	assert.Empty(t, confirm.Postings)
	require.Len(t, confirm.Messages, 2)
	assert.True(t, confirm.Messages[0].ToOperators)

	assert.True(t, React(entry, domain.StatusProcessing, domain.StatusFailed).IsZero())
	assert.True(t, React(entry, domain.StatusCompleted, domain.StatusCompleted).IsZero())
}

func TestReactWithdrawalDebitsOnlyOnCompletion(t *testing.T) {
	entry := domain.Entry{
		TransactionID: "WTH000000000000001",
		Kind:          domain.KindWithdrawal,
		UserID:        "user-a",
		AccountID:     "acc-a",
		Amount:        decimal.RequireFromString("5.00"),
	}

	assert.True(t, React(entry, domain.StatusPending, domain.StatusProcessing).IsZero())
	assert.True(t, React(entry, domain.StatusProcessing, domain.StatusFailed).IsZero())

	effect := React(entry, domain.StatusProcessing, domain.StatusCompleted)
	require.Len(t, effect.Postings, 1)
	assert.True(t, effect.Postings[0].Amount.Equal(decimal.RequireFromString("-5.00")))
}
