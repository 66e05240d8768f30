package postgres

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/guard"
	"github.com/api-sage/paylio-ledger/src/internal/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Runs against a disposable database named by PAYLIO_TEST_DATABASE_DSN.
func TestLedgerAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("PAYLIO_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("PAYLIO_TEST_DATABASE_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := Open(ctx, dsn, Pool{MaxOpen: 8})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(ctx, db, filepath.Join("..", "..", "..", "..", "migrations")))

	hash, err := guard.HashPinWithCost("1234", bcrypt.MinCost)
	require.NoError(t, err)

	suffix := uuid.NewString()[:8]
	senderUser, receiverUser := "u-a-"+suffix, "u-b-"+suffix
	sender, receiver := "acc-a-"+suffix, "acc-b-"+suffix
	for _, u := range []string{senderUser, receiverUser} {
		_, err := db.ExecContext(ctx, `INSERT INTO users (id, username, email) VALUES ($1, $1, $1 || '@example.com')`, u)
		require.NoError(t, err)
	}
	_, err = db.ExecContext(ctx, `INSERT INTO accounts (id, user_id, account_number, balance, pin_hash, kyc_confirmed) VALUES ($1, $2, $3, 100, $4, TRUE)`, sender, senderUser, "A"+suffix, hash)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO accounts (id, user_id, account_number, balance, pin_hash, kyc_confirmed) VALUES ($1, $2, $3, 0, $4, TRUE)`, receiver, receiverUser, "B"+suffix, hash)
	require.NoError(t, err)

	engine := ledger.NewEngine(NewUnitOfWork(db), guard.New(), ledger.WithPinCost(bcrypt.MinCost))
	entry, err := engine.Create(ctx, ledger.CreateRequest{Entry: domain.Entry{
		Kind:      domain.KindTransfer,
		UserID:    senderUser,
		AccountID: sender,
		Amount:    decimal.RequireFromString("40.00"),
		Status:    domain.StatusProcessing,
		Transfer:  &domain.TransferDetails{Type: domain.TransferInternal, ReceiverUserID: receiverUser, ReceiverAccountID: receiver},
	}})
	require.NoError(t, err)

	_, err = engine.Authorize(ctx, ledger.AuthorizeRequest{
		PinAccountID: sender,
		Pin:          "1234",
		Transition: ledger.TransitionRequest{
			TransactionID:   entry.TransactionID,
			From:            domain.StatusProcessing,
			To:              domain.StatusCompleted,
			RequireUnfrozen: true,
		},
	})
	require.NoError(t, err)

	accounts := NewAccountRepository(db)
	a, err := accounts.GetByID(ctx, sender)
	require.NoError(t, err)
	b, err := accounts.GetByID(ctx, receiver)
	require.NoError(t, err)
	assert.Equal(t, "60.00", a.Balance.StringFixed(2))
	assert.Equal(t, "40.00", b.Balance.StringFixed(2))

	listed, err := NewEntryRepository(db).List(ctx, domain.EntryFilter{UserID: receiverUser})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, domain.StatusCompleted, listed[0].Status)
	assert.Equal(t, receiver, listed[0].Transfer.ReceiverAccountID)

	_, created, err := engine.Freeze(ctx, sender, domain.FreezeReasonSecurity, "")
	require.NoError(t, err)
	require.True(t, created)
	_, created, err = engine.Freeze(ctx, sender, domain.FreezeReasonSecurity, "")
	require.NoError(t, err)
	assert.False(t, created)

	notifications, err := NewNotificationRepository(db).ListForUser(ctx, senderUser, 10)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
}
