package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerTx is the set of writes available inside one unit of work.
// LockAccounts may be called once per transaction; it acquires the
// account locks in ascending id order and holds them until the
// transaction ends.
type LedgerTx interface {
	LockAccounts(ctx context.Context, accountIDs ...string) (map[string]Account, error)
	SetBalance(ctx context.Context, accountID string, balance decimal.Decimal) error
	UpdatePinState(ctx context.Context, account Account) error
	UpdatePinHash(ctx context.Context, accountID string, pinHash string) error

	ActiveFreeze(ctx context.Context, accountID string) (*AccountFreeze, error)
	InsertFreeze(ctx context.Context, freeze AccountFreeze) (AccountFreeze, error)
	DeactivateFreeze(ctx context.Context, freezeID int64, liftedAt time.Time) error

	InsertEntry(ctx context.Context, entry Entry) (Entry, error)
	GetEntry(ctx context.Context, transactionID string) (Entry, error)
	CompareAndSetStatus(ctx context.Context, transactionID string, from Status, to Status) error
	DeleteEntry(ctx context.Context, transactionID string, status Status) error

	InsertNotification(ctx context.Context, notification Notification) (Notification, error)
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

type AccountRepository interface {
	GetByID(ctx context.Context, id string) (Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (Account, error)
	GetByUserID(ctx context.Context, userID string) (Account, error)
}

type EntryRepository interface {
	Get(ctx context.Context, transactionID string) (Entry, error)
	List(ctx context.Context, filter EntryFilter) ([]Entry, error)
}

type FreezeRepository interface {
	ActiveForAccount(ctx context.Context, accountID string) (*AccountFreeze, error)
	History(ctx context.Context, accountID string) ([]AccountFreeze, error)
}

type NotificationRepository interface {
	ListForUser(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type BeneficiaryRepository interface {
	// SaveIfAbsent stores b unless the user already has an active
	// beneficiary with the same account number. created reports which.
	SaveIfAbsent(ctx context.Context, b Beneficiary) (saved Beneficiary, created bool, err error)
	ListForUser(ctx context.Context, userID string) ([]Beneficiary, error)
	Deactivate(ctx context.Context, userID string, beneficiaryID int64) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
}
