package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

// WithinTx runs fn against a staged transaction. Writes become visible only
// when fn returns nil; account locks are held until the staged writes are
// applied, so a concurrent transaction re-reading under the same locks sees
// the committed state.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.LedgerTx) error) error {
	t := &ledgerTx{
		store:    s,
		locked:   make(map[string]domain.Account),
		dirty:    make(map[string]struct{}),
		inserted: make(map[string]domain.Entry),
		statuses: make(map[string]statusChange),
		deleted:  make(map[string]domain.Status),
		lifted:   make(map[int64]time.Time),
	}
	defer t.release()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(ctx, t); err != nil {
		return err
	}
	return t.commit()
}

type statusChange struct {
	from domain.Status
	to   domain.Status
}

type ledgerTx struct {
	store *Store

	held     []*sync.Mutex
	lockUsed bool
	locked   map[string]domain.Account
	dirty    map[string]struct{}

	inserted      map[string]domain.Entry
	insertOrder   []string
	statuses      map[string]statusChange
	deleted       map[string]domain.Status
	notifications []domain.Notification
	freezes       []domain.AccountFreeze
	lifted        map[int64]time.Time
}

func (t *ledgerTx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
}

func (t *ledgerTx) LockAccounts(ctx context.Context, accountIDs ...string) (map[string]domain.Account, error) {
	if t.lockUsed {
		return nil, errors.New("accounts already locked in this transaction")
	}
	t.lockUsed = true

	ids := make([]string, 0, len(accountIDs))
	seen := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		m, ok := t.store.lockFor(id)
		if !ok {
			return nil, fmt.Errorf("%w: account %s", domain.ErrRecordNotFound, id)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.Lock()
		t.held = append(t.held, m)
	}

	t.store.mu.Lock()
	out := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		account := t.store.accounts[id]
		t.locked[id] = account
		out[id] = account
	}
	t.store.mu.Unlock()
	return out, nil
}

func (t *ledgerTx) SetBalance(_ context.Context, accountID string, balance decimal.Decimal) error {
	account, ok := t.locked[accountID]
	if !ok {
		return fmt.Errorf("account %s is not locked", accountID)
	}
	account.Balance = balance
	t.locked[accountID] = account
	t.dirty[accountID] = struct{}{}
	return nil
}

func (t *ledgerTx) UpdatePinState(_ context.Context, updated domain.Account) error {
	account, ok := t.locked[updated.ID]
	if !ok {
		return fmt.Errorf("account %s is not locked", updated.ID)
	}
	account.FailedPinAttempts = updated.FailedPinAttempts
	account.PinLockoutUntil = updated.PinLockoutUntil
	t.locked[updated.ID] = account
	t.dirty[updated.ID] = struct{}{}
	return nil
}

func (t *ledgerTx) UpdatePinHash(_ context.Context, accountID string, pinHash string) error {
	account, ok := t.locked[accountID]
	if !ok {
		return fmt.Errorf("account %s is not locked", accountID)
	}
	account.PinHash = pinHash
	t.locked[accountID] = account
	t.dirty[accountID] = struct{}{}
	return nil
}

func (t *ledgerTx) ActiveFreeze(_ context.Context, accountID string) (*domain.AccountFreeze, error) {
	for i := range t.freezes {
		if t.freezes[i].AccountID == accountID {
			found := t.freezes[i]
			return &found, nil
		}
	}

	t.store.mu.Lock()
	active := t.store.activeFreezeLocked(accountID)
	t.store.mu.Unlock()

	if active == nil {
		return nil, nil
	}
	if _, ok := t.lifted[active.ID]; ok {
		return nil, nil
	}
	return active, nil
}

func (t *ledgerTx) InsertFreeze(ctx context.Context, freeze domain.AccountFreeze) (domain.AccountFreeze, error) {
	if _, ok := t.locked[freeze.AccountID]; !ok {
		return domain.AccountFreeze{}, fmt.Errorf("account %s is not locked", freeze.AccountID)
	}
	active, err := t.ActiveFreeze(ctx, freeze.AccountID)
	if err != nil {
		return domain.AccountFreeze{}, err
	}
	if active != nil {
		return domain.AccountFreeze{}, fmt.Errorf("%w: active freeze on %s", domain.ErrDuplicateKey, freeze.AccountID)
	}

	t.store.mu.Lock()
	t.store.nextFreezeID++
	freeze.ID = t.store.nextFreezeID
	t.store.mu.Unlock()

	freeze.IsActive = true
	t.freezes = append(t.freezes, freeze)
	return freeze, nil
}

func (t *ledgerTx) DeactivateFreeze(_ context.Context, freezeID int64, liftedAt time.Time) error {
	t.store.mu.Lock()
	freeze, ok := t.store.freezes[freezeID]
	t.store.mu.Unlock()
	if !ok || !freeze.IsActive {
		return fmt.Errorf("%w: active freeze %d", domain.ErrRecordNotFound, freezeID)
	}
	t.lifted[freezeID] = liftedAt
	return nil
}

func (t *ledgerTx) InsertEntry(_ context.Context, entry domain.Entry) (domain.Entry, error) {
	if _, ok := t.inserted[entry.TransactionID]; ok {
		return domain.Entry{}, fmt.Errorf("%w: transaction %s", domain.ErrDuplicateKey, entry.TransactionID)
	}
	t.store.mu.Lock()
	_, exists := t.store.entries[entry.TransactionID]
	t.store.mu.Unlock()
	if exists {
		return domain.Entry{}, fmt.Errorf("%w: transaction %s", domain.ErrDuplicateKey, entry.TransactionID)
	}

	entry = cloneEntry(entry)
	t.inserted[entry.TransactionID] = entry
	t.insertOrder = append(t.insertOrder, entry.TransactionID)
	return cloneEntry(entry), nil
}

func (t *ledgerTx) GetEntry(_ context.Context, transactionID string) (domain.Entry, error) {
	if entry, ok := t.inserted[transactionID]; ok {
		return cloneEntry(entry), nil
	}
	if _, ok := t.deleted[transactionID]; ok {
		return domain.Entry{}, fmt.Errorf("%w: transaction %s", domain.ErrRecordNotFound, transactionID)
	}

	t.store.mu.Lock()
	entry, ok := t.store.entries[transactionID]
	t.store.mu.Unlock()
	if !ok {
		return domain.Entry{}, fmt.Errorf("%w: transaction %s", domain.ErrRecordNotFound, transactionID)
	}

	entry = cloneEntry(entry)
	if change, ok := t.statuses[transactionID]; ok {
		entry.Status = change.to
	}
	return entry, nil
}

func (t *ledgerTx) CompareAndSetStatus(ctx context.Context, transactionID string, from domain.Status, to domain.Status) error {
	current, err := t.GetEntry(ctx, transactionID)
	if err != nil {
		return err
	}
	if current.Status != from {
		return fmt.Errorf("%w: %s is %s", domain.ErrAlreadyProcessed, transactionID, current.Status)
	}

	if entry, ok := t.inserted[transactionID]; ok {
		entry.Status = to
		t.inserted[transactionID] = entry
		return nil
	}
	if change, ok := t.statuses[transactionID]; ok {
		from = change.from
	}
	t.statuses[transactionID] = statusChange{from: from, to: to}
	return nil
}

func (t *ledgerTx) DeleteEntry(ctx context.Context, transactionID string, status domain.Status) error {
	current, err := t.GetEntry(ctx, transactionID)
	if err != nil {
		return err
	}
	if current.Status != status {
		return fmt.Errorf("%w: %s is %s", domain.ErrAlreadyProcessed, transactionID, current.Status)
	}
	if _, ok := t.inserted[transactionID]; ok {
		delete(t.inserted, transactionID)
		return nil
	}
	t.deleted[transactionID] = status
	return nil
}

func (t *ledgerTx) InsertNotification(_ context.Context, notification domain.Notification) (domain.Notification, error) {
	t.notifications = append(t.notifications, notification)
	return notification, nil
}

// commit verifies every compare-and-set against the committed state and
// then applies all staged writes at once.
func (t *ledgerTx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range t.inserted {
		if _, exists := s.entries[id]; exists {
			return fmt.Errorf("%w: transaction %s", domain.ErrDuplicateKey, id)
		}
	}
	for id, change := range t.statuses {
		entry, ok := s.entries[id]
		if !ok {
			return fmt.Errorf("%w: transaction %s", domain.ErrRecordNotFound, id)
		}
		if entry.Status != change.from {
			return fmt.Errorf("%w: %s is %s", domain.ErrAlreadyProcessed, id, entry.Status)
		}
	}
	for id, status := range t.deleted {
		entry, ok := s.entries[id]
		if !ok || entry.Status != status {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyProcessed, id)
		}
	}
	for _, freeze := range t.freezes {
		if s.activeFreezeLocked(freeze.AccountID) != nil {
			return fmt.Errorf("%w: active freeze on %s", domain.ErrDuplicateKey, freeze.AccountID)
		}
	}

	now := time.Now().UTC()
	for id := range t.dirty {
		account := t.locked[id]
		account.UpdatedAt = now
		s.accounts[id] = account
	}
	for _, id := range t.insertOrder {
		if entry, ok := t.inserted[id]; ok {
			s.entries[id] = entry
		}
	}
	for id, change := range t.statuses {
		entry := s.entries[id]
		entry.Status = change.to
		entry.UpdatedAt = now
		s.entries[id] = entry
	}
	for id := range t.deleted {
		delete(s.entries, id)
	}
	for id, liftedAt := range t.lifted {
		freeze := s.freezes[id]
		freeze.IsActive = false
		lifted := liftedAt
		freeze.LiftedAt = &lifted
		s.freezes[id] = freeze
	}
	for _, freeze := range t.freezes {
		s.freezes[freeze.ID] = freeze
	}
	s.notifications = append(s.notifications, t.notifications...)
	return nil
}

func cloneEntry(entry domain.Entry) domain.Entry {
	if entry.Transfer != nil {
		details := *entry.Transfer
		entry.Transfer = &details
	}
	if entry.Deposit != nil {
		details := *entry.Deposit
		entry.Deposit = &details
	}
	if entry.Withdrawal != nil {
		details := *entry.Withdrawal
		entry.Withdrawal = &details
	}
	if entry.PaymentRequest != nil {
		details := *entry.PaymentRequest
		entry.PaymentRequest = &details
	}
	return entry
}
