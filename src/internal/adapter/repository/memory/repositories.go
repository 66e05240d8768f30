package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
)

type AccountRepository struct{ store *Store }
type EntryRepository struct{ store *Store }
type FreezeRepository struct{ store *Store }
type NotificationRepository struct{ store *Store }
type BeneficiaryRepository struct{ store *Store }
type UserRepository struct{ store *Store }

func (s *Store) Accounts() *AccountRepository { return &AccountRepository{store: s} }
func (s *Store) Entries() *EntryRepository { return &EntryRepository{store: s} }
func (s *Store) Freezes() *FreezeRepository { return &FreezeRepository{store: s} }
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{store: s} }
func (s *Store) Beneficiaries() *BeneficiaryRepository { return &BeneficiaryRepository{store: s} }
func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }

func (r *AccountRepository) GetByID(_ context.Context, id string) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	account, ok := r.store.accounts[id]
	if !ok {
		return domain.Account{}, fmt.Errorf("%w: account %s", domain.ErrRecordNotFound, id)
	}
	return account, nil
}

func (r *AccountRepository) GetByAccountNumber(_ context.Context, accountNumber string) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, account := range r.store.accounts {
		if account.AccountNumber == accountNumber {
			return account, nil
		}
	}
	return domain.Account{}, fmt.Errorf("%w: account number %s", domain.ErrRecordNotFound, accountNumber)
}

func (r *AccountRepository) GetByUserID(_ context.Context, userID string) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, account := range r.store.accounts {
		if account.UserID == userID {
			return account, nil
		}
	}
	return domain.Account{}, fmt.Errorf("%w: account for user %s", domain.ErrRecordNotFound, userID)
}

func (r *EntryRepository) Get(_ context.Context, transactionID string) (domain.Entry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entry, ok := r.store.entries[transactionID]
	if !ok {
		return domain.Entry{}, fmt.Errorf("%w: transaction %s", domain.ErrRecordNotFound, transactionID)
	}
	return cloneEntry(entry), nil
}

func (r *EntryRepository) List(_ context.Context, filter domain.EntryFilter) ([]domain.Entry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Entry, 0)
	for _, entry := range r.store.entries {
		if filter.UserID != "" && entry.UserID != filter.UserID && entry.CounterpartyUserID() != filter.UserID {
			continue
		}
		if filter.Kind != "" && entry.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && entry.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(entry.TransactionID), search) &&
			!strings.Contains(strings.ToLower(entry.Description), search) {
			continue
		}
		out = append(out, cloneEntry(entry))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].TransactionID > out[j].TransactionID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultEntryListLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *FreezeRepository) ActiveForAccount(_ context.Context, accountID string) (*domain.AccountFreeze, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.activeFreezeLocked(accountID), nil
}

func (r *FreezeRepository) History(_ context.Context, accountID string) ([]domain.AccountFreeze, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]domain.AccountFreeze, 0)
	for _, freeze := range r.store.freezes {
		if freeze.AccountID == accountID {
			out = append(out, freeze)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *NotificationRepository) ListForUser(_ context.Context, userID string, limit int) ([]domain.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]domain.Notification, 0)
	for i := len(r.store.notifications) - 1; i >= 0; i-- {
		n := r.store.notifications[i]
		if n.UserID != userID {
			continue
		}
		out = append(out, n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, userID string, notificationID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.notifications {
		n := &r.store.notifications[i]
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return fmt.Errorf("%w: notification %s", domain.ErrRecordNotFound, notificationID)
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, userID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var updated int64
	for i := range r.store.notifications {
		n := &r.store.notifications[i]
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (r *NotificationRepository) UnreadCount(_ context.Context, userID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	count := 0
	for _, n := range r.store.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *BeneficiaryRepository) SaveIfAbsent(_ context.Context, b domain.Beneficiary) (domain.Beneficiary, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	for i := range r.store.beneficiaries {
		existing := &r.store.beneficiaries[i]
		if existing.UserID == b.UserID && existing.AccountNumber == b.AccountNumber && existing.IsActive {
			existing.LastUsed = &now
			return *existing, false, nil
		}
	}

	r.store.nextBeneficiaryID++
	b.ID = r.store.nextBeneficiaryID
	b.IsActive = true
	b.CreatedAt = now
	b.LastUsed = &now
	r.store.beneficiaries = append(r.store.beneficiaries, b)
	return b, true, nil
}

func (r *BeneficiaryRepository) ListForUser(_ context.Context, userID string) ([]domain.Beneficiary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]domain.Beneficiary, 0)
	for _, b := range r.store.beneficiaries {
		if b.UserID == userID && b.IsActive {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *BeneficiaryRepository) Deactivate(_ context.Context, userID string, beneficiaryID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.beneficiaries {
		b := &r.store.beneficiaries[i]
		if b.ID == beneficiaryID && b.UserID == userID && b.IsActive {
			b.IsActive = false
			return nil
		}
	}
	return fmt.Errorf("%w: beneficiary %d", domain.ErrRecordNotFound, beneficiaryID)
}

func (r *UserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrRecordNotFound, id)
	}
	return user, nil
}
