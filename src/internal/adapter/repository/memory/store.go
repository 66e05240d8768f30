// Package memory is an in-process implementation of the ledger stores.
// It honours the same locking and compare-and-set contract as the
// postgres adapter and backs the test suites and LEDGER_STORE=memory.
package memory

import (
	"fmt"
	"sync"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu sync.Mutex

	users         map[string]domain.User
	accounts      map[string]domain.Account
	accountLocks  map[string]*sync.Mutex
	entries       map[string]domain.Entry
	freezes       map[int64]domain.AccountFreeze
	notifications []domain.Notification
	beneficiaries []domain.Beneficiary

	nextFreezeID      int64
	nextBeneficiaryID int64
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]domain.User),
		accounts:     make(map[string]domain.Account),
		accountLocks: make(map[string]*sync.Mutex),
		entries:      make(map[string]domain.Entry),
		freezes:      make(map[int64]domain.AccountFreeze),
	}
}

// AddUser seeds a user. Users are owned by the identity service.
func (s *Store) AddUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// AddAccount seeds an account. The account number must be unique.
func (s *Store) AddAccount(account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; ok {
		return fmt.Errorf("%w: account %s", domain.ErrDuplicateKey, account.ID)
	}
	for _, existing := range s.accounts {
		if existing.AccountNumber == account.AccountNumber {
			return fmt.Errorf("%w: account number %s", domain.ErrDuplicateKey, account.AccountNumber)
		}
	}
	if account.Status == "" {
		account.Status = domain.AccountStatusActive
	}
	s.accounts[account.ID] = account
	s.accountLocks[account.ID] = &sync.Mutex{}
	return nil
}

// Balance is a test helper returning the committed balance.
func (s *Store) Balance(accountID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[accountID].Balance
}

func (s *Store) lockFor(accountID string) (*sync.Mutex, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.accountLocks[accountID]
	return m, ok
}

func (s *Store) activeFreezeLocked(accountID string) *domain.AccountFreeze {
	for _, f := range s.freezes {
		if f.AccountID == accountID && f.IsActive {
			found := f
			return &found
		}
	}
	return nil
}
