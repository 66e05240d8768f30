// Package guard gates balance-mutating operations: freeze enforcement and
// PIN verification with a per-account lockout counter.
package guard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultMaxPinAttempts  = 5
	DefaultLockoutDuration = 30 * time.Minute
	PinLength              = 4
)

type Guard struct {
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
}

type Option func(*Guard)

func WithMaxAttempts(n int) Option {
	return func(g *Guard) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

func WithLockoutDuration(d time.Duration) Option {
	return func(g *Guard) {
		if d > 0 {
			g.lockout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		if now != nil {
			g.now = now
		}
	}
}

func New(opts ...Option) *Guard {
	g := &Guard{
		maxAttempts: DefaultMaxPinAttempts,
		lockout:     DefaultLockoutDuration,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type FreezeStatus struct {
	Frozen bool
	Reason domain.FreezeReason
	Notes  string
}

func (s FreezeStatus) Err(accountID string) error {
	if !s.Frozen {
		return nil
	}
	return &domain.FrozenError{AccountID: accountID, Reason: s.Reason, Notes: s.Notes}
}

func (g *Guard) FreezeStatus(freeze *domain.AccountFreeze) FreezeStatus {
	if freeze == nil || !freeze.IsActive {
		return FreezeStatus{}
	}
	return FreezeStatus{Frozen: true, Reason: freeze.Reason, Notes: freeze.Notes}
}

// CheckNotFrozen returns a *domain.FrozenError when freeze is active.
func (g *Guard) CheckNotFrozen(accountID string, freeze *domain.AccountFreeze) error {
	return g.FreezeStatus(freeze).Err(accountID)
}

// VerifyPin checks pin against the account's stored hash and updates the
// failed-attempt counter and lockout on account in place. The caller must
// persist account whether or not an error is returned.
func (g *Guard) VerifyPin(account *domain.Account, pin string) error {
	now := g.now()

	if account.PinLockoutUntil != nil {
		if now.Before(*account.PinLockoutUntil) {
			return &domain.LockedError{Until: *account.PinLockoutUntil, Remaining: account.PinLockoutUntil.Sub(now)}
		}
		account.FailedPinAttempts = 0
		account.PinLockoutUntil = nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(account.PinHash), []byte(strings.TrimSpace(pin)))
	if err == nil {
		account.FailedPinAttempts = 0
		account.PinLockoutUntil = nil
		return nil
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("verify pin: %w", err)
	}

	account.FailedPinAttempts++
	if account.FailedPinAttempts >= g.maxAttempts {
		until := now.Add(g.lockout)
		account.PinLockoutUntil = &until
		return &domain.LockedError{Until: until, Remaining: g.lockout}
	}

	return &domain.IncorrectPinError{AttemptsRemaining: g.maxAttempts - account.FailedPinAttempts}
}

func ValidatePinFormat(pin string) error {
	pin = strings.TrimSpace(pin)
	if len(pin) != PinLength {
		return domain.NewValidationError(fmt.Sprintf("pin must be exactly %d digits", PinLength))
	}
	for _, ch := range pin {
		if ch < '0' || ch > '9' {
			return domain.NewValidationError(fmt.Sprintf("pin must be exactly %d digits", PinLength))
		}
	}
	return nil
}

func HashPin(pin string) (string, error) {
	return HashPinWithCost(pin, bcrypt.DefaultCost)
}

func HashPinWithCost(pin string, cost int) (string, error) {
	if err := ValidatePinFormat(pin); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(pin)), cost)
	if err != nil {
		return "", fmt.Errorf("hash transaction pin: %w", err)
	}
	return string(hashed), nil
}
