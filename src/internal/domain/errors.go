package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrValidation = errors.New("validation failed")
var ErrRecordNotFound = errors.New("record not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrAlreadyProcessed = errors.New("transaction already processed")
var ErrAccountFrozen = errors.New("account is frozen")
var ErrInsufficientBalance = errors.New("insufficient balance")
var ErrIncorrectPin = errors.New("incorrect pin")
var ErrLocked = errors.New("pin entry locked")
var ErrKYCRequired = errors.New("kyc verification required")
var ErrForbidden = errors.New("operation not permitted for this user")

type ValidationError struct {
	Problems []string
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrValidation.Error()
	}
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type TransitionError struct {
	Kind Kind
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	from := string(e.From)
	if from == "" {
		from = "<new>"
	}
	return fmt.Sprintf("%s cannot move from %s to %s", e.Kind, from, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

type FrozenError struct {
	AccountID string
	Reason    FreezeReason
	Notes     string
}

func (e *FrozenError) Error() string {
	return fmt.Sprintf("account is frozen: %s", e.Reason.Display())
}

func (e *FrozenError) Is(target error) bool {
	return target == ErrAccountFrozen
}

type IncorrectPinError struct {
	AttemptsRemaining int
}

func (e *IncorrectPinError) Error() string {
	return fmt.Sprintf("incorrect pin, %d attempts remaining", e.AttemptsRemaining)
}

func (e *IncorrectPinError) Is(target error) bool {
	return target == ErrIncorrectPin
}

type LockedError struct {
	Until     time.Time
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	minutes := int(e.Remaining.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("too many failed pin attempts, try again in %d minutes", minutes)
}

func (e *LockedError) Is(target error) bool {
	return target == ErrLocked
}

// ErrDuplicateKey is returned by stores when a unique key already exists.
var ErrDuplicateKey = errors.New("duplicate key")
