package domain

import "time"

type FreezeReason string

const (
	FreezeReasonSuspiciousActivity FreezeReason = "suspicious_activity"
	FreezeReasonUserRequest        FreezeReason = "user_request"
	FreezeReasonCompliance         FreezeReason = "compliance"
	FreezeReasonSecurity           FreezeReason = "security"
	FreezeReasonOther              FreezeReason = "other"
)

var freezeReasonDisplay = map[FreezeReason]string{
	FreezeReasonSuspiciousActivity: "Suspicious Activity Detected",
	FreezeReasonUserRequest:        "Account Frozen by User Request",
	FreezeReasonCompliance:         "Compliance Review Required",
	FreezeReasonSecurity:           "Security Concern",
	FreezeReasonOther:              "Account Under Review",
}

func (r FreezeReason) Valid() bool {
	_, ok := freezeReasonDisplay[r]
	return ok
}

func (r FreezeReason) Display() string {
	if display, ok := freezeReasonDisplay[r]; ok {
		return display
	}
	return "Account Frozen"
}

type AccountFreeze struct {
	ID        int64
	AccountID string
	Reason    FreezeReason
	Notes     string
	IsActive  bool
	FrozenAt  time.Time
	LiftedAt  *time.Time
}
