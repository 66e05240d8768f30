package ledger

import "github.com/api-sage/paylio-ledger/src/internal/domain"

// "" stands for "not yet persisted".
var edges = map[domain.Kind]map[domain.Status][]domain.Status{
	domain.KindDeposit: {
		"":                      {domain.StatusPending, domain.StatusCompleted},
		domain.StatusPending:    {domain.StatusProcessing, domain.StatusCompleted, domain.StatusFailed},
		domain.StatusProcessing: {domain.StatusCompleted, domain.StatusFailed},
	},
	domain.KindWithdrawal: {
		"":                      {domain.StatusPending},
		domain.StatusPending:    {domain.StatusProcessing, domain.StatusFailed},
		domain.StatusProcessing: {domain.StatusCompleted, domain.StatusFailed},
	},
	domain.KindTransfer: {
		"":                      {domain.StatusProcessing},
		domain.StatusProcessing: {domain.StatusCompleted, domain.StatusPending, domain.StatusFailed},
		domain.StatusPending:    {domain.StatusCompleted, domain.StatusFailed},
		domain.StatusCompleted:  {domain.StatusFailed},
	},
	domain.KindPaymentRequest: {
		"":                       {domain.StatusProcessing},
		domain.StatusProcessing:  {domain.StatusRequestSent},
		domain.StatusRequestSent: {domain.StatusRequestSettled},
	},
}

// CanTransition reports whether entry may move from one status to another.
// Transfers additionally split on type: internal transfers settle straight
// to completed, external ones park in pending for operator approval.
func CanTransition(entry domain.Entry, from domain.Status, to domain.Status) bool {
	if !hasEdge(entry.Kind, from, to) {
		return false
	}
	if entry.Kind != domain.KindTransfer || entry.Transfer == nil {
		return true
	}

	external := entry.Transfer.Type == domain.TransferExternal
	switch {
	case from == domain.StatusProcessing && to == domain.StatusCompleted:
		return !external
	case from == domain.StatusProcessing && to == domain.StatusPending:
		return external
	case from == domain.StatusPending:
		return external
	}
	return true
}

func CheckTransition(entry domain.Entry, from domain.Status, to domain.Status) error {
	if CanTransition(entry, from, to) {
		return nil
	}
	return &domain.TransitionError{Kind: entry.Kind, From: from, To: to}
}

func IsTerminal(kind domain.Kind, status domain.Status) bool {
	return len(edges[kind][status]) == 0
}

func hasEdge(kind domain.Kind, from domain.Status, to domain.Status) bool {
	for _, next := range edges[kind][from] {
		if next == to {
			return true
		}
	}
	return false
}
