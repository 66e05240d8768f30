package ledger

import (
	"testing"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	internal := domain.Entry{Kind: domain.KindTransfer, Transfer: &domain.TransferDetails{Type: domain.TransferInternal}}
	external := domain.Entry{Kind: domain.KindTransfer, Transfer: &domain.TransferDetails{Type: domain.TransferExternal}}
	deposit := domain.Entry{Kind: domain.KindDeposit}
	withdrawal := domain.Entry{Kind: domain.KindWithdrawal}
	request := domain.Entry{Kind: domain.KindPaymentRequest}

	tests := []struct {
		name  string
		entry domain.Entry
		from  domain.Status
		to    domain.Status
		want  bool
	}{
		{"internal settles directly", internal, domain.StatusProcessing, domain.StatusCompleted, true},
		{"internal never pends", internal, domain.StatusProcessing, domain.StatusPending, false},
		{"external awaits approval", external, domain.StatusProcessing, domain.StatusPending, true},
		{"external cannot skip approval", external, domain.StatusProcessing, domain.StatusCompleted, false},
		{"external approved", external, domain.StatusPending, domain.StatusCompleted, true},
		{"external rejected", external, domain.StatusPending, domain.StatusFailed, true},
		{"completed transfer reversal", internal, domain.StatusCompleted, domain.StatusFailed, true},
		{"failed transfer is terminal", internal, domain.StatusFailed, domain.StatusCompleted, false},
		{"transfer created processing", internal, "", domain.StatusProcessing, true},
		{"deposit created completed", deposit, "", domain.StatusCompleted, true},
		{"deposit confirm", deposit, domain.StatusPending, domain.StatusProcessing, true},
		{"deposit completed is terminal", deposit, domain.StatusCompleted, domain.StatusFailed, false},
		{"withdrawal cannot skip processing", withdrawal, domain.StatusPending, domain.StatusCompleted, false},
		{"withdrawal completes", withdrawal, domain.StatusProcessing, domain.StatusCompleted, true},
		{"request sent", request, domain.StatusProcessing, domain.StatusRequestSent, true},
		{"request cannot settle unsent", request, domain.StatusProcessing, domain.StatusRequestSettled, false},
		{"request settles", request, domain.StatusRequestSent, domain.StatusRequestSettled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.entry, tt.from, tt.to))
		})
	}
}

func TestCheckTransitionError(t *testing.T) {
	err := CheckTransition(domain.Entry{Kind: domain.KindDeposit}, domain.StatusCompleted, domain.StatusPending)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	var transition *domain.TransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, domain.StatusCompleted, transition.From)
	assert.Equal(t, "deposit cannot move from completed to pending", err.Error())
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(domain.KindDeposit, domain.StatusCompleted))
	assert.False(t, IsTerminal(domain.KindTransfer, domain.StatusCompleted))
	assert.True(t, IsTerminal(domain.KindPaymentRequest, domain.StatusRequestSettled))
}
