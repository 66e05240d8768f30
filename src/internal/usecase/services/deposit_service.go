package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/ledger"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
)

var depositMethodLabels = map[domain.DepositMethod]string{
	domain.DepositBankTransfer: "Bank Transfer",
	domain.DepositCardPayment:  "Card Payment",
	domain.DepositSavedCard:    "Saved Card",
}

type DepositService struct {
	engine      *ledger.Engine
	accountRepo domain.AccountRepository
	entryRepo   domain.EntryRepository
}

func NewDepositService(engine *ledger.Engine, accountRepo domain.AccountRepository, entryRepo domain.EntryRepository) *DepositService {
	return &DepositService{
		engine:      engine,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// CreateDeposit records a pending deposit. Funds are credited only when an
// operator completes it.
func (s *DepositService) CreateDeposit(ctx context.Context, req models.CreateDepositRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("deposit service create deposit request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.TransactionResponse]("validation failed", err), err
	}

	account, err := callerAccount(ctx, s.accountRepo, req.UserID)
	if err != nil {
		logger.Error("deposit service account lookup failed", err, logger.Fields{"userId": req.UserID})
		return failure[models.TransactionResponse]("failed to create deposit", err), err
	}
	if err := ensureCanTransact(account); err != nil {
		return failure[models.TransactionResponse]("failed to create deposit", err), err
	}

	method := domain.DepositMethod(strings.TrimSpace(req.Method))
	details := &domain.DepositDetails{
		Method:    method,
		Reference: strings.TrimSpace(req.Reference),
	}
	if method == domain.DepositSavedCard {
		details.CardID = strings.TrimSpace(req.CardID)
	}

	entry, err := s.engine.Create(ctx, ledger.CreateRequest{
		Entry: domain.Entry{
			Kind:        domain.KindDeposit,
			UserID:      account.UserID,
			AccountID:   account.ID,
			Amount:      req.Amount,
			Status:      domain.StatusPending,
			Description: fmt.Sprintf("Deposit via %s", depositMethodLabels[method]),
			Deposit:     details,
		},
		RequireUnfrozen: []string{account.ID},
	})
	if err != nil {
		return failure[models.TransactionResponse]("failed to create deposit", err), err
	}

	logger.Info("deposit service create deposit success", logger.Fields{
		"transactionId": entry.TransactionID,
		"method":        method,
	})
	return commons.SuccessResponse("deposit created successfully", models.NewTransactionResponse(entry)), nil
}

// ConfirmDeposit submits a pending deposit for operator review.
func (s *DepositService) ConfirmDeposit(ctx context.Context, req models.ConfirmDepositRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("deposit service confirm deposit request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.TransactionResponse]("validation failed", err), err
	}

	entry, err := loadEntry(ctx, s.entryRepo, req.TransactionID, domain.KindDeposit)
	if err != nil {
		logger.Error("deposit service confirm lookup failed", err, logger.Fields{"transactionId": req.TransactionID})
		return failure[models.TransactionResponse]("failed to confirm deposit", err), err
	}

	updated, err := s.engine.Transition(ctx, ledger.TransitionRequest{
		TransactionID:   entry.TransactionID,
		From:            domain.StatusPending,
		To:              domain.StatusProcessing,
		RequireUnfrozen: true,
		Check:           ownedBy(strings.TrimSpace(req.UserID)),
	})
	if err != nil {
		return failure[models.TransactionResponse]("failed to confirm deposit", err), err
	}

	logger.Info("deposit service confirm deposit success", logger.Fields{
		"transactionId": updated.TransactionID,
	})
	return commons.SuccessResponse("deposit submitted and awaiting approval", models.NewTransactionResponse(updated)), nil
}
