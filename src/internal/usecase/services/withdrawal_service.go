package services

import (
	"context"
	"errors"
	"strings"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/ledger"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
)

type WithdrawalService struct {
	engine      *ledger.Engine
	accountRepo domain.AccountRepository
	entryRepo   domain.EntryRepository
}

func NewWithdrawalService(engine *ledger.Engine, accountRepo domain.AccountRepository, entryRepo domain.EntryRepository) *WithdrawalService {
	return &WithdrawalService{
		engine:      engine,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

func (s *WithdrawalService) CreateWithdrawal(ctx context.Context, req models.CreateWithdrawalRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("withdrawal service create withdrawal request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.TransactionResponse]("validation failed", err), err
	}

	account, err := callerAccount(ctx, s.accountRepo, req.UserID)
	if err != nil {
		logger.Error("withdrawal service account lookup failed", err, logger.Fields{"userId": req.UserID})
		return failure[models.TransactionResponse]("failed to create withdrawal", err), err
	}
	if err := ensureCanTransact(account); err != nil {
		return failure[models.TransactionResponse]("failed to create withdrawal", err), err
	}
	if err := ensureSufficient(account, req.Amount); err != nil {
		return failure[models.TransactionResponse]("failed to create withdrawal", err), err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Withdrawal to " + strings.TrimSpace(req.BankName)
	}

	entry, err := s.engine.Create(ctx, ledger.CreateRequest{
		Entry: domain.Entry{
			Kind:        domain.KindWithdrawal,
			UserID:      account.UserID,
			AccountID:   account.ID,
			Amount:      req.Amount,
			Status:      domain.StatusPending,
			Description: description,
			Withdrawal: &domain.WithdrawalDetails{
				BankName:      strings.TrimSpace(req.BankName),
				AccountNumber: strings.TrimSpace(req.AccountNumber),
				AccountName:   strings.TrimSpace(req.AccountName),
			},
		},
		RequireUnfrozen: []string{account.ID},
	})
	if err != nil {
		return failure[models.TransactionResponse]("failed to create withdrawal", err), err
	}

	logger.Info("withdrawal service create withdrawal success", logger.Fields{
		"transactionId": entry.TransactionID,
	})
	return commons.SuccessResponse("withdrawal created successfully", models.NewTransactionResponse(entry)), nil
}

// AuthorizeWithdrawal verifies the PIN, then pays out. The balance is
// checked again at payout; a shortfall fails the withdrawal without a debit.
func (s *WithdrawalService) AuthorizeWithdrawal(ctx context.Context, req models.AuthorizeTransactionRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("withdrawal service authorize withdrawal request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.TransactionResponse]("validation failed", err), err
	}

	account, err := callerAccount(ctx, s.accountRepo, req.UserID)
	if err != nil {
		return failure[models.TransactionResponse]("failed to authorize withdrawal", err), err
	}
	entry, err := loadEntry(ctx, s.entryRepo, req.TransactionID, domain.KindWithdrawal)
	if err != nil {
		logger.Error("withdrawal service authorize lookup failed", err, logger.Fields{"transactionId": req.TransactionID})
		return failure[models.TransactionResponse]("failed to authorize withdrawal", err), err
	}
	if entry.UserID != account.UserID {
		err := domain.ErrForbidden
		return failure[models.TransactionResponse]("failed to authorize withdrawal", err), err
	}

	_, err = s.engine.Authorize(ctx, ledger.AuthorizeRequest{
		PinAccountID: account.ID,
		Pin:          req.Pin,
		Transition: ledger.TransitionRequest{
			TransactionID:   entry.TransactionID,
			From:            domain.StatusPending,
			To:              domain.StatusProcessing,
			RequireUnfrozen: true,
			Check:           ownedBy(account.UserID),
		},
	})
	if err != nil {
		return failure[models.TransactionResponse]("failed to authorize withdrawal", err), err
	}

	completed, err := s.engine.Transition(ctx, ledger.TransitionRequest{
		TransactionID:   entry.TransactionID,
		From:            domain.StatusProcessing,
		To:              domain.StatusCompleted,
		RequireUnfrozen: true,
	})
	if err != nil {
		// Another writer owns the entry once the status has moved on.
		if !errors.Is(err, domain.ErrAlreadyProcessed) {
			s.markFailed(ctx, entry.TransactionID, err)
		}
		return failure[models.TransactionResponse]("failed to authorize withdrawal", err), err
	}

	logger.Info("withdrawal service authorize withdrawal success", logger.Fields{
		"transactionId": completed.TransactionID,
	})
	return commons.SuccessResponse("withdrawal completed successfully", models.NewTransactionResponse(completed)), nil
}

// markFailed closes a withdrawal whose debit could not be applied so it is
// not left in processing.
func (s *WithdrawalService) markFailed(ctx context.Context, transactionID string, cause error) {
	logger.Error("withdrawal service settlement failed", cause, logger.Fields{"transactionId": transactionID})

	if _, err := s.engine.Transition(context.WithoutCancel(ctx), ledger.TransitionRequest{
		TransactionID: transactionID,
		From:          domain.StatusProcessing,
		To:            domain.StatusFailed,
	}); err != nil {
		logger.Error("withdrawal service mark failed", err, logger.Fields{"transactionId": transactionID})
	}
}
