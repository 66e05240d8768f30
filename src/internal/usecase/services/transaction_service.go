package services

import (
	"context"
	"strings"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
)

type TransactionService struct {
	entryRepo domain.EntryRepository
}

func NewTransactionService(entryRepo domain.EntryRepository) *TransactionService {
	return &TransactionService{entryRepo: entryRepo}
}

func (s *TransactionService) ListTransactions(ctx context.Context, req models.ListTransactionsRequest) (commons.Response[[]models.TransactionResponse], error) {
	logger.Info("transaction service list request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[[]models.TransactionResponse]("validation failed", err), err
	}

	entries, err := s.entryRepo.List(ctx, req.Filter())
	if err != nil {
		logger.Error("transaction service list failed", err, logger.Fields{"userId": req.UserID})
		return failure[[]models.TransactionResponse]("failed to list transactions", err), err
	}
	return commons.SuccessResponse("transactions fetched successfully", models.NewTransactionResponses(entries)), nil
}

// GetTransaction returns an entry to either of its participants.
func (s *TransactionService) GetTransaction(ctx context.Context, userID string, transactionID string) (commons.Response[models.TransactionResponse], error) {
	logger.Info("transaction service get request", logger.Fields{
		"userId":        userID,
		"transactionId": transactionID,
	})

	entry, err := loadEntry(ctx, s.entryRepo, transactionID, "")
	if err != nil {
		return failure[models.TransactionResponse]("failed to get transaction", err), err
	}

	userID = strings.TrimSpace(userID)
	if entry.UserID != userID && entry.CounterpartyUserID() != userID {
		err := domain.ErrForbidden
		return failure[models.TransactionResponse]("failed to get transaction", err), err
	}
	return commons.SuccessResponse("transaction fetched successfully", models.NewTransactionResponse(entry)), nil
}
