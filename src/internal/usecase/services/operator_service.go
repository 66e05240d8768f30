package services

import (
	"context"
	"strings"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/ledger"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
)

// OperatorService backs the back-office routes. Operator transitions are
// not subject to freeze checks.
type OperatorService struct {
	engine      *ledger.Engine
	accountRepo domain.AccountRepository
	entryRepo   domain.EntryRepository
	freezeRepo  domain.FreezeRepository
}

func NewOperatorService(
	engine *ledger.Engine,
	accountRepo domain.AccountRepository,
	entryRepo domain.EntryRepository,
	freezeRepo domain.FreezeRepository,
) *OperatorService {
	return &OperatorService{
		engine:      engine,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		freezeRepo:  freezeRepo,
	}
}

func (s *OperatorService) FreezeAccount(ctx context.Context, req models.FreezeAccountRequest) (commons.Response[models.FreezeResponse], error) {
	logger.Info("operator service freeze account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.FreezeResponse]("validation failed", err), err
	}

	account, err := s.accountRepo.GetByAccountNumber(ctx, strings.TrimSpace(req.AccountNumber))
	if err != nil {
		return failure[models.FreezeResponse]("failed to freeze account", err), err
	}

	freeze, created, err := s.engine.Freeze(ctx, account.ID, domain.FreezeReason(strings.TrimSpace(req.Reason)), req.Notes)
	if err != nil {
		return failure[models.FreezeResponse]("failed to freeze account", err), err
	}

	message := "account frozen successfully"
	if !created {
		message = "account is already frozen"
	}
	return commons.SuccessResponse(message, models.NewFreezeResponse(account.AccountNumber, freeze, created)), nil
}

func (s *OperatorService) UnfreezeAccount(ctx context.Context, req models.UnfreezeAccountRequest) (commons.Response[models.UnfreezeResponse], error) {
	logger.Info("operator service unfreeze account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.UnfreezeResponse]("validation failed", err), err
	}

	account, err := s.accountRepo.GetByAccountNumber(ctx, strings.TrimSpace(req.AccountNumber))
	if err != nil {
		return failure[models.UnfreezeResponse]("failed to unfreeze account", err), err
	}

	lifted, err := s.engine.Unfreeze(ctx, account.ID)
	if err != nil {
		return failure[models.UnfreezeResponse]("failed to unfreeze account", err), err
	}

	message := "account unfrozen successfully"
	if !lifted {
		message = "account is not frozen"
	}
	return commons.SuccessResponse(message, models.UnfreezeResponse{
		AccountNumber: account.AccountNumber,
		Lifted:        lifted,
	}), nil
}

func (s *OperatorService) FreezeHistory(ctx context.Context, accountNumber string) (commons.Response[[]models.FreezeResponse], error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		err := domain.NewValidationError("accountNumber is required")
		return failure[[]models.FreezeResponse]("validation failed", err), err
	}

	account, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return failure[[]models.FreezeResponse]("failed to get freeze history", err), err
	}
	history, err := s.freezeRepo.History(ctx, account.ID)
	if err != nil {
		logger.Error("operator service freeze history failed", err, logger.Fields{"accountNumber": accountNumber})
		return failure[[]models.FreezeResponse]("failed to get freeze history", err), err
	}

	out := make([]models.FreezeResponse, 0, len(history))
	for _, freeze := range history {
		out = append(out, models.NewFreezeResponse(account.AccountNumber, freeze, false))
	}
	return commons.SuccessResponse("freeze history fetched successfully", out), nil
}

type operatorEdge struct {
	kind domain.Kind
	from domain.Status
	to   domain.Status
}

// operatorEdges are the status changes an operator may drive. Settlement
// edges that debit a customer stay behind that customer's PIN.
var operatorEdges = map[operatorEdge]bool{
	{domain.KindDeposit, domain.StatusPending, domain.StatusCompleted}:    true,
	{domain.KindDeposit, domain.StatusPending, domain.StatusFailed}:       true,
	{domain.KindDeposit, domain.StatusProcessing, domain.StatusCompleted}: true,
	{domain.KindDeposit, domain.StatusProcessing, domain.StatusFailed}:    true,
	{domain.KindTransfer, domain.StatusPending, domain.StatusCompleted}:   true,
	{domain.KindTransfer, domain.StatusPending, domain.StatusFailed}:      true,
	{domain.KindTransfer, domain.StatusCompleted, domain.StatusFailed}:    true,
	{domain.KindWithdrawal, domain.StatusProcessing, domain.StatusFailed}: true,
}

func operatorMayMove(entry domain.Entry, to domain.Status) error {
	if !operatorEdges[operatorEdge{kind: entry.Kind, from: entry.Status, to: to}] {
		return &domain.TransitionError{Kind: entry.Kind, From: entry.Status, To: to}
	}
	return nil
}

// TransitionTransaction applies an operator status change from whatever
// status the entry is in now, limited to operatorEdges.
func (s *OperatorService) TransitionTransaction(ctx context.Context, req models.TransitionTransactionRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("operator service transition request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.TransactionResponse]("validation failed", err), err
	}

	entry, err := loadEntry(ctx, s.entryRepo, req.TransactionID, "")
	if err != nil {
		return failure[models.TransactionResponse]("failed to update transaction", err), err
	}

	to := domain.Status(strings.TrimSpace(req.Status))
	if err := operatorMayMove(entry, to); err != nil {
		logger.Error("operator service transition rejected", err, logger.Fields{"transactionId": entry.TransactionID})
		return failure[models.TransactionResponse]("failed to update transaction", err), err
	}

	updated, err := s.engine.Transition(ctx, ledger.TransitionRequest{
		TransactionID: entry.TransactionID,
		From:          entry.Status,
		To:            to,
	})
	if err != nil {
		return failure[models.TransactionResponse]("failed to update transaction", err), err
	}

	logger.Info("operator service transition success", logger.Fields{
		"transactionId": updated.TransactionID,
		"from":          entry.Status,
		"to":            updated.Status,
	})
	return commons.SuccessResponse("transaction updated successfully", models.NewTransactionResponse(updated)), nil
}

// CompleteDeposit credits a pending or processing deposit.
func (s *OperatorService) CompleteDeposit(ctx context.Context, transactionID string) (commons.Response[models.TransactionResponse], error) {
	entry, err := loadEntry(ctx, s.entryRepo, transactionID, domain.KindDeposit)
	if err != nil {
		return failure[models.TransactionResponse]("failed to complete deposit", err), err
	}
	return s.TransitionTransaction(ctx, models.TransitionTransactionRequest{
		TransactionID: entry.TransactionID,
		Status:        string(domain.StatusCompleted),
	})
}

func (s *OperatorService) GetTransaction(ctx context.Context, transactionID string) (commons.Response[models.TransactionResponse], error) {
	entry, err := loadEntry(ctx, s.entryRepo, transactionID, "")
	if err != nil {
		return failure[models.TransactionResponse]("failed to get transaction", err), err
	}
	return commons.SuccessResponse("transaction fetched successfully", models.NewTransactionResponse(entry)), nil
}
