package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/ledger"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
)

type TransferService struct {
	engine          *ledger.Engine
	accountRepo     domain.AccountRepository
	userRepo        domain.UserRepository
	entryRepo       domain.EntryRepository
	beneficiaryRepo domain.BeneficiaryRepository
}

func NewTransferService(
	engine *ledger.Engine,
	accountRepo domain.AccountRepository,
	userRepo domain.UserRepository,
	entryRepo domain.EntryRepository,
	beneficiaryRepo domain.BeneficiaryRepository,
) *TransferService {
	return &TransferService{
		engine:          engine,
		accountRepo:     accountRepo,
		userRepo:        userRepo,
		entryRepo:       entryRepo,
		beneficiaryRepo: beneficiaryRepo,
	}
}

// CreateTransfer records a transfer in processing. The destination is
// internal when its account number belongs to a local account; any other
// number is treated as an external beneficiary.
func (s *TransferService) CreateTransfer(ctx context.Context, req models.CreateTransferRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("transfer service create transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.TransactionResponse]("validation failed", err), err
	}

	sender, err := callerAccount(ctx, s.accountRepo, req.UserID)
	if err != nil {
		logger.Error("transfer service sender account lookup failed", err, logger.Fields{"userId": req.UserID})
		return failure[models.TransactionResponse]("failed to create transfer", err), err
	}
	if err := ensureCanTransact(sender); err != nil {
		return failure[models.TransactionResponse]("failed to create transfer", err), err
	}
	if err := ensureSufficient(sender, req.Amount); err != nil {
		return failure[models.TransactionResponse]("failed to create transfer", err), err
	}

	details, requireUnfrozen, err := s.destination(ctx, sender, req)
	if err != nil {
		logger.Error("transfer service destination resolution failed", err, logger.Fields{
			"accountNumber": req.AccountNumber,
		})
		return failure[models.TransactionResponse]("failed to create transfer", err), err
	}

	entry, err := s.engine.Create(ctx, ledger.CreateRequest{
		Entry: domain.Entry{
			Kind:        domain.KindTransfer,
			UserID:      sender.UserID,
			AccountID:   sender.ID,
			Amount:      req.Amount,
			Status:      domain.StatusProcessing,
			Description: strings.TrimSpace(req.Description),
			Transfer:    &details,
		},
		RequireUnfrozen: requireUnfrozen,
	})
	if err != nil {
		return failure[models.TransactionResponse]("failed to create transfer", err), err
	}

	if req.SaveBeneficiary {
		s.saveBeneficiary(ctx, sender.UserID, details)
	}

	logger.Info("transfer service create transfer success", logger.Fields{
		"transactionId": entry.TransactionID,
		"type":          details.Type,
	})
	return commons.SuccessResponse("transfer created successfully", models.NewTransactionResponse(entry)), nil
}

// AuthorizeTransfer settles an internal transfer or parks an external one
// for operator approval, after the sender's PIN is verified.
func (s *TransferService) AuthorizeTransfer(ctx context.Context, req models.AuthorizeTransactionRequest) (commons.Response[models.AuthorizeTransferResponse], error) {
	logger.Info("transfer service authorize transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.AuthorizeTransferResponse]("validation failed", err), err
	}

	sender, err := callerAccount(ctx, s.accountRepo, req.UserID)
	if err != nil {
		return failure[models.AuthorizeTransferResponse]("failed to authorize transfer", err), err
	}
	entry, err := loadEntry(ctx, s.entryRepo, req.TransactionID, domain.KindTransfer)
	if err != nil {
		logger.Error("transfer service authorize lookup failed", err, logger.Fields{"transactionId": req.TransactionID})
		return failure[models.AuthorizeTransferResponse]("failed to authorize transfer", err), err
	}
	if entry.UserID != sender.UserID {
		err := domain.ErrForbidden
		return failure[models.AuthorizeTransferResponse]("failed to authorize transfer", err), err
	}

	to := domain.StatusCompleted
	if !entry.IsInternalTransfer() {
		to = domain.StatusPending
	}

	updated, err := s.engine.Authorize(ctx, ledger.AuthorizeRequest{
		PinAccountID: sender.ID,
		Pin:          req.Pin,
		Transition: ledger.TransitionRequest{
			TransactionID:   entry.TransactionID,
			From:            domain.StatusProcessing,
			To:              to,
			RequireUnfrozen: true,
			Check:           ownedBy(sender.UserID),
		},
	})
	if err != nil {
		return failure[models.AuthorizeTransferResponse]("failed to authorize transfer", err), err
	}

	response := models.AuthorizeTransferResponse{
		Transaction:      models.NewTransactionResponse(updated),
		AwaitingApproval: updated.Status == domain.StatusPending,
	}
	message := "transfer completed successfully"
	if response.AwaitingApproval {
		message = "transfer submitted and awaiting approval"
	}

	logger.Info("transfer service authorize transfer success", logger.Fields{
		"transactionId": updated.TransactionID,
		"status":        updated.Status,
	})
	return commons.SuccessResponse(message, response), nil
}

func (s *TransferService) destination(ctx context.Context, sender domain.Account, req models.CreateTransferRequest) (domain.TransferDetails, []string, error) {
	accountNumber := strings.TrimSpace(req.AccountNumber)

	receiver, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	switch {
	case err == nil:
		if receiver.ID == sender.ID {
			return domain.TransferDetails{}, nil, domain.NewValidationError("cannot transfer to your own account")
		}
		if !receiver.IsActive() {
			return domain.TransferDetails{}, nil, domain.NewValidationError("receiver account is not active")
		}
		name, err := s.accountName(ctx, receiver)
		if err != nil {
			return domain.TransferDetails{}, nil, err
		}
		return domain.TransferDetails{
			Type:                  domain.TransferInternal,
			ReceiverUserID:        receiver.UserID,
			ReceiverAccountID:     receiver.ID,
			ReceiverName:          name,
			ReceiverBank:          domain.InternalBankName,
			ReceiverAccountNumber: receiver.AccountNumber,
		}, []string{sender.ID, receiver.ID}, nil

	case errors.Is(err, domain.ErrRecordNotFound):
		bank := strings.TrimSpace(req.BankName)
		if bank == "" || strings.EqualFold(bank, domain.InternalBankName) {
			return domain.TransferDetails{}, nil, fmt.Errorf("%w: account %s", domain.ErrRecordNotFound, accountNumber)
		}
		name := strings.TrimSpace(req.AccountName)
		if name == "" {
			return domain.TransferDetails{}, nil, domain.NewValidationError("accountName is required for external transfers")
		}
		return domain.TransferDetails{
			Type:                  domain.TransferExternal,
			ReceiverName:          name,
			ReceiverBank:          bank,
			ReceiverAccountNumber: accountNumber,
		}, []string{sender.ID}, nil
	}
	return domain.TransferDetails{}, nil, err
}

func (s *TransferService) accountName(ctx context.Context, account domain.Account) (string, error) {
	user, err := s.userRepo.GetByID(ctx, account.UserID)
	if err != nil {
		return "", err
	}
	if name := strings.TrimSpace(user.FullName); name != "" {
		return name, nil
	}
	return user.Username, nil
}

// saveBeneficiary is best effort; a failure never fails the transfer.
func (s *TransferService) saveBeneficiary(ctx context.Context, userID string, details domain.TransferDetails) {
	beneficiary := domain.Beneficiary{
		UserID:        userID,
		Name:          details.ReceiverName,
		AccountNumber: details.ReceiverAccountNumber,
		BankName:      details.ReceiverBank,
		IsActive:      true,
	}
	if details.ReceiverAccountID != "" {
		accountID := details.ReceiverAccountID
		beneficiary.BeneficiaryAccountID = &accountID
	}

	saved, created, err := s.beneficiaryRepo.SaveIfAbsent(ctx, beneficiary)
	if err != nil {
		logger.Error("transfer service save beneficiary failed", err, logger.Fields{
			"userId":        userID,
			"accountNumber": details.ReceiverAccountNumber,
		})
		return
	}
	logger.Info("transfer service save beneficiary", logger.Fields{
		"beneficiaryId": saved.ID,
		"created":       created,
	})
}
