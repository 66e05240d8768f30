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

// PaymentRequestService runs the request-money flow. The requester creates
// and sends the request; the payer settles it.
type PaymentRequestService struct {
	engine      *ledger.Engine
	accountRepo domain.AccountRepository
	entryRepo   domain.EntryRepository
}

func NewPaymentRequestService(engine *ledger.Engine, accountRepo domain.AccountRepository, entryRepo domain.EntryRepository) *PaymentRequestService {
	return &PaymentRequestService{
		engine:      engine,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

func (s *PaymentRequestService) CreatePaymentRequest(ctx context.Context, req models.CreatePaymentRequestRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("payment request service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.TransactionResponse]("validation failed", err), err
	}

	requester, err := callerAccount(ctx, s.accountRepo, req.UserID)
	if err != nil {
		return failure[models.TransactionResponse]("failed to create payment request", err), err
	}
	if !requester.IsActive() {
		err := domain.NewValidationError("account is not active")
		return failure[models.TransactionResponse]("failed to create payment request", err), err
	}

	payer, err := s.accountRepo.GetByAccountNumber(ctx, strings.TrimSpace(req.PayerAccountNumber))
	if err != nil {
		logger.Error("payment request service payer lookup failed", err, logger.Fields{
			"accountNumber": req.PayerAccountNumber,
		})
		return failure[models.TransactionResponse]("failed to create payment request", err), err
	}
	if payer.ID == requester.ID {
		err := domain.NewValidationError("cannot request payment from your own account")
		return failure[models.TransactionResponse]("failed to create payment request", err), err
	}

	entry, err := s.engine.Create(ctx, ledger.CreateRequest{
		Entry: domain.Entry{
			Kind:        domain.KindPaymentRequest,
			UserID:      requester.UserID,
			AccountID:   requester.ID,
			Amount:      req.Amount,
			Status:      domain.StatusProcessing,
			Description: strings.TrimSpace(req.Description),
			PaymentRequest: &domain.PaymentRequestDetails{
				SenderUserID:      requester.UserID,
				SenderAccountID:   requester.ID,
				ReceiverUserID:    payer.UserID,
				ReceiverAccountID: payer.ID,
			},
		},
		RequireUnfrozen: []string{requester.ID},
	})
	if err != nil {
		return failure[models.TransactionResponse]("failed to create payment request", err), err
	}

	logger.Info("payment request service create request success", logger.Fields{
		"transactionId": entry.TransactionID,
	})
	return commons.SuccessResponse("payment request created successfully", models.NewTransactionResponse(entry)), nil
}

// SendPaymentRequest delivers the request to the payer once the requester
// confirms with their PIN.
func (s *PaymentRequestService) SendPaymentRequest(ctx context.Context, req models.AuthorizeTransactionRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("payment request service send request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.TransactionResponse]("validation failed", err), err
	}

	requester, err := callerAccount(ctx, s.accountRepo, req.UserID)
	if err != nil {
		return failure[models.TransactionResponse]("failed to send payment request", err), err
	}
	entry, err := loadEntry(ctx, s.entryRepo, req.TransactionID, domain.KindPaymentRequest)
	if err != nil {
		return failure[models.TransactionResponse]("failed to send payment request", err), err
	}
	if entry.UserID != requester.UserID {
		err := domain.ErrForbidden
		return failure[models.TransactionResponse]("failed to send payment request", err), err
	}

	updated, err := s.engine.Authorize(ctx, ledger.AuthorizeRequest{
		PinAccountID: requester.ID,
		Pin:          req.Pin,
		Transition: ledger.TransitionRequest{
			TransactionID: entry.TransactionID,
			From:          domain.StatusProcessing,
			To:            domain.StatusRequestSent,
			Check:         ownedBy(requester.UserID),
		},
	})
	if err != nil {
		return failure[models.TransactionResponse]("failed to send payment request", err), err
	}

	logger.Info("payment request service send request success", logger.Fields{
		"transactionId": updated.TransactionID,
	})
	return commons.SuccessResponse("payment request sent successfully", models.NewTransactionResponse(updated)), nil
}

// SettlePaymentRequest pays a received request. A payer who is short fails
// with insufficient balance and the request stays sent.
func (s *PaymentRequestService) SettlePaymentRequest(ctx context.Context, req models.AuthorizeTransactionRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("payment request service settle request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.TransactionResponse]("validation failed", err), err
	}

	payer, err := callerAccount(ctx, s.accountRepo, req.UserID)
	if err != nil {
		return failure[models.TransactionResponse]("failed to settle payment request", err), err
	}
	entry, err := loadEntry(ctx, s.entryRepo, req.TransactionID, domain.KindPaymentRequest)
	if err != nil {
		return failure[models.TransactionResponse]("failed to settle payment request", err), err
	}
	isPayer := func(entry domain.Entry) error {
		if entry.PaymentRequest == nil || entry.PaymentRequest.ReceiverAccountID != payer.ID {
			return domain.ErrForbidden
		}
		return nil
	}
	if err := isPayer(entry); err != nil {
		return failure[models.TransactionResponse]("failed to settle payment request", err), err
	}

	updated, err := s.engine.Authorize(ctx, ledger.AuthorizeRequest{
		PinAccountID: payer.ID,
		Pin:          req.Pin,
		Transition: ledger.TransitionRequest{
			TransactionID:   entry.TransactionID,
			From:            domain.StatusRequestSent,
			To:              domain.StatusRequestSettled,
			RequireUnfrozen: true,
			Check:           isPayer,
		},
	})
	if err != nil {
		return failure[models.TransactionResponse]("failed to settle payment request", err), err
	}

	logger.Info("payment request service settle request success", logger.Fields{
		"transactionId": updated.TransactionID,
	})
	return commons.SuccessResponse("payment request settled successfully", models.NewTransactionResponse(updated)), nil
}

func (s *PaymentRequestService) DeletePaymentRequest(ctx context.Context, req models.DeletePaymentRequestRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("payment request service delete request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.TransactionResponse]("validation failed", err), err
	}

	entry, err := loadEntry(ctx, s.entryRepo, req.TransactionID, domain.KindPaymentRequest)
	if err != nil {
		return failure[models.TransactionResponse]("failed to delete payment request", err), err
	}
	if err := s.engine.DeletePaymentRequest(ctx, entry.TransactionID, strings.TrimSpace(req.UserID)); err != nil {
		return failure[models.TransactionResponse]("failed to delete payment request", err), err
	}

	return commons.SuccessResponse("payment request deleted successfully", models.NewTransactionResponse(entry)), nil
}
