package services

import (
	"context"
	"strings"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/guard"
	"github.com/api-sage/paylio-ledger/src/internal/ledger"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
)

type AccountService struct {
	engine      *ledger.Engine
	guard       *guard.Guard
	accountRepo domain.AccountRepository
	userRepo    domain.UserRepository
	freezeRepo  domain.FreezeRepository
	banks       domain.BankDirectory
	now         func() time.Time
}

func NewAccountService(
	engine *ledger.Engine,
	g *guard.Guard,
	accountRepo domain.AccountRepository,
	userRepo domain.UserRepository,
	freezeRepo domain.FreezeRepository,
	banks domain.BankDirectory,
) *AccountService {
	if g == nil {
		g = guard.New()
	}
	return &AccountService{
		engine:      engine,
		guard:       g,
		accountRepo: accountRepo,
		userRepo:    userRepo,
		freezeRepo:  freezeRepo,
		banks:       banks,
		now:         time.Now,
	}
}

func (s *AccountService) GetAccount(ctx context.Context, userID string) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service get account request", logger.Fields{"userId": userID})

	account, err := callerAccount(ctx, s.accountRepo, userID)
	if err != nil {
		logger.Error("account service get account failed", err, logger.Fields{"userId": userID})
		return failure[models.AccountResponse]("failed to get account", err), err
	}
	freeze, err := s.freezeRepo.ActiveForAccount(ctx, account.ID)
	if err != nil {
		logger.Error("account service freeze lookup failed", err, logger.Fields{"accountId": account.ID})
		return failure[models.AccountResponse]("failed to get account", err), err
	}

	status := s.guard.FreezeStatus(freeze)
	response := models.AccountResponse{
		ID:            account.ID,
		UserID:        account.UserID,
		AccountNumber: account.AccountNumber,
		Balance:       account.Balance,
		Status:        string(account.Status),
		KYCConfirmed:  account.KYCConfirmed,
		Frozen:        status.Frozen,
	}
	if status.Frozen {
		response.FreezeReason = status.Reason.Display()
		response.FreezeNotes = status.Notes
	}
	if until := account.PinLockoutUntil; until != nil && s.now().Before(*until) {
		response.PinLocked = true
		response.PinLockedTill = until
	}

	return commons.SuccessResponse("account fetched successfully", response), nil
}

// LookupAccount resolves a local account number to its holder's name, for
// confirming a transfer destination.
func (s *AccountService) LookupAccount(ctx context.Context, accountNumber string) (commons.Response[models.AccountLookupResponse], error) {
	logger.Info("account service lookup account request", logger.Fields{"accountNumber": accountNumber})

	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		err := domain.NewValidationError("accountNumber is required")
		return failure[models.AccountLookupResponse]("validation failed", err), err
	}

	account, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return failure[models.AccountLookupResponse]("failed to lookup account", err), err
	}
	user, err := s.userRepo.GetByID(ctx, account.UserID)
	if err != nil {
		logger.Error("account service lookup user failed", err, logger.Fields{"accountNumber": accountNumber})
		return failure[models.AccountLookupResponse]("failed to lookup account", err), err
	}

	name := strings.TrimSpace(user.FullName)
	if name == "" {
		name = user.Username
	}
	return commons.SuccessResponse("account fetched successfully", models.AccountLookupResponse{
		AccountName:   name,
		AccountNumber: account.AccountNumber,
		BankName:      domain.InternalBankName,
	}), nil
}

func (s *AccountService) ChangePin(ctx context.Context, req models.ChangePinRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service change pin request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return failure[models.AccountResponse]("validation failed", err), err
	}

	account, err := callerAccount(ctx, s.accountRepo, req.UserID)
	if err != nil {
		return failure[models.AccountResponse]("failed to change pin", err), err
	}
	if err := s.engine.ChangePin(ctx, account.ID, req.CurrentPin, req.NewPin); err != nil {
		return failure[models.AccountResponse]("failed to change pin", err), err
	}

	logger.Info("account service change pin success", logger.Fields{"accountId": account.ID})
	response, err := s.GetAccount(ctx, req.UserID)
	if err != nil {
		return response, err
	}
	response.Message = "pin changed successfully"
	return response, nil
}

func (s *AccountService) ListBanks(ctx context.Context) (commons.Response[[]models.BankResponse], error) {
	banks, err := s.banks.GetAll(ctx)
	if err != nil {
		logger.Error("account service list banks failed", err, nil)
		return failure[[]models.BankResponse]("failed to get banks", err), err
	}

	out := make([]models.BankResponse, 0, len(banks))
	for _, bank := range banks {
		out = append(out, models.BankResponse{Name: bank.Name, Code: bank.Code})
	}
	return commons.SuccessResponse("banks fetched successfully", out), nil
}
