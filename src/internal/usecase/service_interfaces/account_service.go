package service_interfaces

import (
	"context"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
)

type AccountService interface {
	GetAccount(ctx context.Context, userID string) (commons.Response[models.AccountResponse], error)
	LookupAccount(ctx context.Context, accountNumber string) (commons.Response[models.AccountLookupResponse], error)
	ChangePin(ctx context.Context, req models.ChangePinRequest) (commons.Response[models.AccountResponse], error)
	ListBanks(ctx context.Context) (commons.Response[[]models.BankResponse], error)
}
