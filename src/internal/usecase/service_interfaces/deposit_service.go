package service_interfaces

import (
	"context"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
)

type DepositService interface {
	CreateDeposit(ctx context.Context, req models.CreateDepositRequest) (commons.Response[models.TransactionResponse], error)
	ConfirmDeposit(ctx context.Context, req models.ConfirmDepositRequest) (commons.Response[models.TransactionResponse], error)
}
