package service_interfaces

import (
	"context"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
)

type OperatorService interface {
	FreezeAccount(ctx context.Context, req models.FreezeAccountRequest) (commons.Response[models.FreezeResponse], error)
	UnfreezeAccount(ctx context.Context, req models.UnfreezeAccountRequest) (commons.Response[models.UnfreezeResponse], error)
	FreezeHistory(ctx context.Context, accountNumber string) (commons.Response[[]models.FreezeResponse], error)
	TransitionTransaction(ctx context.Context, req models.TransitionTransactionRequest) (commons.Response[models.TransactionResponse], error)
	CompleteDeposit(ctx context.Context, transactionID string) (commons.Response[models.TransactionResponse], error)
	GetTransaction(ctx context.Context, transactionID string) (commons.Response[models.TransactionResponse], error)
}
