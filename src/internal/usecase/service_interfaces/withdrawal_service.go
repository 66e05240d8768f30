package service_interfaces

import (
	"context"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
)

type WithdrawalService interface {
	CreateWithdrawal(ctx context.Context, req models.CreateWithdrawalRequest) (commons.Response[models.TransactionResponse], error)
	AuthorizeWithdrawal(ctx context.Context, req models.AuthorizeTransactionRequest) (commons.Response[models.TransactionResponse], error)
}
