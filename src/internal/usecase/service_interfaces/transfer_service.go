package service_interfaces

import (
	"context"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
)

type TransferService interface {
	CreateTransfer(ctx context.Context, req models.CreateTransferRequest) (commons.Response[models.TransactionResponse], error)
	AuthorizeTransfer(ctx context.Context, req models.AuthorizeTransactionRequest) (commons.Response[models.AuthorizeTransferResponse], error)
}
