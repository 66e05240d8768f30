package service_interfaces

import (
	"context"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
)

type PaymentRequestService interface {
	CreatePaymentRequest(ctx context.Context, req models.CreatePaymentRequestRequest) (commons.Response[models.TransactionResponse], error)
	SendPaymentRequest(ctx context.Context, req models.AuthorizeTransactionRequest) (commons.Response[models.TransactionResponse], error)
	SettlePaymentRequest(ctx context.Context, req models.AuthorizeTransactionRequest) (commons.Response[models.TransactionResponse], error)
	DeletePaymentRequest(ctx context.Context, req models.DeletePaymentRequestRequest) (commons.Response[models.TransactionResponse], error)
}
