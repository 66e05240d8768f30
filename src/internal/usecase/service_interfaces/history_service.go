package service_interfaces

import (
	"context"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
)

type TransactionService interface {
	ListTransactions(ctx context.Context, req models.ListTransactionsRequest) (commons.Response[[]models.TransactionResponse], error)
	GetTransaction(ctx context.Context, userID string, transactionID string) (commons.Response[models.TransactionResponse], error)
}

type BeneficiaryService interface {
	ListBeneficiaries(ctx context.Context, userID string) (commons.Response[[]models.BeneficiaryResponse], error)
	RemoveBeneficiary(ctx context.Context, userID string, beneficiaryID int64) (commons.Response[struct{}], error)
}

type NotificationService interface {
	ListNotifications(ctx context.Context, userID string, limit int) (commons.Response[[]models.NotificationResponse], error)
	UnreadCount(ctx context.Context, userID string) (commons.Response[models.UnreadCountResponse], error)
	MarkAllRead(ctx context.Context, userID string) (commons.Response[models.MarkAllReadResponse], error)
	MarkRead(ctx context.Context, userID string, notificationID string) (commons.Response[struct{}], error)
}
