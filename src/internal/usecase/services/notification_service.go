package services

import (
	"context"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
)

const defaultNotificationLimit = 50

type NotificationService struct {
	notificationRepo domain.NotificationRepository
}

func NewNotificationService(notificationRepo domain.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID string, limit int) (commons.Response[[]models.NotificationResponse], error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	notifications, err := s.notificationRepo.ListForUser(ctx, userID, limit)
	if err != nil {
		logger.Error("notification service list failed", err, logger.Fields{"userId": userID})
		return failure[[]models.NotificationResponse]("failed to list notifications", err), err
	}
	return commons.SuccessResponse("notifications fetched successfully", models.NewNotificationResponses(notifications)), nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, notificationID string) (commons.Response[struct{}], error) {
	if err := s.notificationRepo.MarkRead(ctx, userID, notificationID); err != nil {
		return failure[struct{}]("failed to mark notification as read", err), err
	}
	return commons.SuccessResponse("notification marked as read", struct{}{}), nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (commons.Response[models.MarkAllReadResponse], error) {
	updated, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		logger.Error("notification service mark all read failed", err, logger.Fields{"userId": userID})
		return failure[models.MarkAllReadResponse]("failed to mark notifications as read", err), err
	}
	return commons.SuccessResponse("notifications marked as read", models.MarkAllReadResponse{Updated: updated}), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (commons.Response[models.UnreadCountResponse], error) {
	count, err := s.notificationRepo.UnreadCount(ctx, userID)
	if err != nil {
		logger.Error("notification service unread count failed", err, logger.Fields{"userId": userID})
		return failure[models.UnreadCountResponse]("failed to count notifications", err), err
	}
	return commons.SuccessResponse("unread notifications counted", models.UnreadCountResponse{UnreadCount: count}), nil
}
