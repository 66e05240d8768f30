package services

import (
	"context"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
)

type BeneficiaryService struct {
	beneficiaryRepo domain.BeneficiaryRepository
}

func NewBeneficiaryService(beneficiaryRepo domain.BeneficiaryRepository) *BeneficiaryService {
	return &BeneficiaryService{beneficiaryRepo: beneficiaryRepo}
}

func (s *BeneficiaryService) ListBeneficiaries(ctx context.Context, userID string) (commons.Response[[]models.BeneficiaryResponse], error) {
	beneficiaries, err := s.beneficiaryRepo.ListForUser(ctx, userID)
	if err != nil {
		logger.Error("beneficiary service list failed", err, logger.Fields{"userId": userID})
		return failure[[]models.BeneficiaryResponse]("failed to list beneficiaries", err), err
	}
	return commons.SuccessResponse("beneficiaries fetched successfully", models.NewBeneficiaryResponses(beneficiaries)), nil
}

func (s *BeneficiaryService) RemoveBeneficiary(ctx context.Context, userID string, beneficiaryID int64) (commons.Response[struct{}], error) {
	logger.Info("beneficiary service remove request", logger.Fields{
		"userId":        userID,
		"beneficiaryId": beneficiaryID,
	})

	if err := s.beneficiaryRepo.Deactivate(ctx, userID, beneficiaryID); err != nil {
		return failure[struct{}]("failed to remove beneficiary", err), err
	}
	return commons.SuccessResponse("beneficiary removed successfully", struct{}{}), nil
}
