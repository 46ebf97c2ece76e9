package service

import (
	"context"

	"github.com/google/uuid"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
)

// executeBulk folds op over every item, capturing per-item failures
// instead of aborting the batch. The result accounts for each input
// exactly once. All-or-nothing semantics are the caller's policy, not
// the executor's.
func executeBulk[T any](items []T, itemID func(T) uuid.UUID, op func(T) (uuid.UUID, error)) *domain.BulkResult {
	result := &domain.BulkResult{}
	for i, item := range items {
		id, err := op(item)
		if err != nil {
			result.RecordFailure(i, itemID(item), err)
			continue
		}
		result.RecordSuccess(id)
	}
	return result
}

func (s *contractService) BulkCreateContracts(ctx context.Context, inputs []ContractInput) (*domain.BulkResult, error) {
	if len(inputs) == 0 {
		return nil, &domain.ValidationError{Field: "contracts", Reason: "bulk input must not be empty"}
	}
	result := executeBulk(inputs,
		func(in ContractInput) uuid.UUID { return in.EquipmentID },
		func(in ContractInput) (uuid.UUID, error) {
			contract, err := s.CreateContract(ctx, in)
			if err != nil {
				return uuid.Nil, err
			}
			return contract.ID, nil
		})
	logger.Info("Bulk create completed",
		"succeeded", result.Succeeded, "failed", result.Failed, "success_rate", result.SuccessRate())
	return result, nil
}

func (s *contractService) BulkSoftDeleteContracts(ctx context.Context, ids []uuid.UUID) (*domain.BulkResult, error) {
	if len(ids) == 0 {
		return nil, &domain.ValidationError{Field: "ids", Reason: "bulk input must not be empty"}
	}
	result := executeBulk(ids,
		func(id uuid.UUID) uuid.UUID { return id },
		func(id uuid.UUID) (uuid.UUID, error) {
			return id, s.SoftDeleteContract(ctx, id)
		})
	logger.Info("Bulk soft delete completed",
		"succeeded", result.Succeeded, "failed", result.Failed, "success_rate", result.SuccessRate())
	return result, nil
}

func (s *contractService) BulkRestoreContracts(ctx context.Context, ids []uuid.UUID) (*domain.BulkResult, error) {
	if len(ids) == 0 {
		return nil, &domain.ValidationError{Field: "ids", Reason: "bulk input must not be empty"}
	}
	result := executeBulk(ids,
		func(id uuid.UUID) uuid.UUID { return id },
		func(id uuid.UUID) (uuid.UUID, error) {
			return id, s.RestoreContract(ctx, id)
		})
	logger.Info("Bulk restore completed",
		"succeeded", result.Succeeded, "failed", result.Failed, "success_rate", result.SuccessRate())
	return result, nil
}
