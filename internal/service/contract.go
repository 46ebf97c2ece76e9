package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
)

type contractService struct {
	contractRepo repository.ContractRepository
	refRepo      repository.ReferenceRepository
}

func NewContractService(contractRepo repository.ContractRepository, refRepo repository.ReferenceRepository) ContractService {
	return &contractService{
		contractRepo: contractRepo,
		refRepo:      refRepo,
	}
}

func validateInput(input ContractInput) error {
	if input.EquipmentID == uuid.Nil {
		return &domain.ValidationError{Field: "equipment_id", Reason: "required"}
	}
	if input.CustomerID == uuid.Nil {
		return &domain.ValidationError{Field: "customer_id", Reason: "required"}
	}
	if !input.EndDate.After(input.StartDate) {
		return &domain.ValidationError{Field: "end_date", Reason: "must be after start_date"}
	}
	if input.Shifts < 0 || input.Shifts > domain.MaxShifts {
		return &domain.ValidationError{Field: "shifts", Reason: fmt.Sprintf("must be between 0 and %d", domain.MaxShifts)}
	}
	if input.ShiftPriceCents < 0 {
		return &domain.ValidationError{Field: "shift_price_cents", Reason: "must not be negative"}
	}
	return nil
}

// checkOverlap fast-fails before any write is attempted. The store
// repeats the check inside the write transaction as the authoritative
// guard against concurrent writers.
func (s *contractService) checkOverlap(ctx context.Context, equipmentID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) error {
	reserving, err := s.contractRepo.ListReserving(ctx, equipmentID, excludeID)
	if err != nil {
		return fmt.Errorf("listing reserving contracts: %w", err)
	}
	for i := range reserving {
		if domain.WindowsOverlap(start, end, reserving[i].StartDate, reserving[i].EndDate) {
			return &domain.OverlapError{EquipmentID: equipmentID, ConflictingID: reserving[i].ID}
		}
	}
	return nil
}

func (s *contractService) CreateContract(ctx context.Context, input ContractInput) (*domain.RentalContract, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	exists, err := s.refRepo.EquipmentExists(ctx, input.EquipmentID)
	if err != nil {
		return nil, fmt.Errorf("checking equipment: %w", err)
	}
	if !exists {
		return nil, &domain.NotFoundError{Kind: "equipment", ID: input.EquipmentID}
	}
	exists, err = s.refRepo.CustomerExists(ctx, input.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("checking customer: %w", err)
	}
	if !exists {
		return nil, &domain.NotFoundError{Kind: "customer", ID: input.CustomerID}
	}

	if err := s.checkOverlap(ctx, input.EquipmentID, input.StartDate, input.EndDate, nil); err != nil {
		return nil, err
	}

	contract := &domain.RentalContract{
		ID:              uuid.New(),
		EquipmentID:     input.EquipmentID,
		CustomerID:      input.CustomerID,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Shifts:          input.Shifts,
		ShiftPriceCents: input.ShiftPriceCents,
		Status:          domain.ContractStatusActive,
		AddedDate:       time.Now().UTC(),
	}
	if err := s.contractRepo.Insert(ctx, contract); err != nil {
		return nil, err
	}

	logger.Info("Created rental contract",
		"contract_id", contract.ID,
		"equipment_id", contract.EquipmentID,
		"start_date", contract.StartDate,
		"end_date", contract.EndDate)
	return contract, nil
}

func (s *contractService) UpdateContract(ctx context.Context, id uuid.UUID, input ContractInput, token []byte) (*domain.RentalContract, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	// Fast fail on a stale token. The store re-validates on write, so
	// a writer sneaking in after this check still cannot be lost.
	if err := domain.CheckToken(contract.ID, contract.ConcurrencyToken, token); err != nil {
		return nil, err
	}
	// Self-exclusion: the contract's own stored window must not count
	// against its replacement window.
	if err := s.checkOverlap(ctx, input.EquipmentID, input.StartDate, input.EndDate, &id); err != nil {
		return nil, err
	}

	contract.EquipmentID = input.EquipmentID
	contract.CustomerID = input.CustomerID
	contract.StartDate = input.StartDate
	contract.EndDate = input.EndDate
	contract.Shifts = input.Shifts
	contract.ShiftPriceCents = input.ShiftPriceCents

	if err := s.contractRepo.Update(ctx, contract, token); err != nil {
		return nil, err
	}

	logger.Info("Updated rental contract", "contract_id", contract.ID)
	return contract, nil
}

func (s *contractService) GetContract(ctx context.Context, id uuid.UUID) (*domain.RentalContract, error) {
	return s.contractRepo.GetByID(ctx, id, false)
}

func (s *contractService) ListDeletedContracts(ctx context.Context) ([]domain.RentalContract, error) {
	return s.contractRepo.ListDeleted(ctx)
}

// transition is the single read-then-write cycle behind every
// caller-driven lifecycle operation. The token read here guards the
// write, so no caller-supplied token is needed.
func (s *contractService) transition(ctx context.Context, id uuid.UUID, target domain.ContractStatus) error {
	contract, err := s.contractRepo.GetByID(ctx, id, false)
	if err != nil {
		return err
	}
	from := contract.Status
	if err := domain.ApplyTransition(contract, target, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.contractRepo.Update(ctx, contract, contract.ConcurrencyToken); err != nil {
		return err
	}

	logger.Info("Contract transitioned", "contract_id", id, "from", from, "to", target)
	return nil
}

func (s *contractService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, domain.ContractStatusActive)
}

func (s *contractService) Suspend(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, domain.ContractStatusSuspended)
}

func (s *contractService) Resume(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, domain.ContractStatusActive)
}

func (s *contractService) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, domain.ContractStatusCancelled)
}

func (s *contractService) Finish(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, domain.ContractStatusFinished)
}

func (s *contractService) SoftDeleteContract(ctx context.Context, id uuid.UUID) error {
	if err := s.contractRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	logger.Info("Soft-deleted rental contract", "contract_id", id)
	return nil
}

func (s *contractService) RestoreContract(ctx context.Context, id uuid.UUID) error {
	if err := s.contractRepo.Restore(ctx, id); err != nil {
		return err
	}
	logger.Info("Restored rental contract", "contract_id", id)
	return nil
}

func (s *contractService) RunExpirationSweepOnce(ctx context.Context) (int32, error) {
	now := time.Now().UTC()
	expired, err := s.contractRepo.ListActiveEndingBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("listing expired contracts: %w", err)
	}

	var finished int32
	for i := range expired {
		// Stop between contracts on shutdown; a dispatched write is
		// left to complete so status and its timestamp stay in step.
		if err := ctx.Err(); err != nil {
			return finished, err
		}
		contract := &expired[i]
		if err := domain.ApplyTransition(contract, domain.ContractStatusFinished, now); err != nil {
			logger.Warn("Skipping contract without finish edge", "contract_id", contract.ID, "status", contract.Status)
			continue
		}
		if err := s.contractRepo.Update(ctx, contract, contract.ConcurrencyToken); err != nil {
			logger.Error("Failed to finish expired contract", "contract_id", contract.ID, "error", err)
			continue
		}
		finished++
		logger.Debug("Finished expired contract", "contract_id", contract.ID, "end_date", contract.EndDate)
	}
	return finished, nil
}
