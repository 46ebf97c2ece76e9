package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"equiprent-backend/internal/domain"
)

// ContractInput carries the caller-supplied fields of a rental
// contract. Everything else (id, status, timestamps, token) is owned
// by the lifecycle engine and the store.
type ContractInput struct {
	EquipmentID     uuid.UUID
	CustomerID      uuid.UUID
	StartDate       time.Time
	EndDate         time.Time
	Shifts          int32
	ShiftPriceCents int64
}

// ContractService is the rental-contract lifecycle engine. All errors
// of the domain taxonomy (validation, not-found, overlap, invalid
// transition, concurrency conflict, not-deleted) are typed and
// recoverable by the caller; only store infrastructure failures
// propagate unclassified.
type ContractService interface {
	CreateContract(ctx context.Context, input ContractInput) (*domain.RentalContract, error)
	// UpdateContract replaces the caller-editable fields. The caller
	// must present the concurrency token from its last read; a stale
	// token fails with domain.ConcurrencyConflictError.
	UpdateContract(ctx context.Context, id uuid.UUID, input ContractInput, token []byte) (*domain.RentalContract, error)
	GetContract(ctx context.Context, id uuid.UUID) (*domain.RentalContract, error)
	ListDeletedContracts(ctx context.Context) ([]domain.RentalContract, error)

	// Lifecycle transitions per the contract state machine.
	Activate(ctx context.Context, id uuid.UUID) error
	Suspend(ctx context.Context, id uuid.UUID) error
	Resume(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID) error
	Finish(ctx context.Context, id uuid.UUID) error

	SoftDeleteContract(ctx context.Context, id uuid.UUID) error
	RestoreContract(ctx context.Context, id uuid.UUID) error

	// Bulk operations isolate per-item failures; a failing item never
	// aborts the batch. An empty input is a validation error, not an
	// empty result.
	BulkCreateContracts(ctx context.Context, inputs []ContractInput) (*domain.BulkResult, error)
	BulkSoftDeleteContracts(ctx context.Context, ids []uuid.UUID) (*domain.BulkResult, error)
	BulkRestoreContracts(ctx context.Context, ids []uuid.UUID) (*domain.BulkResult, error)

	// RunExpirationSweepOnce finishes Active contracts whose end date
	// has passed and returns how many it transitioned. It is the
	// externally-triggerable unit of the recurring sweeper.
	RunExpirationSweepOnce(ctx context.Context) (int32, error)
}
