package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"equiprent-backend/internal/domain"
)

// ContractRepository persists rental contracts. Insert and Update
// re-validate the no-overlap invariant inside their own transaction,
// so a concurrent writer cannot slip an overlapping window between the
// service's pre-check and the write. Both mint a fresh concurrency
// token on success and write it back to the passed contract.
type ContractRepository interface {
	Insert(ctx context.Context, c *domain.RentalContract) error
	GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.RentalContract, error)
	// ListReserving returns the non-deleted contracts still holding a
	// reservation on the equipment (Active or Suspended; Cancelled,
	// Finished and soft-deleted contracts have released it). A
	// non-nil excludeID removes that contract from the result, used
	// when a contract's own dates are being updated.
	ListReserving(ctx context.Context, equipmentID uuid.UUID, excludeID *uuid.UUID) ([]domain.RentalContract, error)
	ListActiveEndingBefore(ctx context.Context, cutoff time.Time) ([]domain.RentalContract, error)
	// Update is guarded by expectedToken; a mismatch against the
	// stored token fails with domain.ConcurrencyConflictError.
	Update(ctx context.Context, c *domain.RentalContract, expectedToken []byte) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	ListDeleted(ctx context.Context) ([]domain.RentalContract, error)
}

// ReferenceRepository validates externally-owned equipment and
// customer references at contract creation time. This core never
// mutates those records.
type ReferenceRepository interface {
	EquipmentExists(ctx context.Context, id uuid.UUID) (bool, error)
	CustomerExists(ctx context.Context, id uuid.UUID) (bool, error)
}
