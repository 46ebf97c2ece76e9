package service

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"

	"equiprent-backend/internal/domain"
)

// memContractRepo mirrors the postgres repository contract in memory:
// overlap re-check on writes, token rotation on every persisted write,
// explicit soft-delete semantics. Scenario and property tests run the
// whole service against it.
type memContractRepo struct {
	contracts  map[uuid.UUID]*domain.RentalContract
	failUpdate map[uuid.UUID]error
}

func newMemContractRepo() *memContractRepo {
	return &memContractRepo{
		contracts:  make(map[uuid.UUID]*domain.RentalContract),
		failUpdate: make(map[uuid.UUID]error),
	}
}

func mintToken() []byte {
	u := uuid.New()
	return u[:]
}

func (r *memContractRepo) reserving(c *domain.RentalContract) bool {
	return c.DeletedDate == nil &&
		(c.Status == domain.ContractStatusActive || c.Status == domain.ContractStatusSuspended)
}

func (r *memContractRepo) findConflict(equipmentID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) *domain.RentalContract {
	for _, other := range r.contracts {
		if excludeID != nil && other.ID == *excludeID {
			continue
		}
		if other.EquipmentID != equipmentID || !r.reserving(other) {
			continue
		}
		if domain.WindowsOverlap(start, end, other.StartDate, other.EndDate) {
			return other
		}
	}
	return nil
}

func (r *memContractRepo) Insert(_ context.Context, c *domain.RentalContract) error {
	if conflict := r.findConflict(c.EquipmentID, c.StartDate, c.EndDate, nil); conflict != nil {
		return &domain.OverlapError{EquipmentID: c.EquipmentID, ConflictingID: conflict.ID}
	}
	c.ConcurrencyToken = mintToken()
	stored := *c
	r.contracts[c.ID] = &stored
	return nil
}

func (r *memContractRepo) GetByID(_ context.Context, id uuid.UUID, includeDeleted bool) (*domain.RentalContract, error) {
	stored, ok := r.contracts[id]
	if !ok || (!includeDeleted && stored.DeletedDate != nil) {
		return nil, &domain.NotFoundError{Kind: "contract", ID: id}
	}
	c := *stored
	return &c, nil
}

func (r *memContractRepo) ListReserving(_ context.Context, equipmentID uuid.UUID, excludeID *uuid.UUID) ([]domain.RentalContract, error) {
	var out []domain.RentalContract
	for _, c := range r.contracts {
		if excludeID != nil && c.ID == *excludeID {
			continue
		}
		if c.EquipmentID == equipmentID && r.reserving(c) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memContractRepo) ListActiveEndingBefore(_ context.Context, cutoff time.Time) ([]domain.RentalContract, error) {
	var out []domain.RentalContract
	for _, c := range r.contracts {
		if c.DeletedDate == nil && c.Status == domain.ContractStatusActive && !c.EndDate.After(cutoff) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memContractRepo) Update(_ context.Context, c *domain.RentalContract, expectedToken []byte) error {
	if err, ok := r.failUpdate[c.ID]; ok {
		return err
	}
	stored, ok := r.contracts[c.ID]
	if !ok || stored.DeletedDate != nil {
		return &domain.NotFoundError{Kind: "contract", ID: c.ID}
	}
	if !bytes.Equal(stored.ConcurrencyToken, expectedToken) {
		return &domain.ConcurrencyConflictError{ContractID: c.ID}
	}
	if conflict := r.findConflict(c.EquipmentID, c.StartDate, c.EndDate, &c.ID); conflict != nil {
		return &domain.OverlapError{EquipmentID: c.EquipmentID, ConflictingID: conflict.ID}
	}
	now := time.Now().UTC()
	c.ConcurrencyToken = mintToken()
	c.UpdateDate = &now
	updated := *c
	r.contracts[c.ID] = &updated
	return nil
}

func (r *memContractRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	stored, ok := r.contracts[id]
	if !ok || stored.DeletedDate != nil {
		return &domain.NotFoundError{Kind: "contract", ID: id}
	}
	now := time.Now().UTC()
	stored.DeletedDate = &now
	stored.UpdateDate = &now
	stored.ConcurrencyToken = mintToken()
	return nil
}

func (r *memContractRepo) Restore(_ context.Context, id uuid.UUID) error {
	stored, ok := r.contracts[id]
	if !ok {
		return &domain.NotFoundError{Kind: "contract", ID: id}
	}
	if stored.DeletedDate == nil {
		return &domain.NotDeletedError{ContractID: id}
	}
	now := time.Now().UTC()
	stored.DeletedDate = nil
	stored.UpdateDate = &now
	stored.ConcurrencyToken = mintToken()
	return nil
}

func (r *memContractRepo) ListDeleted(_ context.Context) ([]domain.RentalContract, error) {
	var out []domain.RentalContract
	for _, c := range r.contracts {
		if c.DeletedDate != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

// stubReferenceRepo approves every reference lookup.
type stubReferenceRepo struct{}

func (stubReferenceRepo) EquipmentExists(context.Context, uuid.UUID) (bool, error) {
	return true, nil
}
func (stubReferenceRepo) CustomerExists(context.Context, uuid.UUID) (bool, error) {
	return true, nil
}
