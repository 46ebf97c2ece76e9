package domain

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusSuspended ContractStatus = "SUSPENDED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
	ContractStatusFinished  ContractStatus = "FINISHED"
)

// MaxShifts bounds the billable shift count per contract.
const MaxShifts = 1000

// RentalContract is a rental agreement for a single piece of equipment
// over the half-open window [StartDate, EndDate). Two non-deleted
// Active/Suspended contracts for the same equipment must never have
// overlapping windows.
type RentalContract struct {
	ID              uuid.UUID      `json:"id"`
	EquipmentID     uuid.UUID      `json:"equipment_id"`
	CustomerID      uuid.UUID      `json:"customer_id"`
	StartDate       time.Time      `json:"start_date"`
	EndDate         time.Time      `json:"end_date"`
	Shifts          int32          `json:"shifts"`
	ShiftPriceCents int64          `json:"shift_price_cents"`
	Status          ContractStatus `json:"status"`
	SuspendedDate   *time.Time     `json:"suspended_date,omitempty"`
	CancelledDate   *time.Time     `json:"cancelled_date,omitempty"`
	FinishedDate    *time.Time     `json:"finished_date,omitempty"`
	AddedDate       time.Time      `json:"added_date"`
	UpdateDate      *time.Time     `json:"update_date,omitempty"`
	DeletedDate     *time.Time     `json:"deleted_date,omitempty"`
	// ConcurrencyToken is minted by the store on every persisted write.
	// It is opaque; only byte equality is meaningful.
	ConcurrencyToken []byte `json:"-"`
}

// RentalPriceCents is the derived total price. It is never stored, so
// it can never go stale relative to Shifts or ShiftPriceCents.
func (c *RentalContract) RentalPriceCents() int64 {
	return int64(c.Shifts) * c.ShiftPriceCents
}

// IsDeleted reports whether the contract is soft-deleted.
func (c *RentalContract) IsDeleted() bool {
	return c.DeletedDate != nil
}
