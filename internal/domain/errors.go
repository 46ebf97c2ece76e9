package domain

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

// ValidationError reports malformed input. It is never retried; the
// caller must correct the named field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing (or soft-deleted, where an active
// record was required) contract, equipment or customer.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// OverlapError reports that a requested window conflicts with an
// existing reservation for the same equipment.
type OverlapError struct {
	EquipmentID   uuid.UUID
	ConflictingID uuid.UUID
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("equipment %s is already reserved by contract %s for an overlapping window", e.EquipmentID, e.ConflictingID)
}

// InvalidTransitionError reports a lifecycle transition with no edge
// from the current status.
type InvalidTransitionError struct {
	ContractID uuid.UUID
	From       ContractStatus
	To         ContractStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("contract %s: invalid transition %s -> %s", e.ContractID, e.From, e.To)
}

// ConcurrencyConflictError reports a stale concurrency token. The
// caller must re-read the contract and retry, never resubmit blindly.
type ConcurrencyConflictError struct {
	ContractID uuid.UUID
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("contract %s was modified by another writer, re-read and retry", e.ContractID)
}

// NotDeletedError reports a restore request on a contract that is not
// currently soft-deleted.
type NotDeletedError struct {
	ContractID uuid.UUID
}

func (e *NotDeletedError) Error() string {
	return fmt.Sprintf("contract %s is not deleted", e.ContractID)
}

// CheckToken compares the stored concurrency token against the one the
// caller last read. The token is opaque; only equality matters.
func CheckToken(contractID uuid.UUID, stored, supplied []byte) error {
	if !bytes.Equal(stored, supplied) {
		return &ConcurrencyConflictError{ContractID: contractID}
	}
	return nil
}
