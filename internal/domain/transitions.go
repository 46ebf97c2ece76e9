package domain

import "time"

// transitionTable lists the allowed lifecycle edges. Cancelled and
// Finished are terminal and have no outgoing edges. Active -> Active
// is an idempotent re-confirmation.
var transitionTable = map[ContractStatus]map[ContractStatus]bool{
	ContractStatusActive: {
		ContractStatusActive:    true,
		ContractStatusSuspended: true,
		ContractStatusCancelled: true,
		ContractStatusFinished:  true,
	},
	ContractStatusSuspended: {
		ContractStatusActive:    true,
		ContractStatusCancelled: true,
		ContractStatusFinished:  true,
	},
	ContractStatusCancelled: {},
	ContractStatusFinished:  {},
}

// CanTransition reports whether the lifecycle allows moving from one
// status to another.
func CanTransition(from, to ContractStatus) bool {
	return transitionTable[from][to]
}

// ApplyTransition moves the contract to the target status and stamps
// the timestamp of the state being entered. Resuming a suspended
// contract keeps SuspendedDate as history and stamps nothing new.
// All status timestamp fields are written here and nowhere else.
func ApplyTransition(c *RentalContract, target ContractStatus, now time.Time) error {
	if !CanTransition(c.Status, target) {
		return &InvalidTransitionError{ContractID: c.ID, From: c.Status, To: target}
	}

	switch target {
	case ContractStatusSuspended:
		at := now
		c.SuspendedDate = &at
	case ContractStatusCancelled:
		at := now
		c.CancelledDate = &at
	case ContractStatusFinished:
		at := now
		c.FinishedDate = &at
	case ContractStatusActive:
		// Activate and Resume stamp nothing. Resume performs no new
		// overlap check either: a suspended contract never released
		// the equipment, so its window stayed in the reservation set.
	}

	c.Status = target
	return nil
}
