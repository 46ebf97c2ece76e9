package domain

import "github.com/google/uuid"

// BulkItemError records a single failed item in a bulk operation.
// Index is the item's position in the input collection; ID is the
// contract being deleted/restored, or the equipment reference for a
// failed create.
type BulkItemError struct {
	Index   int       `json:"index"`
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

// BulkResult accounts for every input item of a bulk operation exactly
// once, either as a succeeded identifier or as a per-item error. A
// failing item never aborts the batch.
type BulkResult struct {
	Succeeded    int32           `json:"succeeded"`
	Failed       int32           `json:"failed"`
	SucceededIDs []uuid.UUID     `json:"succeeded_ids"`
	Errors       []BulkItemError `json:"errors"`
}

func (r *BulkResult) RecordSuccess(id uuid.UUID) {
	r.Succeeded++
	r.SucceededIDs = append(r.SucceededIDs, id)
}

func (r *BulkResult) RecordFailure(index int, id uuid.UUID, err error) {
	r.Failed++
	r.Errors = append(r.Errors, BulkItemError{Index: index, ID: id, Message: err.Error()})
}

// SuccessRate returns succeeded / (succeeded + failed) * 100, or 0 for
// an empty batch.
func (r *BulkResult) SuccessRate() float64 {
	total := r.Succeeded + r.Failed
	if total == 0 {
		return 0
	}
	return float64(r.Succeeded) / float64(total) * 100
}
