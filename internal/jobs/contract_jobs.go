package jobs

import (
	"context"

	"equiprent-backend/internal/logger"
)

// FinishExpiredContracts transitions Active contracts past their end
// date to Finished. A failure on one contract is logged inside the
// sweep and never stops the rest; a duplicate run is a no-op because
// finished contracts drop out of the Active-only query.
func (jr *JobRunner) FinishExpiredContracts() {
	jr.runWithRecovery("FinishExpiredContracts", func() {
		count, err := jr.contracts.RunExpirationSweepOnce(context.Background())
		if err != nil {
			logger.Error("Expiration sweep failed", "error", err, "finished_before_failure", count)
			return
		}
		logger.Info("Expiration sweep completed", "finished", count)
	})
}
