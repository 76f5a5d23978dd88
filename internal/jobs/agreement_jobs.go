package jobs

import (
	"context"
	"time"

	"proprental-backend/internal/clock"
	"proprental-backend/internal/logger"
)

// SweepExpiredAgreements completes active agreements whose term has elapsed,
// vacating their rooms.
func (jr *JobRunner) SweepExpiredAgreements() {
	jr.runWithRecovery("SweepExpiredAgreements", func() {
		ctx := context.Background()

		count, err := jr.agreements.SweepExpiredAgreements(ctx)
		if err != nil {
			logger.Error("Failed to sweep expired agreements", "error", err)
			return
		}
		logger.Info("Completed expired agreements", "count", count)
	})
}

// ReportExpiringAgreements logs agreements approaching their end date so
// operators can reach out about prolongation.
func (jr *JobRunner) ReportExpiringAgreements() {
	jr.runWithRecovery("ReportExpiringAgreements", func() {
		ctx := context.Background()

		window := jr.config.Scheduler.ExpiringWindowDays
		expiring, err := jr.agreements.ListExpiringAgreements(ctx, window)
		if err != nil {
			logger.Error("Failed to list expiring agreements", "error", err)
			return
		}
		for i := range expiring {
			a := &expiring[i]
			logger.Info("Agreement expiring soon",
				"agreement_id", a.ID,
				"registration_number", a.RegistrationNumber,
				"end_date", a.EndDate.Format("2006-01-02"),
			)
		}
		logger.Info("Reported expiring agreements", "count", len(expiring), "window_days", window)
	})
}

// WatchClock runs the sweep whenever a virtual clock moves, so expirations
// take effect immediately instead of waiting for the next cron tick. The
// returned cancel func removes the subscription.
func (jr *JobRunner) WatchClock(adjustable *clock.AdjustableClock) (cancel func()) {
	return adjustable.OnTimeChanged(func(time.Time) {
		jr.SweepExpiredAgreements()
	})
}
