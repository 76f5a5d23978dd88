package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"proprental-backend/internal/clock"
	"proprental-backend/internal/config"
	"proprental-backend/internal/domain"
	"proprental-backend/internal/notify"
	"proprental-backend/internal/repository/memory"
	"proprental-backend/internal/service"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type jobFixture struct {
	store  *memory.Store
	clock  *clock.AdjustableClock
	svc    service.AgreementService
	runner *JobRunner
}

// newJobFixture wires the real services over the in-memory store with a
// signed one-year agreement on one room.
func newJobFixture(t *testing.T, start time.Time) *jobFixture {
	t.Helper()
	ctx := context.Background()

	store, err := memory.NewStore("")
	assert.NoError(t, err)
	clk := clock.NewAdjustableClock(start)
	svc := service.NewAgreementService(store.Agreements, store.Rooms, store.IndividualContractors, store.LegalEntityContractors, clk, notify.NewNotifier())

	passport, err := domain.NewPassportData("1234", "567890", date(2020, 5, 1), "City Dept 77", start)
	assert.NoError(t, err)
	contractor, err := domain.NewIndividualContractor(1, "+7 903 1112233", "Ivanov Ivan Ivanovich", passport, start)
	assert.NoError(t, err)
	assert.NoError(t, store.IndividualContractors.Create(ctx, contractor))

	room, err := domain.NewRoom(1, "101", decimal.NewFromInt(20), 1, domain.FinishingStandard, false)
	assert.NoError(t, err)
	room.BuildingID = 1
	assert.NoError(t, store.Rooms.Create(ctx, room))

	agreement, err := svc.CreateAgreement(ctx, service.CreateAgreementRequest{
		RegistrationNumber: "AG-2026-001",
		StartDate:          start,
		EndDate:            start.AddDate(1, 0, 0),
		PaymentFrequency:   domain.PaymentMonthly,
		ContractorID:       1,
		PenaltyRate:        decimal.RequireFromString("0.1"),
	})
	assert.NoError(t, err)
	_, err = svc.AddRentedItem(ctx, agreement.ID, service.AddRentedItemRequest{
		RoomID:     1,
		Purpose:    domain.PurposeOffice,
		RentUntil:  start.AddDate(1, 0, 0),
		RentAmount: decimal.NewFromInt(100),
	})
	assert.NoError(t, err)
	_, err = svc.SignAgreement(ctx, agreement.ID)
	assert.NoError(t, err)

	cfg := &config.Config{Scheduler: config.SchedulerConfig{ExpiringWindowDays: 30}}
	return &jobFixture{store: store, clock: clk, svc: svc, runner: NewJobRunner(svc, cfg)}
}

func TestJobRunner_SweepExpiredAgreements(t *testing.T) {
	ctx := context.Background()
	start := date(2026, 2, 1)
	f := newJobFixture(t, start)

	t.Run("Running agreements are left alone", func(t *testing.T) {
		f.runner.SweepExpiredAgreements()

		a, err := f.svc.GetAgreement(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.AgreementStatusActive, a.Status)
	})

	t.Run("Expired agreements are completed and rooms released", func(t *testing.T) {
		f.clock.Set(start.AddDate(1, 0, 1))
		f.runner.SweepExpiredAgreements()

		a, err := f.svc.GetAgreement(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.AgreementStatusCompleted, a.Status)

		room, err := f.store.Rooms.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.True(t, room.CanBeRented())
	})
}

func TestJobRunner_WatchClock(t *testing.T) {
	ctx := context.Background()
	start := date(2026, 2, 1)
	f := newJobFixture(t, start)

	cancel := f.runner.WatchClock(f.clock)

	// moving the clock past the end date sweeps without an explicit run
	f.clock.Advance(366 * 24 * time.Hour)
	a, err := f.svc.GetAgreement(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, domain.AgreementStatusCompleted, a.Status)

	cancel()
}

func TestJobRunner_RecoversFromPanic(t *testing.T) {
	runner := NewJobRunner(nil, &config.Config{})
	assert.NotPanics(t, func() {
		runner.runWithRecovery("ExplodingJob", func() { panic("boom") })
	})
}
