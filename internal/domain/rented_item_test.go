package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRentedItem(t *testing.T) {
	now := date(2026, 1, 1)

	t.Run("Success", func(t *testing.T) {
		item, err := NewRentedItem(1, PurposeOffice, date(2026, 12, 31), decimal.NewFromInt(100), now)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), item.RoomID)
		assert.False(t, item.IsEarlyTerminated)
		assert.Nil(t, item.ActualVacationDate)
	})

	t.Run("Rent term not in the future", func(t *testing.T) {
		_, err := NewRentedItem(1, PurposeOffice, now, decimal.NewFromInt(100), now)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "rent_until", ve.Field)
	})

	t.Run("Non-positive rent", func(t *testing.T) {
		_, err := NewRentedItem(1, PurposeOffice, date(2026, 12, 31), decimal.Zero, now)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "rent_amount", ve.Field)
	})
}

func TestRentedItem_TerminateEarly(t *testing.T) {
	now := date(2026, 1, 1)
	item, err := NewRentedItem(1, PurposeKiosk, date(2026, 6, 30), decimal.NewFromInt(200), now)
	assert.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		err := item.TerminateEarly("tenant moved out", date(2026, 3, 1))
		assert.NoError(t, err)
		assert.True(t, item.IsEarlyTerminated)
		assert.Equal(t, "tenant moved out", item.EarlyTerminationReason)
		assert.Equal(t, date(2026, 3, 1), *item.ActualVacationDate)
		assert.False(t, item.IsActive(date(2026, 3, 2)))
	})

	t.Run("Second termination rejected", func(t *testing.T) {
		err := item.TerminateEarly("again", date(2026, 4, 1))
		var ise *InvalidStateError
		assert.ErrorAs(t, err, &ise)
	})

	t.Run("Termination after rent term rejected", func(t *testing.T) {
		fresh, _ := NewRentedItem(2, PurposeOffice, date(2026, 2, 1), decimal.NewFromInt(50), now)
		err := fresh.TerminateEarly("late", date(2026, 2, 2))
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.False(t, fresh.IsEarlyTerminated)
	})
}

func TestRentedItem_CalculatePenalty(t *testing.T) {
	now := date(2026, 1, 1)

	t.Run("Ten days left at one tenth rate", func(t *testing.T) {
		item, _ := NewRentedItem(1, PurposeOffice, date(2026, 3, 11), decimal.NewFromInt(100), now)
		assert.NoError(t, item.TerminateEarly("cancelled", date(2026, 3, 1)))

		penalty := item.CalculatePenalty(date(2026, 3, 1), decimal.RequireFromString("0.1"))
		// 100 * (10/30) * 0.1
		assert.InDelta(t, 3.3333, penalty.InexactFloat64(), 0.001)
	})

	t.Run("Zero when not terminated", func(t *testing.T) {
		item, _ := NewRentedItem(1, PurposeOffice, date(2026, 3, 11), decimal.NewFromInt(100), now)
		assert.True(t, item.CalculatePenalty(date(2026, 3, 1), decimal.RequireFromString("0.1")).IsZero())
	})

	t.Run("Clamped at zero past the term", func(t *testing.T) {
		item, _ := NewRentedItem(1, PurposeOffice, date(2026, 3, 11), decimal.NewFromInt(100), now)
		assert.NoError(t, item.TerminateEarly("cancelled", date(2026, 3, 11)))
		penalty := item.CalculatePenalty(date(2026, 4, 1), decimal.RequireFromString("0.1"))
		assert.True(t, penalty.IsZero())
	})
}

func TestRentedItem_ExtendRent(t *testing.T) {
	now := date(2026, 1, 1)
	item, _ := NewRentedItem(1, PurposeRetail, date(2026, 6, 30), decimal.NewFromInt(100), now)

	t.Run("Extend with new amount", func(t *testing.T) {
		amount := decimal.NewFromInt(120)
		err := item.ExtendRent(date(2026, 12, 31), &amount)
		assert.NoError(t, err)
		assert.Equal(t, date(2026, 12, 31), item.RentUntil)
		assert.True(t, item.RentAmount.Equal(decimal.NewFromInt(120)))
	})

	t.Run("New term must be later", func(t *testing.T) {
		err := item.ExtendRent(date(2026, 12, 31), nil)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("Terminated item cannot be extended", func(t *testing.T) {
		terminated, _ := NewRentedItem(2, PurposeOffice, date(2026, 6, 30), decimal.NewFromInt(100), now)
		assert.NoError(t, terminated.TerminateEarly("gone", date(2026, 2, 1)))
		err := terminated.ExtendRent(date(2026, 12, 31), nil)
		var ise *InvalidStateError
		assert.ErrorAs(t, err, &ise)
	})
}

func TestRentedItem_Equal(t *testing.T) {
	now := date(2026, 1, 1)
	a, _ := NewRentedItem(1, PurposeOffice, date(2026, 6, 30), decimal.NewFromInt(100), now)
	b, _ := NewRentedItem(1, PurposeOffice, date(2026, 6, 30), decimal.NewFromInt(999), now)
	c, _ := NewRentedItem(1, PurposeKiosk, date(2026, 6, 30), decimal.NewFromInt(100), now)

	assert.True(t, a.Equal(b)) // amount does not affect identity
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))

	// termination bookkeeping does not affect identity either
	assert.NoError(t, b.TerminateEarly("left", date(2026, 2, 1)))
	assert.True(t, a.Equal(b))
}
