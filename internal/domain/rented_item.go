package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type RoomPurpose string

const (
	PurposeOffice    RoomPurpose = "OFFICE"
	PurposeKiosk     RoomPurpose = "KIOSK"
	PurposeWarehouse RoomPurpose = "WAREHOUSE"
	PurposeRetail    RoomPurpose = "RETAIL"
	PurposeCafe      RoomPurpose = "CAFE"
	PurposeOther     RoomPurpose = "OTHER"
)

// RentedItem holds the terms under which one room is rented within an
// agreement. It is owned exclusively by its agreement and references the
// room by id only. Identity is by value: room, purpose and term.
type RentedItem struct {
	RoomID                 int32           `json:"room_id"`
	Purpose                RoomPurpose     `json:"purpose"`
	RentUntil              time.Time       `json:"rent_until"`
	RentAmount             decimal.Decimal `json:"rent_amount"`
	IsEarlyTerminated      bool            `json:"is_early_terminated"`
	ActualVacationDate     *time.Time      `json:"actual_vacation_date,omitempty"`
	EarlyTerminationReason string          `json:"early_termination_reason,omitempty"`
}

func NewRentedItem(roomID int32, purpose RoomPurpose, rentUntil time.Time, rentAmount decimal.Decimal, now time.Time) (*RentedItem, error) {
	if roomID <= 0 {
		return nil, &ValidationError{Field: "room_id", Message: "must be positive"}
	}
	if !rentUntil.After(now) {
		return nil, &ValidationError{Field: "rent_until", Message: "must be in the future"}
	}
	if rentAmount.Sign() <= 0 {
		return nil, &ValidationError{Field: "rent_amount", Message: "must be positive"}
	}
	return &RentedItem{
		RoomID:     roomID,
		Purpose:    purpose,
		RentUntil:  rentUntil,
		RentAmount: rentAmount,
	}, nil
}

func (ri *RentedItem) IsActive(at time.Time) bool {
	return !at.After(ri.RentUntil) && !ri.IsEarlyTerminated
}

func (ri *RentedItem) IsExpired(at time.Time) bool {
	return at.After(ri.RentUntil) && !ri.IsEarlyTerminated
}

// TerminateEarly marks the item vacated before its term. It can happen at
// most once; the vacation date never exceeds the rent term.
func (ri *RentedItem) TerminateEarly(reason string, at time.Time) error {
	if ri.IsEarlyTerminated {
		return &InvalidStateError{Entity: "rented item", State: "terminated", Message: "already early-terminated"}
	}
	if strings.TrimSpace(reason) == "" {
		return &ValidationError{Field: "reason", Message: "termination reason is required"}
	}
	if at.After(ri.RentUntil) {
		return &ValidationError{Field: "termination_date", Message: "cannot be later than the rent term"}
	}
	vacated := at
	ri.IsEarlyTerminated = true
	ri.EarlyTerminationReason = reason
	ri.ActualVacationDate = &vacated
	return nil
}

// ExtendRent pushes the rent term out, optionally adjusting the amount.
func (ri *RentedItem) ExtendRent(newRentUntil time.Time, newRentAmount *decimal.Decimal) error {
	if ri.IsEarlyTerminated {
		return &InvalidStateError{Entity: "rented item", State: "terminated", Message: "cannot extend an early-terminated rent"}
	}
	if !newRentUntil.After(ri.RentUntil) {
		return &ValidationError{Field: "rent_until", Message: "must be later than the current term"}
	}
	ri.RentUntil = newRentUntil
	if newRentAmount != nil && newRentAmount.Sign() > 0 {
		ri.RentAmount = *newRentAmount
	}
	return nil
}

// CalculatePenalty charges for the remaining contracted term after an early
// termination. Remaining months are linear thirtieths of the remaining days,
// not calendar months; the approximation is part of the contract terms and
// must not be "fixed".
func (ri *RentedItem) CalculatePenalty(at time.Time, penaltyRate decimal.Decimal) decimal.Decimal {
	if !ri.IsEarlyTerminated || ri.ActualVacationDate == nil {
		return decimal.Zero
	}
	days := daysBetween(at, ri.RentUntil)
	if days < 0 {
		days = 0
	}
	monthsLeft := decimal.NewFromInt(int64(days)).Div(decimal.NewFromInt(30))
	return ri.RentAmount.Mul(monthsLeft).Mul(penaltyRate)
}

func (ri *RentedItem) DaysRemaining(at time.Time) int {
	if !ri.IsActive(at) {
		return 0
	}
	return daysBetween(at, ri.RentUntil)
}

func (ri *RentedItem) IsOverdue(at time.Time) bool {
	return at.After(ri.RentUntil) && !ri.IsEarlyTerminated
}

// Equal compares by room, purpose and term. Termination bookkeeping does not
// affect identity.
func (ri *RentedItem) Equal(other *RentedItem) bool {
	if other == nil {
		return false
	}
	return ri.RoomID == other.RoomID &&
		ri.Purpose == other.Purpose &&
		ri.RentUntil.Equal(other.RentUntil)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
