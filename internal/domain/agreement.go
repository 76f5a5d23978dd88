package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AgreementStatus string

const (
	AgreementStatusDraft     AgreementStatus = "DRAFT"
	AgreementStatusActive    AgreementStatus = "ACTIVE"
	AgreementStatusCompleted AgreementStatus = "COMPLETED"
	AgreementStatusCancelled AgreementStatus = "CANCELLED"
)

type PaymentFrequency string

const (
	PaymentMonthly      PaymentFrequency = "MONTHLY"
	PaymentQuarterly    PaymentFrequency = "QUARTERLY"
	PaymentSemiAnnually PaymentFrequency = "SEMI_ANNUALLY"
	PaymentAnnually     PaymentFrequency = "ANNUALLY"
	PaymentOneTime      PaymentFrequency = "ONE_TIME"
)

// Agreement is the aggregate root of a rental contract. It owns its rented
// items and references the contractor by id. The lifecycle is
// Draft -> Active -> Completed, with Active -> Cancelled; Completed and
// Cancelled are terminal.
type Agreement struct {
	ID                 int32            `json:"id"`
	RegistrationNumber string           `json:"registration_number"`
	StartDate          time.Time        `json:"start_date"`
	EndDate            time.Time        `json:"end_date"`
	PaymentFrequency   PaymentFrequency `json:"payment_frequency"`
	ContractorID       int32            `json:"contractor_id"`
	PenaltyRate        decimal.Decimal  `json:"penalty_rate"`
	Status             AgreementStatus  `json:"status"`
	SignedDate         *time.Time       `json:"signed_date,omitempty"`
	CancellationDate   *time.Time       `json:"cancellation_date,omitempty"`
	CancellationReason string           `json:"cancellation_reason,omitempty"`
	RentedItems        []RentedItem     `json:"rented_items"`
}

func NewAgreement(id int32, registrationNumber string, startDate, endDate time.Time, frequency PaymentFrequency, contractorID int32, penaltyRate decimal.Decimal, now time.Time) (*Agreement, error) {
	if id <= 0 {
		return nil, &ValidationError{Field: "id", Message: "must be positive"}
	}
	if strings.TrimSpace(registrationNumber) == "" {
		return nil, &ValidationError{Field: "registration_number", Message: "is required"}
	}
	if !startDate.Before(endDate) {
		return nil, &ValidationError{Field: "start_date", Message: "must be before the end date"}
	}
	if dateOnly(startDate).Before(dateOnly(now)) {
		return nil, &ValidationError{Field: "start_date", Message: "cannot be in the past"}
	}
	if penaltyRate.Sign() < 0 || penaltyRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, &ValidationError{Field: "penalty_rate", Message: "must be between 0 and 1"}
	}
	if contractorID <= 0 {
		return nil, &ValidationError{Field: "contractor_id", Message: "must be positive"}
	}
	return &Agreement{
		ID:                 id,
		RegistrationNumber: registrationNumber,
		StartDate:          startDate,
		EndDate:            endDate,
		PaymentFrequency:   frequency,
		ContractorID:       contractorID,
		PenaltyRate:        penaltyRate,
		Status:             AgreementStatusDraft,
	}, nil
}

// EntityID implements the store identity interface.
func (a Agreement) EntityID() int32 { return a.ID }

// AddRentedItem appends a room to a draft agreement. The room must not
// already be part of the agreement and its term must fit inside the
// agreement term. On failure the item set is unchanged.
func (a *Agreement) AddRentedItem(item *RentedItem) error {
	if a.Status != AgreementStatusDraft {
		return &InvalidStateError{Entity: "agreement", State: string(a.Status), Message: "rented items can only be added to a draft"}
	}
	if a.HasRoom(item.RoomID) {
		return &ConflictError{Message: fmt.Sprintf("room %d is already part of the agreement", item.RoomID)}
	}
	if item.RentUntil.After(a.EndDate) {
		return &ValidationError{Field: "rent_until", Message: "exceeds the agreement end date"}
	}
	a.RentedItems = append(a.RentedItems, *item)
	return nil
}

func (a *Agreement) RemoveRentedItem(roomID int32) error {
	if a.Status != AgreementStatusDraft {
		return &InvalidStateError{Entity: "agreement", State: string(a.Status), Message: "rented items can only be removed from a draft"}
	}
	for i := range a.RentedItems {
		if a.RentedItems[i].RoomID == roomID {
			a.RentedItems = append(a.RentedItems[:i], a.RentedItems[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{Entity: "rented item", ID: roomID}
}

// Item returns the rented item for a room, or nil.
func (a *Agreement) Item(roomID int32) *RentedItem {
	for i := range a.RentedItems {
		if a.RentedItems[i].RoomID == roomID {
			return &a.RentedItems[i]
		}
	}
	return nil
}

func (a *Agreement) HasRoom(roomID int32) bool {
	return a.Item(roomID) != nil
}

// Sign activates a draft agreement. At least one rented item is required.
func (a *Agreement) Sign(now time.Time) error {
	if a.Status != AgreementStatusDraft {
		return &InvalidStateError{Entity: "agreement", State: string(a.Status), Message: "only a draft can be signed"}
	}
	if len(a.RentedItems) == 0 {
		return &ValidationError{Field: "rented_items", Message: "agreement must contain at least one room"}
	}
	signed := now
	a.Status = AgreementStatusActive
	a.SignedDate = &signed
	return nil
}

// Cancel terminates an active agreement early. Every rented item still
// active as of now is early-terminated with a reason derived from the
// cancellation reason.
func (a *Agreement) Cancel(reason string, now time.Time) error {
	if a.Status != AgreementStatusActive {
		return &InvalidStateError{Entity: "agreement", State: string(a.Status), Message: "only an active agreement can be cancelled"}
	}
	if strings.TrimSpace(reason) == "" {
		return &ValidationError{Field: "reason", Message: "cancellation reason is required"}
	}
	cancelled := now
	a.Status = AgreementStatusCancelled
	a.CancellationDate = &cancelled
	a.CancellationReason = reason

	derived := fmt.Sprintf("early termination due to agreement cancellation: %s", reason)
	for i := range a.RentedItems {
		if a.RentedItems[i].IsActive(now) {
			// Cannot fail: the item is active, so it is not yet terminated
			// and now is within its term.
			_ = a.RentedItems[i].TerminateEarly(derived, now)
		}
	}
	return nil
}

// Complete closes an active agreement whose term has elapsed. Completing at
// exactly the end date is allowed.
func (a *Agreement) Complete(now time.Time) error {
	if a.Status != AgreementStatusActive {
		return &InvalidStateError{Entity: "agreement", State: string(a.Status), Message: "only an active agreement can be completed"}
	}
	if now.Before(a.EndDate) {
		return &InvalidStateError{Entity: "agreement", State: string(a.Status), Message: "cannot be completed before its end date"}
	}
	a.Status = AgreementStatusCompleted
	return nil
}

// Extend pushes the end date of an active agreement out, optionally
// replacing the penalty rate.
func (a *Agreement) Extend(newEndDate time.Time, newPenaltyRate *decimal.Decimal) error {
	if a.Status != AgreementStatusActive {
		return &InvalidStateError{Entity: "agreement", State: string(a.Status), Message: "only an active agreement can be extended"}
	}
	if !newEndDate.After(a.EndDate) {
		return &ValidationError{Field: "end_date", Message: "must be later than the current end date"}
	}
	if newPenaltyRate != nil && (newPenaltyRate.Sign() < 0 || newPenaltyRate.GreaterThan(decimal.NewFromInt(1))) {
		return &ValidationError{Field: "penalty_rate", Message: "must be between 0 and 1"}
	}
	a.EndDate = newEndDate
	if newPenaltyRate != nil {
		a.PenaltyRate = *newPenaltyRate
	}
	return nil
}

func (a *Agreement) IsActive(at time.Time) bool {
	return a.Status == AgreementStatusActive &&
		!at.Before(a.StartDate) &&
		!at.After(a.EndDate)
}

// TotalMonthlyRent sums the contracted rent over all rented items. Early
// termination of an item does not reduce it; this is the contracted total,
// not a payment schedule.
func (a *Agreement) TotalMonthlyRent() decimal.Decimal {
	total := decimal.Zero
	for i := range a.RentedItems {
		total = total.Add(a.RentedItems[i].RentAmount)
	}
	return total
}

// TotalRentForPeriod multiplies the monthly total by the number of calendar
// months in the agreement term.
func (a *Agreement) TotalRentForPeriod() decimal.Decimal {
	months := (a.EndDate.Year()-a.StartDate.Year())*12 + int(a.EndDate.Month()) - int(a.StartDate.Month())
	return a.TotalMonthlyRent().Mul(decimal.NewFromInt(int64(months)))
}

// CalculatePenalty is zero unless the agreement was cancelled; each item's
// penalty is computed against the cancellation date and the agreement rate.
func (a *Agreement) CalculatePenalty() decimal.Decimal {
	if a.Status != AgreementStatusCancelled || a.CancellationDate == nil {
		return decimal.Zero
	}
	total := decimal.Zero
	for i := range a.RentedItems {
		total = total.Add(a.RentedItems[i].CalculatePenalty(*a.CancellationDate, a.PenaltyRate))
	}
	return total
}

func (a *Agreement) ActiveItems(at time.Time) []RentedItem {
	var items []RentedItem
	for i := range a.RentedItems {
		if a.RentedItems[i].IsActive(at) {
			items = append(items, a.RentedItems[i])
		}
	}
	return items
}

func (a *Agreement) ExpiredItems(at time.Time) []RentedItem {
	var items []RentedItem
	for i := range a.RentedItems {
		if a.RentedItems[i].IsExpired(at) {
			items = append(items, a.RentedItems[i])
		}
	}
	return items
}

func (a *Agreement) DaysRemaining(at time.Time) int {
	if !a.IsActive(at) {
		return 0
	}
	return daysBetween(at, a.EndDate)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
