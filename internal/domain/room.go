package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type FinishingType string

const (
	FinishingStandard FinishingType = "STANDARD"
	FinishingImproved FinishingType = "IMPROVED"
	FinishingEuro     FinishingType = "EURO"
	FinishingLuxury   FinishingType = "LUXURY"
)

// Room belongs to exactly one building. CurrentAgreementID is set iff the
// room is occupied by an active agreement's rented item; keeping that in
// step with the agreement lifecycle is the orchestration layer's job, not
// the room's.
type Room struct {
	ID                 int32           `json:"id"`
	BuildingID         int32           `json:"building_id"`
	RoomNumber         string          `json:"room_number"`
	Area               decimal.Decimal `json:"area"`
	FloorNumber        int32           `json:"floor_number"`
	FinishingType      FinishingType   `json:"finishing_type"`
	HasPhone           bool            `json:"has_phone"`
	CurrentAgreementID *int32          `json:"current_agreement_id,omitempty"`
}

func NewRoom(id int32, roomNumber string, area decimal.Decimal, floorNumber int32, finishing FinishingType, hasPhone bool) (*Room, error) {
	if id <= 0 {
		return nil, &ValidationError{Field: "id", Message: "must be positive"}
	}
	if strings.TrimSpace(roomNumber) == "" {
		return nil, &ValidationError{Field: "room_number", Message: "is required"}
	}
	if area.Sign() <= 0 {
		return nil, &ValidationError{Field: "area", Message: "must be positive"}
	}
	if floorNumber <= 0 {
		return nil, &ValidationError{Field: "floor_number", Message: "must be positive"}
	}
	return &Room{
		ID:            id,
		RoomNumber:    roomNumber,
		Area:          area,
		FloorNumber:   floorNumber,
		FinishingType: finishing,
		HasPhone:      hasPhone,
	}, nil
}

// EntityID implements the store identity interface.
func (r Room) EntityID() int32 { return r.ID }

func (r *Room) IsRented() bool {
	return r.CurrentAgreementID != nil
}

func (r *Room) CanBeRented() bool {
	return r.CurrentAgreementID == nil
}

// Rent claims the room for an agreement. An occupied room cannot be claimed
// again.
func (r *Room) Rent(agreementID int32) error {
	if r.IsRented() {
		return &ConflictError{Message: fmt.Sprintf("room %s is already rented", r.RoomNumber)}
	}
	id := agreementID
	r.CurrentAgreementID = &id
	return nil
}

// Release clears the occupant. Releasing a vacant room is a no-op.
func (r *Room) Release() {
	r.CurrentAgreementID = nil
}

func (r *Room) UpdateFinishing(finishing FinishingType) {
	r.FinishingType = finishing
}

func (r *Room) InstallPhone() error {
	if r.HasPhone {
		return &InvalidStateError{Entity: "room", State: "has phone", Message: "phone is already installed"}
	}
	r.HasPhone = true
	return nil
}

func (r *Room) RemovePhone() error {
	if !r.HasPhone {
		return &InvalidStateError{Entity: "room", State: "no phone", Message: "no phone installed"}
	}
	r.HasPhone = false
	return nil
}
