package domain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Building exclusively owns its rooms. A room's floor must fit the
// building's floor count and its number must be unique within the building.
type Building struct {
	ID              int32  `json:"id"`
	District        string `json:"district"`
	Address         string `json:"address"`
	FloorsCount     int32  `json:"floors_count"`
	CommandantPhone string `json:"commandant_phone"`
	Rooms           []Room `json:"rooms,omitempty"`
}

func NewBuilding(id int32, district, address string, floorsCount int32, commandantPhone string) (*Building, error) {
	if id <= 0 {
		return nil, &ValidationError{Field: "id", Message: "must be positive"}
	}
	if strings.TrimSpace(district) == "" {
		return nil, &ValidationError{Field: "district", Message: "is required"}
	}
	if strings.TrimSpace(address) == "" {
		return nil, &ValidationError{Field: "address", Message: "is required"}
	}
	if floorsCount <= 0 {
		return nil, &ValidationError{Field: "floors_count", Message: "must be positive"}
	}
	if strings.TrimSpace(commandantPhone) == "" {
		return nil, &ValidationError{Field: "commandant_phone", Message: "is required"}
	}
	return &Building{
		ID:              id,
		District:        district,
		Address:         address,
		FloorsCount:     floorsCount,
		CommandantPhone: commandantPhone,
	}, nil
}

// EntityID implements the store identity interface.
func (b Building) EntityID() int32 { return b.ID }

// AddRoom attaches a room to the building, claiming ownership.
func (b *Building) AddRoom(room *Room) error {
	if room.FloorNumber > b.FloorsCount {
		return &ValidationError{Field: "floor_number", Message: fmt.Sprintf("floor %d exceeds the building's %d floors", room.FloorNumber, b.FloorsCount)}
	}
	if b.RoomByNumber(room.RoomNumber) != nil {
		return &ConflictError{Message: fmt.Sprintf("room %s already exists in the building", room.RoomNumber)}
	}
	room.BuildingID = b.ID
	b.Rooms = append(b.Rooms, *room)
	return nil
}

// RemoveRoom detaches a room. A rented room cannot be removed.
func (b *Building) RemoveRoom(roomID int32) error {
	for i := range b.Rooms {
		if b.Rooms[i].ID == roomID {
			if b.Rooms[i].IsRented() {
				return &InvalidStateError{Entity: "room", State: "rented", Message: fmt.Sprintf("cannot remove rented room %s", b.Rooms[i].RoomNumber)}
			}
			b.Rooms = append(b.Rooms[:i], b.Rooms[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{Entity: "room", ID: roomID}
}

func (b *Building) Room(roomID int32) *Room {
	for i := range b.Rooms {
		if b.Rooms[i].ID == roomID {
			return &b.Rooms[i]
		}
	}
	return nil
}

func (b *Building) RoomByNumber(roomNumber string) *Room {
	for i := range b.Rooms {
		if b.Rooms[i].RoomNumber == roomNumber {
			return &b.Rooms[i]
		}
	}
	return nil
}

func (b *Building) AvailableRooms() []Room {
	var rooms []Room
	for i := range b.Rooms {
		if b.Rooms[i].CanBeRented() {
			rooms = append(rooms, b.Rooms[i])
		}
	}
	return rooms
}

func (b *Building) RoomsOnFloor(floorNumber int32) ([]Room, error) {
	if floorNumber <= 0 || floorNumber > b.FloorsCount {
		return nil, &ValidationError{Field: "floor_number", Message: fmt.Sprintf("must be between 1 and %d", b.FloorsCount)}
	}
	var rooms []Room
	for i := range b.Rooms {
		if b.Rooms[i].FloorNumber == floorNumber {
			rooms = append(rooms, b.Rooms[i])
		}
	}
	return rooms, nil
}

func (b *Building) TotalArea() decimal.Decimal {
	total := decimal.Zero
	for i := range b.Rooms {
		total = total.Add(b.Rooms[i].Area)
	}
	return total
}

func (b *Building) RentedArea() decimal.Decimal {
	total := decimal.Zero
	for i := range b.Rooms {
		if b.Rooms[i].IsRented() {
			total = total.Add(b.Rooms[i].Area)
		}
	}
	return total
}

// OccupancyRate is the rented share of rooms, 0 for an empty building.
func (b *Building) OccupancyRate() decimal.Decimal {
	if len(b.Rooms) == 0 {
		return decimal.Zero
	}
	rented := 0
	for i := range b.Rooms {
		if b.Rooms[i].IsRented() {
			rented++
		}
	}
	return decimal.NewFromInt(int64(rented)).Div(decimal.NewFromInt(int64(len(b.Rooms))))
}

func (b *Building) ChangeDistrict(newDistrict string) error {
	if strings.TrimSpace(newDistrict) == "" {
		return &ValidationError{Field: "district", Message: "cannot be empty"}
	}
	b.District = newDistrict
	return nil
}

func (b *Building) ChangeCommandantPhone(newPhone string) error {
	if strings.TrimSpace(newPhone) == "" {
		return &ValidationError{Field: "commandant_phone", Message: "cannot be empty"}
	}
	if !isValidPhone(newPhone) {
		return &ValidationError{Field: "commandant_phone", Message: "invalid phone format"}
	}
	b.CommandantPhone = newPhone
	return nil
}

func isValidPhone(phone string) bool {
	if len(phone) < 5 {
		return false
	}
	for _, r := range phone {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
