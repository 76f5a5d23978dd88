package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"proprental-backend/internal/domain"
	"proprental-backend/internal/service"
)

// BuildingHandler exposes buildings and rooms over REST
type BuildingHandler struct {
	buildings service.BuildingService
}

func NewBuildingHandler(buildings service.BuildingService) *BuildingHandler {
	return &BuildingHandler{buildings: buildings}
}

type createBuildingBody struct {
	District        string `json:"district"`
	Address         string `json:"address"`
	FloorsCount     int32  `json:"floors_count"`
	CommandantPhone string `json:"commandant_phone"`
}

func (h *BuildingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createBuildingBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	building, err := h.buildings.CreateBuilding(r.Context(), service.CreateBuildingRequest{
		District:        body.District,
		Address:         body.Address,
		FloorsCount:     body.FloorsCount,
		CommandantPhone: body.CommandantPhone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, building)
}

func (h *BuildingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	building, err := h.buildings.GetBuilding(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, building)
}

func (h *BuildingHandler) List(w http.ResponseWriter, r *http.Request) {
	buildings, err := h.buildings.ListBuildings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if buildings == nil {
		buildings = []domain.Building{}
	}
	writeJSON(w, http.StatusOK, buildings)
}

type addRoomBody struct {
	RoomNumber    string          `json:"room_number"`
	Area          decimal.Decimal `json:"area"`
	FloorNumber   int32           `json:"floor_number"`
	FinishingType string          `json:"finishing_type"`
	HasPhone      bool            `json:"has_phone"`
}

func (h *BuildingHandler) AddRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var body addRoomBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	room, err := h.buildings.AddRoom(r.Context(), id, service.AddRoomRequest{
		RoomNumber:    body.RoomNumber,
		Area:          body.Area,
		FloorNumber:   body.FloorNumber,
		FinishingType: domain.FinishingType(body.FinishingType),
		HasPhone:      body.HasPhone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *BuildingHandler) RemoveRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	roomID, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.buildings.RemoveRoom(r.Context(), id, roomID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *BuildingHandler) AvailableRooms(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	rooms, err := h.buildings.AvailableRooms(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *BuildingHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, err)
		return
	}
	room, err := h.buildings.GetRoom(r.Context(), roomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

type setFinishingBody struct {
	FinishingType string `json:"finishing_type"`
}

func (h *BuildingHandler) SetRoomFinishing(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, err)
		return
	}
	var body setFinishingBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	room, err := h.buildings.SetRoomFinishing(r.Context(), roomID, domain.FinishingType(body.FinishingType))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *BuildingHandler) InstallRoomPhone(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, err)
		return
	}
	room, err := h.buildings.InstallRoomPhone(r.Context(), roomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *BuildingHandler) RemoveRoomPhone(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, err)
		return
	}
	room, err := h.buildings.RemoveRoomPhone(r.Context(), roomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}
