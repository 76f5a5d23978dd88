package service

import (
	"context"

	"proprental-backend/internal/domain"
	"proprental-backend/internal/repository"
)

type buildingService struct {
	buildingRepo repository.BuildingRepository
	roomRepo     repository.RoomRepository
}

func NewBuildingService(
	buildingRepo repository.BuildingRepository,
	roomRepo repository.RoomRepository,
) BuildingService {
	return &buildingService{
		buildingRepo: buildingRepo,
		roomRepo:     roomRepo,
	}
}

func (s *buildingService) CreateBuilding(ctx context.Context, req CreateBuildingRequest) (*domain.Building, error) {
	id, err := s.buildingRepo.NextID(ctx)
	if err != nil {
		return nil, err
	}
	building, err := domain.NewBuilding(id, req.District, req.Address, req.FloorsCount, req.CommandantPhone)
	if err != nil {
		return nil, err
	}
	if err := s.buildingRepo.Create(ctx, building); err != nil {
		return nil, err
	}
	return building, nil
}

// GetBuilding returns the building with its rooms attached.
func (s *buildingService) GetBuilding(ctx context.Context, id int32) (*domain.Building, error) {
	building, err := s.buildingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rooms, err := s.roomRepo.ListByBuilding(ctx, id)
	if err != nil {
		return nil, err
	}
	building.Rooms = rooms
	return building, nil
}

func (s *buildingService) ListBuildings(ctx context.Context) ([]domain.Building, error) {
	buildings, err := s.buildingRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range buildings {
		rooms, err := s.roomRepo.ListByBuilding(ctx, buildings[i].ID)
		if err != nil {
			return nil, err
		}
		buildings[i].Rooms = rooms
	}
	return buildings, nil
}

// AddRoom validates the room against the building aggregate and persists it
// in the room store.
func (s *buildingService) AddRoom(ctx context.Context, buildingID int32, req AddRoomRequest) (*domain.Room, error) {
	building, err := s.GetBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	id, err := s.roomRepo.NextID(ctx)
	if err != nil {
		return nil, err
	}
	room, err := domain.NewRoom(id, req.RoomNumber, req.Area, req.FloorNumber, req.FinishingType, req.HasPhone)
	if err != nil {
		return nil, err
	}
	if err := building.AddRoom(room); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *buildingService) RemoveRoom(ctx context.Context, buildingID, roomID int32) error {
	building, err := s.GetBuilding(ctx, buildingID)
	if err != nil {
		return err
	}
	if err := building.RemoveRoom(roomID); err != nil {
		return err
	}
	return s.roomRepo.Delete(ctx, roomID)
}

func (s *buildingService) GetRoom(ctx context.Context, roomID int32) (*domain.Room, error) {
	return s.roomRepo.GetByID(ctx, roomID)
}

func (s *buildingService) AvailableRooms(ctx context.Context, buildingID int32) ([]domain.Room, error) {
	building, err := s.GetBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	return building.AvailableRooms(), nil
}

func (s *buildingService) SetRoomFinishing(ctx context.Context, roomID int32, finishing domain.FinishingType) (*domain.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	room.UpdateFinishing(finishing)
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *buildingService) InstallRoomPhone(ctx context.Context, roomID int32) (*domain.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := room.InstallPhone(); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *buildingService) RemoveRoomPhone(ctx context.Context, roomID int32) (*domain.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := room.RemovePhone(); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}
