package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"proprental-backend/internal/domain"
	"proprental-backend/internal/repository"
)

type roomRepository struct {
	db *sql.DB
}

func NewRoomRepository(db *sql.DB) repository.RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, rm *domain.Room) error {
	query := `INSERT INTO rooms (id, building_id, room_number, area, floor_number, finishing_type, has_phone, current_agreement_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, rm.ID, rm.BuildingID, rm.RoomNumber, rm.Area, rm.FloorNumber, rm.FinishingType, rm.HasPhone, rm.CurrentAgreementID)
	if isUniqueViolation(err) {
		return &domain.ConflictError{Message: fmt.Sprintf("room %s already exists in building %d", rm.RoomNumber, rm.BuildingID)}
	}
	return err
}

func (r *roomRepository) GetByID(ctx context.Context, id int32) (*domain.Room, error) {
	rm := &domain.Room{}
	query := `SELECT id, building_id, room_number, area, floor_number, finishing_type, has_phone, current_agreement_id FROM rooms WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rm.ID, &rm.BuildingID, &rm.RoomNumber, &rm.Area, &rm.FloorNumber, &rm.FinishingType, &rm.HasPhone, &rm.CurrentAgreementID)
	if err != nil {
		return nil, notFound("room", id, err)
	}
	return rm, nil
}

func (r *roomRepository) List(ctx context.Context) ([]domain.Room, error) {
	query := `SELECT id, building_id, room_number, area, floor_number, finishing_type, has_phone, current_agreement_id FROM rooms ORDER BY id`
	return r.queryRooms(ctx, query)
}

func (r *roomRepository) ListByBuilding(ctx context.Context, buildingID int32) ([]domain.Room, error) {
	query := `SELECT id, building_id, room_number, area, floor_number, finishing_type, has_phone, current_agreement_id FROM rooms WHERE building_id = $1 ORDER BY id`
	return r.queryRooms(ctx, query, buildingID)
}

func (r *roomRepository) Update(ctx context.Context, rm *domain.Room) error {
	query := `UPDATE rooms SET building_id=$1, room_number=$2, area=$3, floor_number=$4, finishing_type=$5, has_phone=$6, current_agreement_id=$7 WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query, rm.BuildingID, rm.RoomNumber, rm.Area, rm.FloorNumber, rm.FinishingType, rm.HasPhone, rm.CurrentAgreementID, rm.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: "room", ID: rm.ID}
	}
	return nil
}

func (r *roomRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: "room", ID: id}
	}
	return nil
}

func (r *roomRepository) NextID(ctx context.Context) (int32, error) {
	var next int32
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM rooms`).Scan(&next)
	return next, err
}

func (r *roomRepository) queryRooms(ctx context.Context, query string, args ...interface{}) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.BuildingID, &rm.RoomNumber, &rm.Area, &rm.FloorNumber, &rm.FinishingType, &rm.HasPhone, &rm.CurrentAgreementID); err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}
