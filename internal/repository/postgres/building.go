package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"proprental-backend/internal/domain"
	"proprental-backend/internal/repository"
)

type buildingRepository struct {
	db *sql.DB
}

func NewBuildingRepository(db *sql.DB) repository.BuildingRepository {
	return &buildingRepository{db: db}
}

// Only building master data is stored here; rooms have their own table and
// repository.
func (r *buildingRepository) Create(ctx context.Context, b *domain.Building) error {
	query := `INSERT INTO buildings (id, district, address, floors_count, commandant_phone) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.District, b.Address, b.FloorsCount, b.CommandantPhone)
	if isUniqueViolation(err) {
		return &domain.ConflictError{Message: fmt.Sprintf("building %d already exists", b.ID)}
	}
	return err
}

func (r *buildingRepository) GetByID(ctx context.Context, id int32) (*domain.Building, error) {
	b := &domain.Building{}
	query := `SELECT id, district, address, floors_count, commandant_phone FROM buildings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.District, &b.Address, &b.FloorsCount, &b.CommandantPhone)
	if err != nil {
		return nil, notFound("building", id, err)
	}
	return b, nil
}

func (r *buildingRepository) List(ctx context.Context) ([]domain.Building, error) {
	query := `SELECT id, district, address, floors_count, commandant_phone FROM buildings ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buildings []domain.Building
	for rows.Next() {
		var b domain.Building
		if err := rows.Scan(&b.ID, &b.District, &b.Address, &b.FloorsCount, &b.CommandantPhone); err != nil {
			return nil, err
		}
		buildings = append(buildings, b)
	}
	return buildings, rows.Err()
}

func (r *buildingRepository) Update(ctx context.Context, b *domain.Building) error {
	query := `UPDATE buildings SET district=$1, address=$2, floors_count=$3, commandant_phone=$4 WHERE id=$5`
	res, err := r.db.ExecContext(ctx, query, b.District, b.Address, b.FloorsCount, b.CommandantPhone, b.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: "building", ID: b.ID}
	}
	return nil
}

func (r *buildingRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM buildings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: "building", ID: id}
	}
	return nil
}

func (r *buildingRepository) NextID(ctx context.Context) (int32, error) {
	var next int32
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM buildings`).Scan(&next)
	return next, err
}
