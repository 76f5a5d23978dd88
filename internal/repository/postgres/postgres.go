package postgres

import (
	"database/sql"
	"errors"

	"proprental-backend/internal/domain"
	"proprental-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.AgreementRepository
	repository.RoomRepository
	repository.BuildingRepository
	repository.IndividualContractorRepository
	repository.LegalEntityContractorRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                              db,
		AgreementRepository:             NewAgreementRepository(db),
		RoomRepository:                  NewRoomRepository(db),
		BuildingRepository:              NewBuildingRepository(db),
		IndividualContractorRepository:  NewContractorRepository(db, "individual_contractors"),
		LegalEntityContractorRepository: NewContractorRepository(db, "legal_entity_contractors"),
	}
}

// isUniqueViolation reports whether err is a postgres unique constraint
// violation (class 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func notFound(entity string, id int32, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return err
}
