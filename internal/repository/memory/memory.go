package memory

import (
	"context"
	"fmt"
	"path/filepath"

	"proprental-backend/internal/domain"
	"proprental-backend/internal/repository"
)

// Store bundles the in-memory implementations of every entity store. When
// dataDir is non-empty each collection snapshots itself to a JSON file in
// that directory after every mutation.
type Store struct {
	Agreements             repository.AgreementRepository
	Rooms                  repository.RoomRepository
	Buildings              repository.BuildingRepository
	IndividualContractors  repository.IndividualContractorRepository
	LegalEntityContractors repository.LegalEntityContractorRepository
}

func NewStore(dataDir string) (*Store, error) {
	snapshot := func(name string) string {
		if dataDir == "" {
			return ""
		}
		return filepath.Join(dataDir, name+".json")
	}

	agreements, err := NewCollection[domain.Agreement]("agreement", snapshot("agreements"))
	if err != nil {
		return nil, err
	}
	rooms, err := NewCollection[domain.Room]("room", snapshot("rooms"))
	if err != nil {
		return nil, err
	}
	buildings, err := NewCollection[domain.Building]("building", snapshot("buildings"))
	if err != nil {
		return nil, err
	}
	individuals, err := NewCollection[domain.Contractor]("contractor", snapshot("individual_contractors"))
	if err != nil {
		return nil, err
	}
	legals, err := NewCollection[domain.Contractor]("contractor", snapshot("legal_entity_contractors"))
	if err != nil {
		return nil, err
	}

	return &Store{
		Agreements:             &agreementStore{c: agreements},
		Rooms:                  &roomStore{c: rooms},
		Buildings:              &buildingStore{c: buildings},
		IndividualContractors:  &contractorStore{c: individuals},
		LegalEntityContractors: &contractorStore{c: legals},
	}, nil
}

type agreementStore struct {
	c *Collection[domain.Agreement]
}

func (s *agreementStore) Create(ctx context.Context, a *domain.Agreement) error {
	dups, err := s.c.Find(func(existing domain.Agreement) bool {
		return existing.RegistrationNumber == a.RegistrationNumber
	})
	if err != nil {
		return err
	}
	if len(dups) > 0 {
		return &domain.ConflictError{Message: fmt.Sprintf("registration number %s is already in use", a.RegistrationNumber)}
	}
	return s.c.Create(*a)
}

func (s *agreementStore) GetByID(ctx context.Context, id int32) (*domain.Agreement, error) {
	a, err := s.c.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *agreementStore) List(ctx context.Context) ([]domain.Agreement, error) {
	return s.c.List()
}

func (s *agreementStore) Update(ctx context.Context, a *domain.Agreement) error {
	return s.c.Update(*a)
}

func (s *agreementStore) Delete(ctx context.Context, id int32) error {
	return s.c.Delete(id)
}

func (s *agreementStore) NextID(ctx context.Context) (int32, error) {
	return s.c.NextID(), nil
}

type roomStore struct {
	c *Collection[domain.Room]
}

func (s *roomStore) Create(ctx context.Context, r *domain.Room) error {
	dups, err := s.c.Find(func(existing domain.Room) bool {
		return existing.BuildingID == r.BuildingID && existing.RoomNumber == r.RoomNumber
	})
	if err != nil {
		return err
	}
	if len(dups) > 0 {
		return &domain.ConflictError{Message: fmt.Sprintf("room %s already exists in building %d", r.RoomNumber, r.BuildingID)}
	}
	return s.c.Create(*r)
}

func (s *roomStore) GetByID(ctx context.Context, id int32) (*domain.Room, error) {
	r, err := s.c.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *roomStore) List(ctx context.Context) ([]domain.Room, error) {
	return s.c.List()
}

func (s *roomStore) ListByBuilding(ctx context.Context, buildingID int32) ([]domain.Room, error) {
	return s.c.Find(func(r domain.Room) bool { return r.BuildingID == buildingID })
}

func (s *roomStore) Update(ctx context.Context, r *domain.Room) error {
	return s.c.Update(*r)
}

func (s *roomStore) Delete(ctx context.Context, id int32) error {
	return s.c.Delete(id)
}

func (s *roomStore) NextID(ctx context.Context) (int32, error) {
	return s.c.NextID(), nil
}

type buildingStore struct {
	c *Collection[domain.Building]
}

// Create persists building master data only; rooms live in their own store.
func (s *buildingStore) Create(ctx context.Context, b *domain.Building) error {
	stored := *b
	stored.Rooms = nil
	return s.c.Create(stored)
}

func (s *buildingStore) GetByID(ctx context.Context, id int32) (*domain.Building, error) {
	b, err := s.c.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *buildingStore) List(ctx context.Context) ([]domain.Building, error) {
	return s.c.List()
}

func (s *buildingStore) Update(ctx context.Context, b *domain.Building) error {
	stored := *b
	stored.Rooms = nil
	return s.c.Update(stored)
}

func (s *buildingStore) Delete(ctx context.Context, id int32) error {
	return s.c.Delete(id)
}

func (s *buildingStore) NextID(ctx context.Context) (int32, error) {
	return s.c.NextID(), nil
}

// contractorStore backs both contractor variants; each variant gets its own
// collection.
type contractorStore struct {
	c *Collection[domain.Contractor]
}

func (s *contractorStore) Create(ctx context.Context, c *domain.Contractor) error {
	dups, err := s.c.Find(func(existing domain.Contractor) bool {
		return existing.Phone == c.Phone
	})
	if err != nil {
		return err
	}
	if len(dups) > 0 {
		return &domain.ConflictError{Message: fmt.Sprintf("phone %s is already registered", c.Phone)}
	}
	return s.c.Create(*c)
}

func (s *contractorStore) GetByID(ctx context.Context, id int32) (*domain.Contractor, error) {
	c, err := s.c.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *contractorStore) List(ctx context.Context) ([]domain.Contractor, error) {
	return s.c.List()
}

func (s *contractorStore) Update(ctx context.Context, c *domain.Contractor) error {
	return s.c.Update(*c)
}

func (s *contractorStore) Delete(ctx context.Context, id int32) error {
	return s.c.Delete(id)
}

func (s *contractorStore) NextID(ctx context.Context) (int32, error) {
	return s.c.NextID(), nil
}
