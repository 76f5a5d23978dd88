package repository

import (
	"context"

	"proprental-backend/internal/domain"
)

// Every store follows the same contract: GetByID and Update return
// *domain.NotFoundError for an absent id, Create returns
// *domain.ConflictError on an id or uniqueness violation, and NextID
// allocates a fresh, previously unused positive id. Each implementation
// serializes access to its own collection; there is no cross-store
// transaction.

type AgreementRepository interface {
	Create(ctx context.Context, a *domain.Agreement) error
	GetByID(ctx context.Context, id int32) (*domain.Agreement, error)
	List(ctx context.Context) ([]domain.Agreement, error)
	Update(ctx context.Context, a *domain.Agreement) error
	Delete(ctx context.Context, id int32) error
	NextID(ctx context.Context) (int32, error)
}

type RoomRepository interface {
	Create(ctx context.Context, r *domain.Room) error
	GetByID(ctx context.Context, id int32) (*domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
	ListByBuilding(ctx context.Context, buildingID int32) ([]domain.Room, error)
	Update(ctx context.Context, r *domain.Room) error
	Delete(ctx context.Context, id int32) error
	NextID(ctx context.Context) (int32, error)
}

type BuildingRepository interface {
	Create(ctx context.Context, b *domain.Building) error
	GetByID(ctx context.Context, id int32) (*domain.Building, error)
	List(ctx context.Context) ([]domain.Building, error)
	Update(ctx context.Context, b *domain.Building) error
	Delete(ctx context.Context, id int32) error
	NextID(ctx context.Context) (int32, error)
}

// The two contractor variants live in separate stores; resolving a
// contractor id means consulting both. Ids are allocated from a range
// shared across the two (see the contractor service).

type IndividualContractorRepository interface {
	Create(ctx context.Context, c *domain.Contractor) error
	GetByID(ctx context.Context, id int32) (*domain.Contractor, error)
	List(ctx context.Context) ([]domain.Contractor, error)
	Update(ctx context.Context, c *domain.Contractor) error
	Delete(ctx context.Context, id int32) error
	NextID(ctx context.Context) (int32, error)
}

type LegalEntityContractorRepository interface {
	Create(ctx context.Context, c *domain.Contractor) error
	GetByID(ctx context.Context, id int32) (*domain.Contractor, error)
	List(ctx context.Context) ([]domain.Contractor, error)
	Update(ctx context.Context, c *domain.Contractor) error
	Delete(ctx context.Context, id int32) error
	NextID(ctx context.Context) (int32, error)
}
