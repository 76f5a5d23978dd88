package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"proprental-backend/internal/domain"
)

type AgreementService interface {
	CreateAgreement(ctx context.Context, req CreateAgreementRequest) (*domain.Agreement, error)
	GetAgreement(ctx context.Context, id int32) (*domain.Agreement, error)
	ListAgreements(ctx context.Context) ([]domain.Agreement, error)
	ListActiveAgreements(ctx context.Context) ([]domain.Agreement, error)
	ListExpiringAgreements(ctx context.Context, withinDays int) ([]domain.Agreement, error)
	AddRentedItem(ctx context.Context, agreementID int32, req AddRentedItemRequest) (*domain.Agreement, error)
	RemoveRentedItem(ctx context.Context, agreementID, roomID int32) (*domain.Agreement, error)
	SignAgreement(ctx context.Context, id int32) (*domain.Agreement, error)
	CancelAgreement(ctx context.Context, id int32, reason string) (*domain.Agreement, error)
	CompleteAgreement(ctx context.Context, id int32) (*domain.Agreement, error)
	ExtendAgreement(ctx context.Context, id int32, newEndDate time.Time, newPenaltyRate *decimal.Decimal) (*domain.Agreement, error)
	ExtendRentedItem(ctx context.Context, agreementID, roomID int32, newRentUntil time.Time, newRentAmount *decimal.Decimal) (*domain.Agreement, error)
	ProlongAgreement(ctx context.Context, id int32, newEndDate time.Time) (*domain.Agreement, error)
	DeleteAgreement(ctx context.Context, id int32) error
	AgreementMonthlyRent(ctx context.Context, id int32) (decimal.Decimal, error)
	AgreementPenalty(ctx context.Context, id int32) (decimal.Decimal, error)
	SweepExpiredAgreements(ctx context.Context) (int, error)
}

type ContractorService interface {
	CreateIndividual(ctx context.Context, req CreateIndividualRequest) (*domain.Contractor, error)
	CreateLegalEntity(ctx context.Context, req CreateLegalEntityRequest) (*domain.Contractor, error)
	GetContractor(ctx context.Context, id int32) (*domain.Contractor, error)
	ListContractors(ctx context.Context) ([]domain.Contractor, error)
	ContractorAgreements(ctx context.Context, id int32) ([]domain.Agreement, error)
	CanSignNewAgreement(ctx context.Context, id int32) (bool, error)
	ChangePhone(ctx context.Context, id int32, newPhone string) (*domain.Contractor, error)
	DeactivateContractor(ctx context.Context, id int32, reason string) (*domain.Contractor, error)
	ActivateContractor(ctx context.Context, id int32) (*domain.Contractor, error)
}

type BuildingService interface {
	CreateBuilding(ctx context.Context, req CreateBuildingRequest) (*domain.Building, error)
	GetBuilding(ctx context.Context, id int32) (*domain.Building, error)
	ListBuildings(ctx context.Context) ([]domain.Building, error)
	AddRoom(ctx context.Context, buildingID int32, req AddRoomRequest) (*domain.Room, error)
	RemoveRoom(ctx context.Context, buildingID, roomID int32) error
	GetRoom(ctx context.Context, roomID int32) (*domain.Room, error)
	AvailableRooms(ctx context.Context, buildingID int32) ([]domain.Room, error)
	SetRoomFinishing(ctx context.Context, roomID int32, finishing domain.FinishingType) (*domain.Room, error)
	InstallRoomPhone(ctx context.Context, roomID int32) (*domain.Room, error)
	RemoveRoomPhone(ctx context.Context, roomID int32) (*domain.Room, error)
}

type CreateAgreementRequest struct {
	RegistrationNumber string
	StartDate          time.Time
	EndDate            time.Time
	PaymentFrequency   domain.PaymentFrequency
	ContractorID       int32
	PenaltyRate        decimal.Decimal
}

type AddRentedItemRequest struct {
	RoomID     int32
	Purpose    domain.RoomPurpose
	RentUntil  time.Time
	RentAmount decimal.Decimal
}

type CreateIndividualRequest struct {
	Phone             string
	FullName          string
	PassportSeries    string
	PassportNumber    string
	PassportIssueDate time.Time
	PassportIssuedBy  string
}

type CreateLegalEntityRequest struct {
	Phone             string
	CompanyName       string
	DirectorName      string
	LegalAddress      string
	TaxID             string
	BankName          string
	BankAccountNumber string
}

type CreateBuildingRequest struct {
	District        string
	Address         string
	FloorsCount     int32
	CommandantPhone string
}

type AddRoomRequest struct {
	RoomNumber    string
	Area          decimal.Decimal
	FloorNumber   int32
	FinishingType domain.FinishingType
	HasPhone      bool
}
