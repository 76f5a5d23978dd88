package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"proprental-backend/internal/clock"
	"proprental-backend/internal/domain"
	"proprental-backend/internal/logger"
	"proprental-backend/internal/notify"
	"proprental-backend/internal/repository"
)

type agreementService struct {
	agreementRepo  repository.AgreementRepository
	roomRepo       repository.RoomRepository
	individualRepo repository.IndividualContractorRepository
	legalRepo      repository.LegalEntityContractorRepository
	clock          clock.Clock
	notifier       *notify.Notifier
}

func NewAgreementService(
	agreementRepo repository.AgreementRepository,
	roomRepo repository.RoomRepository,
	individualRepo repository.IndividualContractorRepository,
	legalRepo repository.LegalEntityContractorRepository,
	clk clock.Clock,
	notifier *notify.Notifier,
) AgreementService {
	return &agreementService{
		agreementRepo:  agreementRepo,
		roomRepo:       roomRepo,
		individualRepo: individualRepo,
		legalRepo:      legalRepo,
		clock:          clk,
		notifier:       notifier,
	}
}

// CreateAgreement registers a draft and links it to the contractor. There is
// no cross-store transaction, so a failed contractor update rolls the draft
// back by deleting it.
func (s *agreementService) CreateAgreement(ctx context.Context, req CreateAgreementRequest) (*domain.Agreement, error) {
	contractor, err := resolveContractor(ctx, s.individualRepo, s.legalRepo, req.ContractorID)
	if err != nil {
		return nil, err
	}

	id, err := s.agreementRepo.NextID(ctx)
	if err != nil {
		return nil, err
	}
	agreement, err := domain.NewAgreement(id, req.RegistrationNumber, req.StartDate, req.EndDate, req.PaymentFrequency, req.ContractorID, req.PenaltyRate, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.agreementRepo.Create(ctx, agreement); err != nil {
		return nil, err
	}

	if err := contractor.AddAgreement(agreement.ID); err != nil {
		s.rollbackCreate(ctx, agreement.ID)
		return nil, err
	}
	if err := saveContractor(ctx, s.individualRepo, s.legalRepo, contractor); err != nil {
		s.rollbackCreate(ctx, agreement.ID)
		return nil, err
	}

	s.publish("agreement", "created", agreement.ID)
	return agreement, nil
}

func (s *agreementService) rollbackCreate(ctx context.Context, agreementID int32) {
	if err := s.agreementRepo.Delete(ctx, agreementID); err != nil {
		logger.ErrorContext(ctx, "failed to roll back orphaned agreement", "agreement_id", agreementID, "error", err)
	}
}

func (s *agreementService) GetAgreement(ctx context.Context, id int32) (*domain.Agreement, error) {
	return s.agreementRepo.GetByID(ctx, id)
}

func (s *agreementService) ListAgreements(ctx context.Context) ([]domain.Agreement, error) {
	return s.agreementRepo.List(ctx)
}

func (s *agreementService) ListActiveAgreements(ctx context.Context) ([]domain.Agreement, error) {
	agreements, err := s.agreementRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var active []domain.Agreement
	for i := range agreements {
		if agreements[i].IsActive(now) {
			active = append(active, agreements[i])
		}
	}
	return active, nil
}

func (s *agreementService) ListExpiringAgreements(ctx context.Context, withinDays int) ([]domain.Agreement, error) {
	agreements, err := s.agreementRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var expiring []domain.Agreement
	for i := range agreements {
		a := &agreements[i]
		if a.IsActive(now) && a.DaysRemaining(now) <= withinDays {
			expiring = append(expiring, *a)
		}
	}
	return expiring, nil
}

// AddRentedItem adds a room to a draft. The room is checked for availability
// here for an early error, but it is only claimed when the agreement is
// signed.
func (s *agreementService) AddRentedItem(ctx context.Context, agreementID int32, req AddRentedItemRequest) (*domain.Agreement, error) {
	agreement, err := s.agreementRepo.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	room, err := s.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.CanBeRented() {
		return nil, &domain.ConflictError{Message: "room is already rented"}
	}

	item, err := domain.NewRentedItem(req.RoomID, req.Purpose, req.RentUntil, req.RentAmount, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := agreement.AddRentedItem(item); err != nil {
		return nil, err
	}
	if err := s.agreementRepo.Update(ctx, agreement); err != nil {
		return nil, err
	}
	return agreement, nil
}

func (s *agreementService) RemoveRentedItem(ctx context.Context, agreementID, roomID int32) (*domain.Agreement, error) {
	agreement, err := s.agreementRepo.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if err := agreement.RemoveRentedItem(roomID); err != nil {
		return nil, err
	}
	if err := s.agreementRepo.Update(ctx, agreement); err != nil {
		return nil, err
	}
	return agreement, nil
}

// SignAgreement activates a draft. The contractor must be active and below
// the active-agreement ceiling; every room in the agreement is claimed, and
// the agreement itself is persisted last so a partial failure leaves it a
// draft.
func (s *agreementService) SignAgreement(ctx context.Context, id int32) (*domain.Agreement, error) {
	agreement, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	contractor, err := resolveContractor(ctx, s.individualRepo, s.legalRepo, agreement.ContractorID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !contractor.IsActive {
		return nil, &domain.InvalidStateError{Entity: "contractor", State: "inactive", Message: "a deactivated contractor cannot sign agreements"}
	}
	agreements, err := s.agreementRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int32]*domain.Agreement, len(agreements))
	for i := range agreements {
		byID[agreements[i].ID] = &agreements[i]
	}
	if !contractor.CanCreateNewAgreement(byID, now) {
		return nil, &domain.CapacityError{Message: "contractor has reached the maximum number of active agreements"}
	}

	if err := agreement.Sign(now); err != nil {
		return nil, err
	}

	var claimed []*domain.Room
	for i := range agreement.RentedItems {
		room, err := s.roomRepo.GetByID(ctx, agreement.RentedItems[i].RoomID)
		if err != nil {
			s.releaseRooms(ctx, claimed)
			return nil, err
		}
		if err := room.Rent(agreement.ID); err != nil {
			s.releaseRooms(ctx, claimed)
			return nil, err
		}
		if err := s.roomRepo.Update(ctx, room); err != nil {
			s.releaseRooms(ctx, claimed)
			return nil, err
		}
		claimed = append(claimed, room)
	}

	if err := s.agreementRepo.Update(ctx, agreement); err != nil {
		s.releaseRooms(ctx, claimed)
		return nil, err
	}

	s.publish("agreement", "signed", agreement.ID)
	return agreement, nil
}

// releaseRooms undoes claims made during a failed sign. Best effort; a room
// that cannot be released is logged and left for reconciliation.
func (s *agreementService) releaseRooms(ctx context.Context, rooms []*domain.Room) {
	for _, room := range rooms {
		room.Release()
		if err := s.roomRepo.Update(ctx, room); err != nil {
			logger.ErrorContext(ctx, "failed to release room after aborted signing", "room_id", room.ID, "error", err)
		}
	}
}

// CancelAgreement terminates an active agreement early, vacating its rooms.
func (s *agreementService) CancelAgreement(ctx context.Context, id int32, reason string) (*domain.Agreement, error) {
	agreement, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := agreement.Cancel(reason, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.vacateRooms(ctx, agreement); err != nil {
		return nil, err
	}
	if err := s.agreementRepo.Update(ctx, agreement); err != nil {
		return nil, err
	}

	s.publish("agreement", "cancelled", agreement.ID)
	return agreement, nil
}

// CompleteAgreement closes an active agreement whose term has elapsed.
func (s *agreementService) CompleteAgreement(ctx context.Context, id int32) (*domain.Agreement, error) {
	agreement, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := agreement.Complete(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.vacateRooms(ctx, agreement); err != nil {
		return nil, err
	}
	if err := s.agreementRepo.Update(ctx, agreement); err != nil {
		return nil, err
	}

	s.publish("agreement", "completed", agreement.ID)
	return agreement, nil
}

// vacateRooms releases every room of the agreement that this agreement
// actually occupies. A room claimed by someone else is left alone.
func (s *agreementService) vacateRooms(ctx context.Context, agreement *domain.Agreement) error {
	for i := range agreement.RentedItems {
		room, err := s.roomRepo.GetByID(ctx, agreement.RentedItems[i].RoomID)
		if err != nil {
			return err
		}
		if room.CurrentAgreementID == nil || *room.CurrentAgreementID != agreement.ID {
			continue
		}
		room.Release()
		if err := s.roomRepo.Update(ctx, room); err != nil {
			return err
		}
	}
	return nil
}

func (s *agreementService) ExtendAgreement(ctx context.Context, id int32, newEndDate time.Time, newPenaltyRate *decimal.Decimal) (*domain.Agreement, error) {
	agreement, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := agreement.Extend(newEndDate, newPenaltyRate); err != nil {
		return nil, err
	}
	if err := s.agreementRepo.Update(ctx, agreement); err != nil {
		return nil, err
	}

	s.publish("agreement", "extended", agreement.ID)
	return agreement, nil
}

func (s *agreementService) ExtendRentedItem(ctx context.Context, agreementID, roomID int32, newRentUntil time.Time, newRentAmount *decimal.Decimal) (*domain.Agreement, error) {
	agreement, err := s.agreementRepo.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if agreement.Status != domain.AgreementStatusDraft && agreement.Status != domain.AgreementStatusActive {
		return nil, &domain.InvalidStateError{Entity: "agreement", State: string(agreement.Status), Message: "rented items can only be extended on a draft or active agreement"}
	}
	item := agreement.Item(roomID)
	if item == nil {
		return nil, &domain.NotFoundError{Entity: "rented item", ID: roomID}
	}
	if newRentUntil.After(agreement.EndDate) {
		return nil, &domain.ValidationError{Field: "rent_until", Message: "exceeds the agreement end date"}
	}
	if err := item.ExtendRent(newRentUntil, newRentAmount); err != nil {
		return nil, err
	}
	if err := s.agreementRepo.Update(ctx, agreement); err != nil {
		return nil, err
	}
	return agreement, nil
}

// ProlongAgreement creates a follow-up draft for the same contractor and
// rooms, starting where the source agreement ends. The new registration
// number is the source number with a -P suffix.
func (s *agreementService) ProlongAgreement(ctx context.Context, id int32, newEndDate time.Time) (*domain.Agreement, error) {
	source, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	contractor, err := resolveContractor(ctx, s.individualRepo, s.legalRepo, source.ContractorID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	start := source.EndDate
	if start.Before(now) {
		start = now
	}
	newID, err := s.agreementRepo.NextID(ctx)
	if err != nil {
		return nil, err
	}
	prolonged, err := domain.NewAgreement(newID, source.RegistrationNumber+"-P", start, newEndDate, source.PaymentFrequency, source.ContractorID, source.PenaltyRate, now)
	if err != nil {
		return nil, err
	}
	for i := range source.RentedItems {
		src := &source.RentedItems[i]
		item, err := domain.NewRentedItem(src.RoomID, src.Purpose, newEndDate, src.RentAmount, now)
		if err != nil {
			return nil, err
		}
		if err := prolonged.AddRentedItem(item); err != nil {
			return nil, err
		}
	}

	if err := s.agreementRepo.Create(ctx, prolonged); err != nil {
		return nil, err
	}
	if err := contractor.AddAgreement(prolonged.ID); err != nil {
		s.rollbackCreate(ctx, prolonged.ID)
		return nil, err
	}
	if err := saveContractor(ctx, s.individualRepo, s.legalRepo, contractor); err != nil {
		s.rollbackCreate(ctx, prolonged.ID)
		return nil, err
	}

	s.publish("agreement", "prolonged", prolonged.ID)
	return prolonged, nil
}

// DeleteAgreement removes a draft that never went anywhere. Signed
// agreements are part of the business record and stay.
func (s *agreementService) DeleteAgreement(ctx context.Context, id int32) error {
	agreement, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if agreement.Status != domain.AgreementStatusDraft {
		return &domain.InvalidStateError{Entity: "agreement", State: string(agreement.Status), Message: "only a draft can be deleted"}
	}
	if err := s.agreementRepo.Delete(ctx, id); err != nil {
		return err
	}

	contractor, err := resolveContractor(ctx, s.individualRepo, s.legalRepo, agreement.ContractorID)
	if err == nil && contractor.HasAgreement(id) {
		if err := contractor.RemoveAgreement(id); err == nil {
			if err := saveContractor(ctx, s.individualRepo, s.legalRepo, contractor); err != nil {
				logger.ErrorContext(ctx, "failed to unlink deleted agreement from contractor", "agreement_id", id, "contractor_id", contractor.ID, "error", err)
			}
		}
	}

	s.publish("agreement", "deleted", id)
	return nil
}

func (s *agreementService) AgreementMonthlyRent(ctx context.Context, id int32) (decimal.Decimal, error) {
	agreement, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return agreement.TotalMonthlyRent(), nil
}

func (s *agreementService) AgreementPenalty(ctx context.Context, id int32) (decimal.Decimal, error) {
	agreement, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return agreement.CalculatePenalty(), nil
}

// SweepExpiredAgreements completes every active agreement whose end date has
// passed. Failures are logged per agreement and do not stop the sweep.
func (s *agreementService) SweepExpiredAgreements(ctx context.Context) (int, error) {
	agreements, err := s.agreementRepo.List(ctx)
	if err != nil {
		return 0, err
	}
	now := s.clock.Now()
	completed := 0
	for i := range agreements {
		a := &agreements[i]
		if a.Status != domain.AgreementStatusActive || now.Before(a.EndDate) {
			continue
		}
		if _, err := s.CompleteAgreement(ctx, a.ID); err != nil {
			logger.ErrorContext(ctx, "failed to complete expired agreement", "agreement_id", a.ID, "error", err)
			continue
		}
		completed++
	}
	return completed, nil
}

func (s *agreementService) publish(entity, action string, id int32) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(notify.Event{Entity: entity, Action: action, EntityID: id, At: s.clock.Now()})
}
