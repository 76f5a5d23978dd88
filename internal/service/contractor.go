package service

import (
	"context"
	"errors"
	"sort"

	"proprental-backend/internal/clock"
	"proprental-backend/internal/domain"
	"proprental-backend/internal/repository"
)

type contractorService struct {
	individualRepo repository.IndividualContractorRepository
	legalRepo      repository.LegalEntityContractorRepository
	agreementRepo  repository.AgreementRepository
	clock          clock.Clock
}

func NewContractorService(
	individualRepo repository.IndividualContractorRepository,
	legalRepo repository.LegalEntityContractorRepository,
	agreementRepo repository.AgreementRepository,
	clk clock.Clock,
) ContractorService {
	return &contractorService{
		individualRepo: individualRepo,
		legalRepo:      legalRepo,
		agreementRepo:  agreementRepo,
		clock:          clk,
	}
}

func (s *contractorService) CreateIndividual(ctx context.Context, req CreateIndividualRequest) (*domain.Contractor, error) {
	if err := s.checkPhoneUnused(ctx, req.Phone); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	passport, err := domain.NewPassportData(req.PassportSeries, req.PassportNumber, req.PassportIssueDate, req.PassportIssuedBy, now)
	if err != nil {
		return nil, err
	}
	id, err := s.nextID(ctx)
	if err != nil {
		return nil, err
	}
	contractor, err := domain.NewIndividualContractor(id, req.Phone, req.FullName, passport, now)
	if err != nil {
		return nil, err
	}
	if err := s.individualRepo.Create(ctx, contractor); err != nil {
		return nil, err
	}
	return contractor, nil
}

func (s *contractorService) CreateLegalEntity(ctx context.Context, req CreateLegalEntityRequest) (*domain.Contractor, error) {
	if err := s.checkPhoneUnused(ctx, req.Phone); err != nil {
		return nil, err
	}
	if err := s.checkTaxIDUnused(ctx, req.TaxID); err != nil {
		return nil, err
	}
	bank, err := domain.NewBankDetails(req.BankName, req.BankAccountNumber)
	if err != nil {
		return nil, err
	}
	id, err := s.nextID(ctx)
	if err != nil {
		return nil, err
	}
	contractor, err := domain.NewLegalEntityContractor(id, req.Phone, req.CompanyName, req.DirectorName, req.LegalAddress, req.TaxID, bank, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.legalRepo.Create(ctx, contractor); err != nil {
		return nil, err
	}
	return contractor, nil
}

func (s *contractorService) GetContractor(ctx context.Context, id int32) (*domain.Contractor, error) {
	return resolveContractor(ctx, s.individualRepo, s.legalRepo, id)
}

func (s *contractorService) ListContractors(ctx context.Context) ([]domain.Contractor, error) {
	individuals, err := s.individualRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	legals, err := s.legalRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	contractors := append(individuals, legals...)
	sort.Slice(contractors, func(i, j int) bool { return contractors[i].ID < contractors[j].ID })
	return contractors, nil
}

// ContractorAgreements resolves the contractor's agreement back-references.
// Dangling references are skipped rather than failing the whole query.
func (s *contractorService) ContractorAgreements(ctx context.Context, id int32) ([]domain.Agreement, error) {
	contractor, err := resolveContractor(ctx, s.individualRepo, s.legalRepo, id)
	if err != nil {
		return nil, err
	}
	var agreements []domain.Agreement
	for _, agreementID := range contractor.AgreementIDs {
		agreement, err := s.agreementRepo.GetByID(ctx, agreementID)
		if err != nil {
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return nil, err
		}
		agreements = append(agreements, *agreement)
	}
	return agreements, nil
}

// CanSignNewAgreement is the advisory form of the signing pre-check: whether
// the contractor is active and below the active-agreement ceiling.
func (s *contractorService) CanSignNewAgreement(ctx context.Context, id int32) (bool, error) {
	contractor, err := resolveContractor(ctx, s.individualRepo, s.legalRepo, id)
	if err != nil {
		return false, err
	}
	agreements, err := s.agreementRepo.List(ctx)
	if err != nil {
		return false, err
	}
	byID := make(map[int32]*domain.Agreement, len(agreements))
	for i := range agreements {
		byID[agreements[i].ID] = &agreements[i]
	}
	return contractor.CanCreateNewAgreement(byID, s.clock.Now()), nil
}

func (s *contractorService) ChangePhone(ctx context.Context, id int32, newPhone string) (*domain.Contractor, error) {
	contractor, err := resolveContractor(ctx, s.individualRepo, s.legalRepo, id)
	if err != nil {
		return nil, err
	}
	if newPhone != contractor.Phone {
		if err := s.checkPhoneUnused(ctx, newPhone); err != nil {
			return nil, err
		}
	}
	if err := contractor.ChangePhone(newPhone); err != nil {
		return nil, err
	}
	if err := saveContractor(ctx, s.individualRepo, s.legalRepo, contractor); err != nil {
		return nil, err
	}
	return contractor, nil
}

func (s *contractorService) DeactivateContractor(ctx context.Context, id int32, reason string) (*domain.Contractor, error) {
	contractor, err := resolveContractor(ctx, s.individualRepo, s.legalRepo, id)
	if err != nil {
		return nil, err
	}
	if err := contractor.Deactivate(reason); err != nil {
		return nil, err
	}
	if err := saveContractor(ctx, s.individualRepo, s.legalRepo, contractor); err != nil {
		return nil, err
	}
	return contractor, nil
}

func (s *contractorService) ActivateContractor(ctx context.Context, id int32) (*domain.Contractor, error) {
	contractor, err := resolveContractor(ctx, s.individualRepo, s.legalRepo, id)
	if err != nil {
		return nil, err
	}
	contractor.Activate()
	if err := saveContractor(ctx, s.individualRepo, s.legalRepo, contractor); err != nil {
		return nil, err
	}
	return contractor, nil
}

// nextID allocates from an id range shared across both variants, so an id
// identifies one contractor regardless of type.
func (s *contractorService) nextID(ctx context.Context) (int32, error) {
	fromIndividuals, err := s.individualRepo.NextID(ctx)
	if err != nil {
		return 0, err
	}
	fromLegals, err := s.legalRepo.NextID(ctx)
	if err != nil {
		return 0, err
	}
	if fromLegals > fromIndividuals {
		return fromLegals, nil
	}
	return fromIndividuals, nil
}

func (s *contractorService) checkPhoneUnused(ctx context.Context, phone string) error {
	contractors, err := s.ListContractors(ctx)
	if err != nil {
		return err
	}
	for i := range contractors {
		if contractors[i].Phone == phone {
			return &domain.ConflictError{Message: "phone is already registered to another contractor"}
		}
	}
	return nil
}

func (s *contractorService) checkTaxIDUnused(ctx context.Context, taxID string) error {
	legals, err := s.legalRepo.List(ctx)
	if err != nil {
		return err
	}
	for i := range legals {
		if legals[i].LegalEntity != nil && legals[i].LegalEntity.TaxID == taxID {
			return &domain.ConflictError{Message: "tax id is already registered to another contractor"}
		}
	}
	return nil
}

// resolveContractor looks a contractor up in both variant stores.
func resolveContractor(ctx context.Context, individuals repository.IndividualContractorRepository, legals repository.LegalEntityContractorRepository, id int32) (*domain.Contractor, error) {
	contractor, err := individuals.GetByID(ctx, id)
	if err == nil {
		return contractor, nil
	}
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}
	return legals.GetByID(ctx, id)
}

// saveContractor routes the update to the store matching the variant.
func saveContractor(ctx context.Context, individuals repository.IndividualContractorRepository, legals repository.LegalEntityContractorRepository, c *domain.Contractor) error {
	switch c.Type {
	case domain.ContractorLegalEntity:
		return legals.Update(ctx, c)
	default:
		return individuals.Update(ctx, c)
	}
}
