package domain

import (
	"strings"
	"time"
	"unicode"
)

type ContractorType string

const (
	ContractorIndividual  ContractorType = "INDIVIDUAL"
	ContractorLegalEntity ContractorType = "LEGAL_ENTITY"
)

// MaxActiveAgreements bounds how many concurrently active agreements a
// single contractor may hold.
const MaxActiveAgreements = 5

// PassportData identifies an individual contractor. Value semantics; two
// passports are the same document when series and number match.
type PassportData struct {
	Series    string    `json:"series"`
	Number    string    `json:"number"`
	IssueDate time.Time `json:"issue_date"`
	IssuedBy  string    `json:"issued_by"`
}

func NewPassportData(series, number string, issueDate time.Time, issuedBy string, now time.Time) (PassportData, error) {
	if len(strings.TrimSpace(series)) != 4 {
		return PassportData{}, &ValidationError{Field: "passport_series", Message: "must contain 4 digits"}
	}
	if len(strings.TrimSpace(number)) != 6 {
		return PassportData{}, &ValidationError{Field: "passport_number", Message: "must contain 6 digits"}
	}
	if issueDate.After(now) {
		return PassportData{}, &ValidationError{Field: "passport_issue_date", Message: "cannot be in the future"}
	}
	if strings.TrimSpace(issuedBy) == "" {
		return PassportData{}, &ValidationError{Field: "passport_issued_by", Message: "is required"}
	}
	return PassportData{Series: series, Number: number, IssueDate: issueDate, IssuedBy: issuedBy}, nil
}

func (p PassportData) Equal(other PassportData) bool {
	return p.Series == other.Series && p.Number == other.Number
}

// BankDetails of a legal-entity contractor.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
}

func NewBankDetails(bankName, accountNumber string) (BankDetails, error) {
	if strings.TrimSpace(bankName) == "" {
		return BankDetails{}, &ValidationError{Field: "bank_name", Message: "is required"}
	}
	if strings.TrimSpace(accountNumber) == "" {
		return BankDetails{}, &ValidationError{Field: "account_number", Message: "is required"}
	}
	return BankDetails{BankName: bankName, AccountNumber: accountNumber}, nil
}

type IndividualDetails struct {
	FullName string       `json:"full_name"`
	Passport PassportData `json:"passport"`
}

type LegalEntityDetails struct {
	CompanyName  string      `json:"company_name"`
	DirectorName string      `json:"director_name"`
	LegalAddress string      `json:"legal_address"`
	TaxID        string      `json:"tax_id"`
	Bank         BankDetails `json:"bank"`
}

// Contractor is a tenant, either an individual or a legal entity. The
// variant tag selects which detail record is populated; there is no
// inheritance, callers dispatch on Type. AgreementIDs are back-references
// only, the agreements themselves live in their own store.
type Contractor struct {
	ID               int32               `json:"id"`
	Type             ContractorType      `json:"type"`
	Phone            string              `json:"phone"`
	RegistrationDate time.Time           `json:"registration_date"`
	IsActive         bool                `json:"is_active"`
	AgreementIDs     []int32             `json:"agreement_ids"`
	Individual       *IndividualDetails  `json:"individual,omitempty"`
	LegalEntity      *LegalEntityDetails `json:"legal_entity,omitempty"`
}

func NewIndividualContractor(id int32, phone, fullName string, passport PassportData, now time.Time) (*Contractor, error) {
	if err := validateContractorBase(id, phone); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, &ValidationError{Field: "full_name", Message: "is required"}
	}
	if len(strings.Fields(fullName)) < 3 {
		return nil, &ValidationError{Field: "full_name", Message: "must include surname, name and patronymic"}
	}
	return &Contractor{
		ID:               id,
		Type:             ContractorIndividual,
		Phone:            phone,
		RegistrationDate: now,
		IsActive:         true,
		Individual:       &IndividualDetails{FullName: fullName, Passport: passport},
	}, nil
}

func NewLegalEntityContractor(id int32, phone, companyName, directorName, legalAddress, taxID string, bank BankDetails, now time.Time) (*Contractor, error) {
	if err := validateContractorBase(id, phone); err != nil {
		return nil, err
	}
	if strings.TrimSpace(companyName) == "" {
		return nil, &ValidationError{Field: "company_name", Message: "is required"}
	}
	if strings.TrimSpace(directorName) == "" {
		return nil, &ValidationError{Field: "director_name", Message: "is required"}
	}
	if strings.TrimSpace(legalAddress) == "" {
		return nil, &ValidationError{Field: "legal_address", Message: "is required"}
	}
	if !isValidTaxID(taxID) {
		return nil, &ValidationError{Field: "tax_id", Message: "must contain 10 or 12 digits"}
	}
	return &Contractor{
		ID:               id,
		Type:             ContractorLegalEntity,
		Phone:            phone,
		RegistrationDate: now,
		IsActive:         true,
		LegalEntity: &LegalEntityDetails{
			CompanyName:  companyName,
			DirectorName: directorName,
			LegalAddress: legalAddress,
			TaxID:        taxID,
			Bank:         bank,
		},
	}, nil
}

func validateContractorBase(id int32, phone string) error {
	if id <= 0 {
		return &ValidationError{Field: "id", Message: "must be positive"}
	}
	if strings.TrimSpace(phone) == "" {
		return &ValidationError{Field: "phone", Message: "is required"}
	}
	if len(phone) < 5 {
		return &ValidationError{Field: "phone", Message: "is too short"}
	}
	return nil
}

func isValidTaxID(taxID string) bool {
	if len(taxID) != 10 && len(taxID) != 12 {
		return false
	}
	for _, r := range taxID {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// EntityID implements the store identity interface.
func (c Contractor) EntityID() int32 { return c.ID }

func (c *Contractor) DisplayName() string {
	switch c.Type {
	case ContractorIndividual:
		return c.Individual.FullName
	case ContractorLegalEntity:
		return c.LegalEntity.CompanyName
	}
	return ""
}

func (c *Contractor) AddAgreement(agreementID int32) error {
	if agreementID <= 0 {
		return &ValidationError{Field: "agreement_id", Message: "must be positive"}
	}
	if c.HasAgreement(agreementID) {
		return &ConflictError{Message: "agreement is already linked to this contractor"}
	}
	c.AgreementIDs = append(c.AgreementIDs, agreementID)
	return nil
}

func (c *Contractor) RemoveAgreement(agreementID int32) error {
	for i, id := range c.AgreementIDs {
		if id == agreementID {
			c.AgreementIDs = append(c.AgreementIDs[:i], c.AgreementIDs[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{Entity: "agreement", ID: agreementID}
}

func (c *Contractor) HasAgreement(agreementID int32) bool {
	for _, id := range c.AgreementIDs {
		if id == agreementID {
			return true
		}
	}
	return false
}

// ActiveAgreementCount counts this contractor's agreements that are active
// as of now, resolved against the supplied agreement set.
func (c *Contractor) ActiveAgreementCount(agreements map[int32]*Agreement, now time.Time) int {
	count := 0
	for _, id := range c.AgreementIDs {
		if a, ok := agreements[id]; ok && a.IsActive(now) {
			count++
		}
	}
	return count
}

// CanCreateNewAgreement is false for deactivated contractors and for
// contractors at the active-agreement ceiling.
func (c *Contractor) CanCreateNewAgreement(agreements map[int32]*Agreement, now time.Time) bool {
	if !c.IsActive {
		return false
	}
	return c.ActiveAgreementCount(agreements, now) < MaxActiveAgreements
}

func (c *Contractor) ChangePhone(newPhone string) error {
	if strings.TrimSpace(newPhone) == "" {
		return &ValidationError{Field: "phone", Message: "cannot be empty"}
	}
	if newPhone == c.Phone {
		return nil
	}
	c.Phone = newPhone
	return nil
}

func (c *Contractor) Deactivate(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return &ValidationError{Field: "reason", Message: "deactivation reason is required"}
	}
	c.IsActive = false
	return nil
}

func (c *Contractor) Activate() {
	c.IsActive = true
}
