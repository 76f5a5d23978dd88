package http

import (
	"net/http"

	"proprental-backend/internal/domain"
	"proprental-backend/internal/service"
)

// ContractorHandler exposes contractor management over REST
type ContractorHandler struct {
	contractors service.ContractorService
}

func NewContractorHandler(contractors service.ContractorService) *ContractorHandler {
	return &ContractorHandler{contractors: contractors}
}

type createIndividualBody struct {
	Phone             string `json:"phone"`
	FullName          string `json:"full_name"`
	PassportSeries    string `json:"passport_series"`
	PassportNumber    string `json:"passport_number"`
	PassportIssueDate string `json:"passport_issue_date"`
	PassportIssuedBy  string `json:"passport_issued_by"`
}

func (h *ContractorHandler) CreateIndividual(w http.ResponseWriter, r *http.Request) {
	var body createIndividualBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	issueDate, err := parseDate("passport_issue_date", body.PassportIssueDate)
	if err != nil {
		writeError(w, err)
		return
	}
	contractor, err := h.contractors.CreateIndividual(r.Context(), service.CreateIndividualRequest{
		Phone:             body.Phone,
		FullName:          body.FullName,
		PassportSeries:    body.PassportSeries,
		PassportNumber:    body.PassportNumber,
		PassportIssueDate: issueDate,
		PassportIssuedBy:  body.PassportIssuedBy,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contractor)
}

type createLegalEntityBody struct {
	Phone             string `json:"phone"`
	CompanyName       string `json:"company_name"`
	DirectorName      string `json:"director_name"`
	LegalAddress      string `json:"legal_address"`
	TaxID             string `json:"tax_id"`
	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
}

func (h *ContractorHandler) CreateLegalEntity(w http.ResponseWriter, r *http.Request) {
	var body createLegalEntityBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	contractor, err := h.contractors.CreateLegalEntity(r.Context(), service.CreateLegalEntityRequest{
		Phone:             body.Phone,
		CompanyName:       body.CompanyName,
		DirectorName:      body.DirectorName,
		LegalAddress:      body.LegalAddress,
		TaxID:             body.TaxID,
		BankName:          body.BankName,
		BankAccountNumber: body.BankAccountNumber,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contractor)
}

func (h *ContractorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	contractor, err := h.contractors.GetContractor(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contractor)
}

func (h *ContractorHandler) List(w http.ResponseWriter, r *http.Request) {
	contractors, err := h.contractors.ListContractors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contractors)
}

// Agreements serves the agreements linked to one contractor
func (h *ContractorHandler) Agreements(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	agreements, err := h.contractors.ContractorAgreements(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if agreements == nil {
		agreements = []domain.Agreement{}
	}
	writeJSON(w, http.StatusOK, agreements)
}

// CanSign answers whether the contractor may sign another agreement
func (h *ContractorHandler) CanSign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	canSign, err := h.contractors.CanSignNewAgreement(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"can_sign": canSign})
}

type changePhoneBody struct {
	Phone string `json:"phone"`
}

func (h *ContractorHandler) ChangePhone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var body changePhoneBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	contractor, err := h.contractors.ChangePhone(r.Context(), id, body.Phone)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contractor)
}

type deactivateBody struct {
	Reason string `json:"reason"`
}

func (h *ContractorHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var body deactivateBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	contractor, err := h.contractors.DeactivateContractor(r.Context(), id, body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contractor)
}

func (h *ContractorHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	contractor, err := h.contractors.ActivateContractor(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contractor)
}
