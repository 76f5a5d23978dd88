package http

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"proprental-backend/internal/domain"
	"proprental-backend/internal/service"
)

// AgreementHandler exposes the agreement lifecycle over REST
type AgreementHandler struct {
	agreements service.AgreementService
}

func NewAgreementHandler(agreements service.AgreementService) *AgreementHandler {
	return &AgreementHandler{agreements: agreements}
}

type createAgreementBody struct {
	RegistrationNumber string          `json:"registration_number"`
	StartDate          string          `json:"start_date"`
	EndDate            string          `json:"end_date"`
	PaymentFrequency   string          `json:"payment_frequency"`
	ContractorID       int32           `json:"contractor_id"`
	PenaltyRate        decimal.Decimal `json:"penalty_rate"`
}

func (h *AgreementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createAgreementBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	start, err := parseDate("start_date", body.StartDate)
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate("end_date", body.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	agreement, err := h.agreements.CreateAgreement(r.Context(), service.CreateAgreementRequest{
		RegistrationNumber: body.RegistrationNumber,
		StartDate:          start,
		EndDate:            end,
		PaymentFrequency:   domain.PaymentFrequency(body.PaymentFrequency),
		ContractorID:       body.ContractorID,
		PenaltyRate:        body.PenaltyRate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, agreement)
}

func (h *AgreementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	agreement, err := h.agreements.GetAgreement(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreement)
}

// List serves /agreements with optional status filtering via ?filter=active
// or ?filter=expiring&within_days=N.
func (h *AgreementHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		agreements []domain.Agreement
		err        error
	)
	switch r.URL.Query().Get("filter") {
	case "active":
		agreements, err = h.agreements.ListActiveAgreements(r.Context())
	case "expiring":
		days := 30
		if raw := r.URL.Query().Get("within_days"); raw != "" {
			days, err = strconv.Atoi(raw)
			if err != nil || days <= 0 {
				writeError(w, &domain.ValidationError{Field: "within_days", Message: "must be a positive integer"})
				return
			}
		}
		agreements, err = h.agreements.ListExpiringAgreements(r.Context(), days)
	default:
		agreements, err = h.agreements.ListAgreements(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if agreements == nil {
		agreements = []domain.Agreement{}
	}
	writeJSON(w, http.StatusOK, agreements)
}

type addRentedItemBody struct {
	RoomID     int32           `json:"room_id"`
	Purpose    string          `json:"purpose"`
	RentUntil  string          `json:"rent_until"`
	RentAmount decimal.Decimal `json:"rent_amount"`
}

func (h *AgreementHandler) AddRentedItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var body addRentedItemBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	until, err := parseDate("rent_until", body.RentUntil)
	if err != nil {
		writeError(w, err)
		return
	}
	agreement, err := h.agreements.AddRentedItem(r.Context(), id, service.AddRentedItemRequest{
		RoomID:     body.RoomID,
		Purpose:    domain.RoomPurpose(body.Purpose),
		RentUntil:  until,
		RentAmount: body.RentAmount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreement)
}

type extendRentedItemBody struct {
	RentUntil  string           `json:"rent_until"`
	RentAmount *decimal.Decimal `json:"rent_amount,omitempty"`
}

func (h *AgreementHandler) ExtendRentedItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	roomID, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, err)
		return
	}
	var body extendRentedItemBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	until, err := parseDate("rent_until", body.RentUntil)
	if err != nil {
		writeError(w, err)
		return
	}
	agreement, err := h.agreements.ExtendRentedItem(r.Context(), id, roomID, until, body.RentAmount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreement)
}

func (h *AgreementHandler) RemoveRentedItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	roomID, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, err)
		return
	}
	agreement, err := h.agreements.RemoveRentedItem(r.Context(), id, roomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreement)
}

func (h *AgreementHandler) Sign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	agreement, err := h.agreements.SignAgreement(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreement)
}

type cancelAgreementBody struct {
	Reason string `json:"reason"`
}

func (h *AgreementHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var body cancelAgreementBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	agreement, err := h.agreements.CancelAgreement(r.Context(), id, body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreement)
}

func (h *AgreementHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	agreement, err := h.agreements.CompleteAgreement(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreement)
}

type extendAgreementBody struct {
	EndDate     string           `json:"end_date"`
	PenaltyRate *decimal.Decimal `json:"penalty_rate,omitempty"`
}

func (h *AgreementHandler) Extend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var body extendAgreementBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate("end_date", body.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	agreement, err := h.agreements.ExtendAgreement(r.Context(), id, end, body.PenaltyRate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agreement)
}

type prolongAgreementBody struct {
	EndDate string `json:"end_date"`
}

func (h *AgreementHandler) Prolong(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var body prolongAgreementBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate("end_date", body.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	agreement, err := h.agreements.ProlongAgreement(r.Context(), id, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, agreement)
}

func (h *AgreementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.agreements.DeleteAgreement(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *AgreementHandler) MonthlyRent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	rent, err := h.agreements.AgreementMonthlyRent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"monthly_rent": rent})
}

func (h *AgreementHandler) Penalty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	penalty, err := h.agreements.AgreementPenalty(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"penalty": penalty})
}
