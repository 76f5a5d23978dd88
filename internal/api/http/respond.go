package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"proprental-backend/internal/domain"
	"proprental-backend/internal/logger"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as a JSON body with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors to HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	var (
		validation   *domain.ValidationError
		notFound     *domain.NotFoundError
		conflict     *domain.ConflictError
		invalidState *domain.InvalidStateError
		capacity     *domain.CapacityError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validation.Error()})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFound.Error()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: conflict.Error()})
	case errors.As(err, &invalidState):
		writeJSON(w, http.StatusConflict, errorResponse{Error: invalidState.Error()})
	case errors.As(err, &capacity):
		writeJSON(w, http.StatusConflict, errorResponse{Error: capacity.Error()})
	default:
		logger.Error("Internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// pathID extracts an int32 id from a route variable
func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return int32(id), nil
}

// parseDate parses a YYYY-MM-DD value
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Message: "must be a date in YYYY-MM-DD format"}
	}
	return t, nil
}

// decodeBody decodes a JSON request body into v
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.ValidationError{Field: "body", Message: "invalid JSON"}
	}
	return nil
}
