package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"community/internal/domain"
	"community/internal/infrastructure/logging"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Msg("write response")
	}
}

// decodeJSON reads a JSON body into dst. Malformed bodies are reported as a
// validation error so they map to 400.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return domain.NewValidationError("", "unable to read request body")
	}
	if len(body) > maxBodyBytes {
		return domain.NewValidationError("", "request body too large")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.NewValidationError("", "invalid JSON body")
	}
	return nil
}

func statusFor(code string) int {
	switch code {
	case "validation":
		return http.StatusBadRequest
	case "unauthorized", "invalid_credentials":
		return http.StatusUnauthorized
	case "forbidden", "participant_only", "organization_only", "organization_appraise", "event_not_ended", "not_attendee":
		return http.StatusForbidden
	case "event_not_found", "registration_not_found", "user_not_found", "organization_missing":
		return http.StatusNotFound
	case "capacity_exceeded", "already_registered", "duplicate_appraisal", "email_taken":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and a localized envelope. Unmapped errors
// are logged and answered with the generic message only.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.Code(err)
	status := statusFor(code)
	locale := h.locale(r)

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, status, errorBody{Error: verr.Error()})
		return
	case status == http.StatusInternalServerError:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, status, errorBody{Error: h.tr.T(locale, "error_internal", nil)})
		return
	}
	writeJSON(w, status, errorBody{Error: h.tr.T(locale, "error_"+code, nil)})
}

func (h *Handler) locale(r *http.Request) string {
	return h.tr.Match(r.Header.Get("Accept-Language"))
}
