package httpapi

import (
	"encoding/json"
	"net/http"

	"kal-storefront/internal/checkout"
	"kal-storefront/internal/domain"
	"kal-storefront/internal/service"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error      string           `json:"error"`
	Validation *checkout.Result `json:"validation,omitempty"`
	Message    string           `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, service.ErrSubmissionInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrUnknownStatus),
		errors.Is(err, domain.ErrUnknownCategory),
		errors.Is(err, checkout.ErrInvalidCheckout),
		errors.Is(err, service.ErrInvalidItem),
		errors.Is(err, service.ErrInvalidSettings),
		errors.Is(err, service.ErrSessionRequired),
		errors.Is(err, service.ErrEmptyMessage):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	response := errorResponse{Error: err.Error()}

	var invalid *service.ValidationError
	if errors.As(err, &invalid) {
		response.Validation = &invalid.Result
		response.Message = invalid.Result.BlockingMessage()
	}

	entry := log.WithFields(log.Fields{"method": r.Method, "url": r.URL.Path, "status": status})
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
		response.Error = http.StatusText(status)
	} else {
		entry.WithError(err).Debug("request rejected")
	}
	writeJSON(w, status, response)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}
