package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"shopcart/internal/model"

	"github.com/rs/zerolog"
)

// errorEnvelope is the standardised failure response shape.
type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Type      string              `json:"type"`
	Message   string              `json:"message"`
	Code      string              `json:"code"`
	Context   *model.ErrorContext `json:"context,omitempty"`
	Timestamp string              `json:"timestamp"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers already sent; nothing useful left to do.
		return
	}
}

// writeError maps a failure to its HTTP representation. Domain errors keep
// their message and code; anything else is logged and surfaced as an opaque
// internal error. Context metadata is exposed only in development mode.
func writeError(w http.ResponseWriter, err error, development bool, logger zerolog.Logger) {
	appErr, ok := model.AsAppError(err)
	if !ok {
		logger.Error().Err(err).Msg("unhandled error")
		appErr = model.NewInternal("internal server error")
	}

	var status int
	errType := "application_error"
	message := appErr.Message

	switch appErr.Kind {
	case model.KindRequiredField, model.KindInvalidArgument:
		status = http.StatusBadRequest
	case model.KindNotFound:
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
		errType = "server_error"
		if !development {
			message = "internal server error"
		}
		logger.Error().Str("error", appErr.Message).Msg("internal error")
	}

	body := errorBody{
		Type:      errType,
		Message:   message,
		Code:      appErr.Code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if development {
		body.Context = appErr.Context
	}

	writeJSON(w, status, errorEnvelope{Success: false, Error: body})
}
