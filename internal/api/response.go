package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grand-thief-cash/focusboard/internal/apperr"
	"github.com/grand-thief-cash/focusboard/internal/logging"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps the error taxonomy onto status codes. Internal errors
// get a generic message; the cause goes to the log, not the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	msg := "internal server error"
	status := http.StatusInternalServerError
	if errors.As(err, &ae) {
		switch ae.Kind() {
		case apperr.KindUnauthorized:
			status, msg = http.StatusUnauthorized, ae.Message()
		case apperr.KindValidation:
			status, msg = http.StatusBadRequest, ae.Message()
		case apperr.KindNotFound:
			status, msg = http.StatusNotFound, ae.Message()
		case apperr.KindConflict:
			status, msg = http.StatusConflict, ae.Message()
		}
	}
	if status == http.StatusInternalServerError {
		logging.Errorf(r.Context(), "request failed: %v", err)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
