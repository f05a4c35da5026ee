package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/and161185/docuvault/internal/errs"
)

// Machine-readable error codes carried in the response body.
const (
	codeValidationError  = "VALIDATION_ERROR"
	codeNotFound         = "NOT_FOUND"
	codeUnauthorized     = "UNAUTHORIZED"
	codeDuplicateEmail   = "DUPLICATE_EMAIL"
	codeRateLimited      = "RATE_LIMITED"
	codeFileTooLarge     = "FILE_TOO_LARGE"
	codeMalformedPayload = "MALFORMED_PAYLOAD"
	codeInternalError    = "INTERNAL_ERROR"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes the standard error body.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Code: code, Message: message}})
}

// writeDomainError maps sentinel errors onto status codes and error codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrReadError):
		writeError(w, http.StatusBadRequest, codeValidationError, err.Error())
	case errors.Is(err, errs.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, codeFileTooLarge, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	case errors.Is(err, errs.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, codeDuplicateEmail, "email already registered")
	case errors.Is(err, errs.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, codeRateLimited, "too many attempts, try later")
	case errors.Is(err, errs.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
	case errors.Is(err, errs.ErrMalformedPayload):
		writeError(w, http.StatusUnprocessableEntity, codeMalformedPayload, "preview unavailable")
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
