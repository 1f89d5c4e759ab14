package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"hrms/internal/domain/apperr"
)

type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      string `json:"code,omitempty"`
	Field     string `json:"field,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func SuccessMessage(w http.ResponseWriter, status int, message string, data any, requestID string) {
	WriteJSON(w, status, Envelope{Success: true, Message: message, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: message, Code: code, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: message, Code: code, Details: details, RequestID: requestID})
}

// StatusFor maps an error kind onto its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindDuplicateKey, apperr.KindReferentialIntegrity:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// FailError renders any error returned by a service. Errors outside the
// taxonomy are logged and reported as internal.
func FailError(w http.ResponseWriter, err error, requestID string) {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Internal(err)
	}
	status := StatusFor(appErr.Kind)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "err", appErr.Err, "requestId", requestID)
	}
	WriteJSON(w, status, Envelope{
		Success:   false,
		Error:     appErr.Message,
		Code:      string(appErr.Kind),
		Field:     appErr.Field,
		RequestID: requestID,
	})
}
