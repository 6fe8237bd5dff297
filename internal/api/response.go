package api

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// HTTPError pairs a status code with a machine-readable key.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string { return e.Key }

var (
	ErrBadRequest    = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnauthorized  = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrNotFound      = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrInternalError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error"}
)

// ValidationError maps field names to messages and renders as 422.
type ValidationError map[string][]string

func (v ValidationError) Error() string { return "validation failed" }

// Add appends msg to field.
func (v ValidationError) Add(field, msg string) {
	v[field] = append(v[field], msg)
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respond(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Data: data})
}

func respondError(w http.ResponseWriter, err error) {
	status, detail := errorToDetail(err)
	writeJSON(w, status, Envelope{Error: detail})
}

// errorToDetail maps err to a status and detail. Unclassified errors become
// a generic 500 so internals never leak into responses.
func errorToDetail(err error) (int, *ErrorDetail) {
	var verr ValidationError
	if errors.As(err, &verr) {
		detail := &ErrorDetail{Code: "validation_error", Message: verr.Error()}
		if len(verr) > 0 {
			detail.Details = make(map[string][]string, len(verr))
			maps.Copy(detail.Details, verr)
		}
		return http.StatusUnprocessableEntity, detail
	}

	var herr HTTPError
	if errors.As(err, &herr) {
		return herr.Code, &ErrorDetail{Code: herr.Key, Message: http.StatusText(herr.Code)}
	}

	return http.StatusInternalServerError, &ErrorDetail{
		Code:    ErrInternalError.Key,
		Message: http.StatusText(http.StatusInternalServerError),
	}
}
