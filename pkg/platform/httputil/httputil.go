// Package httputil maps domain errors onto HTTP responses and provides the
// JSON response helpers shared by every handler.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "shipcertify/pkg/domain-errors"
)

// errorBody is the wire shape for error responses.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

var statusByCode = map[dErrors.Code]int{
	dErrors.CodeUnauthorized:       http.StatusUnauthorized,
	dErrors.CodeForbidden:          http.StatusForbidden,
	dErrors.CodeNotFound:           http.StatusNotFound,
	dErrors.CodeInvalidState:       http.StatusConflict,
	dErrors.CodeConflict:           http.StatusConflict,
	dErrors.CodePreconditionFailed: http.StatusPreconditionFailed,
	dErrors.CodeInvalidInput:       http.StatusBadRequest,
	dErrors.CodeBadRequest:         http.StatusBadRequest,
	dErrors.CodeInternal:           http.StatusInternalServerError,
}

// WriteJSON serializes v with the given status. Encoding failures are
// swallowed; the status line has already been committed.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// envelope is the wire shape for successful API responses.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// WriteData wraps v in the success envelope used by every API response.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, envelope{Success: true, Data: v})
}

// WriteError translates a domain error into a status code and a stable error
// body. Internal errors omit the description so infrastructure details never
// reach the client.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
		code = dErrors.CodeInternal
	}

	body := errorBody{Error: string(code)}
	if code != dErrors.CodeInternal {
		body.ErrorDescription = dErrors.MessageOf(err)
	}
	WriteJSON(w, status, body)
}
