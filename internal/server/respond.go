package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/graphweave/pkg/errors"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes to HTTP statuses. Unknown errors
// are internal by definition.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)

	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph, errors.ErrCodeInvalidGrouping,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidColumn:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeProjectNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		status = http.StatusUnprocessableEntity
	}

	var resp errorResponse
	if code == "" {
		resp.Error.Code = string(errors.ErrCodeInternal)
	} else {
		resp.Error.Code = string(code)
	}
	resp.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, resp)
}
