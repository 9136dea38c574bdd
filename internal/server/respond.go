package server

import (
	"encoding/json"
	"net/http"

	"github.com/microbeflow/crossfeed/pkg/errors"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidCutoff,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeMalformedRow:
		return http.StatusBadRequest
	case errors.ErrCodeGraphNotFound:
		return http.StatusNotFound
	case errors.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "code", code, "error", err)
	}
	s.writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}
