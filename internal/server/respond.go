package server

import (
	"encoding/json"
	"net/http"
	"strings"

	errs "github.com/matzehuels/samplesize/pkg/errors"
	"github.com/matzehuels/samplesize/pkg/observability"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and writes the error body. Errors without
// a code are reported as INTERNAL_ERROR and never leak their message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	status := statusFor(code)
	msg := errs.UserMessage(err)
	if code == "" {
		code = errs.ErrCodeInternal
		msg = "internal server error"
	}
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
		s.logger.Error("request failed", "error", err, "request_id", GetRequestID(r.Context()))
	}
	writeErrorStatus(w, status, string(code), msg, errs.GetField(err))
}

func writeErrorStatus(w http.ResponseWriter, status int, code, message, field string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message, Field: field}})
}

// statusFor maps error codes to HTTP statuses: calculation outcomes are 422,
// malformed input is 400 and everything else is 500.
func statusFor(code errs.Code) int {
	switch {
	case code == "":
		return http.StatusInternalServerError
	case code.Domain():
		return http.StatusUnprocessableEntity
	case code == errs.ErrCodeNonFinite:
		return http.StatusBadRequest
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
