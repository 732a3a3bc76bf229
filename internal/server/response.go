package server

import (
	"errors"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"

	"goContractorPay/internal/calculator"
	"goContractorPay/internal/report"
	"goContractorPay/internal/taxyear"
)

// Error codes carried in Envelope.Error.Code.
const (
	CodeInvalidInput   = "invalid_input"
	CodeBadRequest     = "bad_request"
	CodeTooLarge       = "request_too_large"
	CodeUnknownTaxYear = "unknown_tax_year"
	CodeUnknownFormat  = "unknown_format"
	CodeInternal       = "internal_error"
)

type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Fields  []calculator.Violation `json:"fields,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// errBadRequest marks malformed bodies.
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func success(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: RequestIDFrom(r.Context())})
}

// fail maps err onto a status code and envelope. Unexpected errors are
// logged and reported without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := classify(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()))
	}
	writeJSON(w, status, Envelope{Success: false, Error: apiErr, RequestID: RequestIDFrom(r.Context())})
}

func classify(err error) (int, *Error) {
	var invalid *calculator.InvalidInputError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, &Error{Code: CodeInvalidInput, Message: err.Error(), Fields: invalid.Violations}
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, &Error{Code: CodeTooLarge, Message: err.Error()}
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, &Error{Code: CodeBadRequest, Message: err.Error()}
	case errors.Is(err, taxyear.ErrUnknownTaxYear):
		return http.StatusNotFound, &Error{Code: CodeUnknownTaxYear, Message: err.Error()}
	case errors.Is(err, report.ErrUnknownFormat):
		return http.StatusNotFound, &Error{Code: CodeUnknownFormat, Message: err.Error()}
	}
	return http.StatusInternalServerError, &Error{Code: CodeInternal, Message: "internal error"}
}
