package chatapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/joelkehle/competitor-analysis/internal/analysis"
	"github.com/joelkehle/competitor-analysis/internal/catalog"
	"github.com/joelkehle/competitor-analysis/internal/session"
)

const (
	CodeValidation  = "validation"
	CodeNotFound    = "not_found"
	CodeConflict    = "conflict"
	CodeRateLimited = "rate_limited"
	CodeInternal    = "internal"
)

// Error is written to clients as {"error": {"code", "message"}}.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func statusForCode(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message, Status: statusForCode(code)}
}

func newValidationJSONError(err error) *Error {
	return newError(CodeValidation, "invalid json: "+err.Error())
}

// toAPIError maps domain errors onto API codes.
func toAPIError(err error) *Error {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, analysis.ErrEmptyMessage),
		errors.Is(err, analysis.ErrInvalidFilter),
		errors.Is(err, session.ErrInvalidCompetitor),
		errors.Is(err, catalog.ErrInvalidRecord):
		return newError(CodeValidation, err.Error())
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrAnalysisNotFound),
		errors.Is(err, session.ErrUnknownCompetitor):
		return newError(CodeNotFound, err.Error())
	case errors.Is(err, session.ErrTurnInFlight),
		errors.Is(err, session.ErrTooManyCompetitors):
		return newError(CodeConflict, err.Error())
	default:
		return newError(CodeInternal, err.Error())
	}
}
