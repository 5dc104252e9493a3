package http

import (
	"errors"
	"net/http"

	loanDomain "coopfund-service/internal/domain/loan"
	"coopfund-service/internal/engine"

	"gorm.io/gorm"
)

// statusForError maps domain error kinds to HTTP codes. The engine and
// domain signal a closed set of sentinels; anything else is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, loanDomain.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, loanDomain.ErrInvalidLoanState), errors.Is(err, loanDomain.ErrAlreadyDecided):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidAmount), errors.Is(err, engine.ErrInvalidTerm):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
