package http

import (
	"net/http"
	"time"

	"coopfund-service/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	BorrowerID     string  `json:"borrower_id"     validate:"required,hex32"`
	Principal      float64 `json:"principal"       validate:"required,gt=0,dec2"`
	RatePercent    float64 `json:"rate_percent"    validate:"gte=0,lte=100"`
	DurationMonths int     `json:"duration_months" validate:"required,gt=0"`
}

type approveLoanReq struct {
	RatePercent float64 `json:"rate_percent"  validate:"required,gt=0,lte=100"`
	// Canonical date YYYY-MM-DD; becomes the schedule anchor.
	ApprovalDate string `json:"approval_date" validate:"required,datetime=2006-01-02"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Apply(c.Request().Context(), loan.ApplyInput{
		BorrowerID:     req.BorrowerID,
		Principal:      req.Principal,
		RatePercent:    req.RatePercent,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ApproveLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	var req approveLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	approvalDate, _ := time.Parse("2006-01-02", req.ApprovalDate)

	dto, err := h.uc.Approve(c.Request().Context(), loan.ApproveInput{
		LoanID:       loanID,
		RatePercent:  req.RatePercent,
		ApprovalDate: approvalDate,
	})
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) RejectLoan(c echo.Context) error {
	dto, err := h.uc.Reject(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetDebt(c echo.Context) error {
	asOf, ok := parseAsOf(c.QueryParam("as_of"))
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "as_of must be YYYY-MM-DD"})
	}
	dto, err := h.uc.Debt(c.Request().Context(), c.Param("loan_id"), asOf)
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetSchedule(c echo.Context) error {
	asOf, ok := parseAsOf(c.QueryParam("as_of"))
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "as_of must be YYYY-MM-DD"})
	}
	installments, err := h.uc.Installments(c.Request().Context(), c.Param("loan_id"), asOf)
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"loan_id":      c.Param("loan_id"),
		"installments": installments,
	})
}

func (h *LoanHandler) ReconcileLoan(c echo.Context) error {
	dto, err := h.uc.Reconcile(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

// parseAsOf reads an optional YYYY-MM-DD query param; empty means "now"
// (reported as the zero time, which usecases resolve).
func parseAsOf(q string) (time.Time, bool) {
	if q == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", q)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
