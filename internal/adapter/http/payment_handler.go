package http

import (
	"net/http"
	"time"

	"coopfund-service/internal/usecase/payment"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type createPaymentReq struct {
	Amount float64 `json:"amount"  validate:"required,gt=0,dec2"`
	// Optional value date YYYY-MM-DD; defaults to today.
	PaidAt string `json:"paid_at" validate:"omitempty,datetime=2006-01-02"`
}

func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	var req createPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	var paidAt time.Time
	if req.PaidAt != "" {
		paidAt, _ = time.Parse("2006-01-02", req.PaidAt)
	}

	dto, err := h.uc.Apply(c.Request().Context(), payment.ApplyInput{
		LoanID: loanID,
		Amount: req.Amount,
		PaidAt: paidAt,
	})
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *PaymentHandler) ListPayments(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"loan_id":  c.Param("loan_id"),
		"payments": out,
	})
}
