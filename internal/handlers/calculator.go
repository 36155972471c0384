// internal/handlers/calculator.go
package handlers

import (
	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bankhub/credit-backend/internal/i18n"
	"github.com/bankhub/credit-backend/internal/services"
	"github.com/bankhub/credit-backend/internal/utils"
)

// CalculatorHandler exposes the public loan calculator. No persistence, no
// authentication; the rate comes either from a product or directly from the
// request.
type CalculatorHandler struct {
	amortizationService *services.AmortizationService
	productService      *services.ProductService
	clock               clock.Clock
}

type calculateRequest struct {
	Amount          float64    `json:"amount" validate:"required,gt=0"`
	TermMonths      int        `json:"term_months" validate:"required,min=1"`
	InterestRate    *float64   `json:"interest_rate,omitempty" validate:"omitempty,min=0,max=100"`
	ProductID       *uuid.UUID `json:"product_id,omitempty"`
	IncludeSchedule bool       `json:"include_schedule,omitempty"`
}

func NewCalculatorHandler(amortizationService *services.AmortizationService, productService *services.ProductService, clk clock.Clock) *CalculatorHandler {
	return &CalculatorHandler{
		amortizationService: amortizationService,
		productService:      productService,
		clock:               clk,
	}
}

// POST /calculator
func (h *CalculatorHandler) Calculate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	rate := 0.0
	switch {
	case req.InterestRate != nil:
		rate = *req.InterestRate
	case req.ProductID != nil:
		product, err := h.productService.Get(*req.ProductID)
		if err != nil {
			utils.NotFoundResponse(c, "product")
			return
		}
		rate = product.InterestRate
		if req.Amount < product.MinAmount || req.Amount > product.MaxAmount {
			utils.BadRequestResponse(c, "Amount is outside the product limits", nil)
			return
		}
		if req.TermMonths < product.MinTermMonths || req.TermMonths > product.MaxTermMonths {
			utils.BadRequestResponse(c, "Term is outside the product limits", nil)
			return
		}
	default:
		utils.BadRequestResponse(c, "Either interest_rate or product_id is required", nil)
		return
	}

	result := gin.H{
		"amount":          req.Amount,
		"term_months":     req.TermMonths,
		"interest_rate":   rate,
		"monthly_payment": h.amortizationService.MonthlyPayment(req.Amount, rate, req.TermMonths),
		"total_payback":   h.amortizationService.TotalPayback(req.Amount, rate, req.TermMonths),
		"overpayment":     h.amortizationService.Overpayment(req.Amount, rate, req.TermMonths),
	}

	if req.IncludeSchedule {
		firstPayment := h.clock.Now().AddDate(0, 1, 0)
		result["schedule"] = h.amortizationService.Schedule(req.Amount, rate, req.TermMonths, firstPayment)
	}

	utils.SuccessResponse(c, result)
}
