// internal/handlers/application.go
package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bankhub/credit-backend/internal/i18n"
	"github.com/bankhub/credit-backend/internal/models"
	"github.com/bankhub/credit-backend/internal/services"
	"github.com/bankhub/credit-backend/internal/utils"
)

type ApplicationHandler struct {
	applicationService  *services.ApplicationService
	userService         *services.UserService
	amortizationService *services.AmortizationService
	pdfService          *services.PdfService
}

func NewApplicationHandler(applicationService *services.ApplicationService, userService *services.UserService, amortizationService *services.AmortizationService, pdfService *services.PdfService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService:  applicationService,
		userService:         userService,
		amortizationService: amortizationService,
		pdfService:          pdfService,
	}
}

// POST /applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := h.requesterID(c)
	if !ok {
		return
	}

	var req services.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	application, err := h.applicationService.Apply(userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyApplicationSubmitted),
		"application": application,
	})
}

// GET /applications/my
func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	userID, ok := h.requesterID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	applications, total, err := h.applicationService.GetUserApplications(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(applications, total, params))
}

// GET /applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	application, ok := h.loadApplication(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, gin.H{
		"application": application,
	})
}

// GET /applications/:id/schedule
func (h *ApplicationHandler) GetSchedule(c *gin.Context) {
	application, ok := h.loadApplication(c)
	if !ok {
		return
	}
	if application.Product == nil {
		utils.InternalErrorResponse(c, "application has no product")
		return
	}

	firstPayment := application.ApplicationDate.AddDate(0, 1, 0)
	schedule := h.amortizationService.Schedule(
		application.Amount, application.Product.InterestRate, application.TermMonths, firstPayment)

	utils.SuccessResponse(c, gin.H{
		"application_id":  application.ID,
		"monthly_payment": h.amortizationService.MonthlyPayment(application.Amount, application.Product.InterestRate, application.TermMonths),
		"total_payback":   h.amortizationService.TotalPayback(application.Amount, application.Product.InterestRate, application.TermMonths),
		"overpayment":     h.amortizationService.Overpayment(application.Amount, application.Product.InterestRate, application.TermMonths),
		"schedule":        schedule,
	})
}

// GET /applications/:id/pdf
func (h *ApplicationHandler) DownloadApplicationPDF(c *gin.Context) {
	application, ok := h.loadApplication(c)
	if !ok {
		return
	}

	content, err := h.pdfService.GenerateApplicationPDF(application)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	h.servePDF(c, fmt.Sprintf("application_%s.pdf", application.ID), content)
}

// GET /applications/:id/schedule/pdf
func (h *ApplicationHandler) DownloadSchedulePDF(c *gin.Context) {
	application, ok := h.loadApplication(c)
	if !ok {
		return
	}

	content, err := h.pdfService.GenerateSchedulePDF(application)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	h.servePDF(c, fmt.Sprintf("schedule_%s.pdf", application.ID), content)
}

// GET /manager/applications
func (h *ApplicationHandler) SearchApplications(c *gin.Context) {
	params := services.ApplicationSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if status := c.Query("status"); status != "" {
		s := models.ApplicationStatus(status)
		if !s.Valid() {
			utils.BadRequestResponse(c, "Invalid application status", nil)
			return
		}
		params.Status = &s
	}
	if productID := c.Query("product_id"); productID != "" {
		id, err := uuid.Parse(productID)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid product ID", nil)
			return
		}
		params.ProductID = &id
	}
	if userID := c.Query("user_id"); userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid user ID", nil)
			return
		}
		params.UserID = &id
	}
	if from, ok := parseDateQuery(c, "date_from"); ok {
		params.DateFrom = from
	} else {
		return
	}
	if to, ok := parseDateQuery(c, "date_to"); ok {
		params.DateTo = to
	} else {
		return
	}

	applications, total, err := h.applicationService.Search(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(applications, total, params.PaginationParams))
}

// PUT /manager/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	application, err := h.applicationService.UpdateStatus(applicationID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyApplicationStatusUpdated),
		"application": application,
	})
}

func (h *ApplicationHandler) requesterID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return userID, true
}

// loadApplication resolves the requester and enforces the owner-or-staff
// access rule before handing back the application.
func (h *ApplicationHandler) loadApplication(c *gin.Context) (*models.CreditApplication, bool) {
	userID, ok := h.requesterID(c)
	if !ok {
		return nil, false
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return nil, false
	}

	requester, err := h.userService.GetByID(userID)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}

	application, err := h.applicationService.Get(applicationID, requester)
	if err != nil {
		utils.NotFoundResponse(c, "application")
		return nil, false
	}

	return application, true
}

func (h *ApplicationHandler) servePDF(c *gin.Context, filename string, content []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(200, "application/pdf", content)
}

// parseDateQuery accepts either a date or a full timestamp. The bool result
// is false only when the value was present and malformed (a response has
// already been written).
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, true
		}
	}

	utils.BadRequestResponse(c, fmt.Sprintf("Invalid %s date", name), nil)
	return nil, false
}
