// internal/handlers/scoring.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bankhub/credit-backend/internal/i18n"
	"github.com/bankhub/credit-backend/internal/services"
	"github.com/bankhub/credit-backend/internal/utils"
)

type ScoringHandler struct {
	scoringService     *services.ScoringService
	eligibilityService *services.EligibilityService
}

func NewScoringHandler(scoringService *services.ScoringService, eligibilityService *services.EligibilityService) *ScoringHandler {
	return &ScoringHandler{
		scoringService:     scoringService,
		eligibilityService: eligibilityService,
	}
}

// GET /scoring/me
func (h *ScoringHandler) MyScore(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	result, err := h.eligibilityService.CheckEligibility(userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			utils.NotFoundResponse(c, "user")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, result)
}

// POST /scoring/me/eligibility
func (h *ScoringHandler) CheckMyEligibility(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	var req struct {
		Amount float64 `json:"amount" validate:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	eligible, err := h.eligibilityService.CanApplyForCredit(userID, req.Amount)
	if err != nil {
		if err == services.ErrUserNotFound {
			utils.NotFoundResponse(c, "user")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"amount":   req.Amount,
		"eligible": eligible,
	})
}

// POST /manager/scoring/:user_id/calculate
func (h *ScoringHandler) CalculateScore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	score, err := h.scoringService.CalculateScore(userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			utils.NotFoundResponse(c, "user")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyScoringCalculated),
		"score":   score,
	})
}

// GET /manager/scoring/:user_id
func (h *ScoringHandler) GetScore(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	score, err := h.scoringService.CurrentScore(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if score == nil {
		utils.NotFoundResponse(c, "scoring")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"score": score,
	})
}

// GET /manager/scoring/:user_id/eligibility
func (h *ScoringHandler) CheckEligibility(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	result, err := h.eligibilityService.CheckEligibility(userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			utils.NotFoundResponse(c, "user")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, result)
}

func contextUserID(c *gin.Context) (uuid.UUID, bool) {
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
