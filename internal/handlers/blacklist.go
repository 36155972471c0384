// internal/handlers/blacklist.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bankhub/credit-backend/internal/i18n"
	"github.com/bankhub/credit-backend/internal/services"
	"github.com/bankhub/credit-backend/internal/utils"
)

type BlacklistHandler struct {
	blacklistService *services.BlacklistService
}

func NewBlacklistHandler(blacklistService *services.BlacklistService) *BlacklistHandler {
	return &BlacklistHandler{
		blacklistService: blacklistService,
	}
}

// GET /manager/blacklist
func (h *BlacklistHandler) Search(c *gin.Context) {
	params := services.BlacklistSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
		Term:             c.Query("term"),
		ShowInactive:     c.Query("show_inactive") == "true",
	}

	entries, total, err := h.blacklistService.Search(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(entries, total, params.PaginationParams))
}

// GET /manager/blacklist/:id
func (h *BlacklistHandler) Get(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid blacklist entry ID", nil)
		return
	}

	entry, err := h.blacklistService.Get(entryID)
	if err != nil {
		utils.NotFoundResponse(c, "blacklist")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"entry": entry,
	})
}

// GET /manager/blacklist/check
func (h *BlacklistHandler) CheckPerson(c *gin.Context) {
	taxNumber := c.Query("tax_number")
	email := c.Query("email")
	phone := c.Query("phone")

	if taxNumber == "" && email == "" && phone == "" {
		utils.BadRequestResponse(c, "At least one of tax_number, email or phone is required", nil)
		return
	}

	matches, err := h.blacklistService.CheckPerson(taxNumber, email, phone)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"is_blacklisted": len(matches) > 0,
		"matches":        matches,
	})
}

// POST /manager/blacklist
func (h *BlacklistHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateBlacklistEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	addedBy, _ := c.Get("user_email")
	addedByStr, _ := addedBy.(string)

	entry, err := h.blacklistService.Create(&req, addedByStr)
	if err != nil {
		utils.ConflictResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBlacklistAdded),
		"entry":   entry,
	})
}

// PUT /manager/blacklist/:id
func (h *BlacklistHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid blacklist entry ID", nil)
		return
	}

	var req services.UpdateBlacklistEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	entry, err := h.blacklistService.Update(entryID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"entry": entry,
	})
}

// POST /manager/blacklist/:id/remove
func (h *BlacklistHandler) Remove(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid blacklist entry ID", nil)
		return
	}

	var req struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	entry, err := h.blacklistService.Remove(entryID, req.Reason)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBlacklistRemoved),
		"entry":   entry,
	})
}

// POST /manager/blacklist/:id/restore
func (h *BlacklistHandler) Restore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid blacklist entry ID", nil)
		return
	}

	entry, err := h.blacklistService.Restore(entryID)
	if err != nil {
		utils.ConflictResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBlacklistRestored),
		"entry":   entry,
	})
}

// DELETE /admin/blacklist/:id
func (h *BlacklistHandler) Delete(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid blacklist entry ID", nil)
		return
	}

	if err := h.blacklistService.Delete(entryID); err != nil {
		utils.NotFoundResponse(c, "blacklist")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Blacklist entry permanently deleted",
	})
}
