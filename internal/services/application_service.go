// internal/services/application_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bankhub/credit-backend/internal/models"
	"github.com/bankhub/credit-backend/internal/utils"
)

// ApplicationService owns the credit application lifecycle: customer
// submission through staff review. Submission is gated by the blacklist and
// the eligibility policy; review mutates only status, comment and the
// status-change timestamp.
type ApplicationService struct {
	db                  *gorm.DB
	eligibility         *EligibilityService
	blacklist           *BlacklistService
	notificationService *NotificationService
	clock               clock.Clock
}

type ApplyRequest struct {
	ProductID    uuid.UUID `json:"product_id" validate:"required"`
	CustomerName string    `json:"customer_name" validate:"required"`
	Phone        string    `json:"phone" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	Amount       float64   `json:"amount" validate:"required,gt=0"`
	TermMonths   int       `json:"term_months" validate:"required,min=1"`
}

type UpdateStatusRequest struct {
	Status  models.ApplicationStatus `json:"status" validate:"required"`
	Comment string                   `json:"comment,omitempty"`
}

type ApplicationSearchParams struct {
	utils.PaginationParams
	UserID    *uuid.UUID                `json:"user_id,omitempty"`
	ProductID *uuid.UUID                `json:"product_id,omitempty"`
	Status    *models.ApplicationStatus `json:"status,omitempty"`
	DateFrom  *time.Time                `json:"date_from,omitempty"`
	DateTo    *time.Time                `json:"date_to,omitempty"`
}

func NewApplicationService(db *gorm.DB, eligibility *EligibilityService, blacklist *BlacklistService, notificationService *NotificationService, clk clock.Clock) *ApplicationService {
	return &ApplicationService{
		db:                  db,
		eligibility:         eligibility,
		blacklist:           blacklist,
		notificationService: notificationService,
		clock:               clk,
	}
}

// Apply submits a new application for the user. The blacklist veto and the
// eligibility policy run before anything is written; rejections are
// business outcomes, not errors with stack traces.
func (s *ApplicationService) Apply(userID uuid.UUID, req *ApplyRequest) (*models.CreditApplication, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var product models.CreditProduct
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("credit product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Amount < product.MinAmount || req.Amount > product.MaxAmount {
		return nil, fmt.Errorf("amount must be between %.2f and %.2f for this product",
			product.MinAmount, product.MaxAmount)
	}
	if req.TermMonths < product.MinTermMonths || req.TermMonths > product.MaxTermMonths {
		return nil, fmt.Errorf("term must be between %d and %d months for this product",
			product.MinTermMonths, product.MaxTermMonths)
	}

	// Blacklist gate: flagged identities never reach review.
	isBlacklisted, err := s.blacklist.IsBlacklisted(user.TaxNumber, user.Email, user.Phone)
	if err != nil {
		return nil, err
	}
	if isBlacklisted {
		return nil, errors.New("application cannot be accepted")
	}

	eligible, err := s.eligibility.CanApplyForCredit(userID, req.Amount)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, errors.New("requested amount exceeds the recommended maximum for this applicant")
	}

	application := &models.CreditApplication{
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		Email:           req.Email,
		Amount:          req.Amount,
		TermMonths:      req.TermMonths,
		ApplicationDate: s.clock.Now(),
		Status:          models.ApplicationStatusNew,
		ProductID:       product.ID,
		UserID:          &user.ID,
	}

	if err := s.db.Create(application).Error; err != nil {
		return nil, fmt.Errorf("failed to create credit application: %w", err)
	}

	application.Product = &product

	return application, nil
}

// Get loads an application; non-staff users can only see their own.
func (s *ApplicationService) Get(id uuid.UUID, requester *models.User) (*models.CreditApplication, error) {
	var application models.CreditApplication
	if err := s.db.Preload("Product").Preload("User").
		First(&application, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("credit application not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !requester.IsStaff() {
		if application.UserID == nil || *application.UserID != requester.ID {
			return nil, errors.New("unauthorized to view this application")
		}
	}

	return &application, nil
}

func (s *ApplicationService) GetUserApplications(userID uuid.UUID, params utils.PaginationParams) ([]models.CreditApplication, int64, error) {
	query := s.db.Model(&models.CreditApplication{}).
		Where("user_id = ?", userID).
		Preload("Product")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	query = query.Order("application_date DESC")
	query = utils.ApplyPagination(query, params)

	var applications []models.CreditApplication
	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, total, nil
}

// Search is the staff view over all applications.
func (s *ApplicationService) Search(params ApplicationSearchParams) ([]models.CreditApplication, int64, error) {
	query := s.db.Model(&models.CreditApplication{}).
		Preload("Product").Preload("User")

	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.DateFrom != nil {
		query = query.Where("application_date >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("application_date <= ?", *params.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	allowedSortFields := []string{"application_date", "amount", "status", "created_at"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var applications []models.CreditApplication
	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, total, nil
}

// UpdateStatus is the staff review action: status plus optional comment,
// stamped with the change time. Status is the only field mutated after
// submission.
func (s *ApplicationService) UpdateStatus(id uuid.UUID, req *UpdateStatusRequest) (*models.CreditApplication, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !req.Status.Valid() {
		return nil, errors.New("invalid application status")
	}

	var application models.CreditApplication
	if err := s.db.Preload("Product").Preload("User").
		First(&application, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("credit application not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := s.clock.Now()
	application.Status = req.Status
	application.StatusChangedAt = &now
	if req.Comment != "" {
		application.ManagerComment = &req.Comment
	}

	if err := s.db.Save(&application).Error; err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	// Notify the applicant about the decision
	go s.sendStatusNotification(&application)

	return &application, nil
}

func (s *ApplicationService) sendStatusNotification(application *models.CreditApplication) {
	if s.notificationService != nil {
		s.notificationService.SendStatusChangeEmail(application)
	}
}
