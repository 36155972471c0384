// internal/services/blacklist_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/bankhub/credit-backend/internal/models"
	"github.com/bankhub/credit-backend/internal/utils"
)

// BlacklistService maintains the registry of blocked identities and answers
// the gate question used by application submission and scoring.
type BlacklistService struct {
	db    *gorm.DB
	clock clock.Clock
}

type CreateBlacklistEntryRequest struct {
	FullName    string                 `json:"full_name" validate:"required"`
	TaxNumber   string                 `json:"tax_number" validate:"required,tax_number"`
	Phone       *string                `json:"phone,omitempty"`
	Email       *string                `json:"email,omitempty" validate:"omitempty,email"`
	DateOfBirth *time.Time             `json:"date_of_birth,omitempty"`
	Reason      models.BlacklistReason `json:"reason" validate:"required"`
	Description string                 `json:"description" validate:"required"`
	DebtAmount  *float64               `json:"debt_amount,omitempty"`
	Notes       *string                `json:"notes,omitempty"`
}

type UpdateBlacklistEntryRequest struct {
	FullName    string                 `json:"full_name" validate:"required"`
	Phone       *string                `json:"phone,omitempty"`
	Email       *string                `json:"email,omitempty" validate:"omitempty,email"`
	DateOfBirth *time.Time             `json:"date_of_birth,omitempty"`
	Reason      models.BlacklistReason `json:"reason" validate:"required"`
	Description string                 `json:"description" validate:"required"`
	DebtAmount  *float64               `json:"debt_amount,omitempty"`
	Notes       *string                `json:"notes,omitempty"`
}

type BlacklistSearchParams struct {
	utils.PaginationParams
	Term         string `json:"term,omitempty"`
	ShowInactive bool   `json:"show_inactive,omitempty"`
}

// BlacklistMatch is returned by the ad-hoc person check: the matched
// entries with their reasons, for staff display.
type BlacklistMatch struct {
	FullName  string                 `json:"full_name"`
	Reason    models.BlacklistReason `json:"reason"`
	Label     string                 `json:"reason_label"`
	AddedDate time.Time              `json:"added_date"`
}

func NewBlacklistService(db *gorm.DB, clk clock.Clock) *BlacklistService {
	return &BlacklistService{db: db, clock: clk}
}

// IsBlacklisted reports whether any active entry matches the tax number,
// email or phone. A match on any single identifier is sufficient; blank
// identifiers are skipped, never treated as wildcards. Read-only and
// idempotent.
func (s *BlacklistService) IsBlacklisted(taxNumber, email, phone string) (bool, error) {
	if taxNumber != "" {
		var count int64
		if err := s.db.Model(&models.BlacklistEntry{}).
			Where("is_active = ? AND tax_number = ?", true, taxNumber).
			Count(&count).Error; err != nil {
			return false, fmt.Errorf("failed to check blacklist by tax number: %w", err)
		}
		if count > 0 {
			return true, nil
		}
	}

	if email != "" {
		var count int64
		if err := s.db.Model(&models.BlacklistEntry{}).
			Where("is_active = ? AND email = ?", true, email).
			Count(&count).Error; err != nil {
			return false, fmt.Errorf("failed to check blacklist by email: %w", err)
		}
		if count > 0 {
			return true, nil
		}
	}

	if phone != "" {
		var count int64
		if err := s.db.Model(&models.BlacklistEntry{}).
			Where("is_active = ? AND phone = ?", true, phone).
			Count(&count).Error; err != nil {
			return false, fmt.Errorf("failed to check blacklist by phone: %w", err)
		}
		if count > 0 {
			return true, nil
		}
	}

	return false, nil
}

// ActiveMatchFor returns the first active entry matching the user, for
// annotating degenerate score results with the blocking reason.
func (s *BlacklistService) ActiveMatchFor(taxNumber, email, phone string) (*models.BlacklistEntry, error) {
	query := s.db.Where("is_active = ?", true)

	conditions := s.db.Where("1 = 0")
	if taxNumber != "" {
		conditions = conditions.Or("tax_number = ?", taxNumber)
	}
	if email != "" {
		conditions = conditions.Or("email = ?", email)
	}
	if phone != "" {
		conditions = conditions.Or("phone = ?", phone)
	}

	var entry models.BlacklistEntry
	if err := query.Where(conditions).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up blacklist entry: %w", err)
	}
	return &entry, nil
}

// CheckPerson lists every active match for the given identifiers.
func (s *BlacklistService) CheckPerson(taxNumber, email, phone string) ([]BlacklistMatch, error) {
	conditions := s.db.Where("1 = 0")
	if taxNumber != "" {
		conditions = conditions.Or("tax_number = ?", taxNumber)
	}
	if email != "" {
		conditions = conditions.Or("email = ?", email)
	}
	if phone != "" {
		conditions = conditions.Or("phone = ?", phone)
	}

	var entries []models.BlacklistEntry
	if err := s.db.Where("is_active = ?", true).Where(conditions).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to check person against blacklist: %w", err)
	}

	matches := make([]BlacklistMatch, 0, len(entries))
	for _, e := range entries {
		matches = append(matches, BlacklistMatch{
			FullName:  e.FullName,
			Reason:    e.Reason,
			Label:     e.Reason.Label(),
			AddedDate: e.AddedDate,
		})
	}
	return matches, nil
}

func (s *BlacklistService) Create(req *CreateBlacklistEntryRequest, addedBy string) (*models.BlacklistEntry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !req.Reason.Valid() {
		return nil, errors.New("invalid blacklist reason")
	}

	// Application-level duplicate check; the partial unique index on
	// (tax_number) WHERE is_active closes the race.
	var existing models.BlacklistEntry
	if err := s.db.Where("tax_number = ? AND is_active = ?", req.TaxNumber, true).
		First(&existing).Error; err == nil {
		return nil, errors.New("person with this tax number is already blacklisted")
	}

	entry := &models.BlacklistEntry{
		FullName:    req.FullName,
		TaxNumber:   req.TaxNumber,
		Phone:       req.Phone,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth,
		Reason:      req.Reason,
		Description: req.Description,
		DebtAmount:  req.DebtAmount,
		Notes:       req.Notes,
		AddedDate:   s.clock.Now(),
		AddedBy:     addedBy,
		IsActive:    true,
	}

	if err := s.db.Create(entry).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, errors.New("person with this tax number is already blacklisted")
		}
		return nil, fmt.Errorf("failed to create blacklist entry: %w", err)
	}

	return entry, nil
}

func (s *BlacklistService) Update(id uuid.UUID, req *UpdateBlacklistEntryRequest) (*models.BlacklistEntry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !req.Reason.Valid() {
		return nil, errors.New("invalid blacklist reason")
	}

	var entry models.BlacklistEntry
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("blacklist entry not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	entry.FullName = req.FullName
	entry.Phone = req.Phone
	entry.Email = req.Email
	entry.DateOfBirth = req.DateOfBirth
	entry.Reason = req.Reason
	entry.Description = req.Description
	entry.DebtAmount = req.DebtAmount
	entry.Notes = req.Notes

	if err := s.db.Save(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to update blacklist entry: %w", err)
	}

	return &entry, nil
}

// Remove soft-deletes the entry: the person stops matching the gate but the
// record and its history stay.
func (s *BlacklistService) Remove(id uuid.UUID, removalReason string) (*models.BlacklistEntry, error) {
	var entry models.BlacklistEntry
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("blacklist entry not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := s.clock.Now()
	entry.IsActive = false
	entry.RemovedDate = &now
	entry.RemovalReason = &removalReason

	if err := s.db.Save(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to remove blacklist entry: %w", err)
	}

	return &entry, nil
}

// Restore re-activates a soft-removed entry, unless another active entry
// for the same tax number appeared in the meantime.
func (s *BlacklistService) Restore(id uuid.UUID) (*models.BlacklistEntry, error) {
	var entry models.BlacklistEntry
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("blacklist entry not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.BlacklistEntry{}).
		Where("tax_number = ? AND is_active = ? AND id != ?", entry.TaxNumber, true, entry.ID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, errors.New("person with this tax number is already blacklisted")
	}

	entry.IsActive = true
	entry.RemovedDate = nil
	entry.RemovalReason = nil

	if err := s.db.Save(&entry).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, errors.New("person with this tax number is already blacklisted")
		}
		return nil, fmt.Errorf("failed to restore blacklist entry: %w", err)
	}

	return &entry, nil
}

// Delete permanently removes the record. Privileged operation, admin only
// at the handler layer.
func (s *BlacklistService) Delete(id uuid.UUID) error {
	result := s.db.Unscoped().Delete(&models.BlacklistEntry{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete blacklist entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("blacklist entry not found")
	}
	return nil
}

func (s *BlacklistService) Get(id uuid.UUID) (*models.BlacklistEntry, error) {
	var entry models.BlacklistEntry
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("blacklist entry not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &entry, nil
}

func (s *BlacklistService) Search(params BlacklistSearchParams) ([]models.BlacklistEntry, int64, error) {
	query := s.db.Model(&models.BlacklistEntry{})

	if !params.ShowInactive {
		query = query.Where("is_active = ?", true)
	}

	if params.Term != "" {
		like := "%" + params.Term + "%"
		query = query.Where(
			"full_name LIKE ? OR tax_number LIKE ? OR phone LIKE ? OR email LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count blacklist entries: %w", err)
	}

	query = query.Order("added_date DESC")
	query = utils.ApplyPagination(query, params.PaginationParams)

	var entries []models.BlacklistEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch blacklist entries: %w", err)
	}

	return entries, total, nil
}
