// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bankhub/credit-backend/internal/models"
	"github.com/bankhub/credit-backend/internal/utils"
)

// ProductService manages the credit product catalogue: immutable reference
// data for the calculators, created by seed or admin.
type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required,min=3,max=255"`
	Description   string  `json:"description,omitempty"`
	InterestRate  float64 `json:"interest_rate" validate:"min=0,max=100"`
	MinAmount     float64 `json:"min_amount" validate:"required,gt=0"`
	MaxAmount     float64 `json:"max_amount" validate:"required,gt=0"`
	MinTermMonths int     `json:"min_term_months" validate:"required,min=1"`
	MaxTermMonths int     `json:"max_term_months" validate:"required,min=1"`
	Requirements  string  `json:"requirements,omitempty"`
	IconClass     string  `json:"icon_class,omitempty"`
}

type UpdateProductRequest struct {
	Name          string  `json:"name" validate:"required,min=3,max=255"`
	Description   string  `json:"description,omitempty"`
	InterestRate  float64 `json:"interest_rate" validate:"min=0,max=100"`
	MinAmount     float64 `json:"min_amount" validate:"required,gt=0"`
	MaxAmount     float64 `json:"max_amount" validate:"required,gt=0"`
	MinTermMonths int     `json:"min_term_months" validate:"required,min=1"`
	MaxTermMonths int     `json:"max_term_months" validate:"required,min=1"`
	Requirements  string  `json:"requirements,omitempty"`
	IconClass     string  `json:"icon_class,omitempty"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) List(params utils.PaginationParams) ([]models.CreditProduct, int64, error) {
	query := s.db.Model(&models.CreditProduct{})

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count credit products: %w", err)
	}

	allowedSortFields := []string{"created_at", "name", "interest_rate", "max_amount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.CreditProduct
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch credit products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) Get(id uuid.UUID) (*models.CreditProduct, error) {
	var product models.CreditProduct
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("credit product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) Create(req *CreateProductRequest) (*models.CreditProduct, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := validateProductBounds(req.MinAmount, req.MaxAmount, req.MinTermMonths, req.MaxTermMonths); err != nil {
		return nil, err
	}

	product := &models.CreditProduct{
		Name:          req.Name,
		Description:   req.Description,
		InterestRate:  req.InterestRate,
		MinAmount:     req.MinAmount,
		MaxAmount:     req.MaxAmount,
		MinTermMonths: req.MinTermMonths,
		MaxTermMonths: req.MaxTermMonths,
		Requirements:  req.Requirements,
	}
	if req.IconClass != "" {
		product.IconClass = req.IconClass
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create credit product: %w", err)
	}

	return product, nil
}

func (s *ProductService) Update(id uuid.UUID, req *UpdateProductRequest) (*models.CreditProduct, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := validateProductBounds(req.MinAmount, req.MaxAmount, req.MinTermMonths, req.MaxTermMonths); err != nil {
		return nil, err
	}

	var product models.CreditProduct
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("credit product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	product.Name = req.Name
	product.Description = req.Description
	product.InterestRate = req.InterestRate
	product.MinAmount = req.MinAmount
	product.MaxAmount = req.MaxAmount
	product.MinTermMonths = req.MinTermMonths
	product.MaxTermMonths = req.MaxTermMonths
	product.Requirements = req.Requirements
	if req.IconClass != "" {
		product.IconClass = req.IconClass
	}

	if err := s.db.Save(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to update credit product: %w", err)
	}

	return &product, nil
}

func (s *ProductService) Delete(id uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.CreditApplication{}).
		Where("product_id = ?", id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check product applications: %w", err)
	}
	if count > 0 {
		return errors.New("cannot delete a credit product with existing applications")
	}

	result := s.db.Delete(&models.CreditProduct{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete credit product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("credit product not found")
	}
	return nil
}

func validateProductBounds(minAmount, maxAmount float64, minTerm, maxTerm int) error {
	if minAmount >= maxAmount {
		return errors.New("maximum amount must be greater than minimum amount")
	}
	if minTerm >= maxTerm {
		return errors.New("maximum term must be greater than minimum term")
	}
	return nil
}
