// internal/services/report_service.go
package services

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"gorm.io/gorm"

	"github.com/bankhub/credit-backend/internal/models"
)

// ReportService aggregates application data into dashboards and period
// reports for staff. Read-only; monetary values are rounded at the
// presentation boundary, not here.
type ReportService struct {
	db    *gorm.DB
	clock clock.Clock
}

type DashboardStats struct {
	TotalApplications int64   `json:"total_applications"`
	TotalClients      int64   `json:"total_clients"`
	TotalAmount       float64 `json:"total_amount"`
	AverageAmount     float64 `json:"average_amount"`

	MonthApplications int64   `json:"month_applications"`
	MonthAmount       float64 `json:"month_amount"`
	YearApplications  int64   `json:"year_applications"`
	YearAmount        float64 `json:"year_amount"`

	NewApplications         int64 `json:"new_applications"`
	UnderReviewApplications int64 `json:"under_review_applications"`
	ApprovedApplications    int64 `json:"approved_applications"`
	RejectedApplications    int64 `json:"rejected_applications"`
	IssuedApplications      int64 `json:"issued_applications"`

	PopularProducts    []ProductPopularity        `json:"popular_products"`
	RecentApplications []models.CreditApplication `json:"recent_applications"`
}

type ProductPopularity struct {
	ProductName string  `json:"product_name"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

type ProductAmount struct {
	ProductName string  `json:"product_name"`
	TotalAmount float64 `json:"total_amount"`
}

func NewReportService(db *gorm.DB, clk clock.Clock) *ReportService {
	return &ReportService{db: db, clock: clk}
}

func (s *ReportService) DashboardStatistics() (*DashboardStats, error) {
	now := s.clock.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfYear := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	stats := &DashboardStats{}

	if err := s.db.Model(&models.CreditApplication{}).Count(&stats.TotalApplications).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	if err := s.db.Model(&models.CreditApplication{}).
		Where("user_id IS NOT NULL").
		Distinct("user_id").
		Count(&stats.TotalClients).Error; err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}

	var totalAmount *float64
	if err := s.db.Model(&models.CreditApplication{}).
		Select("SUM(amount)").Scan(&totalAmount).Error; err != nil {
		return nil, fmt.Errorf("failed to sum amounts: %w", err)
	}
	if totalAmount != nil {
		stats.TotalAmount = *totalAmount
	}

	if stats.TotalApplications > 0 {
		stats.AverageAmount = stats.TotalAmount / float64(stats.TotalApplications)
	}

	// Month / year windows
	s.db.Model(&models.CreditApplication{}).
		Where("application_date >= ?", startOfMonth).Count(&stats.MonthApplications)
	var monthAmount *float64
	s.db.Model(&models.CreditApplication{}).
		Where("application_date >= ?", startOfMonth).
		Select("SUM(amount)").Scan(&monthAmount)
	if monthAmount != nil {
		stats.MonthAmount = *monthAmount
	}

	s.db.Model(&models.CreditApplication{}).
		Where("application_date >= ?", startOfYear).Count(&stats.YearApplications)
	var yearAmount *float64
	s.db.Model(&models.CreditApplication{}).
		Where("application_date >= ?", startOfYear).
		Select("SUM(amount)").Scan(&yearAmount)
	if yearAmount != nil {
		stats.YearAmount = *yearAmount
	}

	// Per-status counts
	s.db.Model(&models.CreditApplication{}).
		Where("status = ?", models.ApplicationStatusNew).Count(&stats.NewApplications)
	s.db.Model(&models.CreditApplication{}).
		Where("status = ?", models.ApplicationStatusUnderReview).Count(&stats.UnderReviewApplications)
	s.db.Model(&models.CreditApplication{}).
		Where("status = ?", models.ApplicationStatusApproved).Count(&stats.ApprovedApplications)
	s.db.Model(&models.CreditApplication{}).
		Where("status = ?", models.ApplicationStatusRejected).Count(&stats.RejectedApplications)
	s.db.Model(&models.CreditApplication{}).
		Where("status = ?", models.ApplicationStatusIssued).Count(&stats.IssuedApplications)

	// Popular products
	if err := s.db.Model(&models.CreditApplication{}).
		Select("credit_products.name AS product_name, COUNT(*) AS count, SUM(credit_applications.amount) AS total_amount").
		Joins("JOIN credit_products ON credit_products.id = credit_applications.product_id").
		Group("credit_products.name").
		Order("count DESC").
		Limit(5).
		Scan(&stats.PopularProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch popular products: %w", err)
	}

	// Recent applications
	if err := s.db.Model(&models.CreditApplication{}).
		Preload("Product").
		Order("application_date DESC").
		Limit(10).
		Find(&stats.RecentApplications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent applications: %w", err)
	}

	return stats, nil
}

func (s *ReportService) ApplicationsByPeriod(startDate, endDate time.Time) ([]models.CreditApplication, error) {
	var applications []models.CreditApplication
	if err := s.db.Preload("Product").Preload("User").
		Where("application_date >= ? AND application_date <= ?", startDate, endDate).
		Order("application_date DESC").
		Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch applications by period: %w", err)
	}
	return applications, nil
}

func (s *ReportService) ApplicationsByStatus() (map[models.ApplicationStatus]int64, error) {
	type statusCount struct {
		Status models.ApplicationStatus
		Count  int64
	}

	var rows []statusCount
	if err := s.db.Model(&models.CreditApplication{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to group applications by status: %w", err)
	}

	result := make(map[models.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

func (s *ReportService) AmountsByProduct() ([]ProductAmount, error) {
	var rows []ProductAmount
	if err := s.db.Model(&models.CreditApplication{}).
		Select("credit_products.name AS product_name, SUM(credit_applications.amount) AS total_amount").
		Joins("JOIN credit_products ON credit_products.id = credit_applications.product_id").
		Group("credit_products.name").
		Order("total_amount DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to group amounts by product: %w", err)
	}
	return rows, nil
}
