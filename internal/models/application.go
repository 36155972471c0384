// internal/models/application.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type CreditApplication struct {
	BaseModel
	CustomerName string  `json:"customer_name" gorm:"size:255;not null"`
	Phone        string  `json:"phone" gorm:"size:32;not null"`
	Email        string  `json:"email" gorm:"size:255;not null"`
	Amount       float64 `json:"amount" gorm:"type:decimal(12,2);not null"`
	TermMonths   int     `json:"term_months" gorm:"not null"`

	ApplicationDate time.Time         `json:"application_date" gorm:"not null;index"`
	Status          ApplicationStatus `json:"status" gorm:"type:varchar(32);default:'new';index"`
	ManagerComment  *string           `json:"manager_comment,omitempty" gorm:"type:text"`
	StatusChangedAt *time.Time        `json:"status_changed_at,omitempty"`

	ProductID uuid.UUID      `json:"product_id" gorm:"type:uuid;not null;index"`
	Product   *CreditProduct `json:"product,omitempty" gorm:"foreignKey:ProductID"`

	UserID *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;index"`
	User   *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// IsActiveDebt reports whether the application counts toward the
// applicant's outstanding exposure.
func (a *CreditApplication) IsActiveDebt() bool {
	return a.Status == ApplicationStatusApproved || a.Status == ApplicationStatusIssued
}
