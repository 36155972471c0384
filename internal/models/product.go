// internal/models/product.go
package models

// CreditProduct is the immutable reference data a customer applies against:
// rate and the allowed amount/term corridors. Created by seed or admin.
type CreditProduct struct {
	BaseModel
	Name         string  `json:"name" gorm:"size:255;not null"`
	Description  string  `json:"description" gorm:"type:text"`
	InterestRate float64 `json:"interest_rate" gorm:"type:decimal(5,2);not null"`
	MinAmount    float64 `json:"min_amount" gorm:"type:decimal(12,2);not null"`
	MaxAmount    float64 `json:"max_amount" gorm:"type:decimal(12,2);not null"`
	MinTermMonths int    `json:"min_term_months" gorm:"not null"`
	MaxTermMonths int    `json:"max_term_months" gorm:"not null"`
	Requirements string  `json:"requirements" gorm:"type:text"`
	IconClass    string  `json:"icon_class" gorm:"size:64;default:'fa-money-bill-wave'"`

	Applications []CreditApplication `json:"applications,omitempty" gorm:"foreignKey:ProductID"`
}
