// internal/models/credit_score.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// CreditScore is the cached result of a scoring run. At most one row per
// user is meaningful; recomputation upserts over the previous one (unique
// index on user_id). A result older than the staleness window must be
// recomputed before it is trusted for a new eligibility decision.
type CreditScore struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	User   *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`

	AgeScore           int `json:"age_score"`
	CreditHistoryScore int `json:"credit_history_score"`
	IncomeScore        int `json:"income_score"`
	EmploymentScore    int `json:"employment_score"`
	ExistingDebtsScore int `json:"existing_debts_score"`
	TotalScore         int `json:"total_score"`

	Rating               string  `json:"rating" gorm:"size:4"`
	DefaultProbability   float64 `json:"default_probability" gorm:"type:decimal(5,2)"`
	RecommendedMaxAmount float64 `json:"recommended_max_amount" gorm:"type:decimal(12,2)"`

	CalculationDate time.Time `json:"calculation_date" gorm:"not null"`
	Notes           *string   `json:"notes,omitempty" gorm:"type:text"`
}
