// internal/models/blacklist.go
package models

import "time"

// BlacklistEntry flags an identity that must not be issued credit. Entries
// are soft-removed via IsActive; at most one active entry may exist per tax
// number (partial unique index, see database.createIndexes).
type BlacklistEntry struct {
	BaseModel
	FullName    string          `json:"full_name" gorm:"size:255;not null"`
	TaxNumber   string          `json:"tax_number" gorm:"size:10;not null;index"`
	Phone       *string         `json:"phone,omitempty" gorm:"size:32"`
	Email       *string         `json:"email,omitempty" gorm:"size:255"`
	DateOfBirth *time.Time      `json:"date_of_birth,omitempty"`
	Reason      BlacklistReason `json:"reason" gorm:"type:varchar(32);not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	DebtAmount  *float64        `json:"debt_amount,omitempty" gorm:"type:decimal(12,2)"`

	AddedDate time.Time `json:"added_date" gorm:"not null"`
	AddedBy   string    `json:"added_by" gorm:"size:255"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true;index"`

	RemovedDate   *time.Time `json:"removed_date,omitempty"`
	RemovalReason *string    `json:"removal_reason,omitempty" gorm:"type:text"`
	Notes         *string    `json:"notes,omitempty" gorm:"type:text"`
}
