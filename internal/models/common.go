// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the primary key on insert so the same models work
// against both postgres and the in-memory sqlite used in tests.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleManager  UserRole = "manager"
	UserRoleAdmin    UserRole = "admin"
)

type ApplicationStatus string

const (
	ApplicationStatusNew                   ApplicationStatus = "new"
	ApplicationStatusUnderReview           ApplicationStatus = "under_review"
	ApplicationStatusDocumentsRequired     ApplicationStatus = "documents_required"
	ApplicationStatusDocumentsVerification ApplicationStatus = "documents_verification"
	ApplicationStatusApproved              ApplicationStatus = "approved"
	ApplicationStatusRejected              ApplicationStatus = "rejected"
	ApplicationStatusIssued                ApplicationStatus = "issued"
	ApplicationStatusCancelled             ApplicationStatus = "cancelled"
)

// Display labels live in a lookup table, not in the enum values.
var applicationStatusLabels = map[ApplicationStatus]string{
	ApplicationStatusNew:                   "New application",
	ApplicationStatusUnderReview:           "Under review",
	ApplicationStatusDocumentsRequired:     "Documents required",
	ApplicationStatusDocumentsVerification: "Documents verification",
	ApplicationStatusApproved:              "Approved",
	ApplicationStatusRejected:              "Rejected",
	ApplicationStatusIssued:                "Issued",
	ApplicationStatusCancelled:             "Cancelled",
}

func (s ApplicationStatus) Label() string {
	if label, ok := applicationStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s ApplicationStatus) Valid() bool {
	_, ok := applicationStatusLabels[s]
	return ok
}

type BlacklistReason string

const (
	BlacklistReasonNonPayment            BlacklistReason = "non_payment"
	BlacklistReasonFraud                 BlacklistReason = "fraud"
	BlacklistReasonDocumentFalsification BlacklistReason = "document_falsification"
	BlacklistReasonContractViolation     BlacklistReason = "contract_violation"
	BlacklistReasonCreditFraud           BlacklistReason = "credit_fraud"
	BlacklistReasonOther                 BlacklistReason = "other"
)

var blacklistReasonLabels = map[BlacklistReason]string{
	BlacklistReasonNonPayment:            "Non-payment of debt",
	BlacklistReasonFraud:                 "Fraud",
	BlacklistReasonDocumentFalsification: "Document falsification",
	BlacklistReasonContractViolation:     "Contract violation",
	BlacklistReasonCreditFraud:           "Credit fraud",
	BlacklistReasonOther:                 "Other",
}

func (r BlacklistReason) Label() string {
	if label, ok := blacklistReasonLabels[r]; ok {
		return label
	}
	return string(r)
}

func (r BlacklistReason) Valid() bool {
	_, ok := blacklistReasonLabels[r]
	return ok
}
