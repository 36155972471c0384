// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email            string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash     string     `json:"-" gorm:"size:255;not null"`
	FullName         string     `json:"full_name" gorm:"size:255;not null"`
	Phone            string     `json:"phone" gorm:"size:32"`
	Address          string     `json:"address" gorm:"size:255"`
	TaxNumber        string     `json:"tax_number" gorm:"size:10;index"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	RegistrationDate time.Time  `json:"registration_date" gorm:"not null"`
	Role             UserRole   `json:"role" gorm:"type:varchar(20);default:'customer'"`
	AvatarURL        string     `json:"avatar_url" gorm:"size:512"`

	// Relationships
	Applications []CreditApplication `json:"applications,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) IsStaff() bool {
	return u.Role == UserRoleManager || u.Role == UserRoleAdmin
}
