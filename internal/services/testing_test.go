// internal/services/testing_test.go
package services

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bankhub/credit-backend/internal/models"
)

// newTestDB opens a fresh in-memory database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.CreditProduct{},
		&models.CreditApplication{},
		&models.CreditScore{},
		&models.BlacklistEntry{},
	)
	require.NoError(t, err)

	return db
}

// newTestClock returns a mock clock pinned to a fixed reference instant.
func newTestClock(t *testing.T) *clock.Mock {
	t.Helper()

	mock := clock.NewMock()
	mock.Set(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	return mock
}

func createTestUser(t *testing.T, db *gorm.DB, now time.Time, mutate func(*models.User)) *models.User {
	t.Helper()

	user := &models.User{
		Email:            "applicant@example.com",
		FullName:         "Taras Shevchenko",
		Phone:            "+380501234567",
		Address:          "1 Khreshchatyk St, Kyiv",
		TaxNumber:        "1234567890",
		RegistrationDate: now.AddDate(0, 0, -400),
		Role:             models.UserRoleCustomer,
	}
	require.NoError(t, user.SetPassword("Secret123!"))

	if mutate != nil {
		mutate(user)
	}

	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB) *models.CreditProduct {
	t.Helper()

	product := &models.CreditProduct{
		Name:          "Consumer loan",
		InterestRate:  18.5,
		MinAmount:     5000,
		MaxAmount:     300000,
		MinTermMonths: 3,
		MaxTermMonths: 36,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
