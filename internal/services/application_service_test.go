// internal/services/application_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/benbjohnson/clock"
	"github.com/bankhub/credit-backend/internal/models"
)

func newApplicationFixture(t *testing.T) (*ApplicationService, *BlacklistService, *gorm.DB, *clock.Mock) {
	t.Helper()

	db := newTestDB(t)
	clk := newTestClock(t)
	blacklist := NewBlacklistService(db, clk)
	scoring := NewScoringService(db, blacklist, clk)
	eligibility := NewEligibilityService(db, scoring, blacklist, clk, 30)
	svc := NewApplicationService(db, eligibility, blacklist, nil, clk)
	return svc, blacklist, db, clk
}

func TestApplyCreatesNewApplication(t *testing.T) {
	svc, _, db, clk := newApplicationFixture(t)

	user := createTestUser(t, db, clk.Now(), nil)
	product := createTestProduct(t, db)

	application, err := svc.Apply(user.ID, &ApplyRequest{
		ProductID:    product.ID,
		CustomerName: user.FullName,
		Phone:        user.Phone,
		Email:        user.Email,
		Amount:       120000,
		TermMonths:   12,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatusNew, application.Status)
	assert.True(t, application.ApplicationDate.Equal(clk.Now()))
	require.NotNil(t, application.UserID)
	assert.Equal(t, user.ID, *application.UserID)
	assert.Nil(t, application.ManagerComment)
	assert.Nil(t, application.StatusChangedAt)
}

func TestApplyEnforcesProductBounds(t *testing.T) {
	svc, _, db, clk := newApplicationFixture(t)

	user := createTestUser(t, db, clk.Now(), nil)
	product := createTestProduct(t, db) // 5,000-300,000 over 3-36 months

	_, err := svc.Apply(user.ID, &ApplyRequest{
		ProductID:    product.ID,
		CustomerName: user.FullName,
		Phone:        user.Phone,
		Email:        user.Email,
		Amount:       1000,
		TermMonths:   12,
	})
	assert.ErrorContains(t, err, "amount must be between")

	_, err = svc.Apply(user.ID, &ApplyRequest{
		ProductID:    product.ID,
		CustomerName: user.FullName,
		Phone:        user.Phone,
		Email:        user.Email,
		Amount:       120000,
		TermMonths:   48,
	})
	assert.ErrorContains(t, err, "term must be between")
}

func TestApplyRejectsBlacklistedApplicant(t *testing.T) {
	svc, blacklist, db, clk := newApplicationFixture(t)

	user := createTestUser(t, db, clk.Now(), nil)
	product := createTestProduct(t, db)

	_, err := blacklist.Create(&CreateBlacklistEntryRequest{
		FullName:    user.FullName,
		TaxNumber:   user.TaxNumber,
		Reason:      models.BlacklistReasonFraud,
		Description: "Active fraud case",
	}, "manager@bankhub.ua")
	require.NoError(t, err)

	_, err = svc.Apply(user.ID, &ApplyRequest{
		ProductID:    product.ID,
		CustomerName: user.FullName,
		Phone:        user.Phone,
		Email:        user.Email,
		Amount:       10000,
		TermMonths:   12,
	})
	assert.EqualError(t, err, "application cannot be accepted")

	var count int64
	require.NoError(t, db.Model(&models.CreditApplication{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected submission must write nothing")
}

func TestApplyRejectsExcessiveAmount(t *testing.T) {
	svc, _, db, clk := newApplicationFixture(t)

	// Incomplete profile lowers the recommended maximum: income score drops
	// to 50, total 450 -> rating "C", recommended 75,000.
	user := createTestUser(t, db, clk.Now(), func(u *models.User) {
		u.Phone = ""
		u.Address = ""
		u.TaxNumber = ""
	})
	product := createTestProduct(t, db)

	_, err := svc.Apply(user.ID, &ApplyRequest{
		ProductID:    product.ID,
		CustomerName: user.FullName,
		Phone:        "+380501234567",
		Email:        user.Email,
		Amount:       100000,
		TermMonths:   12,
	})
	assert.ErrorContains(t, err, "exceeds the recommended maximum")
}

func TestUpdateStatusStampsChange(t *testing.T) {
	svc, _, db, clk := newApplicationFixture(t)

	user := createTestUser(t, db, clk.Now(), nil)
	product := createTestProduct(t, db)

	application, err := svc.Apply(user.ID, &ApplyRequest{
		ProductID:    product.ID,
		CustomerName: user.FullName,
		Phone:        user.Phone,
		Email:        user.Email,
		Amount:       120000,
		TermMonths:   12,
	})
	require.NoError(t, err)

	clk.Add(48 * time.Hour)

	updated, err := svc.UpdateStatus(application.ID, &UpdateStatusRequest{
		Status:  models.ApplicationStatusApproved,
		Comment: "Documents verified",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatusApproved, updated.Status)
	require.NotNil(t, updated.StatusChangedAt)
	assert.True(t, updated.StatusChangedAt.Equal(clk.Now()))
	require.NotNil(t, updated.ManagerComment)
	assert.Equal(t, "Documents verified", *updated.ManagerComment)

	_, err = svc.UpdateStatus(application.ID, &UpdateStatusRequest{Status: "shipped"})
	assert.EqualError(t, err, "invalid application status")
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, _, db, clk := newApplicationFixture(t)

	owner := createTestUser(t, db, clk.Now(), nil)
	product := createTestProduct(t, db)

	other := createTestUser(t, db, clk.Now(), func(u *models.User) {
		u.Email = "other@example.com"
		u.TaxNumber = "5555555555"
	})
	manager := createTestUser(t, db, clk.Now(), func(u *models.User) {
		u.Email = "manager@bankhub.ua"
		u.TaxNumber = "7777777777"
		u.Role = models.UserRoleManager
	})

	application, err := svc.Apply(owner.ID, &ApplyRequest{
		ProductID:    product.ID,
		CustomerName: owner.FullName,
		Phone:        owner.Phone,
		Email:        owner.Email,
		Amount:       120000,
		TermMonths:   12,
	})
	require.NoError(t, err)

	_, err = svc.Get(application.ID, owner)
	assert.NoError(t, err)

	_, err = svc.Get(application.ID, other)
	assert.Error(t, err)

	_, err = svc.Get(application.ID, manager)
	assert.NoError(t, err)
}
