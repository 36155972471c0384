// internal/services/scoring_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankhub/credit-backend/internal/models"
)

func TestCalculateScoreCompleteProfileNoHistory(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewScoringService(db, NewBlacklistService(db, clk), clk)

	// No birth date, no applications, complete profile, registered 400
	// days ago.
	user := createTestUser(t, db, clk.Now(), nil)

	score, err := svc.CalculateScore(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 50, score.AgeScore)
	assert.Equal(t, 100, score.CreditHistoryScore)
	assert.Equal(t, 250, score.IncomeScore)
	assert.Equal(t, 150, score.EmploymentScore)
	assert.Equal(t, 100, score.ExistingDebtsScore)
	assert.Equal(t, 650, score.TotalScore)
	assert.Equal(t, "B+", score.Rating)
	assert.Equal(t, 10.0, score.DefaultProbability)
	assert.Equal(t, 300000.0, score.RecommendedMaxAmount)
	assert.Equal(t, clk.Now(), score.CalculationDate)
}

func TestCalculateScoreAgeBands(t *testing.T) {
	cases := []struct {
		name string
		age  int
		want int
	}{
		{"under 21", 19, 50},
		{"21 to 25", 23, 80},
		{"26 to 35", 30, 150},
		{"36 to 50", 45, 130},
		{"51 to 65", 60, 100},
		{"over 65", 70, 60},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			clk := newTestClock(t)
			svc := NewScoringService(db, NewBlacklistService(db, clk), clk)

			dob := clk.Now().AddDate(-tc.age, 0, -1)
			user := createTestUser(t, db, clk.Now(), func(u *models.User) {
				u.DateOfBirth = &dob
			})

			score, err := svc.CalculateScore(user.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, score.AgeScore)
		})
	}
}

func TestCalculateScoreBirthdayNotYetReached(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewScoringService(db, NewBlacklistService(db, clk), clk)

	// Turns 21 tomorrow: still counts as 20.
	dob := clk.Now().AddDate(-21, 0, 1)
	user := createTestUser(t, db, clk.Now(), func(u *models.User) {
		u.DateOfBirth = &dob
	})

	score, err := svc.CalculateScore(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, score.AgeScore)
}

func TestCalculateScoreCreditHistory(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewScoringService(db, NewBlacklistService(db, clk), clk)

	user := createTestUser(t, db, clk.Now(), nil)
	product := createTestProduct(t, db)

	// 2 approved (or issued), 1 rejected, 1 under review.
	statuses := []models.ApplicationStatus{
		models.ApplicationStatusApproved,
		models.ApplicationStatusIssued,
		models.ApplicationStatusRejected,
		models.ApplicationStatusUnderReview,
	}
	for _, status := range statuses {
		app := &models.CreditApplication{
			CustomerName:    user.FullName,
			Phone:           user.Phone,
			Email:           user.Email,
			Amount:          10000,
			TermMonths:      12,
			ApplicationDate: clk.Now().AddDate(0, -6, 0),
			Status:          status,
			ProductID:       product.ID,
			UserID:          &user.ID,
		}
		require.NoError(t, db.Create(app).Error)
	}

	score, err := svc.CalculateScore(user.ID)
	require.NoError(t, err)

	// approval rate 2/4 -> base 100, bonus 2*20=40, penalty 1*15=15.
	assert.Equal(t, 125, score.CreditHistoryScore)

	// 20,000 of active debt lands in the lowest tier.
	assert.Equal(t, 90, score.ExistingDebtsScore)
}

func TestCalculateScoreIncompleteProfile(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewScoringService(db, NewBlacklistService(db, clk), clk)

	user := createTestUser(t, db, clk.Now(), func(u *models.User) {
		u.Phone = ""
		u.Address = ""
		u.TaxNumber = ""
	})

	score, err := svc.CalculateScore(user.ID)
	require.NoError(t, err)

	// Only the name contributes.
	assert.Equal(t, 50, score.IncomeScore)
}

func TestCalculateScoreEmploymentTenure(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{10, 50},
		{60, 80},
		{120, 110},
		{300, 130},
		{400, 150},
	}

	for _, tc := range cases {
		db := newTestDB(t)
		clk := newTestClock(t)
		svc := NewScoringService(db, NewBlacklistService(db, clk), clk)

		user := createTestUser(t, db, clk.Now(), func(u *models.User) {
			u.RegistrationDate = clk.Now().AddDate(0, 0, -tc.days)
		})

		score, err := svc.CalculateScore(user.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.want, score.EmploymentScore, "tenure of %d days", tc.days)
	}
}

func TestCalculateScoreBlacklistedShortCircuits(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	blacklist := NewBlacklistService(db, clk)
	svc := NewScoringService(db, blacklist, clk)

	user := createTestUser(t, db, clk.Now(), nil)

	_, err := blacklist.Create(&CreateBlacklistEntryRequest{
		FullName:    user.FullName,
		TaxNumber:   user.TaxNumber,
		Reason:      models.BlacklistReasonFraud,
		Description: "Forged income statement",
	}, "manager@bankhub.ua")
	require.NoError(t, err)

	score, err := svc.CalculateScore(user.ID)
	require.NoError(t, err)

	assert.Zero(t, score.AgeScore)
	assert.Zero(t, score.CreditHistoryScore)
	assert.Zero(t, score.IncomeScore)
	assert.Zero(t, score.EmploymentScore)
	assert.Zero(t, score.ExistingDebtsScore)
	assert.Zero(t, score.TotalScore)
	assert.Equal(t, "E", score.Rating)
	assert.Equal(t, 100.0, score.DefaultProbability)
	assert.Zero(t, score.RecommendedMaxAmount)
	require.NotNil(t, score.Notes)
	assert.Contains(t, *score.Notes, "blacklist")

	// The degenerate result is never persisted.
	stored, err := svc.CurrentScore(user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestCalculateScoreUpsertsSingleRow(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewScoringService(db, NewBlacklistService(db, clk), clk)

	user := createTestUser(t, db, clk.Now(), nil)

	first, err := svc.CalculateScore(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 650, first.TotalScore)

	// Degrade the profile and recompute later.
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"address": "", "tax_number": "",
	}).Error)
	clk.Add(48 * time.Hour)

	second, err := svc.CalculateScore(user.ID)
	require.NoError(t, err)
	assert.Less(t, second.TotalScore, first.TotalScore)

	var count int64
	require.NoError(t, db.Model(&models.CreditScore{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "recomputation must supersede, not accumulate")

	stored, err := svc.CurrentScore(user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, second.TotalScore, stored.TotalScore)
	assert.True(t, stored.CalculationDate.Equal(clk.Now()),
		"stored calculation date %s should match %s", stored.CalculationDate, clk.Now())
}

func TestCalculateScoreUnknownUser(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewScoringService(db, NewBlacklistService(db, clk), clk)

	_, err := svc.CalculateScore(uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRatingBands(t *testing.T) {
	cases := []struct {
		score       int
		rating      string
		probability float64
		amount      float64
	}{
		{900, "A+", 2.0, 1000000},
		{850, "A+", 2.0, 1000000},
		{750, "A", 5.0, 500000},
		{650, "B+", 10.0, 300000},
		{550, "B", 15.0, 150000},
		{450, "C", 25.0, 75000},
		{350, "D", 40.0, 30000},
		{100, "E", 60.0, 10000},
		{0, "E", 60.0, 10000},
	}

	for _, tc := range cases {
		rating, probability := RatingFor(tc.score)
		assert.Equal(t, tc.rating, rating, "score %d", tc.score)
		assert.Equal(t, tc.probability, probability, "score %d", tc.score)
		assert.Equal(t, tc.amount, RecommendedAmountFor(tc.score), "score %d", tc.score)
	}
}
