// internal/services/eligibility_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankhub/credit-backend/internal/models"
)

func TestCanApplyWithinRecommendedAmount(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	blacklist := NewBlacklistService(db, clk)
	scoring := NewScoringService(db, blacklist, clk)
	eligibility := NewEligibilityService(db, scoring, blacklist, clk, 30)

	// Complete profile, no history: total 650, recommended max 300,000.
	user := createTestUser(t, db, clk.Now(), nil)

	eligible, err := eligibility.CanApplyForCredit(user.ID, 100000)
	require.NoError(t, err)
	assert.True(t, eligible)

	eligible, err = eligibility.CanApplyForCredit(user.ID, 300000)
	require.NoError(t, err)
	assert.True(t, eligible, "the boundary amount is still allowed")

	eligible, err = eligibility.CanApplyForCredit(user.ID, 300001)
	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestBlacklistVetoOverridesAmount(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	blacklist := NewBlacklistService(db, clk)
	scoring := NewScoringService(db, blacklist, clk)
	eligibility := NewEligibilityService(db, scoring, blacklist, clk, 30)

	user := createTestUser(t, db, clk.Now(), nil)

	_, err := blacklist.Create(&CreateBlacklistEntryRequest{
		FullName:    user.FullName,
		TaxNumber:   user.TaxNumber,
		Reason:      models.BlacklistReasonNonPayment,
		Description: "Outstanding debt",
	}, "manager@bankhub.ua")
	require.NoError(t, err)

	// Rejected no matter how small the request is.
	for _, amount := range []float64{1, 1000, 100000} {
		eligible, err := eligibility.CanApplyForCredit(user.ID, amount)
		require.NoError(t, err)
		assert.False(t, eligible, "blacklisted applicant must be rejected for %v", amount)
	}

	// The combined check reports the flag and the degenerate score.
	result, err := eligibility.CheckEligibility(user.ID)
	require.NoError(t, err)
	assert.True(t, result.IsBlacklisted)
	require.NotNil(t, result.Score)
	assert.Zero(t, result.Score.TotalScore)
	assert.Equal(t, "E", result.Score.Rating)
}

func TestStaleScoreIsRecomputed(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	blacklist := NewBlacklistService(db, clk)
	scoring := NewScoringService(db, blacklist, clk)
	eligibility := NewEligibilityService(db, scoring, blacklist, clk, 30)

	user := createTestUser(t, db, clk.Now(), nil)

	first, err := scoring.CalculateScore(user.ID)
	require.NoError(t, err)
	firstDate := first.CalculationDate

	// 31 days later the stored score is stale and must be replaced before
	// the amount comparison runs.
	clk.Add(31 * 24 * time.Hour)

	eligible, err := eligibility.CanApplyForCredit(user.ID, 100000)
	require.NoError(t, err)
	assert.True(t, eligible)

	stored, err := scoring.CurrentScore(user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.CalculationDate.After(firstDate),
		"stale score should have been recomputed, still dated %s", stored.CalculationDate)
	assert.True(t, stored.CalculationDate.Equal(clk.Now()))
}

func TestFreshScoreIsReused(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	blacklist := NewBlacklistService(db, clk)
	scoring := NewScoringService(db, blacklist, clk)
	eligibility := NewEligibilityService(db, scoring, blacklist, clk, 30)

	user := createTestUser(t, db, clk.Now(), nil)

	first, err := scoring.CalculateScore(user.ID)
	require.NoError(t, err)
	firstDate := first.CalculationDate

	// 10 days later the stored score is still trusted.
	clk.Add(10 * 24 * time.Hour)

	eligible, err := eligibility.CanApplyForCredit(user.ID, 100000)
	require.NoError(t, err)
	assert.True(t, eligible)

	stored, err := scoring.CurrentScore(user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.CalculationDate.Equal(firstDate),
		"fresh score must be reused unchanged")
}

func TestMissingScoreComputedOnDemand(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	blacklist := NewBlacklistService(db, clk)
	scoring := NewScoringService(db, blacklist, clk)
	eligibility := NewEligibilityService(db, scoring, blacklist, clk, 30)

	user := createTestUser(t, db, clk.Now(), nil)

	// No stored score yet; the eligibility path computes and persists one.
	result, err := eligibility.CheckEligibility(user.ID)
	require.NoError(t, err)
	assert.False(t, result.IsBlacklisted)
	require.NotNil(t, result.Score)
	assert.Equal(t, 650, result.Score.TotalScore)

	stored, err := scoring.CurrentScore(user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}
