// internal/services/scoring_service.go
package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bankhub/credit-backend/internal/models"
)

// ErrUserNotFound is returned when the applicant profile cannot be
// resolved; scoring and eligibility calls fail explicitly instead of
// defaulting.
var ErrUserNotFound = errors.New("user not found")

// ScoringService computes the composite creditworthiness score from five
// independent sub-scores and maps it to a rating band, default probability
// and recommended maximum amount. All wall-clock reads go through the
// injected clock so results are reproducible under test.
type ScoringService struct {
	db        *gorm.DB
	blacklist *BlacklistService
	clock     clock.Clock
}

type ratingBand struct {
	minScore           int
	rating             string
	defaultProbability float64
	recommendedAmount  float64
}

// Highest band first; the final row is the catch-all "E".
var ratingBands = []ratingBand{
	{850, "A+", 2.0, 1000000},
	{750, "A", 5.0, 500000},
	{650, "B+", 10.0, 300000},
	{550, "B", 15.0, 150000},
	{450, "C", 25.0, 75000},
	{350, "D", 40.0, 30000},
	{0, "E", 60.0, 10000},
}

type debtTier struct {
	below float64
	score int
}

// Currency-unit-relative thresholds of the deployment.
var debtTiers = []debtTier{
	{50000, 90},
	{100000, 70},
	{200000, 50},
	{500000, 30},
}

const maxDebtScore = 10

func NewScoringService(db *gorm.DB, blacklist *BlacklistService, clk clock.Clock) *ScoringService {
	return &ScoringService{
		db:        db,
		blacklist: blacklist,
		clock:     clk,
	}
}

// CalculateScore scores the user and persists the result, superseding any
// prior stored score (atomic upsert on user_id). A blacklisted applicant
// short-circuits to the degenerate zero score, which is returned without
// being persisted.
func (s *ScoringService) CalculateScore(userID uuid.UUID) (*models.CreditScore, error) {
	var user models.User
	if err := s.db.Preload("Applications").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	isBlacklisted, err := s.blacklist.IsBlacklisted(user.TaxNumber, user.Email, user.Phone)
	if err != nil {
		return nil, err
	}

	score := &models.CreditScore{
		UserID:          userID,
		CalculationDate: s.clock.Now(),
	}

	if isBlacklisted {
		// Degenerate result: every sub-score zeroed, worst band,
		// certain default. The normal rule cascade must not run.
		score.Rating = "E"
		score.DefaultProbability = 100
		score.RecommendedMaxAmount = 0

		notes := "Person is on the bank blacklist"
		if match, err := s.blacklist.ActiveMatchFor(user.TaxNumber, user.Email, user.Phone); err == nil && match != nil {
			notes = fmt.Sprintf("Person is on the bank blacklist: %s", match.Reason.Label())
		}
		score.Notes = &notes

		return score, nil
	}

	score.AgeScore = s.calculateAgeScore(&user)
	score.CreditHistoryScore = s.calculateCreditHistoryScore(user.Applications)
	score.IncomeScore = s.calculateIncomeScore(&user)
	score.EmploymentScore = s.calculateEmploymentScore(&user)
	score.ExistingDebtsScore = s.calculateExistingDebtsScore(user.Applications)

	score.TotalScore = score.AgeScore + score.CreditHistoryScore +
		score.IncomeScore + score.EmploymentScore + score.ExistingDebtsScore

	score.Rating, score.DefaultProbability = RatingFor(score.TotalScore)
	score.RecommendedMaxAmount = RecommendedAmountFor(score.TotalScore)

	if err := s.upsertScore(score); err != nil {
		return nil, err
	}

	return score, nil
}

// upsertScore replaces the user's current score in a single statement,
// keyed by the unique index on user_id. Last writer wins under concurrent
// recomputation without a read-delete-insert race.
func (s *ScoringService) upsertScore(score *models.CreditScore) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"age_score", "credit_history_score", "income_score",
			"employment_score", "existing_debts_score", "total_score",
			"rating", "default_probability", "recommended_max_amount",
			"calculation_date", "notes", "updated_at",
		}),
	}).Create(score).Error
	if err != nil {
		return fmt.Errorf("failed to store credit score: %w", err)
	}
	return nil
}

// CurrentScore returns the stored score for the user, or nil when none
// exists yet.
func (s *ScoringService) CurrentScore(userID uuid.UUID) (*models.CreditScore, error) {
	var score models.CreditScore
	err := s.db.Where("user_id = ?", userID).
		Order("calculation_date DESC").
		First(&score).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load credit score: %w", err)
	}
	return &score, nil
}

func (s *ScoringService) calculateAgeScore(user *models.User) int {
	if user.DateOfBirth == nil {
		return 50 // unverified, flat minimum
	}

	now := s.clock.Now()
	age := now.Year() - user.DateOfBirth.Year()
	if now.Before(user.DateOfBirth.AddDate(age, 0, 0)) {
		age--
	}

	switch {
	case age < 21:
		return 50
	case age <= 25:
		return 80
	case age <= 35:
		return 150 // peak band
	case age <= 50:
		return 130
	case age <= 65:
		return 100
	default:
		return 60
	}
}

func (s *ScoringService) calculateCreditHistoryScore(applications []models.CreditApplication) int {
	if len(applications) == 0 {
		return 100 // new applicant, neutral
	}

	total := len(applications)
	approved := 0
	rejected := 0
	for _, app := range applications {
		if app.IsActiveDebt() {
			approved++
		}
		if app.Status == models.ApplicationStatusRejected {
			rejected++
		}
	}

	approvalRate := float64(approved) / float64(total)
	base := int(math.Round(approvalRate * 200))

	experienceBonus := approved * 20
	if experienceBonus > 100 {
		experienceBonus = 100
	}

	rejectionPenalty := rejected * 15

	final := base + experienceBonus - rejectionPenalty
	if final < 0 {
		return 0
	}
	if final > 350 {
		return 350
	}
	return final
}

// Profile completeness as an income proxy. A documented limitation of the
// model, not real income verification.
func (s *ScoringService) calculateIncomeScore(user *models.User) int {
	score := 0
	if user.FullName != "" {
		score += 50
	}
	if user.Phone != "" {
		score += 50
	}
	if user.Address != "" {
		score += 50
	}
	if user.TaxNumber != "" {
		score += 100
	}

	if score > 250 {
		return 250
	}
	return score
}

// Account age as an employment-stability proxy.
func (s *ScoringService) calculateEmploymentScore(user *models.User) int {
	accountAge := int(s.clock.Now().Sub(user.RegistrationDate).Hours() / 24)

	switch {
	case accountAge < 30:
		return 50
	case accountAge < 90:
		return 80
	case accountAge < 180:
		return 110
	case accountAge < 365:
		return 130
	default:
		return 150
	}
}

func (s *ScoringService) calculateExistingDebtsScore(applications []models.CreditApplication) int {
	totalDebt := 0.0
	hasDebt := false
	for _, app := range applications {
		if app.IsActiveDebt() {
			totalDebt += app.Amount
			hasDebt = true
		}
	}

	if !hasDebt {
		return 100
	}

	for _, tier := range debtTiers {
		if totalDebt < tier.below {
			return tier.score
		}
	}
	return maxDebtScore
}

// RatingFor maps a total score to its rating band and default probability.
func RatingFor(totalScore int) (string, float64) {
	for _, band := range ratingBands {
		if totalScore >= band.minScore {
			return band.rating, band.defaultProbability
		}
	}
	last := ratingBands[len(ratingBands)-1]
	return last.rating, last.defaultProbability
}

// RecommendedAmountFor maps a total score to the maximum amount the bank
// recommends lending.
func RecommendedAmountFor(totalScore int) float64 {
	for _, band := range ratingBands {
		if totalScore >= band.minScore {
			return band.recommendedAmount
		}
	}
	return ratingBands[len(ratingBands)-1].recommendedAmount
}
