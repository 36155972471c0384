// internal/services/eligibility_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bankhub/credit-backend/internal/models"
)

// EligibilityService decides whether an applicant may proceed with a
// requested amount. The ordering is load-bearing: the blacklist always
// precedes and overrides scoring, so a blacklisted applicant is rejected
// even if a stale or degenerate score would slip through.
type EligibilityService struct {
	db            *gorm.DB
	scoring       *ScoringService
	blacklist     *BlacklistService
	clock         clock.Clock
	stalenessDays int
}

// EligibilityResult is the read-model handed to the policy's consumers.
type EligibilityResult struct {
	IsBlacklisted bool                `json:"is_blacklisted"`
	Score         *models.CreditScore `json:"score,omitempty"`
}

func NewEligibilityService(db *gorm.DB, scoring *ScoringService, blacklist *BlacklistService, clk clock.Clock, stalenessDays int) *EligibilityService {
	return &EligibilityService{
		db:            db,
		scoring:       scoring,
		blacklist:     blacklist,
		clock:         clk,
		stalenessDays: stalenessDays,
	}
}

// CanApplyForCredit reports whether the user may apply for the requested
// amount: not blacklisted, and the amount is within the recommended
// maximum of a fresh-enough score.
func (s *EligibilityService) CanApplyForCredit(userID uuid.UUID, requestedAmount float64) (bool, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("failed to load user: %w", err)
	}

	// Blacklist check first, unconditional veto regardless of amount.
	isBlacklisted, err := s.blacklist.IsBlacklisted(user.TaxNumber, user.Email, user.Phone)
	if err != nil {
		return false, err
	}
	if isBlacklisted {
		return false, nil
	}

	score, err := s.freshScore(userID)
	if err != nil {
		return false, err
	}

	return requestedAmount <= score.RecommendedMaxAmount, nil
}

// CheckEligibility resolves the blacklist flag and the current (recomputed
// when stale) score for the user in one pass.
func (s *EligibilityService) CheckEligibility(userID uuid.UUID) (*EligibilityResult, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	isBlacklisted, err := s.blacklist.IsBlacklisted(user.TaxNumber, user.Email, user.Phone)
	if err != nil {
		return nil, err
	}
	if isBlacklisted {
		// CalculateScore yields the degenerate zeroed result here.
		score, err := s.scoring.CalculateScore(userID)
		if err != nil {
			return nil, err
		}
		return &EligibilityResult{IsBlacklisted: true, Score: score}, nil
	}

	score, err := s.freshScore(userID)
	if err != nil {
		return nil, err
	}

	return &EligibilityResult{IsBlacklisted: false, Score: score}, nil
}

// freshScore returns the stored score when it is still inside the
// staleness window, recomputing and persisting otherwise. A stale or
// missing score is not an error.
func (s *EligibilityService) freshScore(userID uuid.UUID) (*models.CreditScore, error) {
	score, err := s.scoring.CurrentScore(userID)
	if err != nil {
		return nil, err
	}

	if score != nil {
		age := s.clock.Now().Sub(score.CalculationDate)
		if age <= time.Duration(s.stalenessDays)*24*time.Hour {
			return score, nil
		}
	}

	return s.scoring.CalculateScore(userID)
}
