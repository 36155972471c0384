// internal/services/amortization_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPaymentZeroRate(t *testing.T) {
	svc := NewAmortizationService()

	payment := svc.MonthlyPayment(120000, 0, 12)
	assert.True(t, payment.Equal(decimal.NewFromInt(10000)), "zero-rate loan repays straight-line, got %s", payment)

	assert.True(t, svc.TotalPayback(120000, 0, 12).Equal(decimal.NewFromInt(120000)))
	assert.True(t, svc.Overpayment(120000, 0, 12).IsZero())
}

func TestMonthlyPaymentDegenerateInputs(t *testing.T) {
	svc := NewAmortizationService()

	assert.True(t, svc.MonthlyPayment(120000, 18.5, 0).IsZero())
	assert.True(t, svc.MonthlyPayment(0, 18.5, 12).IsZero())
	assert.True(t, svc.MonthlyPayment(-500, 18.5, 12).IsZero())
	assert.Nil(t, svc.Schedule(120000, 18.5, 0, time.Now()))
}

func TestMonthlyPaymentAnnuity(t *testing.T) {
	svc := NewAmortizationService()

	// 120,000 at 18.5% over 12 months
	payment := svc.MonthlyPayment(120000, 18.5, 12)

	// Annuity payment exceeds straight-line but stays below straight-line
	// plus a full month of interest on the whole principal.
	straightLine := 120000.0 / 12
	fullInterest := straightLine + 120000*18.5/1200
	value := payment.InexactFloat64()
	assert.Greater(t, value, straightLine)
	assert.Less(t, value, fullInterest)

	total := svc.TotalPayback(120000, 18.5, 12)
	overpayment := svc.Overpayment(120000, 18.5, 12)
	assert.InDelta(t, total.InexactFloat64()-120000, overpayment.InexactFloat64(), 0.01)
}

func TestScheduleReconciles(t *testing.T) {
	svc := NewAmortizationService()

	first := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	schedule := svc.Schedule(120000, 18.5, 12, first)
	require.Len(t, schedule, 12)

	// Principal portions sum back to the loan amount within rounding noise
	// (at most one cent per installment).
	principalSum := decimal.Zero
	for _, row := range schedule {
		principalSum = principalSum.Add(row.Principal)
	}
	diff := principalSum.Sub(decimal.NewFromInt(120000)).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(0.12)),
		"principal sum %s drifts from the loan amount by %s", principalSum, diff)

	// Final row remaining balance rounds to zero.
	last := schedule[len(schedule)-1]
	assert.True(t, last.RemainingBalance.LessThanOrEqual(decimal.NewFromFloat(0.01)),
		"final balance should round to zero, got %s", last.RemainingBalance)

	// Interest accrues on the declining balance: first month carries the
	// most interest, and every payment splits into principal + interest.
	assert.True(t, schedule[0].Interest.GreaterThan(schedule[11].Interest))
	for i, row := range schedule {
		assert.Equal(t, i+1, row.Number)
		split := row.Principal.Add(row.Interest)
		assert.True(t, split.Sub(row.Payment).Abs().LessThanOrEqual(decimal.NewFromFloat(0.01)))
	}

	// Due dates advance one calendar month per installment.
	assert.Equal(t, first, schedule[0].DueDate)
	assert.Equal(t, first.AddDate(0, 11, 0), schedule[11].DueDate)
}

func TestScheduleFirstMonthInterest(t *testing.T) {
	svc := NewAmortizationService()

	schedule := svc.Schedule(120000, 18.5, 12, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NotEmpty(t, schedule)

	// First installment interest is one month of interest on the full
	// principal: 120000 * 18.5 / 1200 = 1850.
	assert.True(t, schedule[0].Interest.Equal(decimal.NewFromInt(1850)),
		"first month interest should be 1850, got %s", schedule[0].Interest)
}
