// internal/services/amortization_service.go
package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmortizationService computes annuity payments and payment schedules for a
// loan. It is pure: no storage, no clock, no side effects. Full decimal
// precision is kept internally; rows are rounded to 2 decimal places only
// when a schedule entry is assembled for display.
type AmortizationService struct{}

// PaymentScheduleEntry is one installment row. Derived on demand, never
// persisted.
type PaymentScheduleEntry struct {
	Number           int             `json:"number"`
	DueDate          time.Time       `json:"due_date"`
	Payment          decimal.Decimal `json:"payment"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

func NewAmortizationService() *AmortizationService {
	return &AmortizationService{}
}

// MonthlyPayment returns the fixed annuity payment for the given principal,
// annual rate (percent) and term. Zero or negative term and non-positive
// principal are guarded degenerate inputs and yield zero rather than an
// error, which keeps schedule generation total.
func (s *AmortizationService) MonthlyPayment(amount, annualRatePercent float64, termMonths int) decimal.Decimal {
	return s.monthlyPayment(amount, annualRatePercent, termMonths).Round(2)
}

func (s *AmortizationService) monthlyPayment(amount, annualRatePercent float64, termMonths int) decimal.Decimal {
	if termMonths <= 0 || amount <= 0 {
		return decimal.Zero
	}

	principal := decimal.NewFromFloat(amount)
	term := decimal.NewFromInt(int64(termMonths))
	monthlyRate := s.monthlyRate(annualRatePercent)

	if monthlyRate.IsZero() {
		// Straight-line repayment, no interest.
		return principal.Div(term)
	}

	// payment = principal * r * (1+r)^n / ((1+r)^n - 1)
	one := decimal.NewFromInt(1)
	growth := one.Add(monthlyRate).Pow(term)
	return principal.Mul(monthlyRate).Mul(growth).Div(growth.Sub(one))
}

func (s *AmortizationService) monthlyRate(annualRatePercent float64) decimal.Decimal {
	return decimal.NewFromFloat(annualRatePercent).Div(decimal.NewFromInt(1200))
}

// TotalPayback is payment * term. Recomputed on read, never cached.
func (s *AmortizationService) TotalPayback(amount, annualRatePercent float64, termMonths int) decimal.Decimal {
	if termMonths <= 0 {
		return decimal.Zero
	}
	payment := s.monthlyPayment(amount, annualRatePercent, termMonths)
	return payment.Mul(decimal.NewFromInt(int64(termMonths))).Round(2)
}

// Overpayment is the interest cost over the life of the loan.
func (s *AmortizationService) Overpayment(amount, annualRatePercent float64, termMonths int) decimal.Decimal {
	if termMonths <= 0 || amount <= 0 {
		return decimal.Zero
	}
	return s.TotalPayback(amount, annualRatePercent, termMonths).Sub(decimal.NewFromFloat(amount))
}

// Schedule generates the full installment table. Each row: interest on the
// remaining balance, principal portion is the rest of the payment, due date
// advances one calendar month per installment. The displayed remaining
// balance is floored at zero.
func (s *AmortizationService) Schedule(amount, annualRatePercent float64, termMonths int, firstPaymentDate time.Time) []PaymentScheduleEntry {
	if termMonths <= 0 || amount <= 0 {
		return nil
	}

	payment := s.monthlyPayment(amount, annualRatePercent, termMonths)
	monthlyRate := s.monthlyRate(annualRatePercent)
	remaining := decimal.NewFromFloat(amount)

	entries := make([]PaymentScheduleEntry, 0, termMonths)
	dueDate := firstPaymentDate

	for i := 1; i <= termMonths; i++ {
		interest := remaining.Mul(monthlyRate)
		principal := payment.Sub(interest)
		remaining = remaining.Sub(principal)

		display := remaining
		if display.IsNegative() {
			display = decimal.Zero
		}

		entries = append(entries, PaymentScheduleEntry{
			Number:           i,
			DueDate:          dueDate,
			Payment:          payment.Round(2),
			Principal:        principal.Round(2),
			Interest:         interest.Round(2),
			RemainingBalance: display.Round(2),
		})

		dueDate = dueDate.AddDate(0, 1, 0)
	}

	return entries
}
