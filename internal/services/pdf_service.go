// internal/services/pdf_service.go
package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/bankhub/credit-backend/internal/models"
)

// PdfService renders application documents and reports. It consumes the
// amortization calculator's output as read-only display data; every
// monetary value is rounded to 2 decimal places here, at the presentation
// boundary.
type PdfService struct {
	amortization *AmortizationService
}

func NewPdfService(amortization *AmortizationService) *PdfService {
	return &PdfService{amortization: amortization}
}

// GenerateApplicationPDF renders the application summary: loan terms,
// derived payment figures and contact details.
func (s *PdfService) GenerateApplicationPDF(application *models.CreditApplication) ([]byte, error) {
	if application.Product == nil {
		return nil, fmt.Errorf("application %s has no product loaded", application.ID)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "CREDIT APPLICATION", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Application #%s", application.ID), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Submitted: %s", application.ApplicationDate.Format("02.01.2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	payment := s.amortization.MonthlyPayment(application.Amount, application.Product.InterestRate, application.TermMonths)
	total := s.amortization.TotalPayback(application.Amount, application.Product.InterestRate, application.TermMonths)
	overpayment := s.amortization.Overpayment(application.Amount, application.Product.InterestRate, application.TermMonths)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Loan details", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)

	s.keyValueRow(pdf, "Credit product:", application.Product.Name)
	s.keyValueRow(pdf, "Amount:", fmt.Sprintf("%.2f", application.Amount))
	s.keyValueRow(pdf, "Term:", fmt.Sprintf("%d months", application.TermMonths))
	s.keyValueRow(pdf, "Interest rate:", fmt.Sprintf("%.2f%%", application.Product.InterestRate))
	s.keyValueRow(pdf, "Monthly payment:", payment.StringFixed(2))
	s.keyValueRow(pdf, "Total payback:", total.StringFixed(2))
	s.keyValueRow(pdf, "Overpayment:", overpayment.StringFixed(2))

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Contact details", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)

	s.keyValueRow(pdf, "Name:", application.CustomerName)
	s.keyValueRow(pdf, "Phone:", application.Phone)
	s.keyValueRow(pdf, "Email:", application.Email)
	s.keyValueRow(pdf, "Status:", application.Status.Label())

	return s.output(pdf)
}

// GenerateSchedulePDF renders the full payment schedule table.
func (s *PdfService) GenerateSchedulePDF(application *models.CreditApplication) ([]byte, error) {
	if application.Product == nil {
		return nil, fmt.Errorf("application %s has no product loaded", application.ID)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "PAYMENT SCHEDULE", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Application #%s - %s", application.ID, application.Product.Name), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Amount: %.2f", application.Amount), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Interest rate: %.2f%%", application.Product.InterestRate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Term: %d months", application.TermMonths), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{12, 32, 36, 36, 36, 38}
	headers := []string{"#", "Due date", "Payment", "Principal", "Interest", "Balance"}

	pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	// First installment falls one month after submission.
	firstPayment := application.ApplicationDate.AddDate(0, 1, 0)
	schedule := s.amortization.Schedule(application.Amount, application.Product.InterestRate, application.TermMonths, firstPayment)

	pdf.SetFont("Arial", "", 9)
	for _, row := range schedule {
		pdf.CellFormat(widths[0], 7, fmt.Sprintf("%d", row.Number), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, row.DueDate.Format("02.01.2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, row.Payment.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, row.Principal.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, row.Interest.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 7, row.RemainingBalance.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	return s.output(pdf)
}

// GenerateApplicationsReportPDF renders a staff report over a set of
// applications.
func (s *PdfService) GenerateApplicationsReportPDF(applications []models.CreditApplication, title string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, "APPLICATIONS REPORT", "", 1, "C", false, 0, "")
	if title != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	widths := []float64{60, 50, 30, 25, 40, 35, 35}
	headers := []string{"Customer", "Product", "Amount", "Term", "Submitted", "Status", "Comment"}

	pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	totalAmount := 0.0
	for _, app := range applications {
		productName := ""
		if app.Product != nil {
			productName = app.Product.Name
		}
		comment := ""
		if app.ManagerComment != nil {
			comment = *app.ManagerComment
		}

		pdf.CellFormat(widths[0], 7, app.CustomerName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, productName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%.2f", app.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%d mo", app.TermMonths), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 7, app.ApplicationDate.Format("02.01.2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 7, app.Status.Label(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[6], 7, comment, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)

		totalAmount += app.Amount
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total applications: %d, total amount: %.2f", len(applications), totalAmount), "", 1, "L", false, 0, "")

	return s.output(pdf)
}

func (s *PdfService) keyValueRow(pdf *gofpdf.Fpdf, key, value string) {
	pdf.CellFormat(60, 7, key, "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, value, "1", 1, "L", false, 0, "")
}

func (s *PdfService) output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
