// internal/handlers/report.go
package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bankhub/credit-backend/internal/services"
	"github.com/bankhub/credit-backend/internal/utils"
)

type ReportHandler struct {
	reportService  *services.ReportService
	pdfService     *services.PdfService
	storageService *services.StorageService
}

func NewReportHandler(reportService *services.ReportService, pdfService *services.PdfService, storageService *services.StorageService) *ReportHandler {
	return &ReportHandler{
		reportService:  reportService,
		pdfService:     pdfService,
		storageService: storageService,
	}
}

// GET /manager/reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportService.DashboardStatistics()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /manager/reports/by-status
func (h *ReportHandler) ByStatus(c *gin.Context) {
	counts, err := h.reportService.ApplicationsByStatus()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"by_status": counts,
	})
}

// GET /manager/reports/by-product
func (h *ReportHandler) ByProduct(c *gin.Context) {
	amounts, err := h.reportService.AmountsByProduct()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"by_product": amounts,
	})
}

// GET /manager/reports/period
func (h *ReportHandler) ByPeriod(c *gin.Context) {
	start, end, ok := h.periodRange(c)
	if !ok {
		return
	}

	applications, err := h.reportService.ApplicationsByPeriod(start, end)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"start_date":   start,
		"end_date":     end,
		"count":        len(applications),
		"applications": applications,
	})
}

// GET /manager/reports/period/pdf
//
// With archive=true the rendered report is also stored to S3 when storage
// is configured; archival failure never blocks the download.
func (h *ReportHandler) ExportPeriodPDF(c *gin.Context) {
	start, end, ok := h.periodRange(c)
	if !ok {
		return
	}

	applications, err := h.reportService.ApplicationsByPeriod(start, end)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	title := fmt.Sprintf("%s - %s", start.Format("02.01.2006"), end.Format("02.01.2006"))
	content, err := h.pdfService.GenerateApplicationsReportPDF(applications, title)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	if c.Query("archive") == "true" && h.storageService.Enabled() {
		if result, err := h.storageService.UploadReport("applications_period", content); err != nil {
			logrus.WithError(err).Warn("Failed to archive period report")
		} else {
			c.Header("X-Report-Archive-Key", result.Key)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%s_%s.pdf"`,
		start.Format("2006-01-02"), end.Format("2006-01-02")))
	c.Data(200, "application/pdf", content)
}

// periodRange parses start_date/end_date, defaulting to the last 30 days.
func (h *ReportHandler) periodRange(c *gin.Context) (time.Time, time.Time, bool) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if value := c.Query("start_date"); value != "" {
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid start_date", nil)
			return time.Time{}, time.Time{}, false
		}
		start = parsed
	}
	if value := c.Query("end_date"); value != "" {
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid end_date", nil)
			return time.Time{}, time.Time{}, false
		}
		// Include the whole end day.
		end = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	if end.Before(start) {
		utils.BadRequestResponse(c, "end_date must not precede start_date", nil)
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}
