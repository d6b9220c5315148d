package payroll

import (
	"net/http"
	"strconv"

	"go-faceattend/internal/shared/apperror"
	"go-faceattend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetReport(c *gin.Context) {
	resp, err := h.service.MonthlyReport(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetSummary(c *gin.Context) {
	resp, err := h.service.MonthlySummary(c.Request.Context(), c.Param("name"), c.Param("month"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// ExportCSV streams the monthly report as a CSV attachment: one section of
// punch rows, a blank line, then the per-identity summary block.
func (h *Handler) ExportCSV(c *gin.Context) {
	month := c.Param("month")

	report, err := h.service.MonthlyReport(c.Request.Context(), month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	body, err := renderReportCSV(report)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="attendance-`+month+`.csv"`)
	c.Data(http.StatusOK, "text/csv", body)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
