package payroll_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-faceattend/internal/payroll"
	payrollerrors "go-faceattend/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	summaryFn func(ctx context.Context, name, month string) (payroll.MonthlySummary, error)
	reportFn  func(ctx context.Context, month string) (payroll.MonthlyReport, error)
}

func (f *fakeService) MonthlySummary(ctx context.Context, name, month string) (payroll.MonthlySummary, error) {
	return f.summaryFn(ctx, name, month)
}
func (f *fakeService) MonthlyReport(ctx context.Context, month string) (payroll.MonthlyReport, error) {
	return f.reportFn(ctx, month)
}

func testReport() payroll.MonthlyReport {
	out := "2026-08-03T17:00:00Z"
	return payroll.MonthlyReport{
		Month: "2026-08",
		Rows: []payroll.ReportRow{
			{Name: "alice", PunchDate: "2026-08-03", InTime: "2026-08-03T09:00:00Z", OutTime: &out, Status: "FULL_DAY"},
			{Name: "alice", PunchDate: "2026-08-04", InTime: "2026-08-04T09:06:00Z", Status: "HALF_DAY"},
		},
		Summaries: []payroll.MonthlySummary{
			{Name: "alice", EmployeeID: "EMP-000001", Month: "2026-08", FullDays: 1, HalfDays: 1, PerDaySalary: 500, TotalSalary: 750},
		},
	}
}

func TestHandler_GetSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		summaryFn: func(ctx context.Context, name, month string) (payroll.MonthlySummary, error) {
			assert.Equal(t, "alice", name)
			assert.Equal(t, "2026-08", month)
			return payroll.MonthlySummary{Name: name, Month: month, TotalSalary: 2000}, nil
		},
	}
	h := payroll.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "month", Value: "2026-08"}, {Key: "name", Value: "alice"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/payroll/2026-08/identities/alice", nil)
	h.GetSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2000")
}

func TestHandler_GetSummary_BadMonth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		summaryFn: func(ctx context.Context, name, month string) (payroll.MonthlySummary, error) {
			return payroll.MonthlySummary{}, payrollerrors.ErrInvalidPeriodFormat
		},
	}
	h := payroll.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "month", Value: "bogus"}, {Key: "name", Value: "alice"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/payroll/bogus/identities/alice", nil)
	h.GetSummary(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		reportFn: func(ctx context.Context, month string) (payroll.MonthlyReport, error) {
			return testReport(), nil
		},
	}
	h := payroll.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "month", Value: "2026-08"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/payroll/2026-08/export", nil)
	h.ExportCSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance-2026-08.csv")

	body := w.Body.String()
	assert.Contains(t, body, "name,punch_date,in_time,out_time,status")
	assert.Contains(t, body, "alice,2026-08-03,2026-08-03T09:00:00Z,2026-08-03T17:00:00Z,FULL_DAY")
	assert.Contains(t, body, "alice,2026-08-04,2026-08-04T09:06:00Z,,HALF_DAY")
	assert.Contains(t, body, "name,employee_id,full_days,half_days,per_day_salary,total_salary")
	assert.Contains(t, body, "alice,EMP-000001,1,1,500.00,750.00")
}
