package payroll

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

func renderReportCSV(report MonthlyReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"name", "punch_date", "in_time", "out_time", "status"}); err != nil {
		return nil, err
	}
	for _, row := range report.Rows {
		outTime := ""
		if row.OutTime != nil {
			outTime = *row.OutTime
		}
		if err := w.Write([]string{row.Name, row.PunchDate, row.InTime, outTime, row.Status}); err != nil {
			return nil, err
		}
	}

	// Blank line between the punch section and the summary block.
	if err := w.Write([]string{""}); err != nil {
		return nil, err
	}
	if err := w.Write([]string{"name", "employee_id", "full_days", "half_days", "per_day_salary", "total_salary"}); err != nil {
		return nil, err
	}
	for _, s := range report.Summaries {
		record := []string{
			s.Name,
			s.EmployeeID,
			strconv.Itoa(s.FullDays),
			strconv.Itoa(s.HalfDays),
			formatMoney(s.PerDaySalary),
			formatMoney(s.TotalSalary),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
