package payroll

// MonthlySummary is one identity's attendance tally and earned salary for a
// single month. A month with no punches yields a zero-value summary, not an
// error.
type MonthlySummary struct {
	Name         string  `json:"name"`
	EmployeeID   string  `json:"employee_id"`
	Month        string  `json:"month"`
	FullDays     int     `json:"full_days"`
	HalfDays     int     `json:"half_days"`
	PerDaySalary float64 `json:"per_day_salary"`
	TotalSalary  float64 `json:"total_salary"`
}

// ReportRow is one punch as it appears in the monthly report export.
type ReportRow struct {
	Name      string  `json:"name"`
	PunchDate string  `json:"punch_date"`
	InTime    string  `json:"in_time"`
	OutTime   *string `json:"out_time,omitempty"`
	Status    string  `json:"status"`
}

// MonthlyReport is the full export for a month: every punch row followed by a
// per-identity summary block. Admin-class identities are excluded.
type MonthlyReport struct {
	Month     string           `json:"month"`
	Rows      []ReportRow      `json:"rows"`
	Summaries []MonthlySummary `json:"summaries"`
}
