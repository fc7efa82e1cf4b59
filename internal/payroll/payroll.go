// Package payroll turns attendance into hours worked and pay owed.
package payroll

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/drstein77/storefront/internal/models"
)

// Period is an inclusive range of UTC calendar days.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod normalises start to the beginning of its day and end to the
// last millisecond of its day.
func NewPeriod(start, end time.Time) Period {
	s := startOfDay(start)
	e := startOfDay(end).Add(24*time.Hour - time.Millisecond)
	return Period{Start: s, End: e}
}

// LastWeek is the default payroll period: the seven days ending today.
func LastWeek(now time.Time) Period {
	return NewPeriod(now.AddDate(0, 0, -6), now)
}

func (p Period) contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// HoursForPeriod sums the closed shifts of an employee that clocked in
// within the period.
func HoursForPeriod(records []models.AttendanceRecord, employeeID string, p Period) float64 {
	var total time.Duration
	for _, rec := range records {
		if rec.EmployeeID != employeeID || rec.ClockOut == nil || !p.contains(rec.ClockIn) {
			continue
		}
		total += rec.Duration()
	}
	return total.Hours()
}

type Line struct {
	EmployeeID  string  `json:"id" csv:"employee_id"`
	Name        string  `json:"name" csv:"name"`
	Position    string  `json:"position" csv:"position"`
	HourlyRate  float64 `json:"hourlyRate" csv:"hourly_rate"`
	HoursWorked float64 `json:"hoursWorked" csv:"hours_worked"`
	TotalPay    float64 `json:"totalPay" csv:"total_pay"`
}

// Report builds a payroll line for every active employee.
func Report(employees []models.Employee, records []models.AttendanceRecord, p Period) []Line {
	lines := []Line{}
	for _, e := range employees {
		if e.Status != models.EmployeeActive {
			continue
		}
		hours := HoursForPeriod(records, e.ID, p)
		lines = append(lines, Line{
			EmployeeID:  e.ID,
			Name:        e.Name,
			Position:    e.Position,
			HourlyRate:  e.HourlyRate,
			HoursWorked: hours,
			TotalPay:    hours * e.HourlyRate,
		})
	}
	return lines
}

// WriteCSV writes the report with a header row.
func WriteCSV(w io.Writer, lines []Line) error {
	if err := gocsv.Marshal(lines, w); err != nil {
		return fmt.Errorf("marshal payroll csv: %w", err)
	}
	return nil
}
