package payroll

import (
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/drstein77/storefront/internal/models"
	"github.com/drstein77/storefront/internal/validation"
)

// EmployeeForm is the back-office add/edit employee form. StartDate is a
// calendar date (YYYY-MM-DD).
type EmployeeForm struct {
	Name       string                `json:"name"`
	Email      string                `json:"email"`
	Position   string                `json:"position"`
	StartDate  string                `json:"startDate"`
	Status     models.EmployeeStatus `json:"status"`
	HourlyRate any                   `json:"hourlyRate"`
}

func (f EmployeeForm) Employee() (models.Employee, error) {
	errs := validation.FieldErrors{}
	if validation.Blank(f.Name) {
		errs["name"] = "Name is required."
	}
	if !strings.Contains(f.Email, "@") {
		errs["email"] = "Valid email is required."
	}
	if validation.Blank(f.Position) {
		errs["position"] = "Position is required."
	}
	start, err := time.Parse(time.DateOnly, f.StartDate)
	if err != nil {
		errs["startDate"] = "Start date must be YYYY-MM-DD."
	}
	status := f.Status
	if status == "" {
		status = models.EmployeeActive
	}
	if !status.Valid() {
		errs["status"] = "Status must be active, inactive or on-leave."
	}
	rate, err := cast.ToFloat64E(f.HourlyRate)
	if err != nil || rate < 0 {
		errs["hourlyRate"] = "Hourly rate must be zero or more."
	}
	if err := errs.Err(); err != nil {
		return models.Employee{}, err
	}

	return models.Employee{
		Name:       strings.TrimSpace(f.Name),
		Email:      strings.TrimSpace(f.Email),
		Position:   strings.TrimSpace(f.Position),
		StartDate:  start,
		Status:     status,
		HourlyRate: rate,
	}, nil
}

// AttendanceForm records a shift on Date. ClockIn and ClockOut are wall
// times (HH:MM) in UTC; ClockOut may be left empty for an open shift.
type AttendanceForm struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	ClockIn    string `json:"clockIn"`
	ClockOut   string `json:"clockOut"`
}

const missingShift = "Please select an employee and provide a clock-in time."

func (f AttendanceForm) Record() (models.AttendanceRecord, error) {
	errs := validation.FieldErrors{}
	if validation.Blank(f.EmployeeID) {
		errs["employeeId"] = missingShift
	}
	day, err := time.Parse(time.DateOnly, f.Date)
	if err != nil {
		errs["date"] = "Date must be YYYY-MM-DD."
	}
	in, err := wallTime(day, f.ClockIn)
	if err != nil {
		errs["clockIn"] = missingShift
	}
	var out *time.Time
	if !validation.Blank(f.ClockOut) {
		t, err := wallTime(day, f.ClockOut)
		if err != nil {
			errs["clockOut"] = "Clock-out must be HH:MM."
		}
		out = &t
	}
	if err := errs.Err(); err != nil {
		return models.AttendanceRecord{}, err
	}

	return models.AttendanceRecord{EmployeeID: f.EmployeeID, ClockIn: in, ClockOut: out}, nil
}

func wallTime(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
