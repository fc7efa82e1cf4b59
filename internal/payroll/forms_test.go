package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drstein77/storefront/internal/models"
	"github.com/drstein77/storefront/internal/validation"
)

func TestEmployeeForm(t *testing.T) {
	e, err := EmployeeForm{
		Name:       "Dana Reyes",
		Email:      "dana@example.com",
		Position:   "Stylist",
		StartDate:  "2023-04-01",
		HourlyRate: "21.5",
	}.Employee()
	require.NoError(t, err)
	assert.Equal(t, models.EmployeeActive, e.Status)
	assert.Equal(t, 21.5, e.HourlyRate)
	assert.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), e.StartDate)

	_, err = EmployeeForm{Status: "retired", HourlyRate: -3}.Employee()
	var fe validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	for _, field := range []string{"name", "email", "position", "startDate", "status", "hourlyRate"} {
		assert.Contains(t, fe, field)
	}
}

func TestAttendanceForm(t *testing.T) {
	rec, err := AttendanceForm{EmployeeID: "E001", Date: "2024-03-05", ClockIn: "09:00", ClockOut: "17:30"}.Record()
	require.NoError(t, err)
	assert.Equal(t, at("2024-03-05", "09:00:00"), rec.ClockIn)
	require.NotNil(t, rec.ClockOut)
	assert.Equal(t, 8*time.Hour+30*time.Minute, rec.Duration())

	open, err := AttendanceForm{EmployeeID: "E001", Date: "2024-03-05", ClockIn: "09:00"}.Record()
	require.NoError(t, err)
	assert.Nil(t, open.ClockOut)

	_, err = AttendanceForm{Date: "2024-03-05"}.Record()
	var fe validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, missingShift, fe["employeeId"])
	assert.Equal(t, missingShift, fe["clockIn"])
}
