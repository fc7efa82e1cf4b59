// Package fixtures holds the static seed data the in-memory stores start from.
package fixtures

import (
	"embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/drstein77/storefront/internal/models"
)

//go:embed data/*.yaml
var files embed.FS

// Seed is the resolved fixture set.
type Seed struct {
	Products   []models.Product
	Employees  []models.Employee
	Attendance []models.AttendanceRecord
	Orders     []models.Order
}

type attendanceFixture struct {
	ID         string `yaml:"id"`
	EmployeeID string `yaml:"employeeId"`
	DaysAgo    int    `yaml:"daysAgo"`
	ClockIn    string `yaml:"clockIn"`
	ClockOut   string `yaml:"clockOut"`
}

type employeesFile struct {
	Employees  []models.Employee   `yaml:"employees"`
	Attendance []attendanceFixture `yaml:"attendance"`
}

type orderFixture struct {
	ID      string             `yaml:"id"`
	DaysAgo int                `yaml:"daysAgo"`
	Items   []models.OrderItem `yaml:"items"`
	Total   float64            `yaml:"total"`
}

// Load decodes the embedded fixtures. Relative dates (attendance shifts and
// order dates) are resolved against now.
func Load(now time.Time) (*Seed, error) {
	var seed Seed
	if err := decode("data/products.yaml", &seed.Products); err != nil {
		return nil, err
	}

	var ef employeesFile
	if err := decode("data/employees.yaml", &ef); err != nil {
		return nil, err
	}
	seed.Employees = ef.Employees

	now = now.UTC()
	for _, a := range ef.Attendance {
		day := now.AddDate(0, 0, -a.DaysAgo)
		clockIn, err := atClock(day, a.ClockIn)
		if err != nil {
			return nil, fmt.Errorf("attendance %s: %w", a.ID, err)
		}
		rec := models.AttendanceRecord{ID: a.ID, EmployeeID: a.EmployeeID, ClockIn: clockIn}
		if a.ClockOut != "" {
			clockOut, err := atClock(day, a.ClockOut)
			if err != nil {
				return nil, fmt.Errorf("attendance %s: %w", a.ID, err)
			}
			rec.ClockOut = &clockOut
		}
		seed.Attendance = append(seed.Attendance, rec)
	}

	var orders []orderFixture
	if err := decode("data/orders.yaml", &orders); err != nil {
		return nil, err
	}
	for _, o := range orders {
		seed.Orders = append(seed.Orders, models.Order{
			ID:    o.ID,
			Date:  now.AddDate(0, 0, -o.DaysAgo),
			Items: o.Items,
			Total: o.Total,
		})
	}

	return &seed, nil
}

func decode(name string, out any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return nil
}

// atClock combines the calendar date of day with an HH:MM:SS wall clock in UTC.
func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(time.TimeOnly, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}
