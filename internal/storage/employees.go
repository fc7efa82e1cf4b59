package storage

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/models"
)

const unknownEmployee = "Unknown Employee"

func (s *MemoryStorage) Employees(_ context.Context) ([]models.Employee, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return slices.Clone(s.employees), nil
}

func (s *MemoryStorage) EmployeeByID(_ context.Context, id string) (models.Employee, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	i := s.employeeIndex(id)
	if i < 0 {
		return models.Employee{}, fmt.Errorf("employee %s: %w", id, ErrNotFound)
	}
	return s.employees[i], nil
}

func (s *MemoryStorage) AddEmployee(_ context.Context, e models.Employee) (models.Employee, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	e.ID = s.newID("E")
	s.employees = append([]models.Employee{e}, s.employees...)
	s.log.Info("employee added", zap.String("id", e.ID), zap.String("name", e.Name))
	return e, nil
}

func (s *MemoryStorage) UpdateEmployee(_ context.Context, e models.Employee) (models.Employee, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	i := s.employeeIndex(e.ID)
	if i < 0 {
		return models.Employee{}, fmt.Errorf("employee %s: %w", e.ID, ErrNotFound)
	}
	s.employees[i] = e
	return e, nil
}

// DeleteEmployee removes the employee. Their attendance history is kept and
// reported under the unknown-employee name from then on.
func (s *MemoryStorage) DeleteEmployee(_ context.Context, id string) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	i := s.employeeIndex(id)
	if i < 0 {
		return fmt.Errorf("employee %s: %w", id, ErrNotFound)
	}
	s.employees = slices.Delete(s.employees, i, i+1)
	return nil
}

func (s *MemoryStorage) AttendanceRecords(_ context.Context) ([]models.AttendanceRecord, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return slices.Clone(s.attendance), nil
}

// AttendanceForDate returns the shifts that started on the UTC calendar day
// of date, ordered by clock-in.
func (s *MemoryStorage) AttendanceForDate(_ context.Context, date time.Time) ([]models.AttendanceEntry, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	day := date.UTC().Format(time.DateOnly)
	out := []models.AttendanceEntry{}
	for _, rec := range s.attendance {
		if rec.ClockIn.UTC().Format(time.DateOnly) != day {
			continue
		}
		name := unknownEmployee
		if i := s.employeeIndex(rec.EmployeeID); i >= 0 {
			name = s.employees[i].Name
		}
		out = append(out, models.AttendanceEntry{AttendanceRecord: rec, EmployeeName: name})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClockIn.Before(out[j].ClockIn) })
	return out, nil
}

func (s *MemoryStorage) AddAttendance(_ context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.employeeIndex(rec.EmployeeID) < 0 {
		return models.AttendanceRecord{}, fmt.Errorf("employee %s: %w", rec.EmployeeID, ErrNotFound)
	}
	rec.ID = s.newID("A")
	s.attendance = append(s.attendance, rec)
	return rec, nil
}

func (s *MemoryStorage) employeeIndex(id string) int {
	return slices.IndexFunc(s.employees, func(e models.Employee) bool { return e.ID == id })
}
