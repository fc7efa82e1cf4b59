package fixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	now := time.Date(2024, 3, 10, 22, 0, 0, 0, time.UTC)
	seed, err := Load(now)
	require.NoError(t, err)

	assert.Len(t, seed.Products, 8)
	assert.Len(t, seed.Employees, 4)
	assert.Len(t, seed.Attendance, 6)
	assert.Len(t, seed.Orders, 8)

	boots := seed.Products[6]
	assert.Equal(t, "W003", boots.ID)
	assert.Len(t, boots.Reviews, 3)
	assert.Equal(t, 2023, boots.Reviews[0].Date.Year())

	open := seed.Attendance[1]
	assert.Nil(t, open.ClockOut)
	assert.Equal(t, time.Date(2024, 3, 10, 9, 5, 2, 0, time.UTC), open.ClockIn)

	yesterday := seed.Attendance[3]
	require.NotNil(t, yesterday.ClockOut)
	assert.Equal(t, 9, yesterday.ClockIn.Day())

	assert.Equal(t, now.AddDate(0, 0, -400), seed.Orders[6].Date)
}

func TestAtClockRejectsGarbage(t *testing.T) {
	_, err := atClock(time.Now(), "9am")
	assert.Error(t, err)
}
