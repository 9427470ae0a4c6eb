package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	local := time.Date(2024, 3, 2, 1, 30, 0, 0, loc)
	assert.Equal(t, "2024-03-01", DateKey(local))
}

func TestParseDateKey(t *testing.T) {
	got, err := ParseDateKey("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 29, got.Day())

	_, err = ParseDateKey("29/02/2024")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestDailyStats_Add(t *testing.T) {
	d := &DailyStats{}
	d.Add(SessionStudy, 100, 7)
	d.Add(SessionStudy, 50, 0)
	d.Add(SessionBreak, 30, 7)
	d.Add(SessionSleep, 3600, 0)

	assert.Equal(t, int64(150), d.StudyTime)
	assert.Equal(t, int64(30), d.BreakTime)
	assert.Equal(t, int64(3600), d.SleepTime)
	assert.Equal(t, map[int64]int64{7: 100}, d.SubjectBreakdown)
}

func TestDailyStats_CloneCopiesBreakdown(t *testing.T) {
	d := &DailyStats{SubjectBreakdown: map[int64]int64{1: 10}}
	c := d.Clone()
	c.SubjectBreakdown[1] = 99
	assert.Equal(t, int64(10), d.SubjectBreakdown[1])
}
