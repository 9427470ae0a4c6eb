package models

import "time"

const DateLayout = "2006-01-02"

type DailyStats struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"userId"`
	Date             string          `json:"date"`
	StudyTime        int64           `json:"studyTime"`
	BreakTime        int64           `json:"breakTime"`
	SleepTime        int64           `json:"sleepTime"`
	SubjectBreakdown map[int64]int64 `json:"subjectBreakdown"`
}

// DateKey is the UTC calendar date used to bucket daily stats.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func ParseDateKey(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, Validationf("date %q must use YYYY-MM-DD", s)
	}
	return t, nil
}

// Add applies seconds to the bucket of the given type. Only study time feeds the
// subject breakdown, which keeps the breakdown sum at or below StudyTime.
func (d *DailyStats) Add(t SessionType, seconds int64, subjectID int64) {
	switch t {
	case SessionStudy:
		d.StudyTime += seconds
		if subjectID > 0 {
			if d.SubjectBreakdown == nil {
				d.SubjectBreakdown = make(map[int64]int64)
			}
			d.SubjectBreakdown[subjectID] += seconds
		}
	case SessionBreak:
		d.BreakTime += seconds
	case SessionSleep:
		d.SleepTime += seconds
	}
}

func (d *DailyStats) Clone() *DailyStats {
	c := *d
	c.SubjectBreakdown = make(map[int64]int64, len(d.SubjectBreakdown))
	for k, v := range d.SubjectBreakdown {
		c.SubjectBreakdown[k] = v
	}
	return &c
}
