package models

import (
	"fmt"
	"time"
)

// SessionType is the closed set of tracked interval kinds.
type SessionType uint8

const (
	SessionStudy SessionType = iota + 1
	SessionBreak
	SessionSleep
)

const DefaultBreakTag = "rest"

func (t SessionType) String() string {
	switch t {
	case SessionStudy:
		return "study"
	case SessionBreak:
		return "break"
	case SessionSleep:
		return "sleep"
	default:
		return fmt.Sprintf("SessionType(%d)", uint8(t))
	}
}

func (t SessionType) Valid() bool {
	return t >= SessionStudy && t <= SessionSleep
}

func ParseSessionType(s string) (SessionType, error) {
	switch s {
	case "study":
		return SessionStudy, nil
	case "break":
		return SessionBreak, nil
	case "sleep":
		return SessionSleep, nil
	default:
		return 0, Validationf("unknown session type %q", s)
	}
}

func (t SessionType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid session type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *SessionType) UnmarshalText(text []byte) error {
	parsed, err := ParseSessionType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Session struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"userId"`
	SubjectID    int64       `json:"subjectId"`
	Type         SessionType `json:"type"`
	StartTime    time.Time   `json:"startTime"`
	EndTime      *time.Time  `json:"endTime"`
	Duration     *int64      `json:"duration"`
	BreakTag     *string     `json:"breakTag"`
	IsActive     bool        `json:"isActive"`
	LastSyncTime time.Time   `json:"lastSyncTime"`
}

// NewSession builds an active session starting at now.
func NewSession(userID, subjectID int64, t SessionType, now time.Time) *Session {
	s := &Session{
		UserID:       userID,
		SubjectID:    subjectID,
		Type:         t,
		StartTime:    now,
		IsActive:     true,
		LastSyncTime: now,
	}
	if t == SessionBreak {
		tag := DefaultBreakTag
		s.BreakTag = &tag
	}
	return s
}

// Elapsed returns the server-side view of how long an active session has run.
func (s *Session) Elapsed(now time.Time) int64 {
	secs := int64(now.Sub(s.StartTime) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.EndTime != nil {
		t := *s.EndTime
		c.EndTime = &t
	}
	if s.Duration != nil {
		d := *s.Duration
		c.Duration = &d
	}
	if s.BreakTag != nil {
		tag := *s.BreakTag
		c.BreakTag = &tag
	}
	return &c
}
