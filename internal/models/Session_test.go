package models

import (
	"errors"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionType_TextRoundtrip(t *testing.T) {
	for _, st := range []SessionType{SessionStudy, SessionBreak, SessionSleep} {
		text, err := st.MarshalText()
		require.NoError(t, err)

		var parsed SessionType
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, st, parsed)
	}
}

func TestSessionType_RejectsUnknown(t *testing.T) {
	_, err := ParseSessionType("nap")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = SessionType(0).MarshalText()
	assert.Error(t, err)
	assert.False(t, SessionType(9).Valid())
}

func TestSession_JSONUsesTypeNames(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewSession(1, 2, SessionBreak, now)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"break"`)
	assert.Contains(t, string(data), `"breakTag":"rest"`)
	assert.Contains(t, string(data), `"isActive":true`)
}

func TestNewSession_BreakTagOnlyForBreaks(t *testing.T) {
	now := time.Now()
	assert.Nil(t, NewSession(1, 0, SessionStudy, now).BreakTag)
	assert.Nil(t, NewSession(1, 0, SessionSleep, now).BreakTag)
	require.NotNil(t, NewSession(1, 0, SessionBreak, now).BreakTag)
}

func TestSession_Elapsed(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewSession(1, 0, SessionStudy, start)

	assert.Equal(t, int64(90), s.Elapsed(start.Add(90*time.Second)))
	assert.Equal(t, int64(0), s.Elapsed(start.Add(-time.Minute)))
}

func TestSession_CloneIsDeep(t *testing.T) {
	s := NewSession(1, 0, SessionBreak, time.Now())
	d := int64(10)
	s.Duration = &d

	c := s.Clone()
	*c.Duration = 99
	*c.BreakTag = "lunch"

	assert.Equal(t, int64(10), *s.Duration)
	assert.Equal(t, DefaultBreakTag, *s.BreakTag)
}
