package models

import "time"

const (
	BreakThreshold = 15 * time.Minute
	SleepThreshold = 30 * time.Minute
)

// GapKind classifies unattended time observed when a client becomes visible again.
type GapKind uint8

const (
	GapNone GapKind = iota
	GapBreak
	GapSleep
)

func (k GapKind) String() string {
	switch k {
	case GapBreak:
		return "break"
	case GapSleep:
		return "sleep"
	default:
		return "none"
	}
}

func (k GapKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *GapKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*k = GapNone
	case "break":
		*k = GapBreak
	case "sleep":
		*k = GapSleep
	default:
		return Validationf("unknown gap kind %q", text)
	}
	return nil
}

// SessionType maps a non-empty gap to the synthetic session recorded for it.
func (k GapKind) SessionType() (SessionType, bool) {
	switch k {
	case GapBreak:
		return SessionBreak, true
	case GapSleep:
		return SessionSleep, true
	default:
		return 0, false
	}
}

// ClassifyGap applies the absence policy: up to 15 minutes is absorbed,
// up to 30 minutes is a break, anything longer is sleep.
func ClassifyGap(gapSeconds int64) GapKind {
	switch {
	case gapSeconds > int64(SleepThreshold/time.Second):
		return GapSleep
	case gapSeconds > int64(BreakThreshold/time.Second):
		return GapBreak
	default:
		return GapNone
	}
}

// Reconciliation reports what a visibility reconciliation changed.
type Reconciliation struct {
	Kind      GapKind  `json:"kind"`
	Ended     *Session `json:"ended,omitempty"`
	Synthetic *Session `json:"synthetic,omitempty"`
	Resumed   *Session `json:"resumed"`
}
