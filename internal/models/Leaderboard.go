package models

type LeaderboardEntry struct {
	ID             int64  `json:"id"`
	DisplayName    string `json:"displayName"`
	TotalStudyTime int64  `json:"totalStudyTime"`
	Level          string `json:"level"`
	IsCurrentUser  bool   `json:"isCurrentUser"`
}

const DefaultTimeframe = "week"

var timeframes = map[string]struct{}{
	"today": {},
	"week":  {},
	"month": {},
	"all":   {},
}

// ParseTimeframe accepts the leaderboard windows, defaulting to a week.
// Rankings are all-time regardless of the window.
func ParseTimeframe(s string) (string, error) {
	if s == "" {
		return DefaultTimeframe, nil
	}
	if _, ok := timeframes[s]; !ok {
		return "", Validationf("unknown timeframe %q", s)
	}
	return s, nil
}
