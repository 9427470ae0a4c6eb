package models

const StorageVersion = 1

// Storage is the snapshot envelope of the in-memory store.
type Storage struct {
	Version          int                `json:"version"`
	Users            []*UserRecord      `json:"users"`
	Subjects         []*Subject         `json:"subjects"`
	Sessions         []*Session         `json:"sessions"`
	DailyStats       []*DailyStats      `json:"daily_stats"`
	UserAchievements []*UserAchievement `json:"user_achievements"`
	Notifications    []*Notification    `json:"notifications"`
	Groups           []*Group           `json:"groups"`
	GroupMembers     []*GroupMember     `json:"group_members"`
}
