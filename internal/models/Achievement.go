package models

import "time"

type Achievement struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	RequiredTime int64  `json:"requiredTime"`
	Level        int    `json:"level"`
}

type UserAchievement struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	AchievementID int64     `json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
}

// AchievementStatus is a catalog entry annotated for one user.
type AchievementStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

// Tiers is the fixed ascending tier table. IDs follow the table order.
var Tiers = []Achievement{
	{ID: 1, Name: "Student", Description: "Studied for 1 hour", Icon: "school", RequiredTime: 3600, Level: 1},
	{ID: 2, Name: "Specs Nerd", Description: "Studied for 3 hours", Icon: "smart_toy", RequiredTime: 10800, Level: 2},
	{ID: 3, Name: "Hardcore Student", Description: "Studied for 6 hours", Icon: "psychology", RequiredTime: 21600, Level: 3},
	{ID: 4, Name: "Workaholic", Description: "Studied for 8 hours", Icon: "work", RequiredTime: 28800, Level: 4},
	{ID: 5, Name: "King", Description: "Studied for 10 hours", Icon: "military_tech", RequiredTime: 36000, Level: 5},
	{ID: 6, Name: "God-level Studier", Description: "Studied for 12 hours", Icon: "self_improvement", RequiredTime: 43200, Level: 6},
}

// DefaultLevel is the level a freshly registered user displays.
var DefaultLevel = Tiers[0].Name

// TierLevel returns the tier rank for a level name, 0 if unknown.
func TierLevel(name string) int {
	for _, t := range Tiers {
		if t.Name == name {
			return t.Level
		}
	}
	return 0
}
