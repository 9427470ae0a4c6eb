package models

import "time"

const DefaultDailyGoal int64 = 8 * 3600

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	DisplayName    string    `json:"displayName"`
	TotalStudyTime int64     `json:"totalStudyTime"`
	Level          string    `json:"level"`
	DailyGoal      int64     `json:"dailyGoal"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserRecord is the persisted shape; unlike User it keeps the password hash.
type UserRecord struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"passwordHash"`
	DisplayName    string    `json:"displayName"`
	TotalStudyTime int64     `json:"totalStudyTime"`
	Level          string    `json:"level"`
	DailyGoal      int64     `json:"dailyGoal"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (r *UserRecord) User() *User {
	return &User{
		ID:             r.ID,
		Username:       r.Username,
		PasswordHash:   r.PasswordHash,
		DisplayName:    r.DisplayName,
		TotalStudyTime: r.TotalStudyTime,
		Level:          r.Level,
		DailyGoal:      r.DailyGoal,
		CreatedAt:      r.CreatedAt,
	}
}

func NewUserRecord(u *User) *UserRecord {
	return &UserRecord{
		ID:             u.ID,
		Username:       u.Username,
		PasswordHash:   u.PasswordHash,
		DisplayName:    u.DisplayName,
		TotalStudyTime: u.TotalStudyTime,
		Level:          u.Level,
		DailyGoal:      u.DailyGoal,
		CreatedAt:      u.CreatedAt,
	}
}

type Subject struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	Name            string    `json:"name"`
	Color           string    `json:"color"`
	TargetTime      int64     `json:"targetTime"`
	DailyTargetTime int64     `json:"dailyTargetTime"`
	TotalTime       int64     `json:"totalTime"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

const NotificationAchievement = "achievement"

type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type GroupMember struct {
	ID       int64     `json:"id"`
	GroupID  int64     `json:"groupId"`
	UserID   int64     `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}
