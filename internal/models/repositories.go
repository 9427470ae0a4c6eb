package models

import (
	"context"
	"time"
)

// Lookups return ErrNotFound for unknown ids. Mutators apply their change as a
// single atomic read-modify-write on one entity and return the updated copy.

type UserRepository interface {
	Create(ctx context.Context, u *User) (*User, error)
	Get(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	AddStudyTime(ctx context.Context, id int64, seconds int64) (*User, error)
	RaiseLevel(ctx context.Context, id int64, level string) (*User, error)
	SetDailyGoal(ctx context.Context, id int64, seconds int64) (*User, error)
}

type SubjectRepository interface {
	Create(ctx context.Context, s *Subject) (*Subject, error)
	Get(ctx context.Context, id int64) (*Subject, error)
	ListByUser(ctx context.Context, userID int64) ([]*Subject, error)
	AddTime(ctx context.Context, id int64, seconds int64) (*Subject, error)
	SetDailyTarget(ctx context.Context, id int64, seconds int64) (*Subject, error)
}

type SessionRepository interface {
	// Create fails with ErrConflict when the user already has an active session.
	Create(ctx context.Context, s *Session) (*Session, error)
	Get(ctx context.Context, id int64) (*Session, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]*Session, error)
	// End flips an active session to ended. Unknown or already ended ids yield ErrNotFound.
	End(ctx context.Context, id int64, duration int64, at time.Time) (*Session, error)
	// SetBreakTag fails with ErrInvalidState for non-break sessions.
	SetBreakTag(ctx context.Context, id int64, tag string, at time.Time) (*Session, error)
	CountActive(ctx context.Context) (int, error)
}

type DailyStatsRepository interface {
	Add(ctx context.Context, userID int64, date string, t SessionType, seconds int64, subjectID int64) (*DailyStats, error)
	ListRange(ctx context.Context, userID int64, startDate, endDate string) ([]*DailyStats, error)
}

type AchievementRepository interface {
	List(ctx context.Context) ([]*Achievement, error)
	ListUnlocked(ctx context.Context, userID int64) ([]*UserAchievement, error)
	// Unlock is idempotent; created reports whether a new record was written.
	Unlock(ctx context.Context, userID, achievementID int64, at time.Time) (ua *UserAchievement, created bool, err error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	Get(ctx context.Context, id int64) (*Notification, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, id int64) (*Notification, error)
}

type GroupRepository interface {
	Create(ctx context.Context, g *Group) (*Group, error)
	Get(ctx context.Context, id int64) (*Group, error)
	// AddMember fails with ErrConflict on a duplicate membership.
	AddMember(ctx context.Context, m *GroupMember) (*GroupMember, error)
	ListByUser(ctx context.Context, userID int64) ([]*Group, error)
	Members(ctx context.Context, groupID int64) ([]*GroupMember, error)
}

// Store aggregates every collection. Implementations are built once at startup.
type Store interface {
	Users() UserRepository
	Subjects() SubjectRepository
	Sessions() SessionRepository
	DailyStats() DailyStatsRepository
	Achievements() AchievementRepository
	Notifications() NotificationRepository
	Groups() GroupRepository
	Counts(ctx context.Context) (map[string]int, error)
	Close() error
}

// SnapshotStore is implemented by stores that persist through whole-state snapshots.
type SnapshotStore interface {
	Snapshot() *Storage
	Load(s *Storage) error
	// Dirty reports whether state changed since the last Snapshot.
	Dirty() bool
}
