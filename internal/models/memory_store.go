package models

import (
	"context"

	"go.uber.org/atomic"
)

// MemoryStore keeps every collection in process memory. Each collection guards
// itself, so a mutation never spans more than one entity lock.
type MemoryStore struct {
	users         *UserStore
	subjects      *SubjectStore
	sessions      *SessionStore
	dailyStats    *DailyStatsStore
	achievements  *AchievementStore
	notifications *NotificationStore
	groups        *GroupStore
	dirty         *atomic.Bool
}

func NewMemoryStore() *MemoryStore {
	dirty := atomic.NewBool(false)
	return &MemoryStore{
		users:         NewUserStore(dirty),
		subjects:      NewSubjectStore(dirty),
		sessions:      NewSessionStore(dirty),
		dailyStats:    NewDailyStatsStore(dirty),
		achievements:  NewAchievementStore(dirty),
		notifications: NewNotificationStore(dirty),
		groups:        NewGroupStore(dirty),
		dirty:         dirty,
	}
}

func (m *MemoryStore) Users() UserRepository                 { return m.users }
func (m *MemoryStore) Subjects() SubjectRepository           { return m.subjects }
func (m *MemoryStore) Sessions() SessionRepository           { return m.sessions }
func (m *MemoryStore) DailyStats() DailyStatsRepository      { return m.dailyStats }
func (m *MemoryStore) Achievements() AchievementRepository   { return m.achievements }
func (m *MemoryStore) Notifications() NotificationRepository { return m.notifications }
func (m *MemoryStore) Groups() GroupRepository               { return m.groups }

func (m *MemoryStore) Counts(ctx context.Context) (map[string]int, error) {
	active, err := m.sessions.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int{
		"users":             m.users.Len(),
		"subjects":          m.subjects.Len(),
		"sessions":          m.sessions.Len(),
		"active_sessions":   active,
		"daily_stats":       m.dailyStats.Len(),
		"user_achievements": m.achievements.Len(),
		"notifications":     m.notifications.Len(),
		"groups":            m.groups.Len(),
	}, nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Dirty() bool { return m.dirty.Load() }

// Snapshot clears the dirty flag before copying, so writes racing with the copy
// mark the store dirty again and are picked up by the next snapshot.
func (m *MemoryStore) Snapshot() *Storage {
	m.dirty.Store(false)
	groups, members := m.groups.snapshot()
	return &Storage{
		Version:          StorageVersion,
		Users:            m.users.snapshot(),
		Subjects:         m.subjects.snapshot(),
		Sessions:         m.sessions.snapshot(),
		DailyStats:       m.dailyStats.snapshot(),
		UserAchievements: m.achievements.snapshot(),
		Notifications:    m.notifications.snapshot(),
		Groups:           groups,
		GroupMembers:     members,
	}
}

func (m *MemoryStore) Load(s *Storage) error {
	if s == nil {
		return nil
	}
	if s.Version > StorageVersion {
		return Validationf("snapshot version %d is newer than supported %d", s.Version, StorageVersion)
	}
	m.users.load(s.Users)
	m.subjects.load(s.Subjects)
	m.sessions.load(s.Sessions)
	m.dailyStats.load(s.DailyStats)
	m.achievements.load(s.UserAchievements)
	m.notifications.load(s.Notifications)
	m.groups.load(s.Groups, s.GroupMembers)
	m.dirty.Store(false)
	return nil
}
