// Package sqlstore is the SQLite implementation of models.Store.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"studytime/internal/models"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its dialect and base FS in package globals.
var gooseMu sync.Mutex

type Store struct {
	db            *sql.DB
	users         *userRepo
	subjects      *subjectRepo
	sessions      *sessionRepo
	dailyStats    *dailyStatsRepo
	achievements  *achievementRepo
	notifications *notificationRepo
	groups        *groupRepo
}

// Open opens the database at path, applies pending migrations and seeds the
// achievement catalog.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer at a time; transactions keep their connection
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if err := seedAchievements(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:            db,
		users:         &userRepo{db: db},
		subjects:      &subjectRepo{db: db},
		sessions:      &sessionRepo{db: db},
		dailyStats:    &dailyStatsRepo{db: db},
		achievements:  &achievementRepo{db: db},
		notifications: &notificationRepo{db: db},
		groups:        &groupRepo{db: db},
	}, nil
}

func migrate(db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

func seedAchievements(db *sql.DB) error {
	for _, a := range models.Tiers {
		_, err := db.Exec(`INSERT INTO achievements (id, name, description, icon, required_time, level)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description,
				icon = excluded.icon, required_time = excluded.required_time, level = excluded.level`,
			a.ID, a.Name, a.Description, a.Icon, a.RequiredTime, a.Level)
		if err != nil {
			return fmt.Errorf("seed achievement %s: %w", a.Name, err)
		}
	}
	return nil
}

func (s *Store) Users() models.UserRepository                 { return s.users }
func (s *Store) Subjects() models.SubjectRepository           { return s.subjects }
func (s *Store) Sessions() models.SessionRepository           { return s.sessions }
func (s *Store) DailyStats() models.DailyStatsRepository      { return s.dailyStats }
func (s *Store) Achievements() models.AchievementRepository   { return s.achievements }
func (s *Store) Notifications() models.NotificationRepository { return s.notifications }
func (s *Store) Groups() models.GroupRepository               { return s.groups }

var countQueries = map[string]string{
	"users":             `SELECT COUNT(*) FROM users`,
	"subjects":          `SELECT COUNT(*) FROM subjects`,
	"sessions":          `SELECT COUNT(*) FROM sessions`,
	"active_sessions":   `SELECT COUNT(*) FROM sessions WHERE is_active = 1`,
	"daily_stats":       `SELECT COUNT(*) FROM daily_stats`,
	"user_achievements": `SELECT COUNT(*) FROM user_achievements`,
	"notifications":     `SELECT COUNT(*) FROM notifications`,
	"groups":            `SELECT COUNT(*) FROM study_groups`,
}

func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	result := make(map[string]int, len(countQueries))
	for name, q := range countQueries {
		var n int
		if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		result[name] = n
	}
	return result, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

type rowScanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
