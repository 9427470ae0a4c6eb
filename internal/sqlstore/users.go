package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"studytime/internal/models"
)

const userColumns = `id, username, password_hash, display_name, total_study_time, level, daily_goal, created_at`

type userRepo struct {
	db *sql.DB
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u       models.User
		created int64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &u.TotalStudyTime, &u.Level, &u.DailyGoal, &created); err != nil {
		return nil, err
	}
	u.CreatedAt = fromMillis(created)
	return &u, nil
}

func (r *userRepo) one(ctx context.Context, id int64, query string, args ...any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("user %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (r *userRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	created, err := scanUser(r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, display_name, total_study_time, level, daily_goal, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING `+userColumns,
		u.Username, u.PasswordHash, u.DisplayName, u.TotalStudyTime, u.Level, u.DailyGoal, toMillis(u.CreatedAt)))
	if isUniqueViolation(err) {
		return nil, models.Conflictf("username %q is taken", u.Username)
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *userRepo) Get(ctx context.Context, id int64) (*models.User, error) {
	return r.one(ctx, id, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("user %q", username)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *userRepo) AddStudyTime(ctx context.Context, id int64, seconds int64) (*models.User, error) {
	return r.one(ctx, id,
		`UPDATE users SET total_study_time = total_study_time + ? WHERE id = ? RETURNING `+userColumns,
		seconds, id)
}

// RaiseLevel compares tier ranks inside the UPDATE so a lower tier never
// overwrites a higher one, even under concurrent evaluations.
func (r *userRepo) RaiseLevel(ctx context.Context, id int64, level string) (*models.User, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET level = ?1
		WHERE id = ?2
		AND COALESCE((SELECT a.level FROM achievements a WHERE a.name = users.level), 0)
			< COALESCE((SELECT a.level FROM achievements a WHERE a.name = ?1), 0)`,
		level, id)
	if err != nil {
		return nil, fmt.Errorf("raise level: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *userRepo) SetDailyGoal(ctx context.Context, id int64, seconds int64) (*models.User, error) {
	return r.one(ctx, id,
		`UPDATE users SET daily_goal = ? WHERE id = ? RETURNING `+userColumns,
		seconds, id)
}
