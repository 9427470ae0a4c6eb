package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"studytime/internal/models"
)

const subjectColumns = `id, user_id, name, color, target_time, daily_target_time, total_time, created_at`

type subjectRepo struct {
	db *sql.DB
}

func scanSubject(row rowScanner) (*models.Subject, error) {
	var (
		s       models.Subject
		created int64
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Color, &s.TargetTime, &s.DailyTargetTime, &s.TotalTime, &created); err != nil {
		return nil, err
	}
	s.CreatedAt = fromMillis(created)
	return &s, nil
}

func (r *subjectRepo) one(ctx context.Context, id int64, query string, args ...any) (*models.Subject, error) {
	s, err := scanSubject(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("subject %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query subject: %w", err)
	}
	return s, nil
}

func (r *subjectRepo) Create(ctx context.Context, s *models.Subject) (*models.Subject, error) {
	created, err := scanSubject(r.db.QueryRowContext(ctx,
		`INSERT INTO subjects (user_id, name, color, target_time, daily_target_time, total_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING `+subjectColumns,
		s.UserID, s.Name, s.Color, s.TargetTime, s.DailyTargetTime, s.TotalTime, toMillis(s.CreatedAt)))
	if err != nil {
		return nil, fmt.Errorf("insert subject: %w", err)
	}
	return created, nil
}

func (r *subjectRepo) Get(ctx context.Context, id int64) (*models.Subject, error) {
	return r.one(ctx, id, `SELECT `+subjectColumns+` FROM subjects WHERE id = ?`, id)
}

func (r *subjectRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Subject, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()
	result := make([]*models.Subject, 0)
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *subjectRepo) AddTime(ctx context.Context, id int64, seconds int64) (*models.Subject, error) {
	return r.one(ctx, id,
		`UPDATE subjects SET total_time = total_time + ? WHERE id = ? RETURNING `+subjectColumns,
		seconds, id)
}

func (r *subjectRepo) SetDailyTarget(ctx context.Context, id int64, seconds int64) (*models.Subject, error) {
	return r.one(ctx, id,
		`UPDATE subjects SET daily_target_time = ? WHERE id = ? RETURNING `+subjectColumns,
		seconds, id)
}
