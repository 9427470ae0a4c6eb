package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"studytime/internal/models"
	"time"
)

const sessionColumns = `id, user_id, subject_id, type, start_time, end_time, duration, break_tag, is_active, last_sync_time`

type sessionRepo struct {
	db *sql.DB
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		s        models.Session
		typ      string
		start    int64
		end      sql.NullInt64
		duration sql.NullInt64
		tag      sql.NullString
		lastSync int64
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.SubjectID, &typ, &start, &end, &duration, &tag, &s.IsActive, &lastSync); err != nil {
		return nil, err
	}
	t, err := models.ParseSessionType(typ)
	if err != nil {
		return nil, err
	}
	s.Type = t
	s.StartTime = fromMillis(start)
	s.LastSyncTime = fromMillis(lastSync)
	if end.Valid {
		et := fromMillis(end.Int64)
		s.EndTime = &et
	}
	if duration.Valid {
		d := duration.Int64
		s.Duration = &d
	}
	if tag.Valid {
		bt := tag.String
		s.BreakTag = &bt
	}
	return &s, nil
}

func (r *sessionRepo) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	var (
		end      sql.NullInt64
		duration sql.NullInt64
		tag      sql.NullString
	)
	if s.EndTime != nil {
		end = sql.NullInt64{Int64: toMillis(*s.EndTime), Valid: true}
	}
	if s.Duration != nil {
		duration = sql.NullInt64{Int64: *s.Duration, Valid: true}
	}
	if s.BreakTag != nil {
		tag = sql.NullString{String: *s.BreakTag, Valid: true}
	}
	created, err := scanSession(r.db.QueryRowContext(ctx,
		`INSERT INTO sessions (user_id, subject_id, type, start_time, end_time, duration, break_tag, is_active, last_sync_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING `+sessionColumns,
		s.UserID, s.SubjectID, s.Type.String(), toMillis(s.StartTime), end, duration, tag, s.IsActive, toMillis(s.LastSyncTime)))
	if isUniqueViolation(err) {
		return nil, models.Conflictf("user %d already has an active session", s.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return created, nil
}

func (r *sessionRepo) Get(ctx context.Context, id int64) (*models.Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("session %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	return s, nil
}

func (r *sessionRepo) ListActiveByUser(ctx context.Context, userID int64) ([]*models.Session, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE user_id = ? AND is_active = 1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	defer rows.Close()
	result := make([]*models.Session, 0, 1)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// End only matches active rows, so a second end finds nothing to update.
func (r *sessionRepo) End(ctx context.Context, id int64, duration int64, at time.Time) (*models.Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx,
		`UPDATE sessions SET end_time = ?1, duration = ?2, is_active = 0, last_sync_time = ?1
		WHERE id = ?3 AND is_active = 1 RETURNING `+sessionColumns,
		toMillis(at), duration, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("active session %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("end session: %w", err)
	}
	return s, nil
}

func (r *sessionRepo) SetBreakTag(ctx context.Context, id int64, tag string, at time.Time) (*models.Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx,
		`UPDATE sessions SET break_tag = ?, last_sync_time = ?
		WHERE id = ? AND type = 'break' RETURNING `+sessionColumns,
		tag, toMillis(at), id))
	if errors.Is(err, sql.ErrNoRows) {
		existing, getErr := r.Get(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, models.InvalidStatef("can only tag break sessions, session %d is %s", id, existing.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("tag session: %w", err)
	}
	return s, nil
}

func (r *sessionRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE is_active = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active sessions: %w", err)
	}
	return n, nil
}
