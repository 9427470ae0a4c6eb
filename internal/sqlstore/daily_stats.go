package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"studytime/internal/models"
)

type dailyStatsRepo struct {
	db *sql.DB
}

// Add upserts the (user, date) row and, for study time, the subject breakdown
// in one transaction.
func (r *dailyStatsRepo) Add(ctx context.Context, userID int64, date string, t models.SessionType, seconds int64, subjectID int64) (result *models.DailyStats, err error) {
	var study, brk, sleep int64
	switch t {
	case models.SessionStudy:
		study = seconds
	case models.SessionBreak:
		brk = seconds
	case models.SessionSleep:
		sleep = seconds
	default:
		return nil, models.Validationf("unknown session type %d", t)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin daily stats tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO daily_stats (user_id, date, study_time, break_time, sleep_time) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			study_time = study_time + excluded.study_time,
			break_time = break_time + excluded.break_time,
			sleep_time = sleep_time + excluded.sleep_time
		RETURNING id`,
		userID, date, study, brk, sleep).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("upsert daily stats: %w", err)
	}
	if t == models.SessionStudy && subjectID > 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO daily_subject_time (daily_stats_id, subject_id, seconds) VALUES (?, ?, ?)
			ON CONFLICT(daily_stats_id, subject_id) DO UPDATE SET seconds = seconds + excluded.seconds`,
			id, subjectID, seconds)
		if err != nil {
			return nil, fmt.Errorf("upsert subject breakdown: %w", err)
		}
	}

	rows, err := r.load(ctx, tx, `d.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		err = fmt.Errorf("daily stats %d vanished after upsert", id)
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit daily stats: %w", err)
	}
	return rows[0], nil
}

func (r *dailyStatsRepo) ListRange(ctx context.Context, userID int64, startDate, endDate string) ([]*models.DailyStats, error) {
	return r.load(ctx, r.db, `d.user_id = ? AND d.date BETWEEN ? AND ?`, userID, startDate, endDate)
}

// load reads daily rows matching where, joined with their breakdown entries.
func (r *dailyStatsRepo) load(ctx context.Context, q querier, where string, args ...any) ([]*models.DailyStats, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT d.id, d.user_id, d.date, d.study_time, d.break_time, d.sleep_time, b.subject_id, b.seconds
		FROM daily_stats d LEFT JOIN daily_subject_time b ON b.daily_stats_id = d.id
		WHERE `+where+` ORDER BY d.date, b.subject_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	defer rows.Close()

	result := make([]*models.DailyStats, 0)
	var current *models.DailyStats
	for rows.Next() {
		var (
			d       models.DailyStats
			subject sql.NullInt64
			secs    sql.NullInt64
		)
		if err := rows.Scan(&d.ID, &d.UserID, &d.Date, &d.StudyTime, &d.BreakTime, &d.SleepTime, &subject, &secs); err != nil {
			return nil, fmt.Errorf("scan daily stats: %w", err)
		}
		if current == nil || current.ID != d.ID {
			d.SubjectBreakdown = make(map[int64]int64)
			current = &d
			result = append(result, current)
		}
		if subject.Valid {
			current.SubjectBreakdown[subject.Int64] = secs.Int64
		}
	}
	return result, rows.Err()
}
