package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"studytime/internal/models"
	"time"
)

type achievementRepo struct {
	db *sql.DB
}

func (r *achievementRepo) List(ctx context.Context) ([]*models.Achievement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, icon, required_time, level FROM achievements ORDER BY level`)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()
	result := make([]*models.Achievement, 0, len(models.Tiers))
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.RequiredTime, &a.Level); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		result = append(result, &a)
	}
	return result, rows.Err()
}

func scanUserAchievement(row rowScanner) (*models.UserAchievement, error) {
	var (
		ua       models.UserAchievement
		unlocked int64
	)
	if err := row.Scan(&ua.ID, &ua.UserID, &ua.AchievementID, &unlocked); err != nil {
		return nil, err
	}
	ua.UnlockedAt = fromMillis(unlocked)
	return &ua, nil
}

func (r *achievementRepo) ListUnlocked(ctx context.Context, userID int64) ([]*models.UserAchievement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, achievement_id, unlocked_at FROM user_achievements WHERE user_id = ? ORDER BY achievement_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list unlocked achievements: %w", err)
	}
	defer rows.Close()
	result := make([]*models.UserAchievement, 0)
	for rows.Next() {
		ua, err := scanUserAchievement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user achievement: %w", err)
		}
		result = append(result, ua)
	}
	return result, rows.Err()
}

func (r *achievementRepo) Unlock(ctx context.Context, userID, achievementID int64, at time.Time) (*models.UserAchievement, bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM achievements WHERE id = ?`, achievementID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, models.NotFoundf("achievement %d", achievementID)
	}
	if err != nil {
		return nil, false, fmt.Errorf("query achievement: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO user_achievements (user_id, achievement_id, unlocked_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id, achievement_id) DO NOTHING`,
		userID, achievementID, toMillis(at))
	if err != nil {
		return nil, false, fmt.Errorf("insert user achievement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	ua, err := scanUserAchievement(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, achievement_id, unlocked_at FROM user_achievements WHERE user_id = ? AND achievement_id = ?`,
		userID, achievementID))
	if err != nil {
		return nil, false, fmt.Errorf("query user achievement: %w", err)
	}
	return ua, n > 0, nil
}
