package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"studytime/internal/models"
)

type groupRepo struct {
	db *sql.DB
}

func scanGroup(row rowScanner) (*models.Group, error) {
	var (
		g       models.Group
		created int64
	)
	if err := row.Scan(&g.ID, &g.Name, &created); err != nil {
		return nil, err
	}
	g.CreatedAt = fromMillis(created)
	return &g, nil
}

func scanMember(row rowScanner) (*models.GroupMember, error) {
	var (
		m      models.GroupMember
		joined int64
	)
	if err := row.Scan(&m.ID, &m.GroupID, &m.UserID, &joined); err != nil {
		return nil, err
	}
	m.JoinedAt = fromMillis(joined)
	return &m, nil
}

func (r *groupRepo) Create(ctx context.Context, g *models.Group) (*models.Group, error) {
	created, err := scanGroup(r.db.QueryRowContext(ctx,
		`INSERT INTO study_groups (name, created_at) VALUES (?, ?) RETURNING id, name, created_at`,
		g.Name, toMillis(g.CreatedAt)))
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	return created, nil
}

func (r *groupRepo) Get(ctx context.Context, id int64) (*models.Group, error) {
	g, err := scanGroup(r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM study_groups WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("group %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query group: %w", err)
	}
	return g, nil
}

func (r *groupRepo) AddMember(ctx context.Context, m *models.GroupMember) (*models.GroupMember, error) {
	if _, err := r.Get(ctx, m.GroupID); err != nil {
		return nil, err
	}
	created, err := scanMember(r.db.QueryRowContext(ctx,
		`INSERT INTO study_group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)
		RETURNING id, group_id, user_id, joined_at`,
		m.GroupID, m.UserID, toMillis(m.JoinedAt)))
	if isUniqueViolation(err) {
		return nil, models.Conflictf("user %d is already a member of group %d", m.UserID, m.GroupID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert group member: %w", err)
	}
	return created, nil
}

func (r *groupRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Group, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.created_at FROM study_groups g
		JOIN study_group_members m ON m.group_id = g.id
		WHERE m.user_id = ? ORDER BY g.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()
	result := make([]*models.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

func (r *groupRepo) Members(ctx context.Context, groupID int64) ([]*models.GroupMember, error) {
	if _, err := r.Get(ctx, groupID); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, group_id, user_id, joined_at FROM study_group_members WHERE group_id = ? ORDER BY id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	defer rows.Close()
	result := make([]*models.GroupMember, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
