package services

import (
	"context"
	"strings"
	"studytime/internal/models"
	"studytime/internal/providers"
)

type CreateGroupInput struct {
	Name string `json:"name" validate:"required|maxLen:64"`
}

type GroupServiceInterface interface {
	CreateGroup(ctx context.Context, userID int64, in CreateGroupInput) (*models.Group, error)
	AddMember(ctx context.Context, groupID, userID int64) (*models.GroupMember, error)
	ListGroups(ctx context.Context, userID int64) ([]*models.Group, error)
}

type GroupService struct {
	store  models.Store
	clock  providers.Clock
	logger providers.Logger
}

func NewGroupService(store models.Store, clock providers.Clock, logger providers.Logger) GroupServiceInterface {
	return &GroupService{store: store, clock: clock, logger: logger}
}

// CreateGroup makes the creator the first member.
func (gs *GroupService) CreateGroup(ctx context.Context, userID int64, in CreateGroupInput) (*models.Group, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	g, err := gs.store.Groups().Create(ctx, &models.Group{Name: in.Name, CreatedAt: gs.clock.Now()})
	if err != nil {
		return nil, err
	}
	if _, err := gs.AddMember(ctx, g.ID, userID); err != nil {
		return nil, err
	}
	return g, nil
}

func (gs *GroupService) AddMember(ctx context.Context, groupID, userID int64) (*models.GroupMember, error) {
	if _, err := gs.store.Users().Get(ctx, userID); err != nil {
		return nil, err
	}
	m, err := gs.store.Groups().AddMember(ctx, &models.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: gs.clock.Now(),
	})
	if err != nil {
		return nil, err
	}
	gs.logger.Infof(providers.TypeApp, "User %d joined group %d", userID, groupID)
	return m, nil
}

func (gs *GroupService) ListGroups(ctx context.Context, userID int64) ([]*models.Group, error) {
	return gs.store.Groups().ListByUser(ctx, userID)
}
