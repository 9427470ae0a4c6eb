package services

import (
	"context"
	"strings"
	"studytime/internal/models"
	"studytime/internal/providers"
)

type CreateSubjectInput struct {
	Name            string `json:"name" validate:"required|maxLen:64"`
	Color           string `json:"color" validate:"required|maxLen:32"`
	TargetTime      int64  `json:"targetTime"`
	DailyTargetTime int64  `json:"dailyTargetTime"`
}

type SubjectServiceInterface interface {
	CreateSubject(ctx context.Context, userID int64, in CreateSubjectInput) (*models.Subject, error)
	ListSubjects(ctx context.Context, userID int64) ([]*models.Subject, error)
	UpdateSubjectDailyTarget(ctx context.Context, userID, subjectID, seconds int64) (*models.Subject, error)
}

type SubjectService struct {
	store  models.Store
	clock  providers.Clock
	logger providers.Logger
}

func NewSubjectService(store models.Store, clock providers.Clock, logger providers.Logger) SubjectServiceInterface {
	return &SubjectService{store: store, clock: clock, logger: logger}
}

func (ss *SubjectService) CreateSubject(ctx context.Context, userID int64, in CreateSubjectInput) (*models.Subject, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	if err := requireNonNegative("targetTime", in.TargetTime); err != nil {
		return nil, err
	}
	if err := requireNonNegative("dailyTargetTime", in.DailyTargetTime); err != nil {
		return nil, err
	}
	if _, err := ss.store.Users().Get(ctx, userID); err != nil {
		return nil, err
	}
	return ss.store.Subjects().Create(ctx, &models.Subject{
		UserID:          userID,
		Name:            in.Name,
		Color:           in.Color,
		TargetTime:      in.TargetTime,
		DailyTargetTime: in.DailyTargetTime,
		CreatedAt:       ss.clock.Now(),
	})
}

func (ss *SubjectService) ListSubjects(ctx context.Context, userID int64) ([]*models.Subject, error) {
	return ss.store.Subjects().ListByUser(ctx, userID)
}

func (ss *SubjectService) UpdateSubjectDailyTarget(ctx context.Context, userID, subjectID, seconds int64) (*models.Subject, error) {
	if err := requireNonNegative("dailyTargetTime", seconds); err != nil {
		return nil, err
	}
	sub, err := ss.store.Subjects().Get(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, models.NotFoundf("subject %d", subjectID)
	}
	return ss.store.Subjects().SetDailyTarget(ctx, subjectID, seconds)
}
