package services

import (
	"context"
	"errors"
	"strings"
	"studytime/internal/models"
	"studytime/internal/providers"
)

type RegisterInput struct {
	Username    string `json:"username" validate:"required|minLen:3|maxLen:64"`
	Password    string `json:"password" validate:"required|minLen:6|maxLen:72"`
	DisplayName string `json:"displayName" validate:"maxLen:64"`
	DailyGoal   *int64 `json:"dailyGoal,omitempty"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthToken struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AccountServiceInterface interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, in LoginInput) (*AuthToken, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	UpdateUserDailyGoal(ctx context.Context, userID, seconds int64) (*models.User, error)
}

type AccountService struct {
	store       models.Store
	auth        providers.AuthProviderInterface
	leaderboard LeaderboardServiceInterface
	clock       providers.Clock
	logger      providers.Logger
}

func NewAccountService(store models.Store, auth providers.AuthProviderInterface, leaderboard LeaderboardServiceInterface, clock providers.Clock, logger providers.Logger) AccountServiceInterface {
	return &AccountService{store: store, auth: auth, leaderboard: leaderboard, clock: clock, logger: logger}
}

func (as *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	goal := models.DefaultDailyGoal
	if in.DailyGoal != nil {
		if err := requireNonNegative("dailyGoal", *in.DailyGoal); err != nil {
			return nil, err
		}
		goal = *in.DailyGoal
	}
	if in.DisplayName == "" {
		in.DisplayName = in.Username
	}

	hash, err := as.auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := as.store.Users().Create(ctx, &models.User{
		Username:     in.Username,
		PasswordHash: hash,
		DisplayName:  in.DisplayName,
		Level:        models.DefaultLevel,
		DailyGoal:    goal,
		CreatedAt:    as.clock.Now(),
	})
	if err != nil {
		return nil, err
	}
	// New users rank with zero study time, so the cached ranking is stale.
	as.leaderboard.Invalidate()
	as.logger.Infof(providers.TypeApp, "Registered user %d (%s)", u.ID, u.Username)
	return u, nil
}

func (as *AccountService) Login(ctx context.Context, in LoginInput) (*AuthToken, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	u, err := as.store.Users().GetByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if err := as.auth.CheckPassword(u.PasswordHash, in.Password); err != nil {
		return nil, err
	}
	token, err := as.auth.IssueToken(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthToken{Token: token, User: u}, nil
}

func (as *AccountService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return as.store.Users().Get(ctx, userID)
}

func (as *AccountService) UpdateUserDailyGoal(ctx context.Context, userID, seconds int64) (*models.User, error) {
	if err := requireNonNegative("dailyGoal", seconds); err != nil {
		return nil, err
	}
	return as.store.Users().SetDailyGoal(ctx, userID, seconds)
}
