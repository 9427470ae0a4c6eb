package services

import (
	"context"
	"studytime/internal/models"
)

type StatsServiceInterface interface {
	GetDailyStats(ctx context.Context, userID int64, startDate, endDate string) ([]*models.DailyStats, error)
}

type StatsService struct {
	store models.Store
}

func NewStatsService(store models.Store) StatsServiceInterface {
	return &StatsService{store: store}
}

func (ss *StatsService) GetDailyStats(ctx context.Context, userID int64, startDate, endDate string) ([]*models.DailyStats, error) {
	start, err := models.ParseDateKey(startDate)
	if err != nil {
		return nil, err
	}
	end, err := models.ParseDateKey(endDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, models.Validationf("start date %s is after end date %s", startDate, endDate)
	}
	return ss.store.DailyStats().ListRange(ctx, userID, startDate, endDate)
}
