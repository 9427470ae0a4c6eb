package timer

import (
	"context"
	"studytime/internal/models"
)

// SessionAPI is the server surface the reflector drives.
type SessionAPI interface {
	StartSession(ctx context.Context, subjectID int64, t models.SessionType, priorDuration *int64) (*models.Session, error)
	EndSession(ctx context.Context, sessionID, duration int64) (*models.Session, error)
	TagBreak(ctx context.Context, sessionID int64, tag string) (*models.Session, error)
	ActiveSessions(ctx context.Context) ([]*models.Session, error)
	Reconcile(ctx context.Context, sessionID, elapsed, gap int64) (*models.Reconciliation, error)
}
