package services

import (
	"context"
	"fmt"
	"strings"
	"studytime/internal/models"
	"studytime/internal/providers"
	"time"
	"unicode/utf8"
)

const maxBreakTagLen = 64

// StartSessionInput carries the start request. PriorDuration is the client's
// elapsed seconds for a session it still has running; when nil the server
// measures the prior session itself.
type StartSessionInput struct {
	SubjectID     int64              `json:"subjectId"`
	Type          models.SessionType `json:"type"`
	PriorDuration *int64             `json:"priorDuration,omitempty"`
}

type SessionServiceInterface interface {
	StartSession(ctx context.Context, userID int64, in StartSessionInput) (*models.Session, error)
	EndSession(ctx context.Context, userID, sessionID, duration int64) (*models.Session, error)
	TagBreak(ctx context.Context, userID, sessionID int64, tag string) (*models.Session, error)
	GetActiveSessions(ctx context.Context, userID int64) ([]*models.Session, error)
	Reconcile(ctx context.Context, userID, sessionID, elapsed, gap int64) (*models.Reconciliation, error)
}

type SessionService struct {
	store      models.Store
	aggregator AggregatorServiceInterface
	metrics    providers.MetricsProviderInterface
	clock      providers.Clock
	logger     providers.Logger
	userLocks  *keyedMutex
}

func NewSessionService(store models.Store, aggregator AggregatorServiceInterface, metrics providers.MetricsProviderInterface, clock providers.Clock, logger providers.Logger) SessionServiceInterface {
	return &SessionService{
		store:      store,
		aggregator: aggregator,
		metrics:    metrics,
		clock:      clock,
		logger:     logger,
		userLocks:  newKeyedMutex(),
	}
}

func (ss *SessionService) StartSession(ctx context.Context, userID int64, in StartSessionInput) (*models.Session, error) {
	sessionType := in.Type
	if sessionType == 0 {
		sessionType = models.SessionStudy
	}
	if !sessionType.Valid() {
		return nil, models.Validationf("unknown session type %d", uint8(sessionType))
	}

	unlock := ss.userLocks.Lock(userID)
	defer unlock()

	if _, err := ss.ownedSubject(ctx, userID, in.SubjectID); err != nil {
		return nil, err
	}

	active, err := ss.store.Sessions().ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, prev := range active {
		d := prev.Elapsed(ss.clock.Now())
		if in.PriorDuration != nil {
			d = max(*in.PriorDuration, 0)
		}
		if _, err := ss.end(ctx, prev, d); err != nil {
			return nil, fmt.Errorf("end prior session %d: %w", prev.ID, err)
		}
	}

	created, err := ss.store.Sessions().Create(ctx, models.NewSession(userID, in.SubjectID, sessionType, ss.clock.Now()))
	if err != nil {
		return nil, err
	}
	ss.logger.Infof(providers.TypeSession, "User %d started %s session %d", userID, created.Type, created.ID)
	return created, nil
}

func (ss *SessionService) EndSession(ctx context.Context, userID, sessionID, duration int64) (*models.Session, error) {
	if err := requireNonNegative("duration", duration); err != nil {
		return nil, err
	}

	unlock := ss.userLocks.Lock(userID)
	defer unlock()

	s, err := ss.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.IsActive {
		return nil, models.NotFoundf("no active session %d", sessionID)
	}
	return ss.end(ctx, s, duration)
}

func (ss *SessionService) TagBreak(ctx context.Context, userID, sessionID int64, tag string) (*models.Session, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" || utf8.RuneCountInString(tag) > maxBreakTagLen {
		return nil, models.Validationf("break tag must be 1..%d characters", maxBreakTagLen)
	}

	unlock := ss.userLocks.Lock(userID)
	defer unlock()

	s, err := ss.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Type != models.SessionBreak {
		return nil, models.InvalidStatef("session %d is a %s session", s.ID, s.Type)
	}
	return ss.store.Sessions().SetBreakTag(ctx, s.ID, tag, ss.clock.Now())
}

func (ss *SessionService) GetActiveSessions(ctx context.Context, userID int64) ([]*models.Session, error) {
	return ss.store.Sessions().ListActiveByUser(ctx, userID)
}

// Reconcile applies the absence policy to an active study session after the
// client was hidden for gap seconds having counted elapsed seconds.
func (ss *SessionService) Reconcile(ctx context.Context, userID, sessionID, elapsed, gap int64) (*models.Reconciliation, error) {
	if err := requireNonNegative("elapsed", elapsed); err != nil {
		return nil, err
	}
	if err := requireNonNegative("gap", gap); err != nil {
		return nil, err
	}

	unlock := ss.userLocks.Lock(userID)
	defer unlock()

	current, err := ss.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !current.IsActive {
		return nil, models.NotFoundf("no active session %d", sessionID)
	}
	if current.Type != models.SessionStudy {
		return nil, models.InvalidStatef("session %d is a %s session", current.ID, current.Type)
	}

	kind := models.ClassifyGap(gap)
	gapType, ok := kind.SessionType()
	if !ok {
		return &models.Reconciliation{Kind: kind, Resumed: current}, nil
	}

	ended, err := ss.end(ctx, current, elapsed)
	if err != nil {
		return nil, err
	}

	now := ss.clock.Now()
	synthetic, err := ss.store.Sessions().Create(ctx, models.NewSession(userID, current.SubjectID, gapType, now.Add(-time.Duration(gap)*time.Second)))
	if err != nil {
		return nil, fmt.Errorf("record %s gap: %w", kind, err)
	}
	synthetic, err = ss.end(ctx, synthetic, gap)
	if err != nil {
		return nil, err
	}

	resumed, err := ss.store.Sessions().Create(ctx, models.NewSession(userID, current.SubjectID, models.SessionStudy, ss.clock.Now()))
	if err != nil {
		return nil, fmt.Errorf("resume study: %w", err)
	}
	ss.logger.Infof(providers.TypeSession, "User %d was away %ds, recorded %s session %d, resumed as %d", userID, gap, kind, synthetic.ID, resumed.ID)

	return &models.Reconciliation{
		Kind:      kind,
		Ended:     ended,
		Synthetic: synthetic,
		Resumed:   resumed,
	}, nil
}

// end must run under the user's lock.
func (ss *SessionService) end(ctx context.Context, s *models.Session, duration int64) (*models.Session, error) {
	ended, err := ss.store.Sessions().End(ctx, s.ID, duration, ss.clock.Now())
	if err != nil {
		return nil, err
	}
	ss.metrics.IncSessionsEnded(ended.Type.String())
	if err := ss.aggregator.OnSessionEnded(ctx, ended); err != nil {
		ss.logger.Errorf(providers.TypeSession, "Aggregation failed for session %d: %s", ended.ID, err)
		return ended, fmt.Errorf("aggregate session %d: %w", ended.ID, err)
	}
	return ended, nil
}

func (ss *SessionService) ownedSession(ctx context.Context, userID, sessionID int64) (*models.Session, error) {
	s, err := ss.store.Sessions().Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, models.NotFoundf("session %d", sessionID)
	}
	return s, nil
}

func (ss *SessionService) ownedSubject(ctx context.Context, userID, subjectID int64) (*models.Subject, error) {
	sub, err := ss.store.Subjects().Get(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, models.NotFoundf("subject %d", subjectID)
	}
	return sub, nil
}
