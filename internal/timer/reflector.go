package timer

import (
	"context"
	"errors"
	"studytime/internal/models"
	"studytime/internal/providers"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// ErrBusy is returned for any trigger that arrives while a server call is in flight.
var ErrBusy = errors.New("timer busy")

type State uint8

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateBreak
	StateSleep
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateBreak:
		return "break"
	case StateSleep:
		return "sleep"
	default:
		return "unknown"
	}
}

func stateFor(t models.SessionType) State {
	switch t {
	case models.SessionBreak:
		return StateBreak
	case models.SessionSleep:
		return StateSleep
	default:
		return StateRunning
	}
}

// Snapshot is a read-only copy of the reflector for rendering.
type Snapshot struct {
	State     State
	Session   *models.Session
	SubjectID int64
	Elapsed   int64
	Paused    time.Duration
	LastGap   models.GapKind
}

// Reflector mirrors the server's active session locally and turns user
// actions and visibility changes into server calls.
type Reflector struct {
	api    SessionAPI
	clock  providers.Clock
	loop   *TickLoop
	logger providers.Logger

	busy atomic.Bool

	mu        sync.Mutex
	state     State
	session   *models.Session
	subjectID int64
	elapsed   int64
	startedAt time.Time
	pausedAt  time.Time
	excluded  int64
	lastGap   models.GapKind
}

func NewReflector(api SessionAPI, clock providers.Clock, loop *TickLoop, logger providers.Logger) *Reflector {
	return &Reflector{api: api, clock: clock, loop: loop, logger: logger}
}

func (r *Reflector) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := Snapshot{
		State:     r.state,
		Session:   r.session.Clone(),
		SubjectID: r.subjectID,
		Elapsed:   r.elapsed,
		LastGap:   r.lastGap,
	}
	if r.state == StatePaused {
		snap.Paused = r.clock.Now().Sub(r.pausedAt)
	}
	return snap
}

// acquire marks a server call in flight. The returned release must be called.
func (r *Reflector) acquire() (func(), error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return func() { r.busy.Store(false) }, nil
}

// adopt makes s the tracked session with elapsed seconds already counted.
// Callers hold r.mu.
func (r *Reflector) adopt(s *models.Session, elapsed int64) {
	r.session = s
	r.subjectID = s.SubjectID
	r.elapsed = elapsed
	r.startedAt = s.StartTime
	r.excluded = 0
	r.state = stateFor(s.Type)
	if r.state == StateSleep {
		r.loop.Stop()
		return
	}
	r.loop.Restart()
}

func (r *Reflector) reset() {
	r.session = nil
	r.elapsed = 0
	r.excluded = 0
	r.state = StateIdle
	r.loop.Stop()
}

// Restore adopts whatever session the server reports as active.
func (r *Reflector) Restore(ctx context.Context) error {
	release, err := r.acquire()
	if err != nil {
		return err
	}
	defer release()

	active, err := r.api.ActiveSessions(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(active) == 0 {
		r.reset()
		return nil
	}
	s := active[0]
	r.adopt(s, s.Elapsed(r.clock.Now()))
	r.logger.Infof(providers.TypeSession, "Restored %s session %d at %ds", s.Type, s.ID, r.elapsed)
	return nil
}

// priorLocked reports the elapsed seconds of the tracked session, nil when idle.
func (r *Reflector) priorLocked() *int64 {
	if r.session == nil {
		return nil
	}
	d := r.elapsed
	return &d
}

func (r *Reflector) Start(ctx context.Context, subjectID int64, t models.SessionType) error {
	release, err := r.acquire()
	if err != nil {
		return err
	}
	defer release()
	return r.start(ctx, subjectID, t)
}

func (r *Reflector) start(ctx context.Context, subjectID int64, t models.SessionType) error {
	r.mu.Lock()
	prior := r.priorLocked()
	r.mu.Unlock()

	s, err := r.api.StartSession(ctx, subjectID, t, prior)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.adopt(s, 0)
	r.mu.Unlock()
	r.logger.Infof(providers.TypeSession, "Started %s session %d", s.Type, s.ID)
	return nil
}

func (r *Reflector) Pause() error {
	release, err := r.acquire()
	if err != nil {
		return err
	}
	defer release()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning {
		return models.InvalidStatef("cannot pause while %s", r.state)
	}
	r.state = StatePaused
	r.pausedAt = r.clock.Now()
	// The counting generation is cancelled; the new one only watches the pause.
	r.loop.Restart()
	return nil
}

func (r *Reflector) Resume() error {
	release, err := r.acquire()
	if err != nil {
		return err
	}
	defer release()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePaused {
		return models.InvalidStatef("cannot resume while %s", r.state)
	}
	r.excluded += int64(r.clock.Now().Sub(r.pausedAt) / time.Second)
	r.state = StateRunning
	r.loop.Restart()
	return nil
}

func (r *Reflector) Stop(ctx context.Context) error {
	release, err := r.acquire()
	if err != nil {
		return err
	}
	defer release()

	r.mu.Lock()
	s, elapsed := r.session, r.elapsed
	r.mu.Unlock()
	if s == nil {
		return models.InvalidStatef("no active session")
	}

	r.loop.Stop()
	if _, err := r.api.EndSession(ctx, s.ID, elapsed); err != nil {
		return err
	}

	r.mu.Lock()
	r.reset()
	r.mu.Unlock()
	r.logger.Infof(providers.TypeSession, "Ended %s session %d after %ds", s.Type, s.ID, elapsed)
	return nil
}

func (r *Reflector) StartBreak(ctx context.Context) error {
	release, err := r.acquire()
	if err != nil {
		return err
	}
	defer release()

	r.mu.Lock()
	subjectID, state := r.subjectID, r.state
	r.mu.Unlock()
	if state != StateRunning && state != StatePaused {
		return models.InvalidStatef("cannot start a break while %s", state)
	}
	return r.start(ctx, subjectID, models.SessionBreak)
}

// EndBreak closes the running break and resumes studying the same subject.
func (r *Reflector) EndBreak(ctx context.Context) error {
	release, err := r.acquire()
	if err != nil {
		return err
	}
	defer release()

	r.mu.Lock()
	subjectID, state := r.subjectID, r.state
	r.mu.Unlock()
	if state != StateBreak {
		return models.InvalidStatef("no break in progress")
	}
	return r.start(ctx, subjectID, models.SessionStudy)
}

func (r *Reflector) Tag(ctx context.Context, tag string) error {
	release, err := r.acquire()
	if err != nil {
		return err
	}
	defer release()

	r.mu.Lock()
	s, state := r.session, r.state
	r.mu.Unlock()
	if state != StateBreak || s == nil {
		return models.InvalidStatef("only an active break can be tagged")
	}

	tagged, err := r.api.TagBreak(ctx, s.ID, tag)
	if err != nil {
		return err
	}
	r.mu.Lock()
	if r.session != nil && r.session.ID == tagged.ID {
		r.session = tagged
	}
	r.mu.Unlock()
	return nil
}

// Tick advances the counter for a tick scheduled under gen. Stale ticks are
// ignored. A pause that reaches the break threshold becomes a break.
func (r *Reflector) Tick(ctx context.Context, gen uint64) error {
	if !r.loop.Valid(gen) {
		return nil
	}

	r.mu.Lock()
	switch r.state {
	case StateRunning, StateBreak:
		r.elapsed++
		r.mu.Unlock()
		return nil
	case StatePaused:
		due := r.clock.Now().Sub(r.pausedAt) >= models.BreakThreshold
		subjectID := r.subjectID
		r.mu.Unlock()
		if !due {
			return nil
		}
		release, err := r.acquire()
		if err != nil {
			return err
		}
		defer release()
		r.mu.Lock()
		still := r.state == StatePaused
		r.mu.Unlock()
		if !still {
			return nil
		}
		r.logger.Infof(providers.TypeSession, "Pause reached %s, starting a break", models.BreakThreshold)
		return r.start(ctx, subjectID, models.SessionBreak)
	default:
		r.mu.Unlock()
		return nil
	}
}

// Hidden stops counting while the client is not visible.
func (r *Reflector) Hidden() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRunning {
		r.loop.Stop()
	}
}

// Visible resumes counting after the client was hidden. An absence longer
// than the break threshold is reported to the server, which books it as a
// break or sleep and starts a fresh study session.
func (r *Reflector) Visible(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateRunning || r.session == nil {
		r.mu.Unlock()
		return nil
	}
	now := r.clock.Now()
	gap := int64(now.Sub(r.startedAt)/time.Second) - r.elapsed - r.excluded
	s, elapsed := r.session, r.elapsed
	if models.ClassifyGap(gap) == models.GapNone {
		r.lastGap = models.GapNone
		r.loop.Restart()
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	release, err := r.acquire()
	if err != nil {
		return err
	}
	defer release()

	rec, err := r.api.Reconcile(ctx, s.ID, elapsed, gap)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastGap = rec.Kind
	r.adopt(rec.Resumed, 0)
	r.logger.Infof(providers.TypeSession, "Away for %ds booked as %s, resumed with session %d", gap, rec.Kind, rec.Resumed.ID)
	return nil
}
