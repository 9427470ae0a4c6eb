package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"studytime/internal/models"
	"studytime/internal/timer"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = time.Second

type tickMsg struct{ gen uint64 }

type tickedMsg struct {
	gen uint64
	err error
}

type actionDoneMsg struct {
	label string
	err   error
}

type Model struct {
	ctx      context.Context
	r        *timer.Reflector
	loop     *timer.TickLoop
	subjects []*models.Subject
	cursor   int

	scheduled uint64
	status    string
	err       error
	tagging   bool
	tagInput  string
}

func NewModel(ctx context.Context, r *timer.Reflector, loop *timer.TickLoop, subjects []*models.Subject) Model {
	return Model{ctx: ctx, r: r, loop: loop, subjects: subjects}
}

func (m Model) Init() tea.Cmd {
	return m.action("restored", m.r.Restore)
}

// action runs fn off the update loop and reports back with actionDoneMsg.
func (m Model) action(label string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{label: label, err: fn(m.ctx)}
	}
}

// schedule starts a tick chain for the current generation unless one is
// already pending for it.
func (m *Model) schedule() tea.Cmd {
	if !m.loop.Running() {
		return nil
	}
	gen := m.loop.Generation()
	if gen == m.scheduled {
		return nil
	}
	m.scheduled = gen
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m Model) selectedSubject() (int64, bool) {
	if len(m.subjects) == 0 {
		return 0, false
	}
	return m.subjects[m.cursor].ID, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.FocusMsg:
		return m, m.action("visible", m.r.Visible)

	case tea.BlurMsg:
		m.r.Hidden()
		return m, nil

	case tickMsg:
		if !m.loop.Valid(msg.gen) {
			return m, nil
		}
		r, ctx := m.r, m.ctx
		return m, func() tea.Msg { return tickedMsg{gen: msg.gen, err: r.Tick(ctx, msg.gen)} }

	case tickedMsg:
		if msg.err != nil && !errors.Is(msg.err, timer.ErrBusy) {
			m.err = msg.err
		}
		if m.loop.Valid(msg.gen) {
			gen := msg.gen
			return m, tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
		}
		return m, m.schedule()

	case actionDoneMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.label
		}
		return m, m.schedule()

	case tea.KeyMsg:
		if m.tagging {
			return m.updateTagInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.subjects)-1 {
			m.cursor++
		}
	case "s":
		subjectID, ok := m.selectedSubject()
		if !ok {
			m.err = errors.New("create a subject first")
			return m, nil
		}
		return m, m.action("study started", func(ctx context.Context) error {
			return m.r.Start(ctx, subjectID, models.SessionStudy)
		})
	case "z":
		subjectID, ok := m.selectedSubject()
		if !ok {
			m.err = errors.New("create a subject first")
			return m, nil
		}
		return m, m.action("good night", func(ctx context.Context) error {
			return m.r.Start(ctx, subjectID, models.SessionSleep)
		})
	case "p":
		if m.r.Snapshot().State == timer.StatePaused {
			err := m.r.Resume()
			return m.Update(actionDoneMsg{label: "resumed", err: err})
		}
		err := m.r.Pause()
		return m.Update(actionDoneMsg{label: "paused", err: err})
	case "b":
		if m.r.Snapshot().State == timer.StateBreak {
			return m, m.action("break ended", m.r.EndBreak)
		}
		return m, m.action("break started", m.r.StartBreak)
	case "x":
		return m, m.action("session saved", m.r.Stop)
	case "t":
		if m.r.Snapshot().State != timer.StateBreak {
			m.err = models.InvalidStatef("only an active break can be tagged")
			return m, nil
		}
		m.tagging = true
		m.tagInput = ""
	}
	return m, nil
}

func (m Model) updateTagInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.tagging = false
	case tea.KeyEnter:
		m.tagging = false
		tag := m.tagInput
		return m, m.action("break tagged", func(ctx context.Context) error {
			return m.r.Tag(ctx, tag)
		})
	case tea.KeyBackspace:
		if n := len([]rune(m.tagInput)); n > 0 {
			m.tagInput = string([]rune(m.tagInput)[:n-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.tagInput += string(msg.Runes)
	}
	return m, nil
}

func formatElapsed(secs int64) string {
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}

func (m Model) View() string {
	snap := m.r.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render("studytime"))
	b.WriteString("  ")
	b.WriteString(stateStyle[snap.State.String()].Render(snap.State.String()))
	b.WriteString("\n\n")
	b.WriteString(clockStyle.Render(formatElapsed(snap.Elapsed)))
	b.WriteString("\n")

	if snap.State == timer.StatePaused {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("paused for %s, a break starts at %s", snap.Paused.Truncate(time.Second), models.BreakThreshold)))
		b.WriteString("\n")
	}
	if snap.Session != nil && snap.Session.BreakTag != nil && snap.State == timer.StateBreak {
		b.WriteString(mutedStyle.Render("tag: " + *snap.Session.BreakTag))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for i, s := range m.subjects {
		line := "  " + s.Name
		if i == m.cursor {
			line = selectedStyle.Render("> " + s.Name)
		}
		b.WriteString(line + "\n")
	}

	if m.tagging {
		b.WriteString("\nbreak tag: " + m.tagInput + "_\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString("\n" + mutedStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("s study · p pause/resume · b break · t tag · z sleep · x stop · q quit"))
	return b.String()
}

// Run blocks until the user quits. Terminal focus changes drive the
// reflector's visibility handling.
func Run(ctx context.Context, r *timer.Reflector, loop *timer.TickLoop, subjects []*models.Subject) error {
	p := tea.NewProgram(NewModel(ctx, r, loop, subjects), tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
