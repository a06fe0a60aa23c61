// Package tui provides the Bubble Tea capture interface for the timing tests.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/freqprofile/internal/generator"
	"github.com/verte-zerg/freqprofile/internal/model"
	"github.com/verte-zerg/freqprofile/internal/scoring"
)

// Phase is one capture step.
type Phase int

// Capture steps in order.
const (
	PhaseChrono Phase = iota
	PhaseTone
	PhaseBreath
	PhaseStability
	PhaseDone
)

var phaseNames = []string{"Chrono", "Tone", "Breath", "Stability", "Done"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

type breathStep int

const (
	breathWaiting breathStep = iota
	breathInhale
	breathExhale
)

const (
	tickInterval = 50 * time.Millisecond
	// Approximate cell size used to turn mouse cells into pixels.
	cellWidthPx  = 8
	cellHeightPx = 16
)

type tickMsg time.Time

// Model implements the Bubble Tea capture UI.
type Model struct {
	plan generator.Plan
	gen  *generator.Generator
	log  *zap.Logger
	now  func() time.Time

	width  int
	height int

	phase   Phase
	aborted bool
	notice  string
	bar     progress.Model
	session model.Session

	chronoRunning bool
	chronoStart   time.Time
	chronoTrials  []float64

	toneIndex   int
	toneShownAt time.Time
	toneChoices []model.ToneChoice

	breathDeep   bool
	breathStep   breathStep
	breathStart  time.Time
	lastInhaleMs float64
	cycles       []model.BreathCycle
	deepInhales  []float64
	deepExhales  []float64

	stabRunning bool
	stabStart   time.Time
	targetMoved time.Time
	targetX     float64
	targetY     float64
	pointerX    float64
	pointerY    float64
	hasPointer  bool
	samples     []model.StabilitySample
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	optionStyle  = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	targetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B37FEB")).Bold(true)
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	pendingStyle = mutedStyle
)

// Option configures a Model.
type Option func(*Model)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithLogger sets the logger. It must not write to the terminal.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.log = l }
}

// NewModel constructs a capture TUI model for the given plan.
func NewModel(plan generator.Plan, gen *generator.Generator, opts ...Option) *Model {
	m := &Model{
		plan: plan,
		gen:  gen,
		log:  zap.NewNop(),
		now:  time.Now,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Session returns the captured parts. Skipped steps stay nil.
func (m *Model) Session() model.Session {
	return m.session
}

// Aborted reports whether the user quit before finishing.
func (m *Model) Aborted() bool {
	return m.aborted
}

// Phase returns the current capture step.
func (m *Model) Phase() Phase {
	return m.phase
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(60, msg.Width-10))
		return m, nil
	case tickMsg:
		m.onTick()
		if m.phase == PhaseDone {
			return m, tea.Quit
		}
		return m, tick()
	case tea.MouseMsg:
		if m.phase == PhaseStability {
			m.pointerX = float64(msg.X*cellWidthPx + cellWidthPx/2)
			m.pointerY = float64(msg.Y*cellHeightPx + cellHeightPx/2)
			m.hasPointer = true
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			m.log.Info("capture aborted", zap.Stringer("phase", m.phase))
			return m, tea.Quit
		case "s":
			m.skipPhase()
		default:
			m.handleKey(msg)
		}
		if m.phase == PhaseDone {
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func isSpace(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeySpace || msg.String() == " "
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch m.phase {
	case PhaseChrono:
		if isSpace(msg) {
			m.toggleChrono()
		}
	case PhaseTone:
		switch msg.String() {
		case "left", "h", "1":
			m.answerTone(model.ToneLeft)
		case "right", "l", "2":
			m.answerTone(model.ToneRight)
		}
	case PhaseBreath:
		if isSpace(msg) {
			m.toggleBreath()
		}
	case PhaseStability:
		if isSpace(msg) && !m.stabRunning {
			m.startStability()
		}
	}
}

func (m *Model) onTick() {
	now := m.now()
	switch m.phase {
	case PhaseTone:
		if m.toneIndex < len(m.plan.Tones) && now.Sub(m.toneShownAt) >= time.Duration(scoring.ToneTimeLimitMs)*time.Millisecond {
			m.recordTone(model.ToneTimeout, scoring.ToneTimeLimitMs, [3]float64{})
		}
	case PhaseStability:
		if !m.stabRunning {
			return
		}
		if now.Sub(m.targetMoved) >= generator.TargetMoveInterval {
			m.moveTarget(now)
		}
		if m.hasPointer {
			m.samples = append(m.samples, model.StabilitySample{
				X:           m.pointerX,
				Y:           m.pointerY,
				TargetX:     m.targetX,
				TargetY:     m.targetY,
				TimestampMs: now.Sub(m.stabStart).Milliseconds(),
			})
		}
		if now.Sub(m.stabStart) >= m.plan.Stability {
			m.finishStability()
		}
	}
}

func (m *Model) advance() {
	m.phase++
	m.notice = ""
	if m.phase == PhaseTone {
		m.toneShownAt = m.now()
	}
	m.log.Debug("capture phase", zap.Stringer("phase", m.phase))
}

func (m *Model) skipPhase() {
	m.log.Info("capture phase skipped", zap.Stringer("phase", m.phase))
	switch m.phase {
	case PhaseChrono:
		m.finishChrono()
	case PhaseTone:
		m.finishTone()
	case PhaseBreath:
		m.finishBreath()
	case PhaseStability:
		m.stabRunning = false
		if data, err := scoring.ScoreStability(m.samples); err == nil {
			m.session.Stability = &data
		}
		m.advance()
	}
}

func (m *Model) toggleChrono() {
	now := m.now()
	if !m.chronoRunning {
		m.chronoRunning = true
		m.chronoStart = now
		return
	}
	m.chronoRunning = false
	m.chronoTrials = append(m.chronoTrials, now.Sub(m.chronoStart).Seconds())
	if len(m.chronoTrials) >= m.plan.ChronoTrials {
		m.finishChrono()
	}
}

func (m *Model) finishChrono() {
	if len(m.chronoTrials) > 0 {
		data := scoring.ScoreChrono(m.chronoTrials)
		m.session.Chrono = &data
		m.log.Info("chrono captured", zap.Int("trials", len(data.Trials)), zap.Float64("score", data.Score))
	}
	m.advance()
}

func (m *Model) answerTone(side model.ToneSide) {
	if m.toneIndex >= len(m.plan.Tones) {
		return
	}
	opt, _ := m.plan.Tones[m.toneIndex].Option(side)
	rt := float64(m.now().Sub(m.toneShownAt).Milliseconds())
	m.recordTone(side, rt, opt.Vector)
}

func (m *Model) recordTone(side model.ToneSide, rtMs float64, vec [3]float64) {
	pair := m.plan.Tones[m.toneIndex]
	m.toneChoices = append(m.toneChoices, model.ToneChoice{
		PairID:         pair.ID,
		Choice:         side,
		ReactionTimeMs: rtMs,
		Vector:         vec,
	})
	m.toneIndex++
	m.toneShownAt = m.now()
	if m.toneIndex >= len(m.plan.Tones) {
		m.finishTone()
	}
}

func (m *Model) finishTone() {
	if len(m.toneChoices) > 0 {
		data := scoring.ScoreTone(m.toneChoices)
		m.session.Tone = &data
		m.log.Info("tone captured", zap.Int("pairs", len(m.toneChoices)), zap.Float64("strength", data.Strength))
	}
	m.advance()
}

func (m *Model) toggleBreath() {
	now := m.now()
	elapsed := float64(now.Sub(m.breathStart).Milliseconds())
	switch m.breathStep {
	case breathWaiting:
		m.breathStep = breathInhale
		m.breathStart = now
	case breathInhale:
		if m.breathDeep {
			m.deepInhales = append(m.deepInhales, elapsed)
		} else {
			m.lastInhaleMs = elapsed
		}
		m.breathStep = breathExhale
		m.breathStart = now
	case breathExhale:
		if m.breathDeep {
			m.deepExhales = append(m.deepExhales, elapsed)
			m.breathStep = breathWaiting
			if len(m.deepExhales) >= m.plan.DeepBreaths {
				m.finishBreath()
			}
			return
		}
		m.closeCycle(elapsed)
		m.breathStart = now
	}
}

func (m *Model) closeCycle(exhaleMs float64) {
	if m.lastInhaleMs >= scoring.MinBreathPhaseMs && exhaleMs >= scoring.MinBreathPhaseMs {
		m.cycles = append(m.cycles, model.BreathCycle{
			InhaleMs: m.lastInhaleMs,
			ExhaleMs: exhaleMs,
			TotalMs:  m.lastInhaleMs + exhaleMs,
		})
		m.notice = ""
	} else {
		m.notice = "Cycle too short, ignored."
	}
	if len(m.cycles) >= m.plan.NaturalCycles {
		m.breathDeep = true
		m.breathStep = breathWaiting
		return
	}
	m.breathStep = breathInhale
}

func (m *Model) finishBreath() {
	if len(m.cycles) > 0 {
		data := scoring.BreathFromCapture(m.cycles, m.deepInhales, m.deepExhales)
		m.session.Breath = &data
		m.log.Info("breath captured",
			zap.Int("cycles", len(m.cycles)),
			zap.Int("deep", len(m.deepExhales)),
			zap.Float64("bpm", data.BPM),
			zap.Float64("score", data.Score))
	}
	m.advance()
}

func (m *Model) center() (float64, float64) {
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		w, h = 80, 24
	}
	return float64(w * cellWidthPx / 2), float64(h * cellHeightPx / 2)
}

func (m *Model) startStability() {
	now := m.now()
	m.stabRunning = true
	m.stabStart = now
	m.targetMoved = now
	m.targetX, m.targetY = m.center()
	m.samples = nil
	m.notice = ""
}

func (m *Model) moveTarget(now time.Time) {
	cx, cy := m.center()
	dx, dy := m.gen.TargetOffset()
	m.targetX = cx + dx
	m.targetY = cy + dy
	m.targetMoved = now
}

// finishStability scores the run. A run with too few samples stays on the
// step and asks for a retry.
func (m *Model) finishStability() {
	m.stabRunning = false
	data, err := scoring.ScoreStability(m.samples)
	if errors.Is(err, scoring.ErrInsufficientSamples) {
		m.log.Warn("stability run too short", zap.Int("samples", len(m.samples)))
		m.notice = fmt.Sprintf("Not enough movement detected (%d/%d), press space to retry.", len(m.samples), scoring.MinStabilitySamples)
		m.samples = nil
		return
	}
	if err != nil {
		m.log.Warn("stability not scored", zap.Error(err))
	} else {
		m.session.Stability = &data
		m.log.Info("stability captured", zap.Int("samples", len(m.samples)), zap.Float64("rms", data.RMS))
	}
	m.advance()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.phase == PhaseStability && m.stabRunning && m.width > 0 && m.height > 2 {
		return m.renderField() + "\n" + m.renderFooter()
	}
	contentWidth := 60
	if m.width > 0 {
		contentWidth = max(20, int(float64(m.width)*0.70))
	}
	content := m.renderPhase(contentWidth)
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderPhase(width int) string {
	lines := []string{titleStyle.Render(m.phase.String())}
	switch m.phase {
	case PhaseChrono:
		lines = append(lines,
			wrapText("Estimate ten seconds. Press space to start the clock and press it again when you feel ten seconds have passed.", width, textStyle),
			"",
			mutedStyle.Render(fmt.Sprintf("Trial %d/%d", min(len(m.chronoTrials)+1, m.plan.ChronoTrials), m.plan.ChronoTrials)),
		)
		if m.chronoRunning {
			lines = append(lines, activeStyle.Render("Counting..."))
		}
		for i, t := range m.chronoTrials {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d. %.2fs (%+.2fs)", i+1, t, t-scoring.ChronoTargetSeconds)))
		}
	case PhaseTone:
		lines = append(lines, wrapText("Pick the side that feels closer to you. Left/h/1 or right/l/2.", width, textStyle), "")
		if m.toneIndex < len(m.plan.Tones) {
			pair := m.plan.Tones[m.toneIndex]
			left := optionStyle.Render(pair.Left.Label)
			right := optionStyle.Render(pair.Right.Label)
			lines = append(lines,
				mutedStyle.Render(fmt.Sprintf("Pair %d/%d", m.toneIndex+1, len(m.plan.Tones))),
				lipgloss.JoinHorizontal(lipgloss.Center, left, "   ", right),
				m.bar.ViewAs(m.toneTimeLeft()),
			)
		}
	case PhaseBreath:
		lines = append(lines, m.renderBreath(width)...)
	case PhaseStability:
		lines = append(lines, wrapText("Keep the mouse pointer on the target while it moves. Press space to start.", width, textStyle))
	case PhaseDone:
		lines = append(lines, textStyle.Render("Capture complete."))
	}
	if m.notice != "" {
		lines = append(lines, "", noticeStyle.Render(m.notice))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBreath(width int) []string {
	var lines []string
	if m.breathDeep {
		lines = append(lines,
			wrapText("Now take slow deep breaths. Space at the start of the deep inhale, space when you begin to exhale, space when the exhale ends.", width, textStyle),
			"",
			mutedStyle.Render(fmt.Sprintf("Deep breath %d/%d", min(len(m.deepExhales)+1, m.plan.DeepBreaths), m.plan.DeepBreaths)),
		)
	} else {
		lines = append(lines,
			wrapText("Breathe naturally. Press space when an inhale starts and again when the exhale starts.", width, textStyle),
			"",
			mutedStyle.Render(fmt.Sprintf("Cycle %d/%d", min(len(m.cycles)+1, m.plan.NaturalCycles), m.plan.NaturalCycles)),
		)
	}
	steps := []string{"waiting", "inhale", "exhale"}
	for i, name := range steps {
		style := pendingStyle
		if breathStep(i) == m.breathStep {
			style = activeStyle.Underline(true)
		}
		steps[i] = style.Render(name)
	}
	return append(lines, strings.Join(steps, "  "))
}

func (m *Model) toneTimeLeft() float64 {
	elapsed := float64(m.now().Sub(m.toneShownAt).Milliseconds())
	return max(0, min(1, 1-elapsed/scoring.ToneTimeLimitMs))
}

func (m *Model) renderField() string {
	rows := m.height - 1
	col := int(m.targetX) / cellWidthPx
	row := int(m.targetY) / cellHeightPx
	elapsed := m.now().Sub(m.stabStart)
	header := mutedStyle.Render(fmt.Sprintf("Stability %s / %s", elapsed.Truncate(time.Second), m.plan.Stability))
	lines := make([]string, rows)
	lines[0] = header
	for r := 1; r < rows; r++ {
		if r != row || col < 0 || col >= m.width {
			lines[r] = ""
			continue
		}
		lines[r] = strings.Repeat(" ", col) + targetStyle.Render("◉")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) overallProgress() float64 {
	total := float64(PhaseDone)
	done := float64(m.phase)
	switch m.phase {
	case PhaseChrono:
		done += fraction(len(m.chronoTrials), m.plan.ChronoTrials)
	case PhaseTone:
		done += fraction(m.toneIndex, len(m.plan.Tones))
	case PhaseBreath:
		done += fraction(len(m.cycles)+len(m.deepExhales), m.plan.NaturalCycles+m.plan.DeepBreaths)
	case PhaseStability:
		if m.stabRunning && m.plan.Stability > 0 {
			done += min(1, float64(m.now().Sub(m.stabStart))/float64(m.plan.Stability))
		}
	}
	return min(1, done/total)
}

func fraction(n, of int) float64 {
	if of <= 0 {
		return 0
	}
	return min(1, float64(n)/float64(of))
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Step %d/%d", min(int(m.phase)+1, int(PhaseDone)), int(PhaseDone)),
		fmt.Sprintf("Progress %d%%", int(m.overallProgress()*100)),
		"s: skip",
		"esc: quit",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
