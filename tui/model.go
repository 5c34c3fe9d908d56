// Package tui hosts the replay engine in a bubbletea program. The tea.Tick
// loop is the engine's frame scheduler: every tick steps the active symbol's
// playhead and repaints from the resulting frame.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/tapeview/internal/journal"
	"github.com/zappabad/tapeview/internal/replay"
	"github.com/zappabad/tapeview/tui/panels"
	"github.com/zappabad/tapeview/tui/styles"
)

// frameInterval is the tick cadence. Playback speed does not depend on it;
// the controller advances by elapsed time, not tick count.
const frameInterval = time.Second / 30

type tickMsg time.Time

type keyMap struct {
	PlayPause key.Binding
	SeekBack  key.Binding
	SeekFwd   key.Binding
	Reset     key.Binding
	End       key.Binding
	Faster    key.Binding
	Slower    key.Binding
	ZoomOut   key.Binding
	ZoomIn    key.Binding
	NextSym   key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		SeekBack:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "seek back")),
		SeekFwd:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "seek fwd")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		End:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end")),
		Faster:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slower")),
		ZoomOut:   key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "zoom out")),
		ZoomIn:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "zoom in")),
		NextSym:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next symbol")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the main TUI application model.
type Model struct {
	engine  *replay.Engine
	journal journal.Journal

	symbols []string
	active  int

	chart *panels.ChartPanel
	prog  progress.Model
	keys  keyMap

	frame     replay.Frame
	startedAt time.Time
	width     int
	height    int
	ready     bool
	quitting  bool
	statusMsg string
}

// NewModel creates the TUI model over a loaded engine.
func NewModel(engine *replay.Engine, jnl journal.Journal) *Model {
	if jnl == nil {
		jnl = journal.NewNoopJournal()
	}
	return &Model{
		engine:    engine,
		journal:   jnl,
		symbols:   engine.Symbols(),
		chart:     panels.NewChartPanel(),
		prog:      progress.New(progress.WithDefaultGradient()),
		keys:      defaultKeyMap(),
		startedAt: time.Now(),
	}
}

func (m *Model) activeSymbol() string {
	if len(m.symbols) == 0 {
		return ""
	}
	return m.symbols[m.active]
}

// Init arms the frame scheduler.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chart.SetSize(msg.Width, msg.Height-4)
		m.prog.Width = msg.Width - 24
		m.ready = true

	case tickMsg:
		if m.quitting {
			// Cancelled: no further frames are computed for the disposed
			// viewport.
			return m, nil
		}
		if sym := m.activeSymbol(); sym != "" {
			frame, err := m.engine.Step(sym)
			if err == nil {
				m.frame = frame
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sym := m.activeSymbol()
	ctrl := m.engine.Controller()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.recordSessions()
		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayPause):
		if m.frame.Playing {
			ctrl.Pause(sym)
		} else {
			ctrl.Play(sym)
		}

	case key.Matches(msg, m.keys.SeekBack):
		ctrl.SeekFraction(sym, m.frame.Progress-0.02)

	case key.Matches(msg, m.keys.SeekFwd):
		ctrl.SeekFraction(sym, m.frame.Progress+0.02)

	case key.Matches(msg, m.keys.Reset):
		ctrl.Reset(sym)

	case key.Matches(msg, m.keys.End):
		ctrl.JumpToEnd(sym)

	case key.Matches(msg, m.keys.Faster):
		if st, ok := ctrl.State(sym); ok {
			ctrl.SetDriftRate(sym, st.DriftRate*2)
		}

	case key.Matches(msg, m.keys.Slower):
		if st, ok := ctrl.State(sym); ok && st.DriftRate/2 >= 0.25 {
			ctrl.SetDriftRate(sym, st.DriftRate/2)
		}

	case key.Matches(msg, m.keys.ZoomOut):
		if st, ok := ctrl.State(sym); ok && st.ZoomFactor/2 >= 0.25 {
			ctrl.SetZoom(sym, st.ZoomFactor/2)
		}

	case key.Matches(msg, m.keys.ZoomIn):
		if st, ok := ctrl.State(sym); ok && st.ZoomFactor*2 <= 4 {
			ctrl.SetZoom(sym, st.ZoomFactor*2)
		}

	case key.Matches(msg, m.keys.NextSym):
		if len(m.symbols) > 0 {
			m.active = (m.active + 1) % len(m.symbols)
			// The incoming symbol has not been stepped while hidden; re-arm
			// its clock so it resumes from now instead of leaping forward.
			m.engine.Rearm(m.activeSymbol())
		}
	}

	// Repaint immediately after transport changes instead of waiting a tick.
	if sym != "" && !m.quitting {
		if frame, err := m.engine.Frame(m.activeSymbol()); err == nil {
			m.frame = frame
		}
	}
	return m, nil
}

// recordSessions journals every symbol's session before quitting. Failures
// are surfaced in the status line but never block shutdown.
func (m *Model) recordSessions() {
	now := time.Now()
	for _, sym := range m.symbols {
		sum, err := m.engine.Summary(sym)
		if err != nil {
			continue
		}
		completed := false
		if st, ok := m.engine.Controller().State(sym); ok {
			completed = st.Progress() >= 1
		}
		rec := &journal.SessionRecord{
			Symbol:       sym,
			StartedAt:    m.startedAt,
			EndedAt:      now,
			Bars:         sum.Bars,
			Trades:       sum.Trades,
			ClosedTrades: sum.ClosedTrades,
			RealizedPnL:  sum.RealizedPnL,
			Completed:    completed,
		}
		if err := m.journal.RecordSession(rec); err != nil {
			m.statusMsg = fmt.Sprintf("journal: %v", err)
		}
	}
}

// View renders the chart plus the transport bar.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if len(m.symbols) == 0 {
		return styles.StatusStyle.Render("No bundles loaded.")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.chart.View(m.frame),
		m.transportBar(),
		m.helpLine(),
	)
}

func (m *Model) transportBar() string {
	state := styles.PausedStyle.Render("⏸ paused")
	if m.frame.Playing {
		state = styles.PlayingStyle.Render("▶ playing")
	}

	at := time.UnixMilli(m.frame.Window.Start).UTC().Format("2006-01-02")
	pnl := lastPnL(m.frame)

	left := styles.StatusStyle.Render(fmt.Sprintf(" %s  %s  %s %s ", m.frame.Symbol, state, at, pnl))
	bar := m.prog.ViewAs(m.frame.Progress)
	return lipgloss.JoinHorizontal(lipgloss.Center, left, bar)
}

// lastPnL shows the most recent visible exit's P&L.
func lastPnL(frame replay.Frame) string {
	for i := len(frame.Markers) - 1; i >= 0; i-- {
		if txt := frame.Markers[i].PnLText; txt != "" {
			if txt[0] == '-' {
				return styles.PnLLossStyle.Render(txt)
			}
			return styles.PnLGainStyle.Render(txt)
		}
	}
	return ""
}

func (m *Model) helpLine() string {
	if m.statusMsg != "" {
		return styles.HelpStyle.Render(" " + m.statusMsg)
	}
	help := styles.HelpStyle.Render(" space play/pause · ←/→ seek · r reset · e end · +/- speed · z/x zoom · tab symbol · q quit   ")
	return help + segmentLegend()
}

// segmentLegend names the chart's background tints.
func segmentLegend() string {
	entry := func(c lipgloss.Color, name string) string {
		return lipgloss.NewStyle().Foreground(c).Render("■") + styles.SegmentLegend.Render(" "+name+"  ")
	}
	return entry(styles.MomentumColor, "momentum") +
		entry(styles.ConsolidationColor, "consolidation") +
		entry(styles.InPositionColor, "position")
}
