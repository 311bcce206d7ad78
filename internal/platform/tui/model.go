package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/engine"
)

// FrameMsg carries a committed snapshot from the engine.
type FrameMsg engine.Snapshot

// SessionEndedMsg is sent once the game session has finished.
type SessionEndedMsg struct{}

// Model is the Bubble Tea model for one game. It owns no game state:
// keys are forwarded to the engine and frames come back from it.
type Model struct {
	game   *Game
	keys   KeyMap
	help   help.Model
	screen *core.Screen
	config core.RuntimeConfig
	frame  engine.Snapshot
	ended  bool
}

// NewModel creates a model for g. cfg carries the terminal size; the
// field size is taken from the engine.
func NewModel(g *Game, keys KeyMap, cfg core.RuntimeConfig) Model {
	ec := g.engine.Config()
	cfg.FieldW, cfg.FieldH = ec.Width, ec.Height
	w, h := cfg.BoardSize()

	return Model{
		game:   g,
		keys:   keys,
		help:   help.New(),
		screen: core.NewScreen(w, h),
		config: cfg,
		frame:  g.engine.Snapshot(),
	}
}

// Init starts waiting for frames and for the end of the session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitFrame(), m.waitEnd())
}

func (m Model) waitFrame() tea.Cmd {
	return func() tea.Msg {
		s, ok := m.game.frames.next(m.game.done)
		if !ok {
			return nil
		}
		return FrameMsg(s)
	}
}

func (m Model) waitEnd() tea.Cmd {
	return func() tea.Msg {
		<-m.game.done
		return SessionEndedMsg{}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		// Frames can arrive out of order; keep the newest
		if snap := engine.Snapshot(msg); snap.Seq > m.frame.Seq {
			m.frame = snap
		}
		return m, m.waitFrame()

	case SessionEndedMsg:
		m.ended = true
		return m, tea.Quit
	}

	return m, nil
}

// handleKey forwards a bound key to the input loop.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.keys.Action(msg)
	switch a {
	case engine.ActionNone:
		return m, nil
	case engine.ActionQuit:
		// Quit must not be dropped, so it may wait for queue space
		return m, func() tea.Msg {
			m.game.sendWait(a)
			return nil
		}
	}

	if !m.game.send(a) {
		m.game.logger.Debug("input dropped", "action", a)
	}
	return m, nil
}

// Frame returns the newest snapshot the model has seen.
func (m Model) Frame() engine.Snapshot {
	return m.frame
}

// View renders the current frame to a string for display.
func (m Model) View() string {
	if m.ended {
		return ""
	}

	if m.config.ScreenW > 0 && !m.config.FitsScreen() {
		w, h := m.config.BoardSize()
		return fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d",
			w, h, m.config.ScreenW, m.config.ScreenH)
	}

	m.screen.Clear()
	DrawBoard(m.screen, m.frame)

	content := RenderScreen(m.screen)
	// Help only when there is a spare line below the board
	if m.config.ScreenH == 0 || m.config.ScreenH > m.screen.Height() {
		helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
		content = lipgloss.JoinVertical(lipgloss.Left, content, helpStyle.Render(m.help.View(m.keys)))
	}

	if m.config.ScreenW == 0 {
		return content
	}
	return lipgloss.Place(m.config.ScreenW, m.config.ScreenH, lipgloss.Center, lipgloss.Center, content)
}

// Play runs g in the local terminal and returns when the session ends.
func Play(ctx context.Context, g *Game, keys KeyMap, cfg core.RuntimeConfig) (engine.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Start(ctx)

	p := tea.NewProgram(
		NewModel(g, keys, cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	// The program may stop before the session does
	cancel()
	res, sessErr := g.Wait()
	if err != nil {
		return res, fmt.Errorf("tui: %w", err)
	}
	return res, sessErr
}
