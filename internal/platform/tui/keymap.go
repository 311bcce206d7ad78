package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/engine"
)

// KeyMap defines the key bindings for a game.
type KeyMap struct {
	Left  key.Binding
	Right key.Binding
	Down  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Down, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Down},
		{k.Quit},
	}
}

// DefaultKeyMap returns the bindings from the built-in configuration.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(config.Default().Keys)
}

// NewKeyMap builds bindings from configured key names.
func NewKeyMap(keys config.KeysConfig) KeyMap {
	return KeyMap{
		Left:  binding(keys.Left, "move left"),
		Right: binding(keys.Right, "move right"),
		Down:  binding(keys.Down, "move down"),
		Quit:  binding(keys.Quit, "quit"),
	}
}

func binding(keys []string, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}

// Action translates a key message to an engine action.
// Unbound keys map to engine.ActionNone.
func (k KeyMap) Action(msg tea.KeyMsg) engine.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return engine.ActionQuit
	case key.Matches(msg, k.Left):
		return engine.ActionMoveLeft
	case key.Matches(msg, k.Right):
		return engine.ActionMoveRight
	case key.Matches(msg, k.Down):
		return engine.ActionMoveDown
	}
	return engine.ActionNone
}
