package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ganot/atelier/internal/domain/selection"
)

// KeyMap defines the key bindings for the viewer.
type KeyMap struct {
	// List navigation.
	Up   key.Binding
	Down key.Binding
	Open key.Binding

	// Tag chips.
	NextTag key.Binding
	PrevTag key.Binding

	// Search input.
	Search       key.Binding
	SearchAccept key.Binding
	SearchClear  key.Binding

	// Detail view. These are translated to selection keys and dispatched
	// on the bus rather than handled directly.
	Close    key.Binding
	Next     key.Binding
	Previous key.Binding
	Jump     key.Binding // The n-th key of the binding shows image n.

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "open"),
	),
	NextTag: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next tag"),
	),
	PrevTag: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "prev tag"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	SearchAccept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "done"),
	),
	SearchClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "close"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "next image"),
	),
	Previous: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "prev image"),
	),
	Jump: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "jump"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (keys KeyMap) listHelp() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Open, keys.NextTag, keys.Search, keys.Quit}
}

func (keys KeyMap) searchHelp() []key.Binding {
	return []key.Binding{keys.SearchAccept, keys.SearchClear}
}

func (keys KeyMap) detailHelp() []key.Binding {
	return []key.Binding{keys.Previous, keys.Next, keys.Jump, keys.Close, keys.Quit}
}

// selectionKey translates a terminal key press into the key the
// carousel controller understands. ok is false for keys that are not
// carousel keys.
func (keys KeyMap) selectionKey(message tea.KeyMsg) (selection.Key, bool) {
	switch {
	case key.Matches(message, keys.Close):
		return selection.KeyEscape, true
	case key.Matches(message, keys.Next):
		return selection.KeyArrowRight, true
	case key.Matches(message, keys.Previous):
		return selection.KeyArrowLeft, true
	default:
		return "", false
	}
}

// jumpIndex returns the image index a Jump key press selects: the position
// of the pressed key within the binding.
func (keys KeyMap) jumpIndex(message tea.KeyMsg) (int, bool) {
	if !key.Matches(message, keys.Jump) {
		return 0, false
	}
	pressed := message.String()
	for i, name := range keys.Jump.Keys() {
		if name == pressed {
			return i, true
		}
	}
	return 0, false
}
