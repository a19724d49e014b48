package tui

import (
	"workorder/internal/editor"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Focus is the list receiving navigation keys.
type Focus int

const (
	FocusProfiles Focus = iota
	FocusOptions
)

// Mode selects which input the keyboard is routed to.
type Mode int

const (
	ModeBrowse    Mode = iota
	ModeAddOption      // typing a new option
	ModePaths          // editing the profile -> file mapping
)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Editor   *editor.Editor
	Session  *editor.Session
	Profiles []string
	Busy     bool

	// UI State
	ProfileIdx int // cursor in the profile list
	Focus      Focus
	Mode       Mode
	WindowSize tea.WindowSizeMsg

	// Messages
	Status    string
	Err       error
	Committed string // set once a value was written; the program then exits

	// Inputs
	OptionInput textinput.Model
	PathInputs  []textinput.Model
	PathIdx     int
}

// InitialModel returns the initial state for e with a fresh session.
func InitialModel(e *editor.Editor) AppModel {
	ti := textinput.New()
	ti.Placeholder = "New work order..."
	ti.CharLimit = 120
	ti.Width = 40

	return AppModel{
		Editor:      e,
		Session:     e.NewSession(),
		Profiles:    e.Config().ProfileNames(),
		OptionInput: ti,
	}
}

// pathInputs builds one text field per profile, prefilled with the session paths.
func (m AppModel) pathInputs() []textinput.Model {
	inputs := make([]textinput.Model, len(m.Profiles))
	for i, name := range m.Profiles {
		ti := textinput.New()
		ti.CharLimit = 1024
		ti.Width = 60
		ti.Prompt = ""
		ti.SetValue(m.Session.Paths[name])
		inputs[i] = ti
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}
	return inputs
}
