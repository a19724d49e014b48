package tui

import (
	"fmt"
	"log"
	"strings"

	"workorder/internal/editor"
	"workorder/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgSessionUpdated carries the result of an editor operation run in the
// background on a copy of the session.
type MsgSessionUpdated struct {
	Session *editor.Session
	Status  string
	Err     error
	Quit    bool // a value was committed
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		return m, nil

	case MsgSessionUpdated:
		m.Busy = false
		if msg.Err != nil {
			m.Err = msg.Err
			m.Status = ""
			return m, nil
		}
		m.Session = msg.Session
		m.Err = nil
		m.Status = msg.Status
		if msg.Quit {
			m.Committed = msg.Status
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		switch m.Mode {
		case ModeAddOption:
			return m.updateAddOption(msg)
		case ModePaths:
			return m.updatePaths(msg)
		}
		if m.Busy && msg.String() != "ctrl+c" {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m.Status = ""
			m.Err = nil
		case "tab", "shift+tab":
			if m.Focus == FocusProfiles && m.Session.Profile != "" {
				m.Focus = FocusOptions
			} else {
				m.Focus = FocusProfiles
			}
		case "up", "k":
			if m.Focus == FocusProfiles {
				if m.ProfileIdx > 0 {
					m.ProfileIdx--
				}
			} else if m.Session.OptionIdx > 0 {
				m.Session.OptionIdx--
			}
		case "down", "j":
			if m.Focus == FocusProfiles {
				if m.ProfileIdx < len(m.Profiles)-1 {
					m.ProfileIdx++
				}
			} else if m.Session.OptionIdx < len(m.Session.Options)-1 {
				m.Session.OptionIdx++
			}
		case "enter", " ":
			if m.Focus == FocusProfiles {
				if len(m.Profiles) == 0 {
					return m, nil
				}
				name := m.Profiles[m.ProfileIdx]
				m.Focus = FocusOptions
				return m.run(func(e *editor.Editor, s *editor.Session) error {
					return e.Select(s, name)
				}, "")
			}
			if msg.String() == "enter" {
				return m.commit()
			}
		case "r":
			return m.run(func(e *editor.Editor, s *editor.Session) error {
				e.Refresh(s)
				return nil
			}, "Preview refreshed")
		case "a":
			if m.Session.Profile == "" {
				m.Err = model.ErrNoProfile
				return m, nil
			}
			m.Mode = ModeAddOption
			m.Err = nil
			m.OptionInput.SetValue("")
			return m, m.OptionInput.Focus()
		case "p", "ctrl+p":
			m.Mode = ModePaths
			m.Err = nil
			m.PathInputs = m.pathInputs()
			m.PathIdx = 0
			return m, textinput.Blink
		}
	}

	return m, cmd
}

func (m AppModel) updateAddOption(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.Type {
	case tea.KeyEnter:
		candidate := m.OptionInput.Value()
		m.Mode = ModeBrowse
		m.OptionInput.Blur()
		m.Focus = FocusOptions
		return m.run(func(e *editor.Editor, s *editor.Session) error {
			return e.AddOption(s, candidate)
		}, fmt.Sprintf("Added option %q", strings.TrimSpace(candidate)))
	case tea.KeyEsc:
		m.Mode = ModeBrowse
		m.OptionInput.Blur()
		return m, nil
	}
	m.OptionInput, cmd = m.OptionInput.Update(msg)
	return m, cmd
}

func (m AppModel) updatePaths(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "esc":
		m.Mode = ModeBrowse
		m.PathInputs = nil
		return m, nil
	case "enter":
		paths := m.Session.ClonePaths()
		for i, name := range m.Profiles {
			paths[name] = model.ExpandTilde(strings.TrimSpace(m.PathInputs[i].Value()))
		}
		m.Mode = ModeBrowse
		m.PathInputs = nil
		return m.run(func(e *editor.Editor, s *editor.Session) error {
			return e.SavePaths(s, paths)
		}, "Paths saved")
	case "tab", "down":
		return m.focusPath(m.PathIdx + 1), nil
	case "shift+tab", "up":
		return m.focusPath(m.PathIdx - 1), nil
	}
	if len(m.PathInputs) == 0 {
		return m, nil
	}
	m.PathInputs[m.PathIdx], cmd = m.PathInputs[m.PathIdx].Update(msg)
	return m, cmd
}

func (m AppModel) focusPath(idx int) AppModel {
	n := len(m.PathInputs)
	if n == 0 {
		return m
	}
	idx = (idx%n + n) % n
	m.PathInputs[m.PathIdx].Blur()
	m.PathIdx = idx
	m.PathInputs[idx].Focus()
	return m
}

// commit writes the selected option. The program exits only when the file
// actually changed.
func (m AppModel) commit() (tea.Model, tea.Cmd) {
	value := m.Session.SelectedOption()
	m.Busy = true
	e, s := m.Editor, m.Session.Clone()
	return m, func() tea.Msg {
		if err := e.Commit(s, value); err != nil {
			log.Printf("Commit failed: %v", err)
			return MsgSessionUpdated{Err: err}
		}
		summary, written := editor.CommitSummary(s)
		return MsgSessionUpdated{Session: s, Status: summary, Quit: written}
	}
}

// run executes op against a copy of the session in a command. The result is
// adopted in Update when it arrives.
func (m AppModel) run(op func(*editor.Editor, *editor.Session) error, status string) (tea.Model, tea.Cmd) {
	m.Busy = true
	e, s := m.Editor, m.Session.Clone()
	return m, func() tea.Msg {
		if err := op(e, s); err != nil {
			log.Printf("Operation failed: %v", err)
			return MsgSessionUpdated{Err: err}
		}
		return MsgSessionUpdated{Session: s, Status: status}
	}
}
