package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"workorder/internal/config"
	"workorder/internal/editor"
	"workorder/internal/model"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (AppModel, *config.Config) {
	t.Helper()
	cfg := config.Default(t.TempDir())
	cfg.Marker = "WorkOrder="
	if err := os.WriteFile(cfg.Profiles[0].DefaultPath, []byte("x=1\nWorkOrder=old\n"), 0o644); err != nil {
		t.Fatalf("failed to write target: %v", err)
	}
	return InitialModel(editor.New(cfg)), cfg
}

func press(m AppModel, msg tea.KeyMsg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

// finish runs the background operation started by the last key and feeds its
// result back into the model.
func finish(t *testing.T, m AppModel, cmd tea.Cmd) (AppModel, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command to run")
	}
	msg, ok := cmd().(MsgSessionUpdated)
	if !ok {
		t.Fatalf("expected MsgSessionUpdated")
	}
	next, after := m.Update(msg)
	return next.(AppModel), after
}

func selectFirstProfile(t *testing.T, m AppModel) AppModel {
	t.Helper()
	m, cmd := press(m, keyEnter)
	if !m.Busy {
		t.Fatalf("expected model to be busy while selecting")
	}
	m, _ = finish(t, m, cmd)
	if m.Session.Profile != "model_1" || m.Focus != FocusOptions {
		t.Fatalf("expected model_1 selected with options focused, got %q focus %v", m.Session.Profile, m.Focus)
	}
	return m
}

func TestSelectAndCommit(t *testing.T) {
	m, cfg := newTestModel(t)
	m = selectFirstProfile(t, m)

	if m.Session.Preview.Value != "old" {
		t.Fatalf("expected preview of current value, got %+v", m.Session.Preview)
	}
	if !strings.Contains(m.View(), "OptionA") {
		t.Fatalf("expected options in view")
	}

	m, _ = press(m, keyDown)
	if m.Session.SelectedOption() != "OptionB" {
		t.Fatalf("expected OptionB selected, got %q", m.Session.SelectedOption())
	}

	m, cmd := press(m, keyEnter)
	m, after := finish(t, m, cmd)
	if m.Committed == "" {
		t.Fatalf("expected commit to be recorded, err: %v", m.Err)
	}
	if after == nil {
		t.Fatalf("expected program to quit after commit")
	}
	if _, ok := after().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}

	data, _ := os.ReadFile(cfg.Profiles[0].DefaultPath)
	if string(data) != "x=1\nWorkOrder=OptionB\n" {
		t.Fatalf("unexpected target content %q", data)
	}
}

func TestCommit_NoMarkerLineKeepsRunning(t *testing.T) {
	m, cfg := newTestModel(t)
	target := cfg.Profiles[0].DefaultPath
	if err := os.WriteFile(target, []byte("x=1\n"), 0o644); err != nil {
		t.Fatalf("failed to write target: %v", err)
	}
	m = selectFirstProfile(t, m)

	m, cmd := press(m, keyEnter)
	m, after := finish(t, m, cmd)
	if m.Committed != "" || after != nil {
		t.Fatalf("expected editor to stay open when nothing was written")
	}
	if !strings.Contains(m.Status, "file left unchanged") {
		t.Fatalf("expected unchanged-file status, got %q", m.Status)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "x=1\n" {
		t.Fatalf("unexpected target content %q", data)
	}
}

func TestCommit_FileMissingKeepsRunning(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(m, keyDown)
	m, cmd := press(m, keyEnter)
	m, _ = finish(t, m, cmd)
	if m.Session.Preview.State != model.PreviewFileMissing {
		t.Fatalf("expected file missing preview, got %v", m.Session.Preview.State)
	}

	m, cmd = press(m, keyEnter)
	m, after := finish(t, m, cmd)
	if !errors.Is(m.Err, model.ErrFileMissing) || m.Committed != "" || after != nil {
		t.Fatalf("expected ErrFileMissing without quitting, got %v", m.Err)
	}
}

func TestAddOption_RequiresProfile(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(m, runes("a"))
	if m.Mode != ModeBrowse || !errors.Is(m.Err, model.ErrNoProfile) {
		t.Fatalf("expected ErrNoProfile in browse mode, got mode %v err %v", m.Mode, m.Err)
	}
}

func TestAddOption(t *testing.T) {
	m, _ := newTestModel(t)
	m = selectFirstProfile(t, m)

	m, _ = press(m, runes("a"))
	if m.Mode != ModeAddOption {
		t.Fatalf("expected add option mode")
	}
	m, _ = press(m, runes("WO-9"))
	m, cmd := press(m, keyEnter)
	m, _ = finish(t, m, cmd)

	if m.Err != nil {
		t.Fatalf("unexpected error: %v", m.Err)
	}
	if m.Session.SelectedOption() != "WO-9" || len(m.Session.Options) != 4 {
		t.Fatalf("expected WO-9 appended and selected, got %v", m.Session.Options)
	}

	m, _ = press(m, runes("a"))
	m, _ = press(m, runes("OptionA"))
	m, cmd = press(m, keyEnter)
	m, _ = finish(t, m, cmd)
	if !errors.Is(m.Err, model.ErrDuplicateOption) {
		t.Fatalf("expected ErrDuplicateOption, got %v", m.Err)
	}
	if len(m.Session.Options) != 4 {
		t.Fatalf("expected options unchanged after rejection, got %v", m.Session.Options)
	}
}

func TestAddOption_Cancel(t *testing.T) {
	m, _ := newTestModel(t)
	m = selectFirstProfile(t, m)
	m, _ = press(m, runes("a"))
	m, _ = press(m, runes("draft"))
	m, cmd := press(m, keyEsc)
	if m.Mode != ModeBrowse || cmd != nil || len(m.Session.Options) != 3 {
		t.Fatalf("expected cancel to leave options untouched")
	}
}

func TestPathsDialog(t *testing.T) {
	m, cfg := newTestModel(t)
	m = selectFirstProfile(t, m)

	moved := filepath.Join(cfg.BaseDir, "moved.ini")
	if err := os.WriteFile(moved, []byte("WorkOrder=moved\n"), 0o644); err != nil {
		t.Fatalf("failed to write target: %v", err)
	}

	m, _ = press(m, runes("p"))
	if m.Mode != ModePaths || len(m.PathInputs) != len(cfg.Profiles) {
		t.Fatalf("expected paths dialog with one field per profile")
	}
	if m.PathInputs[0].Value() != cfg.Profiles[0].DefaultPath {
		t.Fatalf("expected field prefilled with current path, got %q", m.PathInputs[0].Value())
	}
	m.PathInputs[0].SetValue(moved)

	m, _ = press(m, keyDown)
	if m.PathIdx != 1 {
		t.Fatalf("expected second field focused, got %d", m.PathIdx)
	}

	m, cmd := press(m, keyEnter)
	m, _ = finish(t, m, cmd)
	if m.Mode != ModeBrowse || m.Session.Paths["model_1"] != moved {
		t.Fatalf("expected moved path adopted, got %v", m.Session.Paths)
	}
	if m.Session.Preview.Value != "moved" {
		t.Fatalf("expected preview from new path, got %+v", m.Session.Preview)
	}
}

func TestPathsDialog_Cancel(t *testing.T) {
	m, cfg := newTestModel(t)
	m, _ = press(m, runes("p"))
	m.PathInputs[0].SetValue("/elsewhere.ini")
	m, cmd := press(m, keyEsc)
	if m.Mode != ModeBrowse || cmd != nil || m.Session.Paths["model_1"] != cfg.Profiles[0].DefaultPath {
		t.Fatalf("expected cancel to keep paths")
	}
}

func TestNavigationBounds(t *testing.T) {
	m, cfg := newTestModel(t)
	m, _ = press(m, keyUp)
	if m.ProfileIdx != 0 {
		t.Fatalf("expected cursor to stay at top, got %d", m.ProfileIdx)
	}
	for i := 0; i < len(cfg.Profiles)+2; i++ {
		m, _ = press(m, keyDown)
	}
	if m.ProfileIdx != len(cfg.Profiles)-1 {
		t.Fatalf("expected cursor at last profile, got %d", m.ProfileIdx)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Focus != FocusProfiles {
		t.Fatalf("expected focus to stay on profiles without a selection")
	}
}

func TestBusyIgnoresKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m.Busy = true
	m, cmd := press(m, keyDown)
	if m.ProfileIdx != 0 || cmd != nil {
		t.Fatalf("expected keys to be ignored while busy")
	}
}
