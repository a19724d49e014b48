// Package editor ties the path registry, option catalog and line patcher
// together around an explicit Session.
package editor

import (
	"errors"
	"fmt"
	"log"
	"maps"
	"slices"

	"workorder/internal/config"
	"workorder/internal/model"
	"workorder/internal/patch"
	"workorder/internal/store"
)

// Session is the operator's working state. It is owned by the caller and
// passed to every Editor operation.
type Session struct {
	Paths     map[string]string // profile -> target file
	Profile   string            // selected profile, "" when none
	Options   []string          // options of the selected profile
	OptionIdx int               // selected option, -1 when none
	Preview   model.Preview
}

// SelectedOption returns the chosen option, or "".
func (s *Session) SelectedOption() string {
	if s.OptionIdx < 0 || s.OptionIdx >= len(s.Options) {
		return ""
	}
	return s.Options[s.OptionIdx]
}

// ClonePaths returns a copy of the session's path mapping for editing.
func (s *Session) ClonePaths() map[string]string {
	return maps.Clone(s.Paths)
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	c := *s
	c.Paths = s.ClonePaths()
	c.Options = slices.Clone(s.Options)
	return &c
}

// Editor performs the operations behind the UI.
type Editor struct {
	cfg      *config.Config
	registry *store.Registry
	catalog  *store.Catalog
	patcher  *patch.Patcher
}

// New wires an Editor from cfg.
func New(cfg *config.Config) *Editor {
	return &Editor{
		cfg:      cfg,
		registry: store.NewRegistry(cfg.SettingsFile, cfg.Profiles),
		catalog:  store.NewCatalog(cfg.OptionsFile, cfg.Profiles),
		patcher:  patch.New(cfg.Marker, cfg.OnMissingMarker, cfg.Decode),
	}
}

// Config returns the configuration the editor was built from.
func (e *Editor) Config() *config.Config {
	return e.cfg
}

// NewSession loads the path registry into a fresh session with no selection.
func (e *Editor) NewSession() *Session {
	return &Session{
		Paths:     e.registry.Load(),
		OptionIdx: -1,
	}
}

// Select makes profile current, loads its options and refreshes the preview.
func (e *Editor) Select(s *Session, profile string) error {
	if !slices.Contains(e.cfg.ProfileNames(), profile) {
		return fmt.Errorf("%w: %q", model.ErrUnknownProfile, profile)
	}

	s.Profile = profile
	s.Options = e.catalog.Load(profile)
	s.OptionIdx = -1
	if len(s.Options) > 0 {
		s.OptionIdx = 0
	}
	s.Preview = e.Preview(s)
	return nil
}

// Preview reads the marker line of the selected profile's target file. The
// outcome is carried in the returned state rather than an error.
func (e *Editor) Preview(s *Session) model.Preview {
	if s.Profile == "" {
		return model.Preview{State: model.PreviewNoProfile}
	}
	pv, err := e.patcher.Preview(s.Paths[s.Profile])
	if err != nil && pv.State == model.PreviewError {
		log.Printf("Preview of %s failed: %v", s.Profile, err)
	}
	return pv
}

// Refresh re-reads the preview of the selected profile.
func (e *Editor) Refresh(s *Session) {
	s.Preview = e.Preview(s)
}

// AddOption appends candidate to the selected profile's options, persists
// them and selects the new option.
func (e *Editor) AddOption(s *Session, candidate string) error {
	if s.Profile == "" {
		return model.ErrNoProfile
	}
	options, err := e.catalog.Add(s.Profile, candidate)
	if err != nil {
		return err
	}
	s.Options = options
	s.OptionIdx = len(options) - 1
	return nil
}

// Commit writes value into the selected profile's target file.
func (e *Editor) Commit(s *Session, value string) error {
	if s.Profile == "" {
		return model.ErrNoProfile
	}
	if value == "" {
		return model.ErrNoValue
	}
	path := s.Paths[s.Profile]
	if err := e.patcher.Commit(path, value); err != nil {
		return err
	}
	log.Printf("Committed %q to %s (%s)", value, s.Profile, path)
	s.Preview = e.Preview(s)
	return nil
}

// CommitSummary describes the outcome of a successful Commit on s. written is
// false when no marker line was found and the file was left as it was.
func CommitSummary(s *Session) (summary string, written bool) {
	path := s.Paths[s.Profile]
	if s.Preview.State != model.PreviewOK {
		return fmt.Sprintf("%s %s: no marker line in %s, file left unchanged",
			model.IconNotFound, s.Profile, path), false
	}
	return fmt.Sprintf("%s %s: %s now reads %q", model.IconOK, s.Profile, path, s.Preview.Value), true
}

// SavePaths persists the full profile -> path mapping and adopts it.
func (e *Editor) SavePaths(s *Session, paths map[string]string) error {
	if err := e.registry.Save(paths); err != nil {
		return err
	}
	s.Paths = e.registry.Load()
	s.Preview = e.Preview(s)
	return nil
}

// Report summarises every profile for the report and json modes.
func (e *Editor) Report(s *Session) []model.ProfileReport {
	rows := make([]model.ProfileReport, 0, len(e.cfg.Profiles))
	for _, name := range e.cfg.ProfileNames() {
		path := s.Paths[name]
		pv, err := e.patcher.Preview(path)
		row := model.ProfileReport{
			Name:     name,
			Path:     path,
			Status:   pv.State.String(),
			Value:    pv.Value,
			Line:     pv.LineNumber,
			Size:     pv.Size,
			Modified: pv.ModTime,
			Options:  e.catalog.Load(name),
		}
		if err != nil && !errors.Is(err, model.ErrFileMissing) && !errors.Is(err, model.ErrMarkerNotFound) {
			row.Status = err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}
