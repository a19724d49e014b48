package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/ini.v1"

	"workorder/internal/model"
	"workorder/internal/patch"
	"workorder/internal/store"
)

// File names resolved against the base directory.
const (
	EditorFile   = "editor.ini"
	SettingsFile = "settings.ini"
	OptionsFile  = "options.ini"
	LockFile     = "WorkOrderEditor.lock"

	// DefaultMarker is the line prefix patched in target files.
	DefaultMarker = " Your prefix"

	profileSectionPrefix = "profile "
)

// Config holds everything the editor needs to locate its stores and targets.
type Config struct {
	BaseDir         string
	SettingsFile    string
	OptionsFile     string
	LockFile        string
	Marker          string
	OnMissingMarker patch.MissingMarkerPolicy
	Decode          patch.DecodePolicy
	Profiles        []model.Profile
}

// editorSection mirrors the [editor] section of editor.ini.
type editorSection struct {
	Marker          string `ini:"marker"`
	OnMissingMarker string `ini:"on_missing_marker"`
	Decode          string `ini:"decode"`
	SettingsFile    string `ini:"settings_file"`
	OptionsFile     string `ini:"options_file"`
	LockFile        string `ini:"lock_file"`
}

// Default returns the built-in configuration rooted at baseDir: five profiles
// model_1..model_5 with target files next to the stores.
func Default(baseDir string) *Config {
	defaultOptions := [][]string{
		{"OptionA", "OptionB", "OptionC"},
		{"OptionD", "OptionE", "OptionF"},
		{"OptionG", "OptionH", "OptionI"},
		{"OptionJ", "OptionK", "OptionL"},
		{"OptionM", "OptionN", "OptionO"},
	}

	profiles := make([]model.Profile, len(defaultOptions))
	for i, opts := range defaultOptions {
		name := fmt.Sprintf("model_%d", i+1)
		profiles[i] = model.Profile{
			Name:           name,
			DefaultPath:    filepath.Join(baseDir, name+".ini"),
			DefaultOptions: opts,
		}
	}

	return &Config{
		BaseDir:         baseDir,
		SettingsFile:    filepath.Join(baseDir, SettingsFile),
		OptionsFile:     filepath.Join(baseDir, OptionsFile),
		LockFile:        filepath.Join(baseDir, LockFile),
		Marker:          DefaultMarker,
		OnMissingMarker: patch.MissingIgnore,
		Decode:          patch.DecodeSkip,
		Profiles:        profiles,
	}
}

// Load returns the defaults for baseDir overlaid with baseDir/editor.ini when
// that file exists.
func Load(baseDir string) (*Config, error) {
	cfg := Default(baseDir)

	path := filepath.Join(baseDir, EditorFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var ed editorSection
	if err := f.Section("editor").MapTo(&ed); err != nil {
		return nil, fmt.Errorf("failed to read [editor] in %s: %w", path, err)
	}
	if err := cfg.applyEditor(ed); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var profiles []model.Profile
	for _, sec := range f.Sections() {
		name, ok := strings.CutPrefix(sec.Name(), profileSectionPrefix)
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		p := model.Profile{
			Name:           name,
			DefaultPath:    cfg.resolve(sec.Key("default_path").MustString(name + ".ini")),
			DefaultOptions: store.SplitOptions(sec.Key("default_options").String()),
		}
		profiles = append(profiles, p)
	}
	if len(profiles) > 0 {
		cfg.Profiles = profiles
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEditor(ed editorSection) error {
	if ed.Marker != "" {
		c.Marker = ed.Marker
	}
	if ed.SettingsFile != "" {
		c.SettingsFile = c.resolve(ed.SettingsFile)
	}
	if ed.OptionsFile != "" {
		c.OptionsFile = c.resolve(ed.OptionsFile)
	}
	if ed.LockFile != "" {
		c.LockFile = c.resolve(ed.LockFile)
	}

	var err error
	if c.OnMissingMarker, err = patch.ParseMissingMarkerPolicy(ed.OnMissingMarker); err != nil {
		return err
	}
	if c.Decode, err = patch.ParseDecodePolicy(ed.Decode); err != nil {
		return err
	}
	return nil
}

// resolve expands ~ and makes relative paths relative to the base directory.
func (c *Config) resolve(path string) string {
	path = model.ExpandTilde(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// Validate checks the marker and the profile set.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Marker) == "" {
		return errors.New("marker must not be blank")
	}
	if strings.ContainsAny(c.Marker, "\r\n") {
		return errors.New("marker must be a single line")
	}
	if len(c.Profiles) == 0 {
		return errors.New("no profiles configured")
	}
	seen := make(map[string]bool, len(c.Profiles))
	for _, p := range c.Profiles {
		if p.Name == "" {
			return errors.New("profile name must not be empty")
		}
		if strings.ContainsAny(p.Name, "=:[]|\r\n") || strings.TrimSpace(p.Name) != p.Name {
			return fmt.Errorf("invalid profile name %q", p.Name)
		}
		if seen[strings.ToLower(p.Name)] {
			return fmt.Errorf("duplicate profile %q", p.Name)
		}
		seen[strings.ToLower(p.Name)] = true
		for _, o := range p.DefaultOptions {
			if err := store.ValidateOption(o); err != nil {
				return fmt.Errorf("profile %s: %w", p.Name, err)
			}
		}
	}
	return nil
}

// ProfileNames returns the profile names in display order.
func (c *Config) ProfileNames() []string {
	names := make([]string, len(c.Profiles))
	for i, p := range c.Profiles {
		names[i] = p.Name
	}
	return names
}

// ScriptDir returns the directory of the running binary, or of this source
// tree when run through `go run`.
func ScriptDir() (string, error) {
	if wasRunFromSrc() {
		_, fname, _, ok := runtime.Caller(0)
		if !ok {
			return "", errors.New("failed to get script filename")
		}
		// internal/config/config.go -> module root
		return filepath.Dir(filepath.Dir(filepath.Dir(fname))), nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	return filepath.Dir(exe), nil
}

func wasRunFromSrc() bool {
	buildPath := filepath.Join(os.TempDir(), "go-build")
	return strings.HasPrefix(os.Args[0], buildPath)
}
