package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"workorder/internal/patch"
)

func writeEditorINI(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, EditorFile), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write editor.ini: %v", err)
	}
}

func TestDefault(t *testing.T) {
	dir := t.TempDir()
	cfg := Default(dir)

	wantNames := []string{"model_1", "model_2", "model_3", "model_4", "model_5"}
	if got := cfg.ProfileNames(); !reflect.DeepEqual(got, wantNames) {
		t.Fatalf("expected profiles %v, got %v", wantNames, got)
	}
	if cfg.Profiles[2].DefaultPath != filepath.Join(dir, "model_3.ini") {
		t.Fatalf("unexpected default path %q", cfg.Profiles[2].DefaultPath)
	}
	if !reflect.DeepEqual(cfg.Profiles[4].DefaultOptions, []string{"OptionM", "OptionN", "OptionO"}) {
		t.Fatalf("unexpected default options %v", cfg.Profiles[4].DefaultOptions)
	}
	if cfg.SettingsFile != filepath.Join(dir, SettingsFile) || cfg.LockFile != filepath.Join(dir, LockFile) {
		t.Fatalf("unexpected store paths: %+v", cfg)
	}
	if cfg.Marker != DefaultMarker || cfg.OnMissingMarker != patch.MissingIgnore || cfg.Decode != patch.DecodeSkip {
		t.Fatalf("unexpected editor defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_WithoutEditorFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default(dir)) {
		t.Fatalf("expected defaults when editor.ini is absent")
	}
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	writeEditorINI(t, dir, `[editor]
marker            = " WorkOrder="
on_missing_marker = append ; trailing comment
decode            = strict
options_file      = stores/options.ini

[profile lathe]
default_path    = /srv/lathe.ini
default_options = WO-1| WO-2 |

[profile mill]
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Marker != " WorkOrder=" {
		t.Fatalf("expected quoted marker to keep its space, got %q", cfg.Marker)
	}
	if cfg.OnMissingMarker != patch.MissingAppend || cfg.Decode != patch.DecodeStrict {
		t.Fatalf("unexpected policies: %v %v", cfg.OnMissingMarker, cfg.Decode)
	}
	if cfg.OptionsFile != filepath.Join(dir, "stores", "options.ini") {
		t.Fatalf("expected relative options file to resolve against base dir, got %q", cfg.OptionsFile)
	}
	if cfg.SettingsFile != filepath.Join(dir, SettingsFile) {
		t.Fatalf("expected default settings file, got %q", cfg.SettingsFile)
	}

	if got := cfg.ProfileNames(); !reflect.DeepEqual(got, []string{"lathe", "mill"}) {
		t.Fatalf("expected configured profiles, got %v", got)
	}
	if cfg.Profiles[0].DefaultPath != "/srv/lathe.ini" {
		t.Fatalf("unexpected lathe path %q", cfg.Profiles[0].DefaultPath)
	}
	if !reflect.DeepEqual(cfg.Profiles[0].DefaultOptions, []string{"WO-1", "WO-2"}) {
		t.Fatalf("unexpected lathe options %v", cfg.Profiles[0].DefaultOptions)
	}
	if cfg.Profiles[1].DefaultPath != filepath.Join(dir, "mill.ini") || len(cfg.Profiles[1].DefaultOptions) != 0 {
		t.Fatalf("unexpected mill profile %+v", cfg.Profiles[1])
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"bad policy":        "[editor]\non_missing_marker = create\n",
		"bad decode":        "[editor]\ndecode = latin1\n",
		"blank marker":      "[editor]\nmarker = \"   \"\n",
		"duplicate profile": "[profile a]\n[profile A]\n",
		"unparsable":        "[editor\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeEditorINI(t, dir, content)
			if _, err := Load(dir); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestValidate_ProfileNames(t *testing.T) {
	cfg := Default(t.TempDir())
	cfg.Profiles[0].Name = "bad=name"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid profile name to fail validation")
	}

	cfg = Default(t.TempDir())
	cfg.Profiles[0].DefaultOptions = []string{"A|B"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected option with separator to fail validation")
	}
}
