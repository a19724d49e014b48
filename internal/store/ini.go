// Package store persists the path registry and the option catalog as INI files.
//
// Both stores use the layout written by Python's configparser so that files
// created by earlier editor releases keep working:
//
//	settings.ini           options.ini
//	[Paths]                [model_1]
//	model_1 = /x/m1.ini    workorderoptions = OptionA|OptionB
//
// Keys are case-insensitive and written in lower case. Section names (profile
// names in options.ini) are case-sensitive.
package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"workorder/internal/model"
)

func loadOptions() ini.LoadOptions {
	return ini.LoadOptions{
		Loose:                   true, // a missing store reads as empty
		InsensitiveKeys:         true,
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true, // quotes are part of the value, as in configparser
	}
}

// readINI loads path, treating a missing file as empty.
func readINI(path string) (*ini.File, error) {
	f, err := ini.LoadSources(loadOptions(), path)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", model.ErrIO, path, err)
	}
	return f, nil
}

// writeINI serialises f and replaces path with it.
func writeINI(f *ini.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: create store directory: %w", model.ErrIO, err)
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("%w: encode %s: %w", model.ErrIO, path, err)
	}
	return model.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

func findProfile(profiles []model.Profile, name string) (model.Profile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	return model.Profile{}, false
}
