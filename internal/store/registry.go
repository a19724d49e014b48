package store

import (
	"fmt"
	"log"
	"strings"

	"gopkg.in/ini.v1"

	"workorder/internal/model"
)

// PathsSection is the single section of the path store.
const PathsSection = "Paths"

// Registry maps profile names to the filesystem path of their target file.
type Registry struct {
	file     string
	profiles []model.Profile
}

// NewRegistry creates a Registry backed by file for the given profile set.
func NewRegistry(file string, profiles []model.Profile) *Registry {
	return &Registry{file: file, profiles: profiles}
}

// Load returns the persisted path of every known profile, falling back to the
// profile's default path. It never fails: an unreadable store yields defaults.
func (r *Registry) Load() map[string]string {
	paths := make(map[string]string, len(r.profiles))
	for _, p := range r.profiles {
		paths[p.Name] = p.DefaultPath
	}

	f, err := readINI(r.file)
	if err != nil {
		log.Printf("Path store unreadable, using defaults: %v", err)
		return paths
	}
	sec, err := f.GetSection(PathsSection)
	if err != nil {
		return paths
	}
	for _, p := range r.profiles {
		if sec.HasKey(p.Name) {
			paths[p.Name] = sec.Key(p.Name).String()
		}
	}
	return paths
}

// Save overwrites the store with the full mapping. Profiles missing from paths
// are written with their default path.
func (r *Registry) Save(paths map[string]string) error {
	for name := range paths {
		if _, ok := findProfile(r.profiles, name); !ok {
			return fmt.Errorf("%w: %q", model.ErrUnknownProfile, name)
		}
	}

	f := ini.Empty(loadOptions())
	sec := f.Section(PathsSection)
	for _, p := range r.profiles {
		path, ok := paths[p.Name]
		if !ok {
			path = p.DefaultPath
		}
		// The writer quotes values with outer spaces; those quotes would be read back.
		path = strings.TrimSpace(path)
		sec.Key(p.Name).SetValue(path)
	}

	if err := writeINI(f, r.file); err != nil {
		return err
	}
	log.Printf("Saved %d config paths to %s", len(r.profiles), r.file)
	return nil
}
