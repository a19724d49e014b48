package store

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"workorder/internal/model"
)

const (
	// OptionsKey holds the pipe-delimited option list of a profile section.
	OptionsKey = "WorkOrderOptions"
	// OptionSeparator joins option values on disk and may not appear inside one.
	OptionSeparator = "|"
)

// Catalog maps profile names to their ordered list of selectable options.
type Catalog struct {
	file     string
	profiles []model.Profile
}

// NewCatalog creates a Catalog backed by file for the given profile set.
func NewCatalog(file string, profiles []model.Profile) *Catalog {
	return &Catalog{file: file, profiles: profiles}
}

// Load returns the persisted options of profile, or its default list when the
// store has no entry. Empty pieces are dropped; duplicates are kept.
func (c *Catalog) Load(profile string) []string {
	p, ok := findProfile(c.profiles, profile)
	if !ok {
		return nil
	}
	defaults := slices.Clone(p.DefaultOptions)

	f, err := readINI(c.file)
	if err != nil {
		log.Printf("Option store unreadable, using defaults for %s: %v", profile, err)
		return defaults
	}
	sec, err := f.GetSection(profile)
	if err != nil || !sec.HasKey(OptionsKey) {
		return defaults
	}
	return SplitOptions(sec.Key(OptionsKey).String())
}

// Add appends candidate to the options of profile and persists the list.
// Empty, duplicate and unserialisable candidates are rejected and nothing changes.
func (c *Catalog) Add(profile, candidate string) ([]string, error) {
	if _, ok := findProfile(c.profiles, profile); !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownProfile, profile)
	}

	current := c.Load(profile)
	candidate = strings.TrimSpace(candidate)
	if err := ValidateOption(candidate); err != nil {
		return current, err
	}
	if slices.Contains(current, candidate) {
		return current, fmt.Errorf("%w: %q", model.ErrDuplicateOption, candidate)
	}

	updated := append(current, candidate)
	if err := c.Save(profile, updated); err != nil {
		return c.Load(profile), err
	}
	return updated, nil
}

// Save writes options for profile, keeping the sections of other profiles.
func (c *Catalog) Save(profile string, options []string) error {
	if _, ok := findProfile(c.profiles, profile); !ok {
		return fmt.Errorf("%w: %q", model.ErrUnknownProfile, profile)
	}
	for _, o := range options {
		if err := ValidateOption(strings.TrimSpace(o)); err != nil {
			return err
		}
	}

	f, err := readINI(c.file)
	if err != nil {
		return err
	}
	f.Section(profile).Key(OptionsKey).SetValue(strings.Join(options, OptionSeparator))

	if err := writeINI(f, c.file); err != nil {
		return err
	}
	log.Printf("Saved %d options for %s to %s", len(options), profile, c.file)
	return nil
}

// SplitOptions splits a stored option string, trimming pieces and dropping
// empty ones.
func SplitOptions(raw string) []string {
	var options []string
	for _, piece := range strings.Split(raw, OptionSeparator) {
		if piece = strings.TrimSpace(piece); piece != "" {
			options = append(options, piece)
		}
	}
	return options
}

// ValidateOption checks that a trimmed option survives a store round-trip.
func ValidateOption(option string) error {
	if option == "" {
		return model.ErrEmptyOption
	}
	if strings.ContainsAny(option, OptionSeparator+"\r\n") {
		return fmt.Errorf("%w: %q", model.ErrInvalidOption, option)
	}
	return nil
}
