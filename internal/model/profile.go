package model

import "time"

// Profile is a named configuration target with its own file path and option list.
type Profile struct {
	Name           string   // Identifier shown to the operator (e.g., model_1)
	DefaultPath    string   // Target file used when the path store has no entry
	DefaultOptions []string // Options used when the option store has no entry
}

// PreviewState describes what was found when reading a target file.
type PreviewState int

const (
	PreviewNoProfile PreviewState = iota
	PreviewOK
	PreviewFileMissing
	PreviewMarkerNotFound
	PreviewError
)

func (s PreviewState) String() string {
	switch s {
	case PreviewOK:
		return "ok"
	case PreviewFileMissing:
		return "file missing"
	case PreviewMarkerNotFound:
		return "marker not found"
	case PreviewError:
		return "error"
	default:
		return "no profile"
	}
}

// Preview is the live value of the marker line in a target file.
type Preview struct {
	State      PreviewState
	Path       string
	Value      string    // Text after the first '=' on the marker line
	LineNumber int       // 1-based line of the marker, 0 if not found
	Size       int64     // Target file size in bytes
	ModTime    time.Time // Target file modification time
	Context    LineContext
	Err        error // Set when State is PreviewError
}

// ProfileReport is one row of the report/json output modes.
type ProfileReport struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Status   string    `json:"status"`
	Value    string    `json:"value,omitempty"`
	Line     int       `json:"line,omitempty"`
	Size     int64     `json:"size,omitempty"`
	Modified time.Time `json:"modified,omitzero"`
	Options  []string  `json:"options"`
}
