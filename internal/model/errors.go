package model

import "errors"

// Sentinel errors shared by the stores, the patcher and the guard.
var (
	// ErrIO indicates a store or target file could not be read or written.
	ErrIO = errors.New("i/o error")
	// ErrAlreadyRunning indicates another editor instance holds the instance lock.
	ErrAlreadyRunning = errors.New("work order editor is already running")
	// ErrFileMissing indicates the target file does not exist.
	ErrFileMissing = errors.New("file missing")
	// ErrMarkerNotFound indicates no line of the target file starts with the marker.
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrMalformed indicates the target file is not valid UTF-8 under the strict decode policy.
	ErrMalformed = errors.New("target file is not valid UTF-8")
	// ErrInvalidValue indicates a value that cannot be written onto a single line.
	ErrInvalidValue = errors.New("value must not contain line breaks")

	ErrEmptyOption     = errors.New("option is empty")
	ErrDuplicateOption = errors.New("option already exists")
	ErrInvalidOption   = errors.New("option must not contain '|' or line breaks")
	ErrUnknownProfile  = errors.New("unknown profile")

	// ErrNoProfile indicates an operation needs a selected profile.
	ErrNoProfile = errors.New("select a configuration first")
	// ErrNoValue indicates a commit without a chosen option.
	ErrNoValue = errors.New("select a work order value")
)
