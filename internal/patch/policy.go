package patch

import (
	"fmt"
	"strings"
)

// MissingMarkerPolicy decides what Commit does when no line carries the marker.
type MissingMarkerPolicy int

const (
	// MissingIgnore rewrites the file unchanged and reports success.
	MissingIgnore MissingMarkerPolicy = iota
	// MissingFail leaves the file untouched and returns model.ErrMarkerNotFound.
	MissingFail
	// MissingAppend adds marker+value as a new last line.
	MissingAppend
)

func (p MissingMarkerPolicy) String() string {
	switch p {
	case MissingFail:
		return "fail"
	case MissingAppend:
		return "append"
	default:
		return "ignore"
	}
}

// ParseMissingMarkerPolicy parses "ignore", "fail" or "append".
func ParseMissingMarkerPolicy(s string) (MissingMarkerPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ignore":
		return MissingIgnore, nil
	case "fail":
		return MissingFail, nil
	case "append":
		return MissingAppend, nil
	}
	return MissingIgnore, fmt.Errorf("unknown missing-marker policy %q (want ignore, fail or append)", s)
}

// DecodePolicy decides how bytes that are not valid UTF-8 are handled.
type DecodePolicy int

const (
	// DecodeSkip drops malformed bytes when matching and extracting values.
	// Lines that are not rewritten keep their raw bytes.
	DecodeSkip DecodePolicy = iota
	// DecodeStrict rejects files containing malformed bytes.
	DecodeStrict
)

func (p DecodePolicy) String() string {
	if p == DecodeStrict {
		return "strict"
	}
	return "skip"
}

// ParseDecodePolicy parses "skip" or "strict".
func ParseDecodePolicy(s string) (DecodePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return DecodeSkip, nil
	case "strict":
		return DecodeStrict, nil
	}
	return DecodeSkip, fmt.Errorf("unknown decode policy %q (want skip or strict)", s)
}
