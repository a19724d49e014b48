package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconSelected    = "●" // Selected profile / option
	IconUnselected  = "○" //
	IconOK          = "✓" // Marker found
	IconMissing     = "✗" // Target file missing
	IconNotFound    = "?" // Marker line not found
	IconMarkerLine  = "»" // Marker line in the context view
	IconDefaultPath = "◆" // Path comes from built-in defaults
)

// StatusIcon maps a preview state to its icon.
func StatusIcon(s PreviewState) string {
	switch s {
	case PreviewOK:
		return IconOK
	case PreviewFileMissing, PreviewError:
		return IconMissing
	case PreviewMarkerNotFound:
		return IconNotFound
	default:
		return " "
	}
}
