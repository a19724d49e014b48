// Package config resolves where the editor keeps its stores and which profiles
// it edits.
//
// Everything lives in one base directory (the binary's directory unless --dir
// is given):
//
//	<base>/
//	├── editor.ini            # Optional overrides (this package)
//	├── settings.ini          # Path registry
//	├── options.ini           # Option catalog
//	└── WorkOrderEditor.lock  # Instance guard marker
//
// editor.ini is optional. Without it the five built-in profiles are used:
//
//	[editor]
//	marker            = " WorkOrder="
//	on_missing_marker = fail      ; ignore | fail | append
//	decode            = strict    ; skip | strict
//
//	[profile lathe]
//	default_path    = targets/lathe.ini
//	default_options = WO-1|WO-2
//
// Any [profile <name>] section replaces the built-in profile set. Relative
// paths resolve against the base directory. Command-line flags override the
// file.
package config
