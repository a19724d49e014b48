package editor

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"workorder/internal/config"
	"workorder/internal/model"
)

// GenerateReport renders profile rows as plain text. Verbose adds the option
// lists and file details.
func GenerateReport(cfg *config.Config, rows []model.ProfileReport, verbose bool) string {
	var sb strings.Builder

	sb.WriteString("Work Order Editor Report\n")
	sb.WriteString("========================\n\n")
	sb.WriteString(fmt.Sprintf("Path store:   %s\n", cfg.SettingsFile))
	sb.WriteString(fmt.Sprintf("Option store: %s\n", cfg.OptionsFile))
	sb.WriteString(fmt.Sprintf("Marker:       %q\n\n", cfg.Marker))

	for _, r := range rows {
		icon := model.IconMissing
		switch r.Status {
		case model.PreviewOK.String():
			icon = model.IconOK
		case model.PreviewMarkerNotFound.String():
			icon = model.IconNotFound
		}

		sb.WriteString(fmt.Sprintf("%s %s\n", icon, r.Name))
		sb.WriteString(fmt.Sprintf("    File:    %s\n", r.Path))
		if r.Status == model.PreviewOK.String() {
			sb.WriteString(fmt.Sprintf("    Current: %s (line %d)\n", r.Value, r.Line))
		} else {
			sb.WriteString(fmt.Sprintf("    Status:  %s\n", r.Status))
		}

		if verbose {
			if !r.Modified.IsZero() {
				sb.WriteString(fmt.Sprintf("    Size:    %s, modified %s\n",
					humanize.Bytes(uint64(r.Size)), humanize.Time(r.Modified)))
			}
			sb.WriteString(fmt.Sprintf("    Options: %s\n", strings.Join(r.Options, ", ")))
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
