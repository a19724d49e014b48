package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"workorder/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Sky Blue/Cyan
			Bold(true)

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // Green
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // Red
	adviceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // Orange

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

func (m AppModel) View() string {
	if m.Committed != "" {
		return ""
	}
	if m.Mode == ModePaths {
		return m.renderPathsDialog()
	}

	width := m.WindowSize.Width
	if width == 0 {
		width = 80
	}
	netWidth := width - 6
	if netWidth < 40 {
		netWidth = 40
	}
	leftWidth := netWidth / 3
	rightWidth := netWidth - leftWidth

	var b strings.Builder
	b.WriteString(titleStyle.Render("Work Order Editor"))
	b.WriteString("\n\n")

	lists := lipgloss.JoinHorizontal(lipgloss.Top,
		m.panel(m.renderProfiles(), leftWidth, m.Focus == FocusProfiles),
		m.panel(m.renderOptions(), rightWidth, m.Focus == FocusOptions),
	)
	b.WriteString(lists)
	b.WriteString("\n")
	b.WriteString(m.panel(m.renderPreview(), netWidth+2, false))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m AppModel) panel(content string, width int, active bool) string {
	color := borderColor
	if active {
		color = activeColor
	}
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Border(lipgloss.NormalBorder()).
		BorderForeground(color).
		Render(content)
}

func (m AppModel) renderProfiles() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Configurations"))
	b.WriteString("\n\n")

	defaults := make(map[string]string)
	for _, p := range m.Editor.Config().Profiles {
		defaults[p.Name] = p.DefaultPath
	}

	for i, name := range m.Profiles {
		icon := model.IconUnselected
		if name == m.Session.Profile {
			icon = model.IconSelected
		}
		line := fmt.Sprintf("%s %s", icon, name)
		if m.Session.Paths[name] == defaults[name] {
			line += " " + dimStyle.Render(model.IconDefaultPath)
		}

		if i == m.ProfileIdx && m.Focus == FocusProfiles {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(normalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m AppModel) renderOptions() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Work Orders"))
	b.WriteString("\n\n")

	if m.Session.Profile == "" {
		b.WriteString(dimStyle.Render("Select a configuration (enter)"))
		return b.String()
	}
	if len(m.Session.Options) == 0 {
		b.WriteString(dimStyle.Render("No options yet, press a to add one"))
	}

	for i, opt := range m.Session.Options {
		icon := model.IconUnselected
		if i == m.Session.OptionIdx {
			icon = model.IconSelected
		}
		line := fmt.Sprintf("%s %s", icon, opt)
		if i == m.Session.OptionIdx && m.Focus == FocusOptions {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(normalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.Mode == ModeAddOption {
		b.WriteString("\nNew: ")
		b.WriteString(m.OptionInput.View())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m AppModel) renderPreview() string {
	pv := m.Session.Preview
	var b strings.Builder
	b.WriteString(headerStyle.Render("Current Value"))
	b.WriteString("\n\n")

	if pv.State == model.PreviewNoProfile {
		b.WriteString(dimStyle.Render("No configuration selected"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("File: %s\n", pv.Path))
	switch pv.State {
	case model.PreviewOK:
		b.WriteString(fmt.Sprintf("%s %s  %s\n", model.StatusIcon(pv.State), valueStyle.Render(pv.Value),
			dimStyle.Render(fmt.Sprintf("line %d, %s, modified %s",
				pv.LineNumber, humanize.Bytes(uint64(pv.Size)), humanize.Time(pv.ModTime)))))
		b.WriteString("\n")
		b.WriteString(renderContext(pv.Context))
	case model.PreviewFileMissing:
		b.WriteString(adviceStyle.Render(model.StatusIcon(pv.State) + " File not found. Press p to configure paths."))
	case model.PreviewMarkerNotFound:
		b.WriteString(adviceStyle.Render(fmt.Sprintf("%s No line starting with %q",
			model.StatusIcon(pv.State), strings.TrimSpace(m.Editor.Config().Marker))))
	default:
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s %v", model.StatusIcon(pv.State), pv.Err)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderContext(ctx model.LineContext) string {
	if ctx.ErrorMsg != "" {
		return dimStyle.Render(ctx.ErrorMsg)
	}
	var lines []string
	add := func(ok bool, n int, text string) {
		if ok {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("  %4d  %s", n, text)))
		}
	}
	add(ctx.HasBefore2, ctx.LineNumber-2, ctx.Before2)
	add(ctx.HasBefore1, ctx.LineNumber-1, ctx.Before1)
	lines = append(lines, valueStyle.Render(fmt.Sprintf("%s %4d  %s", model.IconMarkerLine, ctx.LineNumber, ctx.Target)))
	add(ctx.HasAfter1, ctx.LineNumber+1, ctx.After1)
	add(ctx.HasAfter2, ctx.LineNumber+2, ctx.After2)
	return strings.Join(lines, "\n")
}

func (m AppModel) renderFooter() string {
	var b strings.Builder
	switch {
	case m.Err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.Err.Error()))
	case m.Busy:
		b.WriteString(dimStyle.Render("Working..."))
	case m.Status != "":
		b.WriteString(statusStyle.Render(m.Status))
	}
	b.WriteString("\n\n")

	help := "Help: ↑/↓: Navigate • Enter: Select • Tab: Switch Panel • a: Add Option • p: Paths • r: Refresh • q: Quit"
	if m.Focus == FocusOptions {
		help = "Options: ↑/↓: Choose • Enter: Write To File • Tab: Configurations • a: Add Option • p: Paths • q: Quit"
	}
	if m.Mode == ModeAddOption {
		help = "Add Option: Enter: Save • Esc: Cancel"
	}
	b.WriteString(dimStyle.Render(help))
	return b.String()
}

func (m AppModel) renderPathsDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w == 0 || h == 0 {
		w, h = 80, 24
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Configure Paths"))
	b.WriteString("\n\n")
	for i, name := range m.Profiles {
		label := fmt.Sprintf("%-12s", name)
		if i == m.PathIdx {
			label = selectedStyle.Render(label)
		}
		b.WriteString(label + " ")
		if i < len(m.PathInputs) {
			b.WriteString(m.PathInputs[i].View())
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Tab/↑/↓: Field • Enter: Save • Esc: Cancel"))

	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(b.String())

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}
