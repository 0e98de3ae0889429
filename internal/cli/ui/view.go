package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// View renders the current state of the TUI model.
func (m *Model) View() string {
	if m.quitting {
		return "Exiting...\n"
	}
	if !m.initialized {
		return "Initializing..."
	}

	header := m.headerView()
	body := m.bodyView()
	status := m.statusView()
	footer := m.footerView()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, footer)
}

// --- Header ---

func (m *Model) headerView() string {
	headerLeft := fmt.Sprintf("Code Analyzer v%s", m.cfg.Version)

	right := []string{"lang: " + m.submission.Language.String()}
	if name := m.submission.FileName(); name != "" {
		// Leave room for the title and the other header fields.
		room := m.width - lipgloss.Width(headerLeft) - 30
		if room < 8 {
			room = 8
		}
		right = append(right, "file: "+runewidth.Truncate(name, room, "…"))
	}
	if m.state.LoadingVisible() {
		right = append(right, m.spinner.View()+" analyzing")
	}
	headerRight := strings.Join(right, " | ")

	headerCenter := ""
	// HeaderStyle pads one column on each side.
	if gap := m.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight) - 2; gap > 0 {
		headerCenter = strings.Repeat(" ", gap)
	}
	return HeaderStyle.Width(m.width).Render(headerLeft + headerCenter + headerRight)
}

// --- Body ---

func (m *Model) bodyView() string {
	switch m.mode {
	case modeOpenFile:
		return lipgloss.NewStyle().Height(m.bodyHeight()).Render(
			PromptStyle.Render("Open a file to analyze (enter to load, esc to cancel)") + "\n\n" + m.pathInput.View())
	case modePickLanguage:
		return m.languages.View()
	case modeEdit:
		return m.editor.View()
	}

	if m.state.ResultsVisible() {
		return m.report.View()
	}
	return m.previewView()
}

// previewView shows the highlighted code, clipped to the body height.
func (m *Model) previewView() string {
	if m.submission.Code == "" {
		return lipgloss.NewStyle().Height(m.bodyHeight()).Render(
			PlaceholderStyle.Render("No code yet. Press esc to edit or ctrl+o to open a file."))
	}
	content := m.submission.Code
	if m.cfg.Color && m.highlighted != "" {
		content = m.highlighted
	}
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if h := m.bodyHeight(); len(lines) > h {
		lines = lines[:h]
	}
	return lipgloss.NewStyle().Height(m.bodyHeight()).Render(strings.Join(lines, "\n"))
}

// statusView is the line between body and footer: loading indicator, error region or notice.
func (m *Model) statusView() string {
	switch {
	case m.state.LoadingVisible():
		return LoadingStyle.Render(m.spinner.View() + " Analyzing code...")
	case m.state.ErrorVisible():
		return ErrorStyle.Width(m.width).Render("Error: " + m.state.Message)
	case m.notice != "":
		return NoticeStyle.Render(m.notice)
	}
	return ""
}

// --- Footer ---

func (m *Model) footerView() string {
	var keys string
	switch m.mode {
	case modeOpenFile:
		keys = "enter: load • esc: cancel"
	case modePickLanguage:
		keys = "↑/↓: move • enter: select • esc: cancel"
	case modeEdit:
		keys = "ctrl+s: analyze • ctrl+n/p: language • ctrl+l: pick • ctrl+o: open • ctrl+x: detach • ctrl+e: export • ctrl+y: copy • esc: view • ctrl+c: quit"
	default:
		keys = "ctrl+s: analyze • ctrl+e: export • ctrl+y: copy • esc: edit • q: quit"
	}
	return FooterStyle.Width(m.width).Render(runewidth.Truncate(keys, max(m.width-2, 1), "…"))
}

// --- Styles ---

const (
	ColorHeaderFg = lipgloss.Color("252") // Light Gray
	ColorHeaderBg = lipgloss.Color("62")  // Purple

	ColorFooterFg = lipgloss.Color("252")
	ColorFooterBg = lipgloss.Color("56") // Dark Pink/Purple

	ColorNormalFg   = lipgloss.Color("250") // Off-white
	ColorSelectedFg = lipgloss.Color("255") // White
	ColorSelectedBg = lipgloss.Color("56")

	ColorSpinner     = lipgloss.Color("205") // Pink
	ColorError       = lipgloss.Color("196") // Red
	ColorNotice      = lipgloss.Color("40")  // Green
	ColorPlaceholder = lipgloss.Color("244") // Dim gray
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeaderFg).
			Background(ColorHeaderBg).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorFooterFg).
			Background(ColorFooterBg).
			Padding(0, 1)

	LoadingStyle     = lipgloss.NewStyle().Foreground(ColorSpinner)
	ErrorStyle       = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	NoticeStyle      = lipgloss.NewStyle().Foreground(ColorNotice)
	PlaceholderStyle = lipgloss.NewStyle().Foreground(ColorPlaceholder).Italic(true)
	PromptStyle      = lipgloss.NewStyle().Bold(true)
)
