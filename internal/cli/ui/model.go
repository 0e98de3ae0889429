package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/internal/cli/hooks"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/language"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Constants ---

// chromeHeight is the number of rows taken by the header, footer and status line.
const chromeHeight = 4

// mode selects what receives key input.
type mode int

const (
	modeEdit         mode = iota // Editor focused
	modeBrowse                   // Editor blurred; preview or report shown
	modeOpenFile                 // File path prompt
	modePickLanguage             // Language list
)

// --- Command Result Messages ---

// submitDoneMsg is returned by the submit command. The visible state arrives through
// hooks.StateChangedMsg; this only carries the outcome for notices.
type submitDoneMsg struct {
	state analyzer.UIState
	err   error
}

// exportDoneMsg is returned by the export command.
type exportDoneMsg struct {
	path string
	err  error
}

// copyDoneMsg is returned by the copy command.
type copyDoneMsg struct {
	copied bool
	err    error
}

// inputDoneMsg is returned by commands that change the submission. shown is set when the
// error is already in the session's error region.
type inputDoneMsg struct {
	err   error
	shown bool
}

// Config carries the settings the TUI needs beyond the session.
type Config struct {
	Version   string
	ExportDir string
	Color     bool // Show highlighted output; plain text otherwise
}

// --- Model Struct ---

// Model represents the state of the TUI application.
//
// Session operations never run inside Update: they run as commands so that session hooks,
// which Send to the running program, cannot block the event loop.
type Model struct {
	ctx     context.Context
	session *analyzer.Session
	cfg     Config

	editor    textarea.Model
	pathInput textinput.Model
	spinner   spinner.Model
	report    viewport.Model
	languages list.Model

	mode     mode
	prevMode mode

	// Mirrors of the session, refreshed from hook messages.
	submission  analyzer.CodeSubmission
	highlighted string
	state       analyzer.UIState

	// editorDirty is set when the editor text has not been pushed to the session yet.
	editorDirty bool
	notice      string

	width       int
	height      int
	initialized bool
	quitting    bool
}

// languageItem is a language in the picker.
type languageItem language.ID

// FilterValue implements the list.Item interface.
func (i languageItem) FilterValue() string { return string(i) }

// Title implements the list.DefaultItem interface.
func (i languageItem) Title() string { return string(i) }

// Description implements the list.DefaultItem interface.
func (i languageItem) Description() string { return "" }

// NewModel creates the initial model for the TUI from the session's current state.
func NewModel(ctx context.Context, session *analyzer.Session, cfg Config) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSpinner)

	editor := textarea.New()
	editor.Placeholder = "Paste or type code here, or press ctrl+o to open a file..."
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.Focus()

	pathInput := textinput.New()
	pathInput.Prompt = "File: "
	pathInput.Placeholder = "path/to/source.py"

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	delegate.ShowDescription = false
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorSelectedFg).
		Background(ColorSelectedBg).
		Bold(true).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.
		Foreground(ColorNormalFg).Padding(0, 0, 0, 1)

	supported := language.Supported()
	items := make([]list.Item, len(supported))
	for i, id := range supported {
		items[i] = languageItem(id)
	}
	languages := list.New(items, delegate, 0, 0)
	languages.Title = "Language"
	languages.SetShowHelp(false)
	languages.SetShowStatusBar(false)
	languages.SetShowFilter(false)
	languages.SetFilteringEnabled(false)
	languages.DisableQuitKeybindings()

	submission := session.Snapshot()
	editor.SetValue(submission.Code)

	m := &Model{
		ctx:         ctx,
		session:     session,
		cfg:         cfg,
		editor:      editor,
		pathInput:   pathInput,
		spinner:     s,
		report:      viewport.New(0, 0),
		languages:   languages,
		mode:        modeEdit,
		submission:  submission,
		highlighted: session.Highlighted(),
		state:       session.State(),
	}
	if m.state.ResultsVisible() {
		m.setReportContent()
	}
	return m
}

// --- Bubble Tea Interface Implementations ---

// Init starts the spinner and the cursor blink.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textarea.Blink)
}

// Update handles incoming messages (user input, hook events, command results).
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	// --- Internal Bubble Tea Messages ---
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.initialized = true

	case tea.KeyMsg:
		if m.quitting {
			return m, nil
		}
		return m, m.handleKey(msg)

	case spinner.TickMsg:
		if m.quitting {
			return m, nil
		}
		var spinnerCmd tea.Cmd
		m.spinner, spinnerCmd = m.spinner.Update(msg)
		cmds = append(cmds, spinnerCmd)

	// --- Custom Messages from Session Hooks ---
	case hooks.InputChangedMsg:
		m.submission = msg.Submission
		m.highlighted = m.session.Highlighted()
		if !m.editorDirty && m.editor.Value() != msg.Submission.Code {
			m.editor.SetValue(msg.Submission.Code)
		}

	case hooks.StateChangedMsg:
		m.state = msg.State
		if m.state.ResultsVisible() {
			m.setReportContent()
			if m.mode == modeEdit {
				m.setMode(modeBrowse)
			}
		}

	// --- Command Results ---
	case submitDoneMsg:
		if errors.Is(msg.err, analyzer.ErrSubmitInProgress) {
			m.notice = "A submission is already in progress"
		} else {
			m.notice = ""
		}

	case inputDoneMsg:
		switch {
		case msg.err == nil || msg.shown:
		case errors.Is(msg.err, analyzer.ErrReadFailed), errors.Is(msg.err, analyzer.ErrBinaryFile):
			// Failed during a submission, which owns the error region.
			m.notice = "Could not load file: " + analyzer.UserMessage(msg.err)
		default:
			m.notice = msg.err.Error()
		}

	case exportDoneMsg:
		switch {
		case msg.err != nil:
			m.notice = "Export failed: " + msg.err.Error()
		case msg.path == "":
			m.notice = "Nothing to export yet"
		default:
			m.notice = "Report saved to " + msg.path
		}

	case copyDoneMsg:
		switch {
		case msg.err != nil:
			m.notice = "Copy failed: " + msg.err.Error()
		case !msg.copied:
			m.notice = "Nothing to copy yet"
		default:
			m.notice = "Report copied to clipboard"
		}
	}

	return m, tea.Batch(cmds...)
}

// handleKey routes a key press according to the current mode.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return tea.Quit
	}

	switch m.mode {
	case modeOpenFile:
		return m.handleOpenFileKey(msg)
	case modePickLanguage:
		return m.handlePickLanguageKey(msg)
	}

	switch msg.String() {
	case "ctrl+s":
		return m.submitCmd()
	case "ctrl+n":
		return m.setLanguageCmd(language.Next(m.submission.Language))
	case "ctrl+p":
		return m.setLanguageCmd(language.Previous(m.submission.Language))
	case "ctrl+l":
		m.selectLanguageInPicker()
		m.setMode(modePickLanguage)
		return nil
	case "ctrl+o":
		m.pathInput.SetValue("")
		m.setMode(modeOpenFile)
		return textinput.Blink
	case "ctrl+x":
		return m.sessionCmd(func() error {
			m.session.ClearFile()
			return nil
		})
	case "ctrl+e":
		return m.exportCmd()
	case "ctrl+y":
		return m.copyCmd()
	case "esc":
		if m.mode == modeEdit {
			m.setMode(modeBrowse)
			return m.syncEditorCmd()
		}
		m.setMode(modeEdit)
		return textarea.Blink
	}

	if m.mode == modeEdit {
		before := m.editor.Value()
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		if m.editor.Value() != before {
			m.editorDirty = true
		}
		return cmd
	}

	// modeBrowse
	if msg.String() == "q" {
		m.quitting = true
		return tea.Quit
	}
	if m.state.ResultsVisible() {
		var cmd tea.Cmd
		m.report, cmd = m.report.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleOpenFileKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.setMode(m.prevMode)
		return nil
	case "enter":
		path := strings.TrimSpace(m.pathInput.Value())
		m.setMode(m.prevMode)
		if path == "" {
			return nil
		}
		// The file replaces the editor text.
		m.editorDirty = false
		return m.sessionCmd(func() error {
			return m.session.LoadFile(m.ctx, path)
		})
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return cmd
}

func (m *Model) handlePickLanguageKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		m.setMode(m.prevMode)
		return nil
	case "enter":
		m.setMode(m.prevMode)
		if item, ok := m.languages.SelectedItem().(languageItem); ok {
			return m.setLanguageCmd(language.ID(item))
		}
		return nil
	}
	var cmd tea.Cmd
	m.languages, cmd = m.languages.Update(msg)
	return cmd
}

// setMode switches modes, moving focus between the editor and the path prompt.
func (m *Model) setMode(next mode) {
	if next == modeOpenFile || next == modePickLanguage {
		if m.mode != modeOpenFile && m.mode != modePickLanguage {
			m.prevMode = m.mode
		}
	}
	m.mode = next

	if next == modeEdit {
		m.editor.Focus()
	} else {
		m.editor.Blur()
	}
	if next == modeOpenFile {
		m.pathInput.Focus()
	} else {
		m.pathInput.Blur()
	}
}

func (m *Model) selectLanguageInPicker() {
	for i, id := range language.Supported() {
		if id == m.submission.Language {
			m.languages.Select(i)
			return
		}
	}
}

// --- Commands ---

// takeEditorText returns the editor text that still needs to reach the session, if any.
func (m *Model) takeEditorText() (string, bool) {
	if !m.editorDirty {
		return "", false
	}
	m.editorDirty = false
	return m.editor.Value(), true
}

func (m *Model) syncEditorCmd() tea.Cmd {
	text, dirty := m.takeEditorText()
	if !dirty {
		return nil
	}
	return func() tea.Msg {
		m.session.SetCodeText(text)
		return inputDoneMsg{}
	}
}

// sessionCmd runs fn after pushing pending editor text, so fn sees the latest code.
func (m *Model) sessionCmd(fn func() error) tea.Cmd {
	text, dirty := m.takeEditorText()
	return func() tea.Msg {
		if dirty {
			m.session.SetCodeText(text)
		}
		err := fn()
		return inputDoneMsg{err: err, shown: errorShown(m.session.State(), err)}
	}
}

func errorShown(state analyzer.UIState, err error) bool {
	return err != nil && state.ErrorVisible() && state.Message == analyzer.UserMessage(err)
}

func (m *Model) setLanguageCmd(id language.ID) tea.Cmd {
	return m.sessionCmd(func() error {
		return m.session.SetLanguage(id)
	})
}

func (m *Model) submitCmd() tea.Cmd {
	text, dirty := m.takeEditorText()
	ctx := m.ctx
	return func() tea.Msg {
		if dirty {
			m.session.SetCodeText(text)
		}
		state, err := m.session.Submit(ctx)
		return submitDoneMsg{state: state, err: err}
	}
}

func (m *Model) exportCmd() tea.Cmd {
	presenter := m.session.Presenter()
	dir := m.cfg.ExportDir
	return func() tea.Msg {
		path, err := presenter.Export(dir)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m *Model) copyCmd() tea.Cmd {
	presenter := m.session.Presenter()
	return func() tea.Msg {
		copied, err := presenter.CopyToClipboard()
		return copyDoneMsg{copied: copied, err: err}
	}
}

// --- Layout ---

// bodyHeight is the number of rows available between header and footer.
func (m *Model) bodyHeight() int {
	h := m.height - chromeHeight
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) resize() {
	bodyHeight := m.bodyHeight()
	m.editor.SetWidth(m.width)
	m.editor.SetHeight(bodyHeight)
	m.report.Width = m.width
	m.report.Height = bodyHeight
	m.languages.SetSize(m.width, bodyHeight)
	m.pathInput.Width = m.width - lipgloss.Width(m.pathInput.Prompt) - 1
}

// setReportContent loads the current report into the viewport.
func (m *Model) setReportContent() {
	if m.state.Report == nil {
		return
	}
	content := m.state.Report.Text
	if m.cfg.Color {
		content = m.state.Report.Display
	}
	m.report.SetContent(content)
	m.report.GotoTop()
}
