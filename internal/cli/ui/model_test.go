package ui

import (
	"context"
	"fmt"
	"testing"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/internal/cli/hooks"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/internal/testutil"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/language"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testExportDir = "/exports"

// newTestModel builds a sized model over a session with an in-memory filesystem.
func newTestModel(t *testing.T, client analyzer.AnalysisClient) (*Model, *analyzer.Session, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	session, err := analyzer.NewSession(analyzer.Options{
		Client:      client,
		Highlighter: testutil.TaggingHighlighter{},
		Fs:          fs,
		Clipboard:   &testutil.MockClipboard{},
	})
	require.NoError(t, err)

	m := NewModel(context.Background(), session, Config{Version: "test", ExportDir: testExportDir})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, session, fs
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// runCmd executes cmd and returns its message, or nil for a nil command.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	return cmd()
}

// syncFromSession feeds the session's current state back into the model, the way hooks
// would in a running program.
func syncFromSession(m *Model, session *analyzer.Session) {
	m.Update(hooks.InputChangedMsg{Submission: session.Snapshot()})
	m.Update(hooks.StateChangedMsg{State: session.State()})
}

func TestModel_Init(t *testing.T) {
	m, _, _ := newTestModel(t, &testutil.MockAnalysisClient{})
	assert.NotNil(t, m.Init())
}

func TestModel_Update_WindowSize(t *testing.T) {
	m, _, _ := newTestModel(t, &testutil.MockAnalysisClient{})

	newModel, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Nil(t, cmd)
	updated, ok := newModel.(*Model)
	require.True(t, ok)
	assert.True(t, updated.initialized)
	assert.Equal(t, 120, updated.width)
	assert.Equal(t, 40, updated.height)
	assert.Equal(t, 40-chromeHeight, updated.report.Height)
}

func TestModel_Update_Quit(t *testing.T) {
	t.Run("ctrl+c", func(t *testing.T) {
		m, _, _ := newTestModel(t, &testutil.MockAnalysisClient{})
		_, cmd := m.Update(key(tea.KeyCtrlC))
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
		assert.True(t, m.quitting)
	})

	t.Run("q types into the focused editor", func(t *testing.T) {
		m, _, _ := newTestModel(t, &testutil.MockAnalysisClient{})
		m.Update(runes("q"))
		assert.False(t, m.quitting)
		assert.Equal(t, "q", m.editor.Value())
	})

	t.Run("q quits when the editor is blurred", func(t *testing.T) {
		m, _, _ := newTestModel(t, &testutil.MockAnalysisClient{})
		m.Update(key(tea.KeyEsc))
		require.Equal(t, modeBrowse, m.mode)
		_, cmd := m.Update(runes("q"))
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})
}

func TestModel_EscSyncsEditorText(t *testing.T) {
	m, session, _ := newTestModel(t, &testutil.MockAnalysisClient{})
	m.Update(runes("x = 1"))
	assert.True(t, m.editorDirty)

	_, cmd := m.Update(key(tea.KeyEsc))
	require.NotNil(t, cmd)
	runCmd(t, cmd)
	assert.False(t, m.editorDirty)
	assert.Equal(t, "x = 1", session.Snapshot().Code)

	syncFromSession(m, session)
	assert.Equal(t, "<python>x = 1</python>", m.highlighted)
}

func TestModel_Submit(t *testing.T) {
	client := &testutil.MockAnalysisClient{}
	client.On("Analyze", mock.Anything, mock.MatchedBy(func(s analyzer.CodeSubmission) bool {
		return s.Code == "x=1" && s.Language == language.Python
	})).Return(analyzer.Report{Analysis: "<p>Looks good</p>"}, nil).Once()
	m, session, _ := newTestModel(t, client)

	m.Update(runes("x=1"))
	_, cmd := m.Update(key(tea.KeyCtrlS))
	require.NotNil(t, cmd)
	msg := runCmd(t, cmd)
	done, ok := msg.(submitDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, analyzer.PhaseSuccess, done.state.Phase)

	m.Update(done)
	syncFromSession(m, session)
	assert.Equal(t, modeBrowse, m.mode, "a report moves focus to the results")
	assert.Contains(t, m.report.View(), "Looks good")
	client.AssertExpectations(t)
}

func TestModel_SubmitInProgressNotice(t *testing.T) {
	m, _, _ := newTestModel(t, &testutil.MockAnalysisClient{})
	m.Update(submitDoneMsg{err: analyzer.ErrSubmitInProgress})
	assert.Equal(t, "A submission is already in progress", m.notice)
}

func TestModel_LanguageCycle(t *testing.T) {
	m, session, _ := newTestModel(t, &testutil.MockAnalysisClient{})

	_, cmd := m.Update(key(tea.KeyCtrlN))
	runCmd(t, cmd)
	assert.Equal(t, language.JavaScript, session.Snapshot().Language)
	syncFromSession(m, session)

	_, cmd = m.Update(key(tea.KeyCtrlP))
	runCmd(t, cmd)
	assert.Equal(t, language.Python, session.Snapshot().Language)

	_, cmd = m.Update(key(tea.KeyCtrlP))
	runCmd(t, cmd)
	assert.Equal(t, language.PHP, session.Snapshot().Language, "previous wraps around")
}

func TestModel_LanguagePicker(t *testing.T) {
	m, session, _ := newTestModel(t, &testutil.MockAnalysisClient{})

	m.Update(key(tea.KeyCtrlL))
	require.Equal(t, modePickLanguage, m.mode)
	m.Update(key(tea.KeyDown))
	m.Update(key(tea.KeyDown))
	_, cmd := m.Update(key(tea.KeyEnter))
	assert.Equal(t, modeEdit, m.mode)
	runCmd(t, cmd)
	assert.Equal(t, language.Java, session.Snapshot().Language)

	m.Update(key(tea.KeyCtrlL))
	_, cmd = m.Update(key(tea.KeyEsc))
	assert.Nil(t, cmd)
	assert.Equal(t, modeEdit, m.mode)
}

func TestModel_OpenFile(t *testing.T) {
	m, session, fs := newTestModel(t, &testutil.MockAnalysisClient{})
	testutil.CreateMemFile(t, fs, "/src/main.go", []byte("package main\n"))

	m.Update(key(tea.KeyCtrlO))
	require.Equal(t, modeOpenFile, m.mode)
	m.Update(runes("/src/main.go"))
	_, cmd := m.Update(key(tea.KeyEnter))
	assert.Equal(t, modeEdit, m.mode)
	msg := runCmd(t, cmd)
	assert.Equal(t, inputDoneMsg{}, msg)

	syncFromSession(m, session)
	assert.Equal(t, "package main\n", m.editor.Value())
	assert.Equal(t, language.Go, m.submission.Language)
	assert.Equal(t, "main.go", m.submission.FileName())

	_, cmd = m.Update(key(tea.KeyCtrlX))
	runCmd(t, cmd)
	assert.Nil(t, session.Snapshot().File)
}

func TestModel_OpenFile_Missing(t *testing.T) {
	m, session, _ := newTestModel(t, &testutil.MockAnalysisClient{})

	m.Update(key(tea.KeyCtrlO))
	m.Update(runes("/nope.py"))
	_, cmd := m.Update(key(tea.KeyEnter))
	msg := runCmd(t, cmd)
	m.Update(msg)
	syncFromSession(m, session)

	assert.True(t, m.state.ErrorVisible())
	assert.Empty(t, m.notice, "read errors are shown in the error region only")
}

func TestModel_Export(t *testing.T) {
	client := &testutil.MockAnalysisClient{}
	client.On("Analyze", mock.Anything, mock.Anything).Return(analyzer.Report{Analysis: "<p>ok</p>"}, nil)
	m, _, fs := newTestModel(t, client)

	_, cmd := m.Update(key(tea.KeyCtrlE))
	m.Update(runCmd(t, cmd))
	assert.Equal(t, "Nothing to export yet", m.notice)

	_, cmd = m.Update(key(tea.KeyCtrlS))
	runCmd(t, cmd)
	_, cmd = m.Update(key(tea.KeyCtrlE))
	m.Update(runCmd(t, cmd))
	assert.Equal(t, "Report saved to /exports/"+analyzer.ReportFileName, m.notice)

	data, err := afero.ReadFile(fs, "/exports/"+analyzer.ReportFileName)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(data))
}

func TestModel_Copy(t *testing.T) {
	m, _, _ := newTestModel(t, &testutil.MockAnalysisClient{})

	_, cmd := m.Update(key(tea.KeyCtrlY))
	m.Update(runCmd(t, cmd))
	assert.Equal(t, "Nothing to copy yet", m.notice)
}

func TestModel_LoadFailureDuringSubmitNotice(t *testing.T) {
	m, _, _ := newTestModel(t, &testutil.MockAnalysisClient{})
	err := fmt.Errorf("%w: open /nope.py: file does not exist", analyzer.ErrReadFailed)

	m.Update(inputDoneMsg{err: err, shown: true})
	assert.Empty(t, m.notice)

	m.Update(inputDoneMsg{err: err})
	assert.Equal(t, "Could not load file: failed to read file: open /nope.py: file does not exist", m.notice)
}
