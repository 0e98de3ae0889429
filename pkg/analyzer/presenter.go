// --- START OF FINAL REVISED FILE pkg/analyzer/presenter.go ---
package analyzer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/highlight"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/language"
	"github.com/atotto/clipboard"
	"github.com/spf13/afero"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// languageClassPrefix marks a code block's language in the report markup.
const languageClassPrefix = "language-"

// reportFileMode is the permission of an exported report.
const reportFileMode os.FileMode = 0o644

// Clipboard is the destination of CopyToClipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Presenter renders reports and exports the last rendered one.
// It never touches the network or the submission.
type Presenter struct {
	mu          sync.Mutex
	current     *RenderedReport
	highlighter highlight.Highlighter
	fs          afero.Fs
	clipboard   Clipboard
	logger      *slog.Logger
	now         func() time.Time
}

// NewPresenter creates a Presenter. Nil dependencies get defaults: plain highlighting,
// the OS filesystem, the system clipboard and a discarding logger.
func NewPresenter(h highlight.Highlighter, fs afero.Fs, cb Clipboard, loggerHandler slog.Handler) *Presenter {
	if h == nil {
		h = highlight.Plain{}
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if cb == nil {
		cb = SystemClipboard{}
	}
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &Presenter{
		highlighter: h,
		fs:          fs,
		clipboard:   cb,
		logger:      slog.New(loggerHandler).With(slog.String("component", "presenter")),
		now:         time.Now,
	}
}

// Current returns the last rendered report, or nil when nothing has been rendered.
func (p *Presenter) Current() *RenderedReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Render processes report markup for display and makes it the current report.
// Code blocks (pre > code) are highlighted with their own language-* class; blocks
// without any class get "language-<fallback>" and are highlighted as fallback.
func (p *Presenter) Render(report Report, fallback language.ID) (*RenderedReport, error) {
	if !fallback.Valid() {
		fallback = language.Default
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(report.Analysis), root)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse report markup: %w", ErrMalformedResponse, err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	r := &textRenderer{}
	var blocks []CodeBlock
	p.walk(root, fallback, r, &blocks)

	var markup strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&markup, c); err != nil {
			return nil, fmt.Errorf("%w: cannot render report markup: %w", ErrMalformedResponse, err)
		}
	}

	rendered := &RenderedReport{
		Markup:     markup.String(),
		Text:       r.text.finish(),
		Display:    r.display.finish(),
		CodeBlocks: blocks,
		Language:   fallback,
		RenderedAt: p.now(),
	}

	p.mu.Lock()
	p.current = rendered
	p.mu.Unlock()

	p.logger.Debug("Report rendered",
		slog.Int("markupBytes", len(rendered.Markup)),
		slog.Int("codeBlocks", len(blocks)),
		slog.String("fallbackLanguage", fallback.String()),
	)
	return rendered, nil
}

// walk renders n's children into r, collecting code blocks.
func (p *Presenter) walk(n *html.Node, fallback language.ID, r *textRenderer, blocks *[]CodeBlock) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			r.inline(c.Data)
		case html.ElementNode:
			if isCodeBlock(c) {
				*blocks = append(*blocks, p.renderCodeBlock(c, fallback, r))
				continue
			}
			switch c.DataAtom {
			case atom.Script, atom.Style, atom.Head:
				continue
			case atom.Br:
				r.lineBreak()
				continue
			case atom.Pre:
				if hasCodeDescendant(c) {
					p.walk(c, fallback, r, blocks)
				} else {
					r.paragraph()
					r.verbatim(strings.Trim(nodeText(c), "\n"), "")
					r.paragraph()
				}
				continue
			case atom.Li:
				r.lineBreak()
				r.inline("- ")
				p.walk(c, fallback, r, blocks)
				r.lineBreak()
				continue
			}
			if isParagraphElement(c.DataAtom) {
				r.paragraph()
				p.walk(c, fallback, r, blocks)
				r.paragraph()
				continue
			}
			if isLineElement(c.DataAtom) {
				r.lineBreak()
				p.walk(c, fallback, r, blocks)
				r.lineBreak()
				continue
			}
			p.walk(c, fallback, r, blocks)
		}
	}
}

// renderCodeBlock applies the language class, highlights the block and writes it to r.
func (p *Presenter) renderCodeBlock(code *html.Node, fallback language.ID, r *textRenderer) CodeBlock {
	lang := blockLanguage(code)
	if lang == "" {
		if classAttr(code) == "" {
			setAttr(code, "class", languageClassPrefix+fallback.String())
		}
		lang = fallback.String()
	}

	source := strings.Trim(nodeText(code), "\n")
	highlighted, err := p.highlighter.Highlight(source, lang)
	if err != nil {
		p.logger.Warn("Highlighting failed, showing plain code", slog.String("language", lang), slog.Any("error", err))
		highlighted = source
	}

	r.paragraph()
	r.verbatim(source, strings.TrimRight(highlighted, "\n"))
	r.paragraph()

	return CodeBlock{Language: lang, Source: source, Highlighted: highlighted}
}

// Export writes the current report's text to dir/ReportFileName and returns the path.
// The file is written to a temporary name first and renamed into place; the temporary
// file is always closed and is removed on failure. With no rendered report Export
// writes nothing and returns ("", nil).
func (p *Presenter) Export(dir string) (path string, err error) {
	report := p.Current()
	if report == nil {
		p.logger.Debug("Export requested before any report was rendered")
		return "", nil
	}
	if strings.TrimSpace(dir) == "" {
		dir = DefaultExportDir
	}

	if mkErr := p.fs.MkdirAll(dir, 0o755); mkErr != nil {
		return "", fmt.Errorf("%w: cannot create directory '%s': %w", ErrExportFailed, dir, mkErr)
	}

	tmp, err := afero.TempFile(p.fs, dir, ReportFileName+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: cannot create temporary file in '%s': %w", ErrExportFailed, dir, err)
	}
	tmpName := tmp.Name()
	closed := false
	defer func() {
		if !closed {
			_ = tmp.Close()
		}
		if err != nil {
			if rmErr := p.fs.Remove(tmpName); rmErr != nil {
				p.logger.Warn("Failed to remove temporary export file", slog.String("path", tmpName), slog.Any("error", rmErr))
			}
		}
	}()

	if _, err = tmp.WriteString(report.Text); err != nil {
		return "", fmt.Errorf("%w: cannot write '%s': %w", ErrExportFailed, tmpName, err)
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: cannot close '%s': %w", ErrExportFailed, tmpName, err)
	}

	// Temporary files are created owner-only.
	if err = p.fs.Chmod(tmpName, reportFileMode); err != nil {
		return "", fmt.Errorf("%w: cannot set permissions on '%s': %w", ErrExportFailed, tmpName, err)
	}

	path = filepath.Join(dir, ReportFileName)
	if err = p.fs.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("%w: cannot move report into place at '%s': %w", ErrExportFailed, path, err)
	}

	p.logger.Info("Report exported", slog.String("path", path), slog.Int("bytes", len(report.Text)))
	return path, nil
}

// WriteText writes the current report's text to w. With no report it writes nothing.
func (p *Presenter) WriteText(w io.Writer) (int64, error) {
	report := p.Current()
	if report == nil {
		return 0, nil
	}
	n, err := io.WriteString(w, report.Text)
	return int64(n), err
}

// CopyToClipboard copies the current report's text. It reports false when there is no
// report to copy.
func (p *Presenter) CopyToClipboard() (bool, error) {
	report := p.Current()
	if report == nil {
		return false, nil
	}
	if err := p.clipboard.WriteAll(report.Text); err != nil {
		return false, fmt.Errorf("failed to copy report to clipboard: %w", err)
	}
	return true, nil
}

// --- Markup helpers ---

// isCodeBlock matches a code element anywhere inside a pre, like the selector "pre code".
func isCodeBlock(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Code {
		return false
	}
	for a := n.Parent; a != nil; a = a.Parent {
		if a.Type == html.ElementNode && a.DataAtom == atom.Pre {
			return true
		}
	}
	return false
}

func hasCodeDescendant(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			return true
		}
		if hasCodeDescendant(c) {
			return true
		}
	}
	return false
}

func isParagraphElement(a atom.Atom) bool {
	switch a {
	case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Ul, atom.Ol, atom.Table, atom.Blockquote, atom.Section, atom.Article, atom.Hr:
		return true
	}
	return false
}

func isLineElement(a atom.Atom) bool {
	switch a {
	case atom.Div, atom.Tr, atom.Dt, atom.Dd, atom.Header, atom.Footer:
		return true
	}
	return false
}

func classAttr(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// blockLanguage returns the language-* class of a code element, or "".
func blockLanguage(n *html.Node) string {
	for _, token := range strings.Fields(classAttr(n)) {
		if strings.HasPrefix(token, languageClassPrefix) && len(token) > len(languageClassPrefix) {
			return strings.ToLower(strings.TrimPrefix(token, languageClassPrefix))
		}
	}
	return ""
}

// nodeText concatenates all text below n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			collect(k)
		}
	}
	collect(n)
	return b.String()
}

// --- Text rendering ---

// textRenderer produces the plain and display renderings in one pass.
type textRenderer struct {
	text    textBuffer
	display textBuffer
}

func (r *textRenderer) inline(s string) {
	r.text.inline(s)
	r.display.inline(s)
}

func (r *textRenderer) lineBreak() {
	r.text.breakLines(1)
	r.display.breakLines(1)
}

func (r *textRenderer) paragraph() {
	r.text.breakLines(2)
	r.display.breakLines(2)
}

// verbatim writes preformatted text. display overrides the display rendering when non-empty.
func (r *textRenderer) verbatim(plain, display string) {
	if display == "" {
		display = plain
	}
	r.text.raw(plain)
	r.display.raw(display)
}

// textBuffer collapses inline whitespace the way a browser does and keeps preformatted
// text intact.
type textBuffer struct {
	b            strings.Builder
	pendingSpace bool
}

func (t *textBuffer) atLineStart() bool {
	s := t.b.String()
	return s == "" || strings.HasSuffix(s, "\n")
}

func (t *textBuffer) inline(s string) {
	if s == "" {
		return
	}
	words := strings.Fields(s)
	leading := unicode.IsSpace([]rune(s)[0])
	if len(words) == 0 {
		if !t.atLineStart() {
			t.pendingSpace = true
		}
		return
	}
	if (leading || t.pendingSpace) && !t.atLineStart() {
		t.b.WriteByte(' ')
	}
	t.pendingSpace = false
	t.b.WriteString(strings.Join(words, " "))
	runes := []rune(s)
	if unicode.IsSpace(runes[len(runes)-1]) {
		t.pendingSpace = true
	}
}

func (t *textBuffer) raw(s string) {
	t.pendingSpace = false
	t.b.WriteString(s)
}

// breakLines ensures the buffer ends with at least n newlines, unless it is empty.
func (t *textBuffer) breakLines(n int) {
	t.pendingSpace = false
	s := t.b.String()
	if s == "" {
		return
	}
	have := len(s) - len(strings.TrimRight(s, "\n"))
	for ; have < n; have++ {
		t.b.WriteByte('\n')
	}
}

func (t *textBuffer) finish() string {
	s := strings.TrimSpace(t.b.String())
	if s == "" {
		return ""
	}
	return s + "\n"
}

// --- END OF FINAL REVISED FILE pkg/analyzer/presenter.go ---
