// --- START OF FINAL REVISED FILE pkg/analyzer/highlight/highlight.go ---
package highlight

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// Highlighter renders source code for display.
//
// Implementations must be deterministic: the same code and language always produce the
// same output. Highlight must return the input unchanged together with an error when it
// cannot render, so callers can always display something.
type Highlighter interface {
	Highlight(code string, language string) (string, error)
}

// Plain is a Highlighter that returns code unchanged. Used when color is disabled.
type Plain struct{}

// Highlight implements Highlighter.
func (Plain) Highlight(code string, language string) (string, error) { return code, nil }

// ValidStyle reports whether name is a registered chroma style.
func ValidStyle(name string) bool {
	return slices.Contains(styles.Names(), name)
}

// chromaHighlighter renders ANSI-colored output using chroma.
type chromaHighlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// NewChroma creates a terminal Highlighter. Unknown style names fall back to chroma's
// default style; formatterName defaults to "terminal256".
func NewChroma(styleName, formatterName string) Highlighter { // minimal comment
	if strings.TrimSpace(styleName) == "" {
		styleName = DefaultStyle
	}
	if strings.TrimSpace(formatterName) == "" {
		formatterName = "terminal256"
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get(formatterName)
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return &chromaHighlighter{style: style, formatter: formatter}
}

// Highlight implements Highlighter.
func (h *chromaHighlighter) Highlight(code string, language string) (string, error) {
	if code == "" {
		return "", nil
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, fmt.Errorf("failed to tokenise %s code: %w", language, err)
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return code, fmt.Errorf("failed to format %s code: %w", language, err)
	}
	return buf.String(), nil
}

// --- END OF FINAL REVISED FILE pkg/analyzer/highlight/highlight.go ---
