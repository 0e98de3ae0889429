// --- START OF FINAL REVISED FILE pkg/analyzer/language/detector.go ---
package language

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Detector guesses the language of content that arrives without a usable file name
// (for example code piped on stdin). It is opt-in: file loads always go through Resolve.
//
// Detect returns false when the guess is empty, plain text, or outside the enumerated set.
// It never substitutes Default for a failed guess.
type Detector interface {
	Detect(content []byte, filename string) (ID, bool)
}

// enryNames maps lowercase go-enry language names to identifiers.
var enryNames = map[string]ID{
	"python":     Python,
	"javascript": JavaScript,
	"java":       Java,
	"c++":        Cpp,
	"c":          C,
	"c#":         CSharp,
	"go":         Go,
	"rust":       Rust,
	"ruby":       Ruby,
	"php":        PHP,
}

// goEnryDetector implements Detector using go-enry's content and filename strategies.
type goEnryDetector struct{}

// NewGoEnryDetector creates the default Detector.
func NewGoEnryDetector() Detector { // minimal comment
	return &goEnryDetector{}
}

// Detect implements Detector.
func (d *goEnryDetector) Detect(content []byte, filename string) (ID, bool) { // minimal comment
	if len(strings.TrimSpace(string(content))) == 0 {
		return "", false
	}

	// 1. A known extension is authoritative
	if filename != "" {
		if id, ok := ResolvePath(filename); ok {
			return id, true
		}
	}

	// 2. Content strategies (modeline, shebang, heuristics, classifier)
	detected := enry.GetLanguage(filename, content)
	if detected == "" || detected == "Text" {
		return "", false
	}
	id, ok := enryNames[strings.ToLower(detected)]
	return id, ok
}

// --- END OF FINAL REVISED FILE pkg/analyzer/language/detector.go ---
