// --- START OF FINAL REVISED FILE pkg/analyzer/language/registry.go ---
package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ID is a language identifier understood by the analysis service and the highlighter.
// Only the values listed in Supported are valid.
type ID string

// Enumerated language identifiers.
const (
	Python     ID = "python"
	JavaScript ID = "javascript"
	Java       ID = "java"
	Cpp        ID = "cpp"
	C          ID = "c"
	CSharp     ID = "csharp"
	Go         ID = "go"
	Rust       ID = "rust"
	Ruby       ID = "ruby"
	PHP        ID = "php"
)

// Default is the language selected when nothing else has been chosen.
const Default = Python

// ErrUnsupportedLanguage is returned by Parse for identifiers outside the enumerated set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// supported lists the identifiers in display order (matches the selector order in the UI).
var supported = []ID{Python, JavaScript, Java, Cpp, C, CSharp, Go, Rust, Ruby, PHP}

// extensionTable maps lowercase extensions (without the dot) to language identifiers.
// Never mutated after initialization.
var extensionTable = map[string]ID{
	"py":   Python,
	"js":   JavaScript,
	"java": Java,
	"cpp":  Cpp,
	"c":    C,
	"h":    C,
	"hpp":  Cpp,
	"cs":   CSharp,
	"go":   Go,
	"rs":   Rust,
	"rb":   Ruby,
	"php":  PHP,
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// Valid reports whether id is one of the enumerated identifiers.
func (id ID) Valid() bool {
	for _, s := range supported {
		if s == id {
			return true
		}
	}
	return false
}

// Supported returns a copy of the enumerated identifiers in display order.
func Supported() []ID {
	out := make([]ID, len(supported))
	copy(out, supported)
	return out
}

// Resolve maps a file extension to a language identifier.
// The lookup is case-insensitive and tolerates a leading dot ("py", ".py", "PY").
// The boolean is false when the extension is not in the table; callers must then leave
// the current selection untouched.
func Resolve(extension string) (ID, bool) {
	ext := strings.ToLower(strings.TrimSpace(extension))
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return "", false
	}
	id, ok := extensionTable[ext]
	return id, ok
}

// ResolvePath resolves the language of a file name using its final extension.
func ResolvePath(name string) (ID, bool) {
	return Resolve(filepath.Ext(name))
}

// Parse validates a user-supplied identifier. Matching is case-insensitive.
// An empty string yields Default.
func Parse(s string) (ID, error) {
	normalized := ID(strings.ToLower(strings.TrimSpace(s)))
	if normalized == "" {
		return Default, nil
	}
	if !normalized.Valid() {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedLanguage, s, joinSupported())
	}
	return normalized, nil
}

// Next returns the identifier following id in display order, wrapping around.
// Unknown identifiers yield the first entry.
func Next(id ID) ID { return step(id, 1) }

// Previous returns the identifier preceding id in display order, wrapping around.
func Previous(id ID) ID { return step(id, -1) }

func step(id ID, delta int) ID {
	for i, s := range supported {
		if s == id {
			n := len(supported)
			return supported[((i+delta)%n+n)%n]
		}
	}
	return supported[0]
}

func joinSupported() string {
	names := make([]string, len(supported))
	for i, s := range supported {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// --- END OF FINAL REVISED FILE pkg/analyzer/language/registry.go ---
