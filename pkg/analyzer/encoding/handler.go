// --- START OF FINAL REVISED FILE pkg/analyzer/encoding/handler.go ---
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// sniffLen is the number of bytes http.DetectContentType looks at.
	sniffLen = 512
	// nullCheckLen bounds the null byte scan.
	nullCheckLen = 1024
	// nullThreshold is the fraction of null bytes above which content counts as binary.
	nullThreshold = 0.10
)

// ErrBinaryContent is returned by Decode when the content does not look like source text.
var ErrBinaryContent = errors.New("content appears to be binary")

// textMIMEPrefixes lists sniffed MIME types that still count as source text.
var textMIMEPrefixes = []string{
	"text/",
	"application/json",
	"application/xml",
	"application/javascript",
	"application/octet-stream", // inconclusive, the null byte scan decides
}

// Handler turns raw uploaded bytes into the UTF-8 text placed in the code editor.
type Handler interface {
	// Decode converts content to UTF-8 text. It returns the text, the IANA name of the
	// source encoding, and ErrBinaryContent (wrapped) for binary input.
	Decode(content []byte) (text string, encodingName string, err error)

	// IsBinary reports whether content is likely binary data.
	IsBinary(content []byte) bool
}

// charsetHandler implements Handler with golang.org/x/net/html/charset.
type charsetHandler struct {
	defaultEncoding string
}

// NewCharsetHandler creates a Handler. defaultEncoding (e.g. "windows-1252") is used when
// detection is uncertain and the content is not valid UTF-8; empty means no fallback.
func NewCharsetHandler(defaultEncoding string) Handler { // minimal comment
	return &charsetHandler{defaultEncoding: strings.TrimSpace(defaultEncoding)}
}

// Decode implements Handler.
func (h *charsetHandler) Decode(content []byte) (string, string, error) {
	if len(content) == 0 {
		return "", "utf-8", nil
	}
	if h.IsBinary(content) {
		return "", "", fmt.Errorf("%w (%d bytes)", ErrBinaryContent, len(content))
	}

	// A byte order mark is authoritative.
	if hasBOM(content) {
		decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		out, _, err := transform.Bytes(decoder, content)
		if err != nil {
			return "", "", fmt.Errorf("failed to decode BOM-prefixed content: %w", err)
		}
		return string(out), bomName(content), nil
	}

	// Valid UTF-8 needs no conversion.
	if utf8.Valid(content) {
		return string(content), "utf-8", nil
	}

	enc, name, certain := charset.DetermineEncoding(content, "text/plain")
	if !certain && h.defaultEncoding != "" {
		if fallback, fallbackName := charset.Lookup(h.defaultEncoding); fallback != nil {
			enc, name = fallback, fallbackName
		}
	}
	if enc == nil {
		return string(content), "utf-8", nil
	}

	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), enc.NewDecoder()))
	if err != nil {
		return "", name, fmt.Errorf("failed to convert from '%s': %w", name, err)
	}
	return string(out), name, nil
}

// IsBinary implements Handler.
func (h *charsetHandler) IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	if hasBOM(content) {
		return false // UTF-16 text is full of nulls
	}

	sniff := content
	if len(sniff) > sniffLen {
		sniff = sniff[:sniffLen]
	}
	contentType := strings.TrimSpace(strings.SplitN(http.DetectContentType(sniff), ";", 2)[0])
	textLike := false
	for _, prefix := range textMIMEPrefixes {
		if strings.HasPrefix(contentType, prefix) {
			textLike = true
			break
		}
	}
	if !textLike {
		return true
	}

	scan := content
	if len(scan) > nullCheckLen {
		scan = scan[:nullCheckLen]
	}
	nulls := bytes.Count(scan, []byte{0x00})
	return float64(nulls)/float64(len(scan)) > nullThreshold
}

func hasBOM(b []byte) bool {
	return bomName(b) != ""
}

func bomName(b []byte) string {
	switch {
	case bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}):
		return "utf-8"
	case bytes.HasPrefix(b, []byte{0xFE, 0xFF}):
		return "utf-16be"
	case bytes.HasPrefix(b, []byte{0xFF, 0xFE}):
		return "utf-16le"
	}
	return ""
}

// --- END OF FINAL REVISED FILE pkg/analyzer/encoding/handler.go ---
