// --- START OF FINAL REVISED FILE pkg/analyzer/encoding/handler_test.go ---
package encoding_test

import (
	"errors"
	"testing"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharsetHandler_Decode(t *testing.T) {
	handler := encoding.NewCharsetHandler("")

	testCases := []struct {
		name     string
		input    []byte
		wantText string
		wantEnc  string
	}{
		{name: "Empty", input: nil, wantText: "", wantEnc: "utf-8"},
		{name: "Plain UTF-8", input: []byte("def f():\n    return 'ü'\n"), wantText: "def f():\n    return 'ü'\n", wantEnc: "utf-8"},
		{name: "UTF-8 BOM Stripped", input: []byte("\xEF\xBB\xBFprint(1)"), wantText: "print(1)", wantEnc: "utf-8"},
		{name: "UTF-16LE BOM", input: []byte("\xFF\xFEh\x00i\x00"), wantText: "hi", wantEnc: "utf-16le"},
		{name: "Latin-1 Fallback Guess", input: []byte("caf\xe9"), wantText: "café", wantEnc: "windows-1252"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			text, enc, err := handler.Decode(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.wantText, text)
			assert.Equal(t, tc.wantEnc, enc)
		})
	}
}

func TestCharsetHandler_DecodeBinary(t *testing.T) {
	handler := encoding.NewCharsetHandler("")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

	assert.True(t, handler.IsBinary(png))
	_, _, err := handler.Decode(png)
	require.Error(t, err)
	assert.True(t, errors.Is(err, encoding.ErrBinaryContent))
}

func TestCharsetHandler_IsBinary(t *testing.T) {
	handler := encoding.NewCharsetHandler("")

	assert.False(t, handler.IsBinary(nil))
	assert.False(t, handler.IsBinary([]byte("package main\n")))
	assert.True(t, handler.IsBinary([]byte{0x00, 0x01, 0x02, 0x00, 0x00, 0x03, 0x00, 0x00}))
	assert.False(t, handler.IsBinary([]byte("\xFE\xFF\x00h\x00i")), "BOM-prefixed UTF-16 is text")
}

// --- END OF FINAL REVISED FILE pkg/analyzer/encoding/handler_test.go ---
