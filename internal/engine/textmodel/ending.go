package textmodel

import (
	"runtime"
	"strings"
)

// LineEnding selects the line separator used when serializing a model.
type LineEnding uint8

const (
	LineEndingLF     LineEnding = iota // Unix: \n
	LineEndingCRLF                     // Windows: \r\n
	LineEndingCR                       // Old Mac: \r
	LineEndingNative                   // the platform's separator
)

// String returns the escaped form of the line ending.
func (le LineEnding) String() string {
	switch le.resolve() {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le.resolve() {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

func (le LineEnding) resolve() LineEnding {
	if le != LineEndingNative {
		return le
	}
	if runtime.GOOS == "windows" {
		return LineEndingCRLF
	}
	return LineEndingLF
}

// ParseLineEnding parses "lf", "crlf", "cr" or "native".
func ParseLineEnding(s string) (LineEnding, bool) {
	switch strings.ToLower(s) {
	case "lf", "\\n":
		return LineEndingLF, true
	case "crlf", "\\r\\n":
		return LineEndingCRLF, true
	case "cr", "\\r":
		return LineEndingCR, true
	case "native":
		return LineEndingNative, true
	}
	return LineEndingLF, false
}

// DetectLineEnding returns the most common line ending in text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			crlfCount++
			i++
		case text[i] == '\r':
			crCount++
		case text[i] == '\n':
			lfCount++
		}
	}

	if crlfCount > 0 && crlfCount >= lfCount && crlfCount >= crCount {
		return LineEndingCRLF
	}
	if crCount > 0 && crCount >= lfCount && crCount >= crlfCount {
		return LineEndingCR
	}
	return LineEndingLF
}

// normalizeLineEndings converts CRLF and lone CR to LF.
func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
