// Package domain holds the metadata header model and the rules applied to it.
package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Recognized metadata field names.
const (
	FieldTitle       = "Title"
	FieldVersion     = "Version"
	FieldLastUpdated = "Last Updated"
	FieldOwner       = "Owner"
	FieldStatus      = "Status"
	FieldDecision    = "Decision"
)

// DefaultHeaderLines is how many leading lines of a document are searched for
// the metadata header.
const DefaultHeaderLines = 40

// RequiredFields lists every recognized field in presence-check order.
var RequiredFields = []string{
	FieldTitle,
	FieldVersion,
	FieldLastUpdated,
	FieldOwner,
	FieldStatus,
	FieldDecision,
}

// Metadata maps a recognized field name to its trimmed value.
type Metadata map[string]string

// Has reports whether field was present in the header, even with an empty value.
func (m Metadata) Has(field string) bool {
	_, ok := m[field]
	return ok
}

// IsRequiredField reports whether key is one of the recognized field names.
func IsRequiredField(key string) bool {
	for _, f := range RequiredFields {
		if f == key {
			return true
		}
	}
	return false
}

// HeaderLines splits text into lines and returns at most the first n.
// A non-positive n returns every line.
//
// Lines end at LF, CR, CRLF, VT, FF, the file/group/record separators
// (0x1C-0x1E), NEL, LINE SEPARATOR and PARAGRAPH SEPARATOR. A final
// terminator does not start an empty trailing line.
func HeaderLines(text string, n int) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
		if n > 0 && len(lines) == n {
			return lines
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// ExtractMetadata collects recognized `Key: value` pairs from the leading
// lines of a document. Scanning stops at the first level-2 heading once at
// least one field has been collected. Unrecognized lines are ignored; the
// last occurrence of a repeated key wins.
func ExtractMetadata(lines []string) Metadata {
	meta := Metadata{}
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "## ") && len(meta) > 0 {
			break
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if IsRequiredField(key) {
			meta[key] = strings.TrimSpace(val)
		}
	}
	return meta
}
