// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ccmsg

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Diagnostic represents a parser error/warning
// with a location in the trimmed source.
type Diagnostic struct {
	Severity slog.Level // Error, Warning, Info
	Message  string     // "unexpected ' '"
	Offset   int        // byte offset of the problem
	Line     int        // 1-based
	Column   int        // 1-based, character column
	Notes    []string   // optional additional help messages
}

// DiagnosticFromError converts a parse failure into a Diagnostic.
// It returns false if err is not an *UnexpectedToken.
func DiagnosticFromError(err error) (Diagnostic, bool) {
	var ut *UnexpectedToken
	if !errors.As(err, &ut) {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Severity: slog.LevelError,
		Message:  "unexpected " + ut.FoundText(),
		Offset:   ut.Offset,
		Line:     ut.Line,
		Column:   ut.Column,
		Notes:    []string{"expected " + ut.ExpectedText()},
	}, true
}

// PrintDiagnostic writes the diagnostic, the source line it refers to,
// and a caret under the column.
func PrintDiagnostic(w io.Writer, diag Diagnostic, filename string, src string) {
	// Header: file:line:column: error: message
	_, _ = fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
		filename, diag.Line, diag.Column,
		strings.ToLower(diag.Severity.String()), diag.Message)

	line := findLine(src, diag.Offset)
	_, _ = fmt.Fprintf(w, "    %s\n", line)

	// caret underline; tabs are copied so the caret lines up
	prefix := line[:runeColumnOffset(diag.Column, line)]
	pad := strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		return ' '
	}, prefix)
	_, _ = fmt.Fprintf(w, "    %s^\n", pad)

	for _, note := range diag.Notes {
		_, _ = fmt.Fprintf(w, "    note: %s\n", note)
	}
}

// findLine returns the line containing the offset, without its new-line.
// An offset at the end of the source returns the last line.
func findLine(src string, offset int) string {
	if offset > len(src) {
		offset = len(src)
	}
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	lineEnd := len(src)
	if i := strings.IndexByte(src[lineStart:], '\n'); i != -1 {
		lineEnd = lineStart + i
	}
	return strings.TrimSuffix(src[lineStart:lineEnd], "\r")
}

// runeColumnOffset returns the byte offset of the 1-based column in line.
func runeColumnOffset(column int, line string) (offset int) {
	for column > 1 && offset < len(line) {
		// line is not empty, so DecodeRune will always return a width of 1 or more
		_, w := utf8.DecodeRuneInString(line[offset:])
		offset += w
		column--
	}
	return offset
}
