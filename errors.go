// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ccmsg

import (
	"fmt"
	"strings"
)

// UnexpectedToken is the only parse failure. It reports the character the
// parser found, where it found it, and what it would have accepted instead.
type UnexpectedToken struct {
	Offset   int      // byte offset into the trimmed input
	Line     int      // 1-based
	Column   int      // 1-based, character column
	Found    rune     // EOF at end of input
	Expected []string // descriptions of the acceptable tokens, in order
}

func (e *UnexpectedToken) Error() string {
	return fmt.Sprintf("%d:%d: unexpected %s: expected %s", e.Line, e.Column, e.FoundText(), e.ExpectedText())
}

// FoundText returns the quoted character, or "end of input".
func (e *UnexpectedToken) FoundText() string {
	if e.Found == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", e.Found)
}

// ExpectedText returns the quoted expected tokens joined with "or".
func (e *UnexpectedToken) ExpectedText() string {
	expected := make([]string, len(e.Expected))
	for i, x := range e.Expected {
		expected[i] = fmt.Sprintf("%q", x)
	}
	return strings.Join(expected, " or ")
}

// unexpected builds a failure for the current scanner position.
func unexpected(s *Scanner, expected ...string) *UnexpectedToken {
	line, column := s.LineColumn(s.Position())
	return &UnexpectedToken{
		Offset:   s.Position(),
		Line:     line,
		Column:   column,
		Found:    s.Peek(),
		Expected: expected,
	}
}
