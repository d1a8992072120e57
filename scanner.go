// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ccmsg

import (
	"strings"
	"unicode/utf8"
)

// Scanner invariants and coordinate system
//
// The scanner treats input as an immutable UTF-8 string. Every value it
// returns is a view into that string; nothing is copied.
//
// Fields:
//   input  - the original text
//   pos    - byte offset of the current rune, 0 <= pos <= len(input)
//   high   - the furthest offset the scanner has ever reached
//
// Line endings are normalized on read so that:
//   * "\n"   (LF) is seen as "\n"
//   * "\r\n" (CRLF) is seen as a single "\n" rune that is two bytes wide
//   * a stray "\r" is an ordinary character
//
// Invariants (must always hold):
//   0 <= pos <= high <= len(input)
//
//   pos == len(input) <=> Peek() == EOF
//
// The cursor only moves forward over characters the caller has already
// looked at with Peek or PeekLiteral. It moves backward only through
// Rewind, and only to an offset at or before high.

type Scanner struct {
	input string
	pos   int
	high  int
}

func NewScanner(text string) *Scanner {
	return &Scanner{input: text}
}

// Position returns the current byte offset into the input.
func (s *Scanner) Position() int {
	return s.pos
}

func (s *Scanner) EOF() bool {
	return s.pos >= len(s.input)
}

// Peek returns the current character without advancing the input.
// It returns EOF at end of input.
func (s *Scanner) Peek() rune {
	ch, _ := s.peek()
	return ch
}

// peek returns the current character and its width in bytes.
func (s *Scanner) peek() (rune, int) {
	if s.pos >= len(s.input) {
		return EOF, 0
	}
	r := rune(s.input[s.pos])
	if r == LF {
		return LF, 1
	} else if r == CR && s.pos+1 < len(s.input) && s.input[s.pos+1] == '\n' {
		// merge CR+LF into a single LF rune, but consume both bytes
		return LF, 2
	} else if r >= utf8.RuneSelf {
		// the current rune must be decoded
		return utf8.DecodeRuneInString(s.input[s.pos:])
	}
	return r, 1
}

// PeekLiteral reports whether the input at the cursor starts with lit.
func (s *Scanner) PeekLiteral(lit string) bool {
	return strings.HasPrefix(s.input[s.pos:], lit)
}

// Next returns the current character and advances past it.
//
// Panics at end of input; callers must check EOF or Peek first.
func (s *Scanner) Next() rune {
	ch, w := s.peek()
	if ch == EOF {
		panic("assert(!scanner.EOF())")
	}
	s.pos += w
	if s.pos > s.high {
		s.high = s.pos
	}
	return ch
}

// NextN consumes up to n characters and returns them as a slice of the input.
// It stops early at end of input.
func (s *Scanner) NextN(n int) string {
	if n < 0 {
		panic("assert(n >= 0)")
	}
	start := s.pos
	for ; n > 0 && !s.EOF(); n-- {
		s.Next()
	}
	return s.input[start:s.pos]
}

// ConsumeWhitespace skips spaces and tabs. It never consumes a new-line.
func (s *Scanner) ConsumeWhitespace() {
	for isWhitespace(s.Peek()) {
		s.Next()
	}
}

// Rewind moves the cursor back to pos, which must be an offset this scanner
// has already visited. It panics on offsets Position can never return:
// past the furthest visited offset, inside a multi-byte rune, or between
// the CR and LF of a line break.
func (s *Scanner) Rewind(pos int) {
	if pos < 0 || pos > s.high {
		panic("assert(0 <= pos <= scanner.high)")
	}
	if pos < len(s.input) && !utf8.RuneStart(s.input[pos]) {
		panic("assert(utf8.RuneStart(input[pos]))")
	}
	if 0 < pos && pos < len(s.input) && s.input[pos-1] == '\r' && s.input[pos] == '\n' {
		panic("assert(pos is not inside CR+LF)")
	}
	s.pos = pos
}

// Slice returns input[start:end].
func (s *Scanner) Slice(start, end int) string {
	return s.input[start:end]
}

// LineColumn returns the 1-based line and column of the byte offset.
// Columns count characters, not bytes. CR+LF counts as one line break.
func (s *Scanner) LineColumn(offset int) (line, column int) {
	if offset > len(s.input) {
		offset = len(s.input)
	}
	line, column = 1, 1
	for i, ch := range s.input[:offset] {
		if ch == CR && i+1 < len(s.input) && s.input[i+1] == '\n' {
			// folded into the LF that follows
			continue
		}
		if ch == LF {
			line, column = line+1, 1
		} else {
			column++
		}
	}
	return line, column
}
