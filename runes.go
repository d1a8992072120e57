// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ccmsg

const (
	// CR and LF are control characters, respectively coded 0x0D (13 decimal) and 0x0A (10 decimal).
	// Windows uses CR + LF, Unix/Mac uses LF.
	// The scanner folds CR + LF into a single LF; a stray CR is ordinary text.

	// CR is 0x0D or '\r'
	CR rune = rune(13)

	// LF is 0x0A or '\n'
	LF rune = rune(10)

	// EOF is a sentinel for end of input
	EOF rune = rune(-1)
)

// breakingChangeLiteral is the footer token that flags an incompatible change.
const breakingChangeLiteral = "BREAKING CHANGE"

// isWhitespace is true for horizontal whitespace only.
// New-lines are never whitespace.
func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t'
}

// isNewline expects the scanner to have folded CR+LF into LF already.
func isNewline(ch rune) bool {
	return ch == LF
}

func isParens(ch rune) bool {
	return ch == '(' || ch == ')'
}

// isBreakingMarker reports whether the scanner is looking at the "!"
// that marks a breaking change in a summary separator.
func isBreakingMarker(s *Scanner) bool {
	return s.PeekLiteral("!:")
}
