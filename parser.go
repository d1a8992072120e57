// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ccmsg

import (
	"fmt"
	"log/slog"
	"strings"
)

/*
Grammar:
	message     = summary (NEWLINE body-footer)?
	summary     = type "(" scope ")" summary-sep text
	            | type summary-sep text
	type        = 1*(char not in {NEWLINE, "(", ")", WHITESPACE, ":", "!:"})
	text        = 1*(char not NEWLINE)
	summary-sep = "!"? ":" WHITESPACE*
	scope       = 1*(char not in {NEWLINE, "(", ")"})
	body-footer = 1*footer
	footer      = token separator WHITESPACE* value NEWLINE?
	token       = "BREAKING CHANGE" | type "(" scope ")" | type
	separator   = summary-sep | " #"
	value       = text 1*continuation | text
	continuation= NEWLINE WHITESPACE text

Invariants:
 * Every parseX method returns either a node or a failure, never both.
 * A method that fails before committing to its production leaves the
   cursor where it started, so the caller can try an alternative at the
   same position.
 * Once summary has consumed a "(" it is committed; failures after that
   point propagate to Parse.
 * body-footer is all-or-nothing: when any footer fails, every footer it
   parsed is discarded and the cursor is rewound to where body-footer
   started. Text after the summary that is not a run of footers is
   therefore not represented in the tree and is not an error.
 * Blank lines between the summary and the first footer are skipped.
*/

type parser struct {
	s      *Scanner
	logger *slog.Logger
}

// Parse parses a commit message and returns the root message node.
//
// Leading and trailing whitespace is removed with Trim before parsing, and
// node offsets refer to the trimmed text.
//
// The only error returned for bad input is *UnexpectedToken, which is
// returned when the summary line is malformed.
func Parse(text string, options ...Option) (*Node, error) {
	cfg := &Config{}
	for _, option := range options {
		if err := option(cfg); err != nil {
			return nil, err
		}
	}
	p := &parser{
		s:      NewScanner(Trim(text)),
		logger: cfg.logger,
	}
	msg, fail := p.parseMessage()
	if fail != nil {
		p.debug("message: %v", fail)
		return nil, fail
	}
	return msg, nil
}

// Trim returns the text that Parse actually scans.
func Trim(text string) string {
	return strings.TrimSpace(text)
}

func (p *parser) parseMessage() (*Node, *UnexpectedToken) {
	start := p.s.Position()
	summary, fail := p.parseSummary()
	if fail != nil {
		return nil, fail
	}
	if p.s.EOF() {
		return newInteriorNode(Message, start, summary.End, summary), nil
	}
	// unreachable: text stops only at a new-line or end of input
	if !isNewline(p.s.Peek()) {
		return nil, unexpected(p.s, "\n")
	}
	p.s.Next()
	p.skipBlankLines()

	body := p.parseBodyFooter()
	end := summary.End
	if !body.IsLeaf() {
		end = body.End
	}
	return newInteriorNode(Message, start, end, summary, body), nil
}

// skipBlankLines consumes lines that hold nothing but whitespace.
func (p *parser) skipBlankLines() {
	for {
		pos := p.s.Position()
		p.s.ConsumeWhitespace()
		if !isNewline(p.s.Peek()) {
			p.s.Rewind(pos)
			return
		}
		p.s.Next()
	}
}

func (p *parser) parseSummary() (*Node, *UnexpectedToken) {
	start := p.s.Position()
	typ, fail := p.parseType()
	if fail != nil {
		return nil, fail
	}

	var scope *Node
	switch {
	case p.s.Peek() == '(':
		p.s.Next()
		if scope, fail = p.parseScope(); fail != nil {
			return nil, fail
		}
		if p.s.Peek() != ')' {
			return nil, unexpected(p.s, ")")
		}
		p.s.Next()
	case p.s.Peek() == ':' || isBreakingMarker(p.s):
		// unscoped summary
	default:
		return nil, unexpected(p.s, ":", "(")
	}

	sep, fail := p.parseSummarySep()
	if fail != nil {
		return nil, fail
	}
	text, fail := p.parseText()
	if fail != nil {
		return nil, fail
	}
	return newInteriorNode(Summary, start, text.End, typ, scope, sep, text), nil
}

// parseType is a maximal munch up to a new-line, parenthesis, whitespace,
// colon or breaking-change marker. A "!" that is not followed by ":" is
// part of the type.
func (p *parser) parseType() (*Node, *UnexpectedToken) {
	start := p.s.Position()
	for ch := p.s.Peek(); ch != EOF; ch = p.s.Peek() {
		if isNewline(ch) || isParens(ch) || isWhitespace(ch) || ch == ':' || isBreakingMarker(p.s) {
			break
		}
		p.s.Next()
	}
	if p.s.Position() == start {
		return nil, unexpected(p.s, "type")
	}
	return newLeafNode(Type, p.s.Slice(start, p.s.Position()), start, p.s.Position()), nil
}

func (p *parser) parseScope() (*Node, *UnexpectedToken) {
	start := p.s.Position()
	for ch := p.s.Peek(); ch != EOF && !isNewline(ch) && !isParens(ch); ch = p.s.Peek() {
		p.s.Next()
	}
	if p.s.Position() == start {
		return nil, unexpected(p.s, "scope")
	}
	return newLeafNode(Scope, p.s.Slice(start, p.s.Position()), start, p.s.Position()), nil
}

func (p *parser) parseText() (*Node, *UnexpectedToken) {
	start := p.s.Position()
	for ch := p.s.Peek(); ch != EOF && !isNewline(ch); ch = p.s.Peek() {
		p.s.Next()
	}
	if p.s.Position() == start {
		return nil, unexpected(p.s, "text")
	}
	return newLeafNode(Text, p.s.Slice(start, p.s.Position()), start, p.s.Position()), nil
}

// parseSummarySep returns a summary-sep node whose value is the colon.
// The breaking-change marker, if present, is its only child.
// The node does not cover the whitespace swallowed after the colon.
func (p *parser) parseSummarySep() (*Node, *UnexpectedToken) {
	start := p.s.Position()
	var marker *Node
	if p.s.Peek() == '!' {
		p.s.Next()
		marker = newLeafNode(BreakingChange, "!", start, p.s.Position())
	}
	if p.s.Peek() != ':' {
		fail := unexpected(p.s, ":")
		p.s.Rewind(start)
		return nil, fail
	}
	p.s.Next()
	sep := newInteriorNode(SummarySep, start, p.s.Position(), marker)
	sep.Value = ":"
	p.s.ConsumeWhitespace()
	return sep, nil
}

// parseBodyFooter never fails. See the invariants at the top of this file.
func (p *parser) parseBodyFooter() *Node {
	start := p.s.Position()
	var footers []*Node
	for !p.s.EOF() {
		footer, fail := p.parseFooter()
		if fail != nil {
			p.debug("body-footer: discarding %d footers: %v", len(footers), fail)
			p.s.Rewind(start)
			return newInteriorNode(BodyFooter, start, start)
		}
		footers = append(footers, footer)
	}
	end := start
	if len(footers) != 0 {
		end = footers[len(footers)-1].End
	}
	return newInteriorNode(BodyFooter, start, end, footers...)
}

func (p *parser) parseFooter() (*Node, *UnexpectedToken) {
	start := p.s.Position()
	token, fail := p.parseToken()
	if fail != nil {
		p.s.Rewind(start)
		return nil, fail
	}
	sep, fail := p.parseSeparator()
	if fail != nil {
		p.s.Rewind(start)
		return nil, fail
	}
	p.s.ConsumeWhitespace()
	value, fail := p.parseValue()
	if fail != nil {
		p.s.Rewind(start)
		return nil, fail
	}
	if isNewline(p.s.Peek()) {
		p.s.Next()
	}
	return newInteriorNode(Footer, start, value.End, token, sep, value), nil
}

// parseToken tries the BREAKING CHANGE literal first and falls back to
// a type with an optional scope.
func (p *parser) parseToken() (*Node, *UnexpectedToken) {
	start := p.s.Position()
	if p.s.PeekLiteral(breakingChangeLiteral) {
		lit := p.s.NextN(len(breakingChangeLiteral))
		marker := newLeafNode(BreakingChange, lit, start, p.s.Position())
		return newInteriorNode(Token, start, marker.End, marker), nil
	}

	typ, fail := p.parseType()
	if fail != nil {
		fail.Expected = append([]string{breakingChangeLiteral}, fail.Expected...)
		return nil, fail
	}
	var scope *Node
	if p.s.Peek() == '(' {
		p.s.Next()
		if scope, fail = p.parseScope(); fail != nil {
			p.s.Rewind(start)
			return nil, fail
		}
		if p.s.Peek() != ')' {
			fail = unexpected(p.s, ")")
			p.s.Rewind(start)
			return nil, fail
		}
		p.s.Next()
	}
	return newInteriorNode(Token, start, p.s.Position(), typ, scope), nil
}

func (p *parser) parseSeparator() (*Node, *UnexpectedToken) {
	start := p.s.Position()
	if sep, fail := p.parseSummarySep(); fail == nil {
		return newInteriorNode(Separator, start, sep.End, sep), nil
	}
	if p.s.PeekLiteral(" #") {
		value := p.s.NextN(2)
		return newLeafNode(Separator, value, start, p.s.Position()), nil
	}
	return nil, unexpected(p.s, ":", "!:", " #")
}

// parseValue accepts a line of text and any continuation lines after it.
func (p *parser) parseValue() (*Node, *UnexpectedToken) {
	start := p.s.Position()
	text, fail := p.parseText()
	if fail != nil {
		return nil, fail
	}
	children := []*Node{text}
	for {
		cont, fail := p.parseContinuation()
		if fail != nil {
			break
		}
		children = append(children, cont)
	}
	return newInteriorNode(Value, start, children[len(children)-1].End, children...), nil
}

// parseContinuation accepts a new-line, exactly one whitespace character,
// and a line of text. Further indentation belongs to the text.
// A line without leading whitespace is not consumed.
func (p *parser) parseContinuation() (*Node, *UnexpectedToken) {
	start := p.s.Position()
	if !isNewline(p.s.Peek()) {
		return nil, unexpected(p.s, "\n")
	}
	p.s.Next()
	if !isWhitespace(p.s.Peek()) {
		fail := unexpected(p.s, "whitespace")
		p.s.Rewind(start)
		return nil, fail
	}
	p.s.Next()
	text, fail := p.parseText()
	if fail != nil {
		p.s.Rewind(start)
		return nil, fail
	}
	return newInteriorNode(Continuation, start, text.End, text), nil
}

func (p *parser) debug(format string, args ...any) {
	if p.logger == nil {
		return
	}
	line, column := p.s.LineColumn(p.s.Position())
	p.logger.Debug(fmt.Sprintf(format, args...), "line", line, "column", column)
}
