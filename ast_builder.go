// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ccmsg

import (
	"fmt"
	"strings"
)

// Commit is the flattened form of a parsed message.
// Spans are copied from the tree, never recomputed.
type Commit struct {
	Span        Span           `json:"span"`
	Type        string         `json:"type"`
	Scope       string         `json:"scope,omitempty"`
	Breaking    bool           `json:"breaking"`
	Description string         `json:"description"`
	Footers     []CommitFooter `json:"footers,omitempty"`
}

// CommitFooter is one footer of a Commit.
type CommitFooter struct {
	Span      Span   `json:"span"`
	Token     string `json:"token"`
	Scope     string `json:"scope,omitempty"`
	Separator string `json:"separator"`
	Value     string `json:"value"` // continuation lines are joined with LF, indentation removed
	Breaking  bool   `json:"breaking,omitempty"`
}

// BuildCommit flattens a message node returned by Parse.
//
// Breaking is set when the summary separator carries the "!" marker or any
// footer is a BREAKING CHANGE footer. Nothing is validated beyond the shape
// of the tree.
func BuildCommit(msg *Node) (*Commit, error) {
	if msg == nil || msg.Kind != Message {
		return nil, fmt.Errorf("build commit: want %s node", Message)
	}
	summary := msg.Child(Summary)
	if summary == nil {
		return nil, fmt.Errorf("build commit: missing %s", Summary)
	}

	c := &Commit{Span: msg.Span()}
	if n := summary.Child(Type); n != nil {
		c.Type = n.Value
	}
	if n := summary.Child(Scope); n != nil {
		c.Scope = n.Value
	}
	if n := summary.Child(SummarySep); n != nil {
		c.Breaking = n.Child(BreakingChange) != nil
	}
	if n := summary.Child(Text); n != nil {
		c.Description = n.Value
	}

	for _, n := range msg.Child(BodyFooter).ChildrenOf(Footer) {
		footer := buildFooter(n)
		if footer.Breaking {
			c.Breaking = true
		}
		c.Footers = append(c.Footers, footer)
	}

	return c, nil
}

func buildFooter(n *Node) CommitFooter {
	f := CommitFooter{Span: n.Span()}

	token := n.Child(Token)
	if lit := token.Child(BreakingChange); lit != nil {
		f.Token, f.Breaking = lit.Value, true
	}
	if typ := token.Child(Type); typ != nil {
		f.Token = typ.Value
	}
	if scope := token.Child(Scope); scope != nil {
		f.Scope = scope.Value
	}

	sep := n.Child(Separator)
	if ss := sep.Child(SummarySep); ss != nil {
		f.Separator = ss.Value
		if ss.Child(BreakingChange) != nil {
			f.Separator, f.Breaking = "!"+ss.Value, true
		}
	} else if sep != nil {
		f.Separator = sep.Value
	}

	var lines []string
	for _, ch := range n.Child(Value).Children {
		switch ch.Kind {
		case Text:
			lines = append(lines, ch.Value)
		case Continuation:
			lines = append(lines, strings.TrimLeft(ch.Child(Text).Value, " \t"))
		}
	}
	f.Value = strings.Join(lines, "\n")

	return f
}
