// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ccmsg

// Node is a node in the parse tree.
//
// Kind names the grammar production that built the node.
//
// Leaves carry the matched text in Value and have no children.
// Interior nodes carry their children in grammar order. The one interior
// node with a value is summary-sep: its Value is the colon and its only
// child, when present, is the "!" breaking-change marker.
//
// Start and End are byte offsets into the trimmed input; End is exclusive.
// Nodes are never modified once the parser returns them.
type Node struct {
	Kind     Kind    `json:"kind"`
	Value    string  `json:"value,omitempty"`
	Children []*Node `json:"children,omitempty"`
	Start    int     `json:"start"`
	End      int     `json:"end"`
}

func newLeafNode(kind Kind, value string, start, end int) *Node {
	return &Node{
		Kind:  kind,
		Value: value,
		Start: start,
		End:   end,
	}
}

// newInteriorNode creates a node that spans from start to end.
// Nil children are dropped so that optional productions leave no holes.
func newInteriorNode(kind Kind, start, end int, children ...*Node) *Node {
	n := &Node{
		Kind:  kind,
		Start: start,
		End:   end,
	}
	for _, ch := range children {
		if ch != nil {
			n.Children = append(n.Children, ch)
		}
	}
	return n
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Child returns the first direct child with the given kind, or nil.
//
// It returns nil if n is nil.
func (n *Node) Child(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, ch := range n.Children {
		if ch.Kind == kind {
			return ch
		}
	}
	return nil
}

// ChildrenOf returns the direct children with the given kind.
func (n *Node) ChildrenOf(kind Kind) []*Node {
	if n == nil {
		return nil
	}
	var list []*Node
	for _, ch := range n.Children {
		if ch.Kind == kind {
			list = append(list, ch)
		}
	}
	return list
}

// Walk calls fn for n and then for each descendant, depth first, in source order.
// If fn returns false, the children of that node are skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, ch := range n.Children {
		ch.Walk(fn)
	}
}

// Source returns the text of the input covered by the node.
// The input must be the trimmed text the node was parsed from.
func (n *Node) Source(input string) string {
	return input[n.Start:n.End]
}

// Span represents a range in the trimmed input: [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Text is a helper to return the original text of the span.
func (s Span) Text(input string) string {
	return input[s.Start:s.End]
}

func (n *Node) Span() Span {
	return Span{Start: n.Start, End: n.End}
}
