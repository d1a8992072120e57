// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mdhender/ccmsg"
)

// printTree writes one node per line, indented by depth.
func printTree(w io.Writer, n *ccmsg.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.Value != "" {
		_, _ = fmt.Fprintf(w, "%s%s %q\n", indent, n.Kind, n.Value)
	} else {
		_, _ = fmt.Fprintf(w, "%s%s\n", indent, n.Kind)
	}
	for _, ch := range n.Children {
		printTree(w, ch, depth+1)
	}
}
