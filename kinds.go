// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ccmsg

import (
	"encoding/json"
	"fmt"
)

// Kind implements enums for nodes.
// Each kind is named after the grammar production that builds it.
type Kind int

const (
	UNKNOWN Kind = iota

	Message
	Summary
	Type
	Scope
	Text
	SummarySep
	Separator
	BreakingChange
	BodyFooter
	Footer
	Token
	Value
	Continuation
)

var kindNames = [...]string{
	UNKNOWN:        "unknown",
	Message:        "message",
	Summary:        "summary",
	Type:           "type",
	Scope:          "scope",
	Text:           "text",
	SummarySep:     "summary-sep",
	Separator:      "separator",
	BreakingChange: "breaking-change",
	BodyFooter:     "body-footer",
	Footer:         "footer",
	Token:          "token",
	Value:          "value",
	Continuation:   "continuation",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range kindNames {
		if n == name {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", name)
}
