// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ccmsg_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mdhender/ccmsg"
)

func TestKind_String(t *testing.T) {
	for kind, want := range map[ccmsg.Kind]string{
		ccmsg.Message:        "message",
		ccmsg.SummarySep:     "summary-sep",
		ccmsg.BreakingChange: "breaking-change",
		ccmsg.BodyFooter:     "body-footer",
		ccmsg.Continuation:   "continuation",
		ccmsg.Kind(99):       "Kind(99)",
	} {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}

func TestNode_JSON(t *testing.T) {
	msg := mustParse(t, "fix(ui)!: tidy")
	data, err := json.Marshal(msg.Child(ccmsg.Summary).Child(ccmsg.SummarySep))
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	want := `{"kind":"summary-sep","value":":","children":[{"kind":"breaking-change","value":"!","start":7,"end":8}],"start":7,"end":9}`
	if got := string(data); got != want {
		t.Errorf("json = %s\nwant %s", got, want)
	}

	var kind ccmsg.Kind
	if err := json.Unmarshal([]byte(`"body-footer"`), &kind); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if kind != ccmsg.BodyFooter {
		t.Errorf("kind = %s, want %s", kind, ccmsg.BodyFooter)
	}
	if err := json.Unmarshal([]byte(`"nope"`), &kind); err == nil || !strings.Contains(err.Error(), "nope") {
		t.Errorf("unmarshal unknown kind: err = %v", err)
	}
}
