// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ccmsg_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mdhender/ccmsg"
)

func TestPrintDiagnostic_UnexpectedToken(t *testing.T) {
	input := "feat(api) x"
	_, err := ccmsg.Parse(input)
	diag, ok := ccmsg.DiagnosticFromError(err)
	if !ok {
		t.Fatalf("DiagnosticFromError(%v) = false, want true", err)
	}

	buf := &bytes.Buffer{}
	ccmsg.PrintDiagnostic(buf, diag, "COMMIT_EDITMSG", ccmsg.Trim(input))

	want := "COMMIT_EDITMSG:1:10: error: unexpected ' '\n" +
		"    feat(api) x\n" +
		"             ^\n" +
		"    note: expected \":\"\n"
	if got := buf.String(); got != want {
		t.Errorf("PrintDiagnostic:\n got %q\nwant %q", got, want)
	}
}

func TestPrintDiagnostic_EndOfInput(t *testing.T) {
	_, err := ccmsg.Parse("fix:")
	diag, ok := ccmsg.DiagnosticFromError(err)
	if !ok {
		t.Fatalf("DiagnosticFromError(%v) = false, want true", err)
	}

	buf := &bytes.Buffer{}
	ccmsg.PrintDiagnostic(buf, diag, "-", "fix:")

	want := "-:1:5: error: unexpected end of input\n" +
		"    fix:\n" +
		"        ^\n" +
		"    note: expected \"text\"\n"
	if got := buf.String(); got != want {
		t.Errorf("PrintDiagnostic:\n got %q\nwant %q", got, want)
	}
}

func TestDiagnosticFromError_OtherErrors(t *testing.T) {
	if _, ok := ccmsg.DiagnosticFromError(errors.New("boom")); ok {
		t.Errorf("DiagnosticFromError(boom) = true, want false")
	}
}
