// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"
)

func runParse(t *testing.T, input string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := cmdParse()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestParseCommand_ReportsFailureOnce(t *testing.T) {
	stdout, stderr, err := runParse(t, "nocolon here", "-")
	if err == nil {
		t.Fatalf("parse succeeded, want error")
	}
	if got, want := strings.Count(stderr, "unexpected ' '"), 1; got != want {
		t.Errorf("failure reported %d times, want %d:\n%s", got, want, stderr)
	}
	if !strings.HasPrefix(stderr, "<stdin>:1:8: error: ") {
		t.Errorf("stderr = %q, want diagnostic header", stderr)
	}
	if strings.Contains(stderr, "Error:") {
		t.Errorf("stderr repeats the error:\n%s", stderr)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
}

func TestParseCommand_WritesTree(t *testing.T) {
	stdout, stderr, err := runParse(t, "fix: correct bug", "-")
	if err != nil {
		t.Fatalf("parse: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "summary") {
		t.Errorf("stdout = %q, want a summary node", stdout)
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want empty", stderr)
	}
}

func TestParseCommand_RejectsUnknownFormat(t *testing.T) {
	_, stderr, err := runParse(t, "fix: correct bug", "--format", "yaml", "-")
	if err == nil {
		t.Fatalf("parse succeeded, want error")
	}
	// errors other than parse failures are still reported by cobra
	if !strings.Contains(stderr, "--format must be") {
		t.Errorf("stderr = %q, want the format error", stderr)
	}
}
