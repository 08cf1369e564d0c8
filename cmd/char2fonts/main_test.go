package main

import (
	"os"
	"os/exec"
	"strings"
	"testing"
)

// Without query characters and without -i there is nothing to do: the process
// must print usage and exit with status 1 before any font file is touched.
// main calls os.Exit, so the check re-runs the test binary as a child process
// with main as its effective entry point.
func TestUsageWithoutArguments(t *testing.T) {
	if os.Getenv("CHAR2FONTS_RUN_MAIN") == "1" {
		os.Args = []string{"char2fonts"}
		main()
		return // not reached, main exits
	}
	cmd := exec.Command(os.Args[0], "-test.run=TestUsageWithoutArguments")
	cmd.Env = append(os.Environ(), "CHAR2FONTS_RUN_MAIN=1")
	out, err := cmd.CombinedOutput()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected the child run to fail with an exit error, got %v", err)
	}
	if code := exitErr.ExitCode(); code != 1 {
		t.Errorf("expected exit status 1, got %d", code)
	}
	if !strings.Contains(string(out), "Usage: char2fonts") {
		t.Errorf("expected a usage message, got:\n%s", out)
	}
	if strings.Contains(string(out), "candidate font files") {
		t.Error("expected no font scanning before the usage check")
	}
}
