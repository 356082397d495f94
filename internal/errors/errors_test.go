package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

var errQuota = stderrors.New("daily entry limit reached")

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"simple error", stderrors.New("something went wrong"), "Error: something went wrong"},
		{
			name:     "hinted error",
			err:      WithHint(errQuota, "run 'murmur subscription upgrade'"),
			expected: "Error: daily entry limit reached\nHint: run 'murmur subscription upgrade'",
		},
		{
			name:     "hint survives wrapping",
			err:      fmt.Errorf("add entry: %w", WithHint(errQuota, "upgrade")),
			expected: "Error: add entry: daily entry limit reached\nHint: upgrade",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestWithHintPreservesIdentity(t *testing.T) {
	err := WithHint(errQuota, "upgrade")
	if !stderrors.Is(err, errQuota) {
		t.Error("errors.Is should see through the hint")
	}
	if WithHint(nil, "x") != nil {
		t.Error("WithHint(nil) should be nil")
	}
	if Hint(errQuota) != "" {
		t.Error("plain errors carry no hint")
	}
}

func TestFormatf(t *testing.T) {
	if got := Formatf("failed to load %s", "entries"); got != "Error: failed to load entries" {
		t.Errorf("Formatf = %q", got)
	}
}

func TestFatal(t *testing.T) {
	if os.Getenv("MURMUR_TEST_FATAL") == "1" {
		Fatal(stderrors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "MURMUR_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if !stderrors.As(err, &exitErr) {
		t.Fatalf("Fatal() did not exit with error: %v", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("Fatal() exit code = %d, want 1", exitErr.ExitCode())
	}
	if !strings.Contains(stderr.String(), "Error: test error") {
		t.Errorf("Fatal() stderr = %q", stderr.String())
	}
}
