package errmsg

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/tsukumogami/leadgenius/internal/history"
	"github.com/tsukumogami/leadgenius/internal/llm"
	"github.com/tsukumogami/leadgenius/internal/research"
	"github.com/tsukumogami/leadgenius/internal/searchlock"
)

func assertContainsAll(t *testing.T, result string, checks []string) {
	t.Helper()
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected result to contain %q, got:\n%s", check, result)
		}
	}
}

func TestFormat_NilError(t *testing.T) {
	result := Format(nil, nil)
	if result != "" {
		t.Errorf("expected empty string for nil error, got %q", result)
	}
}

func TestFormat_GenericError(t *testing.T) {
	err := errors.New("something went wrong")
	result := Format(err, nil)
	if result != "something went wrong" {
		t.Errorf("expected original error message, got %q", result)
	}
}

func TestFormat_MissingAPIKey(t *testing.T) {
	err := &research.TransportError{Err: fmt.Errorf("gemini: %w: set GOOGLE_API_KEY (or GEMINI_API_KEY)", llm.ErrMissingAPIKey)}
	result := Format(err, &ErrorContext{Provider: "gemini", SecretKey: "google_api_key"})

	assertContainsAll(t, result, []string{
		"API key not configured",
		"Suggestions:",
		"GOOGLE_API_KEY",
		"leadgenius secrets set google_api_key",
		"config.toml",
	})
}

func TestFormat_MissingAPIKey_Claude(t *testing.T) {
	err := fmt.Errorf("claude: %w: set ANTHROPIC_API_KEY", llm.ErrMissingAPIKey)
	result := Format(err, &ErrorContext{Provider: "claude", SecretKey: "anthropic_api_key"})

	assertContainsAll(t, result, []string{
		"Export ANTHROPIC_API_KEY",
		"leadgenius secrets set anthropic_api_key",
	})
}

func TestFormat_InvalidAPIKey(t *testing.T) {
	err := &research.TransportError{Err: errors.New("gemini API call failed: Error 400, Message: API key not valid. Please pass a valid API key., Status: INVALID_ARGUMENT")}
	result := Format(err, nil)

	assertContainsAll(t, result, []string{
		"API key not valid",
		"Possible causes:",
		"leadgenius secrets list",
		"leadgenius secrets set google_api_key",
	})
}

func TestFormat_SearchBusy(t *testing.T) {
	err := &searchlock.BusyError{}
	result := Format(err, nil)

	assertContainsAll(t, result, []string{
		"another search is already running",
		"Wait for the running search to finish",
	})
}

func TestFormat_EmptyResponse(t *testing.T) {
	result := Format(research.ErrEmptyResponse, nil)

	assertContainsAll(t, result, []string{
		"empty response from AI",
		"Rephrase the query",
	})
}

func TestFormat_MalformedReply(t *testing.T) {
	err := &research.MalformedReplyError{Raw: "Sorry!", Err: errors.New("invalid character 'S'")}
	result := Format(err, nil)

	assertContainsAll(t, result, []string{
		"not a valid JSON array",
		"Possible causes:",
		"--debug",
	})
}

func TestFormat_HistoryNotFound(t *testing.T) {
	err := fmt.Errorf("history show 0190: %w", history.ErrNotFound)
	result := Format(err, nil)

	assertContainsAll(t, result, []string{
		"search not found",
		"leadgenius history",
	})
}

func TestFormat_RateLimitError(t *testing.T) {
	err := &research.TransportError{Err: errors.New("gemini API call failed: Error 429, Message: Resource has been exhausted (e.g. check quota)., Status: RESOURCE_EXHAUSTED")}
	result := Format(err, nil)

	assertContainsAll(t, result, []string{
		"RESOURCE_EXHAUSTED",
		"Possible causes:",
		"Too many requests",
		"Suggestions:",
		"requests_per_minute",
	})
}

func TestFormat_NetworkError(t *testing.T) {
	err := errors.New("dial tcp: connection refused")
	result := Format(err, nil)

	assertContainsAll(t, result, []string{
		"connection refused",
		"Possible causes:",
		"Network connectivity issue",
		"Suggestions:",
		"Check your internet connection",
	})
}

func TestFormat_PermissionError(t *testing.T) {
	err := errors.New("open /home/user/.leadgenius/history.db: permission denied")
	result := Format(err, nil)

	assertContainsAll(t, result, []string{
		"permission denied",
		"Possible causes:",
		"Insufficient permissions",
		"Suggestions:",
		"~/.leadgenius",
	})
}

// mockNetError implements net.Error for testing
type mockNetError struct {
	msg       string
	timeout   bool
	temporary bool
}

func (e mockNetError) Error() string   { return e.msg }
func (e mockNetError) Timeout() bool   { return e.timeout }
func (e mockNetError) Temporary() bool { return e.temporary }

// Ensure mockNetError implements net.Error
var _ net.Error = mockNetError{}

func TestFormat_NetError_Timeout(t *testing.T) {
	err := mockNetError{
		msg:     "read tcp: deadline exceeded",
		timeout: true,
	}
	result := Format(err, nil)

	assertContainsAll(t, result, []string{
		"deadline exceeded",
		"Request timed out",
		"LEADGENIUS_API_TIMEOUT",
	})
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf, research.ErrEmptyResponse, nil)

	out := buf.String()
	if !strings.HasPrefix(out, "Error: empty response from AI\n") {
		t.Errorf("unexpected prefix:\n%s", out)
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Errorf("expected a single trailing newline, got %q", out)
	}

	buf.Reset()
	Fprint(&buf, nil, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output for nil error, got %q", buf.String())
	}
}

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		msg      string
		expected bool
	}{
		{"rate limit exceeded", true},
		{"rate-limit: too many requests", true},
		{"Too many requests to the server", true},
		{"rate_limit_error", true},
		{"Status: RESOURCE_EXHAUSTED", true},
		{"connection failed", false},
		{"file not found", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := isRateLimitError(tt.msg); got != tt.expected {
				t.Errorf("isRateLimitError(%q) = %v, want %v", tt.msg, got, tt.expected)
			}
		})
	}
}

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		msg      string
		expected bool
	}{
		{"dial tcp 1.2.3.4:443: connection refused", true},
		{"lookup generativelanguage.googleapis.com: no such host", true},
		{"i/o timeout", true},
		{"API key not valid", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := isNetworkError(tt.msg); got != tt.expected {
				t.Errorf("isNetworkError(%q) = %v, want %v", tt.msg, got, tt.expected)
			}
		})
	}
}
