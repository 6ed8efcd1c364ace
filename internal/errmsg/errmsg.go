// Package errmsg provides enhanced error message formatting with actionable suggestions.
package errmsg

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/tsukumogami/leadgenius/internal/history"
	"github.com/tsukumogami/leadgenius/internal/llm"
	"github.com/tsukumogami/leadgenius/internal/research"
	"github.com/tsukumogami/leadgenius/internal/searchlock"
)

// ErrorContext provides additional context for error formatting
type ErrorContext struct {
	Provider  string // Provider in use, for credential suggestions
	SecretKey string // Secrets key holding that provider's credential
}

// Fprint writes "Error: " followed by the formatted error to w.
func Fprint(w io.Writer, err error, ctx *ErrorContext) {
	if err == nil {
		return
	}
	msg := strings.TrimRight(Format(err, ctx), "\n")
	fmt.Fprintf(w, "Error: %s\n", msg)
}

// Format returns a formatted error message with possible causes and suggestions.
// The context parameter is optional - pass nil for generic formatting.
func Format(err error, ctx *ErrorContext) string {
	if err == nil {
		return ""
	}

	errMsg := err.Error()

	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return formatMissingKeyError(errMsg, ctx)
	case errors.Is(err, searchlock.ErrBusy):
		return formatBusyError(errMsg)
	case errors.Is(err, research.ErrEmptyResponse):
		return formatEmptyResponseError(errMsg)
	case errors.Is(err, research.ErrMalformedReply):
		return formatMalformedReplyError(errMsg)
	case errors.Is(err, history.ErrNotFound):
		return formatHistoryNotFoundError(errMsg)
	}

	if isInvalidKeyError(errMsg) {
		return formatInvalidKeyError(errMsg, ctx)
	}

	// Check for rate limit errors (string matching for unstructured errors)
	if isRateLimitError(errMsg) {
		return formatRateLimitError(errMsg)
	}

	// Check for network errors
	var netErr net.Error
	if errors.As(err, &netErr) {
		return formatNetworkError(netErr)
	}

	// Check for connection-related errors by message
	if isNetworkError(errMsg) {
		return formatGenericNetworkError(errMsg)
	}

	// Check for permission errors
	if isPermissionError(errMsg) {
		return formatPermissionError(errMsg)
	}

	// Return original error for unrecognized types
	return errMsg
}

func secretKey(ctx *ErrorContext) string {
	if ctx != nil && ctx.SecretKey != "" {
		return ctx.SecretKey
	}
	return "google_api_key"
}

func formatMissingKeyError(errMsg string, ctx *ErrorContext) string {
	var sb strings.Builder
	sb.WriteString(errMsg)
	sb.WriteString("\n")

	sb.WriteString("\nSuggestions:\n")
	if ctx != nil && ctx.Provider == "claude" {
		sb.WriteString("  - Export ANTHROPIC_API_KEY in your shell or a .env file\n")
	} else {
		sb.WriteString("  - Export GOOGLE_API_KEY (or GEMINI_API_KEY) in your shell or a .env file\n")
	}
	sb.WriteString(fmt.Sprintf("  - Store it in the OS keyring: leadgenius secrets set %s\n", secretKey(ctx)))
	sb.WriteString("  - Or add it under [secrets] in $LEADGENIUS_HOME/config.toml\n")

	return sb.String()
}

func formatInvalidKeyError(errMsg string, ctx *ErrorContext) string {
	var sb strings.Builder
	sb.WriteString(errMsg)
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - The API key is invalid, revoked or for another project\n")
	sb.WriteString("  - The key does not have access to the selected model\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Run 'leadgenius secrets list' to see where the key is read from\n")
	sb.WriteString(fmt.Sprintf("  - Replace it with 'leadgenius secrets set %s'\n", secretKey(ctx)))

	return sb.String()
}

func formatBusyError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg)
	sb.WriteString("\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Wait for the running search to finish, then try again\n")
	sb.WriteString("  - Use a separate LEADGENIUS_HOME to run searches side by side\n")

	return sb.String()
}

func formatEmptyResponseError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg)
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - The model found nothing to report for this query\n")
	sb.WriteString("  - The reply was blocked by a safety filter\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Rephrase the query or broaden the region\n")
	sb.WriteString("  - Try again in a few minutes\n")

	return sb.String()
}

func formatMalformedReplyError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg)
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - The model answered in prose instead of a JSON array\n")
	sb.WriteString("  - The reply was cut off before the array was closed\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Run the search again; replies vary between runs\n")
	sb.WriteString("  - Re-run with --debug to log the raw reply\n")

	return sb.String()
}

func formatHistoryNotFoundError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg)
	sb.WriteString("\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Run 'leadgenius history' to list stored searches\n")
	sb.WriteString("  - Run 'leadgenius search <query>' to create one\n")

	return sb.String()
}

func formatRateLimitError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg)
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - Too many requests to the API\n")
	sb.WriteString("  - The free-tier quota for the key is used up\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Wait a few minutes before retrying\n")
	sb.WriteString("  - Lower the pace with 'leadgenius config set requests_per_minute <n>'\n")

	return sb.String()
}

func formatNetworkError(err net.Error) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	if err.Timeout() {
		sb.WriteString("  - Request timed out\n")
		sb.WriteString("  - Slow or unstable network connection\n")
	} else {
		sb.WriteString("  - Network connectivity issue\n")
		sb.WriteString("  - DNS resolution failure\n")
	}
	sb.WriteString("  - Firewall or proxy blocking the connection\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Check your internet connection\n")
	sb.WriteString("  - Try again in a few minutes\n")
	if err.Timeout() {
		sb.WriteString("  - Raise LEADGENIUS_API_TIMEOUT for slow searches\n")
	}

	return sb.String()
}

func formatGenericNetworkError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg)
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - Network connectivity issue\n")
	sb.WriteString("  - DNS resolution failure\n")
	sb.WriteString("  - Service temporarily unavailable\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Check your internet connection\n")
	sb.WriteString("  - Try again in a few minutes\n")

	return sb.String()
}

func formatPermissionError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg)
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - Insufficient permissions on $LEADGENIUS_HOME directory\n")
	sb.WriteString("  - File or directory owned by different user\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Check permissions on ~/.leadgenius directory\n")
	sb.WriteString("  - Ensure you own the leadgenius directories: ls -la ~/.leadgenius\n")

	return sb.String()
}

// isInvalidKeyError checks if the error message indicates a rejected credential
func isInvalidKeyError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "api key not valid") ||
		strings.Contains(lower, "invalid x-api-key") ||
		strings.Contains(lower, "authentication_error") ||
		strings.Contains(lower, "permission_denied")
}

// isRateLimitError checks if the error message indicates a rate limit
func isRateLimitError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "rate-limit") ||
		strings.Contains(lower, "rate_limit") ||
		strings.Contains(lower, "too many requests") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "quota")
}

// isNetworkError checks if the error message indicates a network issue
func isNetworkError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "network is unreachable") ||
		strings.Contains(lower, "dial tcp") ||
		strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "i/o timeout")
}

// isPermissionError checks if the error message indicates a permission issue
func isPermissionError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "access denied") ||
		strings.Contains(lower, "operation not permitted")
}
