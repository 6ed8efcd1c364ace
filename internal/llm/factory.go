package llm

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tsukumogami/leadgenius/internal/log"
)

// DefaultProvider is used when no provider name is configured.
const DefaultProvider = "gemini"

// Options configures NewProvider.
type Options struct {
	// APIKey is the credential for the selected provider. May be empty;
	// the provider then fails at call time.
	APIKey string

	// Model overrides the provider's default model.
	Model string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string

	// RequestsPerMinute enables pacing when positive.
	RequestsPerMinute int

	// LastRequest is when the previous request started, possibly in another
	// process. Pacing counts it against the budget.
	LastRequest time.Time

	// OnRequest is called with the start time of each paced request so it
	// can be persisted and passed back as LastRequest next time.
	OnRequest func(time.Time)

	// HTTPClient is passed through to the SDK.
	HTTPClient *http.Client

	// Logger for debug output. If nil, uses log.Default().
	Logger log.Logger
}

// ProviderNames lists the supported provider identifiers.
func ProviderNames() []string {
	return []string{"gemini", "claude"}
}

// SecretFor returns the secrets key holding the credential for a provider.
func SecretFor(name string) (string, error) {
	switch normalizeName(name) {
	case "gemini":
		return "google_api_key", nil
	case "claude":
		return "anthropic_api_key", nil
	}
	return "", unknownProvider(name)
}

// NewProvider builds the named provider, wrapped for pacing when configured.
// An empty name selects DefaultProvider.
func NewProvider(name string, opts Options) (Provider, error) {
	logger := log.Or(opts.Logger)

	var p Provider
	switch normalizeName(name) {
	case "gemini":
		p = NewGeminiProvider(GeminiOptions{
			APIKey:     opts.APIKey,
			Model:      opts.Model,
			BaseURL:    opts.BaseURL,
			HTTPClient: opts.HTTPClient,
			Logger:     logger,
		})
	case "claude":
		p = NewClaudeProvider(ClaudeOptions{
			APIKey:     opts.APIKey,
			Model:      opts.Model,
			BaseURL:    opts.BaseURL,
			HTTPClient: opts.HTTPClient,
			Logger:     logger,
		})
	default:
		return nil, unknownProvider(name)
	}

	return Pace(p, opts), nil
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultProvider
	}
	return name
}

func unknownProvider(name string) error {
	return fmt.Errorf("unknown provider %q (expected one of %s)", name, strings.Join(ProviderNames(), ", "))
}
