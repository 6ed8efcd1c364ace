package secrets

// KeySpec defines how to resolve a specific secret.
type KeySpec struct {
	// EnvVars lists environment variables to check, in priority order.
	EnvVars []string

	// Desc is a human-readable description for error messages and CLI display.
	Desc string
}

// knownKeys maps secret names to their resolution specs.
// API_KEY is accepted for google_api_key so existing .env files written for
// the web front-end keep working.
var knownKeys = map[string]KeySpec{
	"google_api_key": {
		EnvVars: []string{"GOOGLE_API_KEY", "GEMINI_API_KEY", "API_KEY"},
		Desc:    "Google API key for Gemini",
	},
	"anthropic_api_key": {
		EnvVars: []string{"ANTHROPIC_API_KEY"},
		Desc:    "Anthropic API key for Claude",
	},
}
