package llm

import "context"

// Provider generates text for a single prompt.
// Implementations convert GenerateRequest to their SDK's native request and
// must not retry; callers see exactly one attempt per Generate call.
type Provider interface {
	// Name returns the provider identifier (e.g., "gemini", "claude").
	Name() string

	// Generate sends one prompt and returns the model's reply.
	// A non-nil error means the remote call itself failed (network,
	// authentication, quota). An empty reply is not an error here.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}

// GenerateRequest is the input for one generation call.
type GenerateRequest struct {
	// Prompt is sent as the single user turn.
	Prompt string

	// Temperature controls sampling. Nil leaves the provider default.
	Temperature *float32

	// WebSearch enables the provider's hosted web search tool so the reply
	// can be grounded in live results. Providers that support it cannot be
	// combined with strict JSON response modes, so callers must ask for
	// JSON in the prompt.
	WebSearch bool
}

// GenerateResponse is the result of one generation call.
type GenerateResponse struct {
	// Text is the concatenated text output. May be empty.
	Text string

	// Sources lists the web pages the reply was grounded on, when the
	// provider reports them.
	Sources []Source

	// Model is the model identifier that served the request.
	Model string

	// Usage tracks token consumption.
	Usage Usage
}

// Source is a web page cited by a grounded reply.
type Source struct {
	Title string `json:"title" yaml:"title"`
	URI   string `json:"uri" yaml:"uri"`
}

// Float32 returns a pointer to v, for GenerateRequest.Temperature.
func Float32(v float32) *float32 {
	return &v
}
