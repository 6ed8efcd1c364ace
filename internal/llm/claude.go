package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/tsukumogami/leadgenius/internal/log"
)

// ClaudeModel is the default Claude model.
const ClaudeModel = "claude-sonnet-4-5"

// claudeMaxTokens bounds the reply; ten leads of JSON fit comfortably.
const claudeMaxTokens = 4096

// claudeMaxSearches caps web searches per request.
const claudeMaxSearches = 5

// ClaudeOptions configures the ClaudeProvider.
type ClaudeOptions struct {
	// APIKey for the Anthropic API. An empty key makes every Generate call
	// fail with ErrMissingAPIKey.
	APIKey string

	// Model overrides ClaudeModel.
	Model string

	// BaseURL overrides the Anthropic API endpoint.
	BaseURL string

	// HTTPClient for making requests. If nil, the SDK default is used.
	HTTPClient *http.Client

	// Logger for debug output. If nil, uses log.Default().
	Logger log.Logger
}

// ClaudeProvider implements Provider for Claude models using the Messages
// API and the hosted web search tool.
type ClaudeProvider struct {
	client anthropic.Client
	model  anthropic.Model
	hasKey bool
	logger log.Logger
}

// NewClaudeProvider creates a Claude provider. It never fails; credential
// problems surface from Generate.
func NewClaudeProvider(opts ClaudeOptions) *ClaudeProvider {
	model := opts.Model
	if model == "" {
		model = ClaudeModel
	}

	// The SDK retries by default; one research run is one attempt.
	clientOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	return &ClaudeProvider{
		client: anthropic.NewClient(clientOpts...),
		model:  anthropic.Model(model),
		hasKey: opts.APIKey != "",
		logger: log.Or(opts.Logger),
	}
}

// Name returns the provider identifier.
func (p *ClaudeProvider) Name() string {
	return "claude"
}

// Model returns the model identifier requests are sent to.
func (p *ClaudeProvider) Model() string {
	return string(p.model)
}

// Generate sends the prompt to Claude and returns the concatenated text blocks.
func (p *ClaudeProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if !p.hasKey {
		return nil, fmt.Errorf("claude: %w: set ANTHROPIC_API_KEY", ErrMissingAPIKey)
	}

	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: claudeMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(float64(*req.Temperature))
	}
	if req.WebSearch {
		params.Tools = []anthropic.ToolUnionParam{
			{OfWebSearchTool20250305: &anthropic.WebSearchTool20250305Param{
				MaxUses: anthropic.Int(claudeMaxSearches),
			}},
		}
	}

	p.logger.Debug("claude request", "model", p.model, "web_search", req.WebSearch, "prompt_chars", len(req.Prompt))

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	return fromAnthropicResponse(resp), nil
}

// fromAnthropicResponse keeps the text blocks; server tool use and search
// result blocks are skipped.
func fromAnthropicResponse(resp *anthropic.Message) *GenerateResponse {
	result := &GenerateResponse{
		Model: string(resp.Model),
		Usage: Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
	}

	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			result.Text += text.Text
		}
	}

	return result
}
