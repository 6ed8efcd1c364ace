package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/genai"

	"github.com/tsukumogami/leadgenius/internal/log"
)

// GeminiModel is the default Gemini model. Flash models support grounding
// with Google Search and answer quickly enough for interactive use.
const GeminiModel = "gemini-2.5-flash"

// ErrMissingAPIKey is returned by Generate when the provider was built
// without a credential. It is reported at call time, not at construction.
var ErrMissingAPIKey = errors.New("API key not configured")

// GeminiOptions configures the GeminiProvider.
type GeminiOptions struct {
	// APIKey for the Gemini API. An empty key makes every Generate call fail
	// with ErrMissingAPIKey.
	APIKey string

	// Model overrides GeminiModel.
	Model string

	// BaseURL overrides the Gemini API endpoint.
	BaseURL string

	// HTTPClient for making requests. If nil, the SDK default is used.
	HTTPClient *http.Client

	// Logger for debug output. If nil, uses log.Default().
	Logger log.Logger
}

// GeminiProvider implements Provider using the Google Gen AI SDK.
// The SDK client is created on the first Generate call and reused.
type GeminiProvider struct {
	opts   GeminiOptions
	model  string
	logger log.Logger

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGeminiProvider creates a Gemini provider. It never fails; credential
// problems surface from Generate.
func NewGeminiProvider(opts GeminiOptions) *GeminiProvider {
	model := opts.Model
	if model == "" {
		model = GeminiModel
	}
	return &GeminiProvider{
		opts:   opts,
		model:  model,
		logger: log.Or(opts.Logger),
	}
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Model returns the model identifier requests are sent to.
func (p *GeminiProvider) Model() string {
	return p.model
}

func (p *GeminiProvider) init(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		if p.opts.APIKey == "" {
			p.initErr = fmt.Errorf("gemini: %w: set GOOGLE_API_KEY (or GEMINI_API_KEY)", ErrMissingAPIKey)
			return
		}
		cc := &genai.ClientConfig{
			APIKey:     p.opts.APIKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: p.opts.HTTPClient,
		}
		if p.opts.BaseURL != "" {
			cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.opts.BaseURL}
		}
		p.client, p.initErr = genai.NewClient(ctx, cc)
		if p.initErr != nil {
			p.initErr = fmt.Errorf("failed to create Gemini client: %w", p.initErr)
		}
	})
	return p.client, p.initErr
}

// Generate sends the prompt to Gemini and returns the reply text and its
// grounding sources.
func (p *GeminiProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	client, err := p.init(ctx)
	if err != nil {
		return nil, err
	}

	// ResponseMIMEType stays unset: the API rejects application/json
	// together with the Google Search tool.
	cfg := &genai.GenerateContentConfig{}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(*req.Temperature)
	}
	if req.WebSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	p.logger.Debug("gemini request", "model", p.model, "web_search", req.WebSearch, "prompt_chars", len(req.Prompt))

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	return p.convertResponse(resp), nil
}

// convertResponse extracts text and grounding sources from the first candidate.
func (p *GeminiProvider) convertResponse(resp *genai.GenerateContentResponse) *GenerateResponse {
	result := &GenerateResponse{Model: p.model}

	if resp == nil {
		return result
	}
	if um := resp.UsageMetadata; um != nil {
		result.Usage.InputTokens = int(um.PromptTokenCount)
		result.Usage.OutputTokens = int(um.CandidatesTokenCount)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return result
	}
	candidate := resp.Candidates[0]

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil {
				result.Text += part.Text
			}
		}
	}

	if gm := candidate.GroundingMetadata; gm != nil {
		seen := make(map[string]bool)
		for _, chunk := range gm.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
				continue
			}
			seen[chunk.Web.URI] = true
			result.Sources = append(result.Sources, Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
		}
	}

	return result
}
