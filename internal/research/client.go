// Package research turns a lead search request into a list of leads by
// asking a web-search-grounded language model and parsing its reply.
package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tsukumogami/leadgenius/internal/lead"
	"github.com/tsukumogami/leadgenius/internal/llm"
	"github.com/tsukumogami/leadgenius/internal/log"
)

// Progress stages reported to the caller.
const (
	StageInitializing = "Initializing AI Research Agent..."
	StageProcessing   = "Processing search results..."
)

// DefaultTemperature keeps replies close to the search results.
const DefaultTemperature float32 = 0.2

// SearchRequest describes one lead search.
type SearchRequest struct {
	Query    string
	Region   string
	Platform lead.Platform
}

// ProgressFunc receives human-readable stage messages. It is called
// synchronously from the goroutine running the search.
type ProgressFunc func(stage string)

// Result is the outcome of a successful research call.
type Result struct {
	Leads   []lead.Lead
	Sources []llm.Source
	Raw     string
	Model   string
	Usage   llm.Usage
}

// Options configures a Client.
type Options struct {
	// Logger for debug output and malformed-reply warnings. If nil, uses
	// log.Default().
	Logger log.Logger

	// IDGen overrides lead id generation.
	IDGen IDFunc

	// Temperature overrides DefaultTemperature.
	Temperature *float32
}

// Client runs lead searches against a single provider. It holds no
// per-search state and may be shared.
type Client struct {
	provider    llm.Provider
	logger      log.Logger
	idgen       IDFunc
	temperature float32
}

// New creates a Client backed by provider.
func New(provider llm.Provider, opts Options) *Client {
	c := &Client{
		provider:    provider,
		logger:      log.Or(opts.Logger),
		idgen:       opts.IDGen,
		temperature: DefaultTemperature,
	}
	if c.idgen == nil {
		c.idgen = NewLeadID
	}
	if opts.Temperature != nil {
		c.temperature = *opts.Temperature
	}
	return c
}

// Search runs one search and returns the leads found.
func (c *Client) Search(ctx context.Context, req SearchRequest, onProgress ProgressFunc) ([]lead.Lead, error) {
	res, err := c.Research(ctx, req, onProgress)
	if err != nil {
		return nil, err
	}
	return res.Leads, nil
}

// Research runs one search and returns the leads together with the
// grounding sources and the raw reply.
//
// It makes exactly one provider call. Failures are returned as
// ErrEmptyQuery, ErrUnknownPlatform, ErrEmptyResponse, *MalformedReplyError
// or *TransportError; no partial results are returned.
func (c *Client) Research(ctx context.Context, req SearchRequest, onProgress ProgressFunc) (*Result, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}
	if !req.Platform.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, req.Platform)
	}
	req.Region = regionOrDefault(req.Region)

	report := func(stage string) {
		if onProgress != nil {
			onProgress(stage)
		}
	}

	prompt := BuildPrompt(req)
	c.logger.Debug("starting lead research",
		"provider", c.provider.Name(),
		"query", req.Query,
		"region", req.Region,
		"platform", req.Platform.String(),
	)

	report(StageInitializing)
	resp, err := c.provider.Generate(ctx, &llm.GenerateRequest{
		Prompt:      prompt,
		Temperature: llm.Float32(c.temperature),
		WebSearch:   true,
	})
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	report(StageProcessing)

	if resp == nil || resp.Text == "" {
		return nil, ErrEmptyResponse
	}

	leads, err := ParseLeads(CleanReply(resp.Text), c.idgen)
	if err != nil {
		c.logger.Warn("failed to parse AI reply", "error", err, "raw", resp.Text)
		var mre *MalformedReplyError
		if errors.As(err, &mre) {
			mre.Raw = resp.Text
		}
		return nil, err
	}

	c.logger.Debug("lead research complete",
		"leads", len(leads),
		"sources", len(resp.Sources),
		"usage", resp.Usage.String(),
	)

	return &Result{
		Leads:   leads,
		Sources: resp.Sources,
		Raw:     resp.Text,
		Model:   resp.Model,
		Usage:   resp.Usage,
	}, nil
}
