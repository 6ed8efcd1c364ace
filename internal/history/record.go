// Package history persists completed lead searches so they can be listed,
// shown again and exported later.
package history

import (
	"time"

	"github.com/tsukumogami/leadgenius/internal/lead"
	"github.com/tsukumogami/leadgenius/internal/llm"
)

// Record is one completed search and the leads it returned.
type Record struct {
	ID        string        `json:"id" yaml:"id"`
	Query     string        `json:"query" yaml:"query"`
	Region    string        `json:"region" yaml:"region"`
	Platform  lead.Platform `json:"platform" yaml:"platform"`
	Provider  string        `json:"provider" yaml:"provider"`
	Model     string        `json:"model" yaml:"model"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	Leads     []lead.Lead   `json:"leads" yaml:"leads"`
	Sources   []llm.Source  `json:"sources,omitempty" yaml:"sources,omitempty"`
	Usage     llm.Usage     `json:"usage" yaml:"usage"`
}

// Summary describes a stored search without its leads.
type Summary struct {
	ID        string        `json:"id" yaml:"id"`
	Query     string        `json:"query" yaml:"query"`
	Region    string        `json:"region" yaml:"region"`
	Platform  lead.Platform `json:"platform" yaml:"platform"`
	Provider  string        `json:"provider" yaml:"provider"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	LeadCount int           `json:"lead_count" yaml:"lead_count"`
	Usage     llm.Usage     `json:"usage" yaml:"usage"`
}
