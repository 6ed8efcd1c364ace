package research

import (
	"fmt"
	"strings"

	"github.com/tsukumogami/leadgenius/internal/lead"
)

// DefaultRegion is used when a request leaves the region blank.
const DefaultRegion = "Global"

// searchContexts holds the strategy sentence for each platform.
var searchContexts = [...]string{
	lead.PlatformAll:      "Search across LinkedIn, company websites, and business directories.",
	lead.PlatformLinkedIn: "Focus on searching public LinkedIn profiles and company pages.",
	lead.PlatformFacebook: "Focus on searching public Facebook business pages and public contact info.",
	lead.PlatformGoogle:   "Use general Google search to find company directories and websites.",
}

// SearchContext returns the strategy sentence for p. Platforms outside the
// closed set get the broad sentence.
func SearchContext(p lead.Platform) string {
	if !p.Valid() || int(p) >= len(searchContexts) {
		return searchContexts[lead.PlatformAll]
	}
	return searchContexts[p]
}

const promptTemplate = `Act as an expert Lead Generation Researcher.

User Intent: %q
Target Region: %q
Strategy: %s

Task:
1. Use Google Search to find real, existing businesses or professionals matching the user intent.
2. Extract the following details for at least 5-10 leads if possible: Name, Role (if person), Company, Email (if publicly available), Phone (if publicly available), Website, and Source URL.
3. If specific email/phone is not found, look for "Contact Us" page details. Mark as "N/A" if absolutely not found.
4. Assign a confidence score (High/Medium/Low) based on data completeness.

Output Format:
Strictly return a JSON array of objects. Do not include any conversational text before or after the JSON.
JSON Structure:
[
  {
    "name": "John Doe",
    "role": "CEO",
    "company": "Acme Corp",
    "email": "contact@acme.com",
    "phone": "+1 555-0123",
    "website": "https://acme.com",
    "source": "https://linkedin.com/in/johndoe",
    "confidence": "High"
  }
]`

// BuildPrompt renders the research prompt for req. It is a pure function of
// the query, the region (DefaultRegion when blank) and the platform.
func BuildPrompt(req SearchRequest) string {
	return fmt.Sprintf(promptTemplate, req.Query, regionOrDefault(req.Region), SearchContext(req.Platform))
}

func regionOrDefault(region string) string {
	if strings.TrimSpace(region) == "" {
		return DefaultRegion
	}
	return region
}
