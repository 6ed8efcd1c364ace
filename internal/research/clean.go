package research

import (
	"regexp"
	"strings"
)

var (
	jsonFenceOpen  = regexp.MustCompile("^```json\\s*")
	plainFenceOpen = regexp.MustCompile("^```\\s*")
	fenceClose     = regexp.MustCompile("\\s*```$")
)

// CleanReply strips surrounding whitespace and a markdown code fence from a
// model reply. Text inside the fence is left alone. Applying it twice gives
// the same result as applying it once.
func CleanReply(text string) string {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, "```json"):
		text = jsonFenceOpen.ReplaceAllString(text, "")
		text = fenceClose.ReplaceAllString(text, "")
	case strings.HasPrefix(text, "```"):
		text = plainFenceOpen.ReplaceAllString(text, "")
		text = fenceClose.ReplaceAllString(text, "")
	}
	return text
}
