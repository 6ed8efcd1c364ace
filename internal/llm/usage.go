package llm

import "fmt"

// Usage tracks token consumption across LLM API calls.
type Usage struct {
	InputTokens  int `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int `json:"output_tokens" yaml:"output_tokens"`
}

// Add accumulates usage from another Usage into this one.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// String returns a human-readable summary of token usage.
func (u Usage) String() string {
	return fmt.Sprintf("tokens: %d in / %d out", u.InputTokens, u.OutputTokens)
}
