package research

import (
	"errors"
	"fmt"
)

// Errors returned by the client.
var (
	// ErrEmptyQuery is returned when the request has no query text.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrUnknownPlatform is returned for a platform outside the closed set.
	ErrUnknownPlatform = errors.New("unknown platform")

	// ErrEmptyResponse is returned when the provider answered with no text.
	ErrEmptyResponse = errors.New("empty response from AI")

	// ErrMalformedReply matches any *MalformedReplyError via errors.Is.
	ErrMalformedReply = errors.New("AI response was not a valid JSON array")
)

// MalformedReplyError reports a reply that could not be decoded into a
// list of leads. Raw holds the reply exactly as the provider returned it.
type MalformedReplyError struct {
	Raw string
	Err error
}

func (e *MalformedReplyError) Error() string {
	if e.Err == nil {
		return ErrMalformedReply.Error()
	}
	return fmt.Sprintf("%s: %v", ErrMalformedReply, e.Err)
}

func (e *MalformedReplyError) Unwrap() error {
	return e.Err
}

// Is reports ErrMalformedReply as a match.
func (e *MalformedReplyError) Is(target error) bool {
	return target == ErrMalformedReply
}

// TransportError wraps a failed provider call. Its message is the
// underlying error's message, unchanged.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
