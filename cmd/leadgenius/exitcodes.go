package main

import (
	"errors"
	"os"

	"github.com/tsukumogami/leadgenius/internal/history"
	"github.com/tsukumogami/leadgenius/internal/research"
	"github.com/tsukumogami/leadgenius/internal/searchlock"
)

// Exit codes for different error types.
// These enable scripts to distinguish between failure modes.
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0

	// ExitGeneral indicates a general error
	ExitGeneral = 1

	// ExitUsage indicates invalid arguments or usage error
	ExitUsage = 2

	// ExitNotFound indicates the requested search is not in history
	ExitNotFound = 3

	// ExitNetwork indicates the model API call failed
	ExitNetwork = 5

	// ExitBadReply indicates the model answered with nothing usable
	ExitBadReply = 6

	// ExitBusy indicates another search holds the search lock
	ExitBusy = 9
)

// exitCodeFor maps an error to the exit code scripts should see.
func exitCodeFor(err error) int {
	var transport *research.TransportError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, research.ErrEmptyQuery), errors.Is(err, research.ErrUnknownPlatform):
		return ExitUsage
	case errors.Is(err, searchlock.ErrBusy):
		return ExitBusy
	case errors.As(err, &transport):
		return ExitNetwork
	case errors.Is(err, research.ErrEmptyResponse), errors.Is(err, research.ErrMalformedReply):
		return ExitBadReply
	case errors.Is(err, history.ErrNotFound):
		return ExitNotFound
	}
	return ExitGeneral
}

// exitWithCode exits with the specified exit code
func exitWithCode(code int) {
	os.Exit(code)
}
