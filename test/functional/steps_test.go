package functional

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"
)

// aCleanLeadgeniusEnvironment is a no-op because the Before hook already sets
// up the environment. This step exists so feature files read naturally.
func aCleanLeadgeniusEnvironment(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

func theModelRepliesWith(ctx context.Context, doc *godog.DocString) (context.Context, error) {
	state := getState(ctx)
	state.model.mu.Lock()
	state.model.reply = doc.Content
	state.model.mu.Unlock()
	return ctx, nil
}

func theModelRepliesWithNothing(ctx context.Context) (context.Context, error) {
	state := getState(ctx)
	state.model.mu.Lock()
	state.model.reply = ""
	state.model.mu.Unlock()
	return ctx, nil
}

func theModelAPIFailsWithStatus(ctx context.Context, status int) (context.Context, error) {
	state := getState(ctx)
	state.model.mu.Lock()
	state.model.status = status
	state.model.mu.Unlock()
	return ctx, nil
}

// splitArgs splits a command line on spaces, keeping single-quoted runs
// together.
func splitArgs(command string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		inArg   bool
	)
	for _, r := range command {
		switch {
		case r == '\'':
			quoted = !quoted
			inArg = true
		case r == ' ' && !quoted:
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}
	if inArg {
		args = append(args, current.String())
	}
	return args
}

// iRun executes a command string, replacing "leadgenius" with the test binary path.
func iRun(ctx context.Context, command string) (context.Context, error) {
	state := getState(ctx)
	if state == nil {
		return ctx, fmt.Errorf("no test state; is the Before hook running?")
	}

	args := splitArgs(command)
	if len(args) > 0 && args[0] == "leadgenius" {
		args[0] = state.binPath
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = state.workDir

	apiKey := "test-key"
	if state.noAPIKey {
		apiKey = ""
	}
	cmd.Env = append(os.Environ(),
		"LEADGENIUS_HOME="+state.homeDir,
		"LEADGENIUS_API_BASE_URL="+state.model.server.URL+"/",
		"GOOGLE_API_KEY="+apiKey,
		"GEMINI_API_KEY=",
		"API_KEY=",
		"LEADGENIUS_DEBUG=",
		"LEADGENIUS_VERBOSE=",
		"LEADGENIUS_QUIET=",
	)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	state.stdout = stdout.String()
	state.stderr = stderr.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			state.exitCode = exitErr.ExitCode()
		} else {
			return ctx, fmt.Errorf("command execution failed: %w", err)
		}
	} else {
		state.exitCode = 0
	}

	return ctx, nil
}

func theExitCodeIs(ctx context.Context, expected int) error {
	state := getState(ctx)
	if state.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nstdout: %s\nstderr: %s",
			expected, state.exitCode, state.stdout, state.stderr)
	}
	return nil
}

func theOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theOutputDoesNotContain(ctx context.Context, text string) error {
	state := getState(ctx)
	if strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout not to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theErrorOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stderr, text) {
		return fmt.Errorf("expected stderr to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theFileExists(ctx context.Context, path string) error {
	state := getState(ctx)
	fullPath := filepath.Join(state.homeDir, path)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("expected file %q to exist", fullPath)
	}
	return nil
}

// theExportedFileContains checks a file written to the working directory.
func theExportedFileContains(ctx context.Context, name, text string) error {
	state := getState(ctx)
	data, err := os.ReadFile(filepath.Join(state.workDir, name))
	if err != nil {
		return fmt.Errorf("reading exported file: %w", err)
	}
	if !strings.Contains(string(data), text) {
		return fmt.Errorf("expected %s to contain %q, got:\n%s", name, text, data)
	}
	return nil
}

func theModelReceivedRequests(ctx context.Context, n int) error {
	state := getState(ctx)
	state.model.mu.Lock()
	defer state.model.mu.Unlock()
	if len(state.model.requests) != n {
		return fmt.Errorf("expected %d model requests, got %d", n, len(state.model.requests))
	}
	return nil
}

func theLastPromptContains(ctx context.Context, text string) error {
	state := getState(ctx)
	state.model.mu.Lock()
	defer state.model.mu.Unlock()
	if len(state.model.requests) == 0 {
		return fmt.Errorf("the model received no requests")
	}
	last := state.model.requests[len(state.model.requests)-1]
	if !strings.Contains(last, text) {
		return fmt.Errorf("expected last request to contain %q, got:\n%s", text, last)
	}
	return nil
}
