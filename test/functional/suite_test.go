package functional

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cucumber/godog"
)

type stateKeyType struct{}

var stateKey = stateKeyType{}

type testState struct {
	homeDir  string
	workDir  string
	binPath  string
	stdout   string
	stderr   string
	exitCode int
	noAPIKey bool

	model *fakeModel
}

// fakeModel stands in for the Gemini generateContent endpoint.
type fakeModel struct {
	server *httptest.Server

	mu       sync.Mutex
	reply    string
	status   int
	requests []string
}

func newFakeModel() *fakeModel {
	m := &fakeModel{reply: "[]", status: http.StatusOK}
	m.server = httptest.NewServer(http.HandlerFunc(m.serve))
	return m
}

func (m *fakeModel) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	m.requests = append(m.requests, string(body))
	reply, status := m.reply, m.status
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status != http.StatusOK {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": status, "message": http.StatusText(status), "status": "UNAVAILABLE"},
		})
		return
	}

	parts := []map[string]any{}
	if reply != "" {
		parts = append(parts, map[string]any{"text": reply})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": parts},
			"finishReason": "STOP",
			"groundingMetadata": map[string]any{
				"groundingChunks": []map[string]any{
					{"web": map[string]any{"uri": "https://directory.example/plumbers", "title": "directory.example"}},
				},
			},
		}},
	})
}

func getState(ctx context.Context) *testState {
	if s, ok := ctx.Value(stateKey).(*testState); ok {
		return s
	}
	return nil
}

func setState(ctx context.Context, s *testState) context.Context {
	return context.WithValue(ctx, stateKey, s)
}

func TestFeatures(t *testing.T) {
	binPath := os.Getenv("LEADGENIUS_TEST_BINARY")
	if binPath == "" {
		t.Skip("LEADGENIUS_TEST_BINARY not set; build the binary and point this at it")
	}

	// Resolve to absolute path since go test changes the working directory
	absBin, err := filepath.Abs(binPath)
	if err != nil {
		t.Fatalf("resolving binary path: %v", err)
	}
	binPath = absBin

	opts := &godog.Options{
		Format:   "pretty",
		Paths:    []string{"features"},
		TestingT: t,
	}
	if tags := os.Getenv("LEADGENIUS_TEST_TAGS"); tags != "" {
		opts.Tags = tags
	}

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			initializeScenario(ctx, binPath)
		},
		Options: opts,
	}
	if suite.Run() != 0 {
		t.Fatal("functional tests failed")
	}
}

func initializeScenario(ctx *godog.ScenarioContext, binPath string) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		homeDir, err := os.MkdirTemp("", "leadgenius-test-")
		if err != nil {
			return ctx, err
		}
		workDir := filepath.Join(homeDir, "work")
		if err := os.MkdirAll(workDir, 0o755); err != nil {
			return ctx, err
		}

		state := &testState{
			homeDir: homeDir,
			workDir: workDir,
			binPath: binPath,
			model:   newFakeModel(),
		}
		for _, tag := range sc.Tags {
			if tag.Name == "@no-api-key" {
				state.noAPIKey = true
			}
		}
		return setState(ctx, state), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if state := getState(ctx); state != nil {
			state.model.server.Close()
			os.RemoveAll(state.homeDir)
		}
		return ctx, nil
	})

	// Environment steps
	ctx.Step(`^a clean leadgenius environment$`, aCleanLeadgeniusEnvironment)
	ctx.Step(`^the model replies with:$`, theModelRepliesWith)
	ctx.Step(`^the model replies with nothing$`, theModelRepliesWithNothing)
	ctx.Step(`^the model API fails with status (\d+)$`, theModelAPIFailsWithStatus)

	// Command steps
	ctx.Step(`^I run "([^"]*)"$`, iRun)

	// Assertion steps
	ctx.Step(`^the exit code is (\d+)$`, theExitCodeIs)
	ctx.Step(`^the output contains "([^"]*)"$`, theOutputContains)
	ctx.Step(`^the output does not contain "([^"]*)"$`, theOutputDoesNotContain)
	ctx.Step(`^the error output contains "([^"]*)"$`, theErrorOutputContains)
	ctx.Step(`^the file "([^"]*)" exists$`, theFileExists)
	ctx.Step(`^the exported file "([^"]*)" contains "([^"]*)"$`, theExportedFileContains)
	ctx.Step(`^the model received (\d+) requests?$`, theModelReceivedRequests)
	ctx.Step(`^the last prompt contains "([^"]*)"$`, theLastPromptContains)
}
