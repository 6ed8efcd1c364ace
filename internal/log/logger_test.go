package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, slog.LevelDebug)

	logger.Info("research started", "provider", "gemini")

	output := buf.String()
	if !strings.Contains(output, "research started") {
		t.Errorf("expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, "provider=gemini") {
		t.Errorf("expected output to contain 'provider=gemini', got: %s", output)
	}
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger)
	}{
		{"Debug", func(l Logger) { l.Debug("debug msg") }},
		{"Info", func(l Logger) { l.Info("info msg") }},
		{"Warn", func(l Logger) { l.Warn("warn msg") }},
		{"Error", func(l Logger) { l.Error("error msg") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(NewText(&buf, slog.LevelDebug))

			output := buf.String()
			if !strings.Contains(output, strings.ToLower(tt.name)+" msg") {
				t.Errorf("expected message in output, got: %s", output)
			}
			if !strings.Contains(output, strings.ToUpper(tt.name)) {
				t.Errorf("expected level %q in output, got: %s", tt.name, output)
			}
		})
	}
}

func TestLoggerWithChaining(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, slog.LevelDebug)

	logger.With("platform", "linkedin").With("region", "Paris").Debug("building prompt")

	output := buf.String()
	if !strings.Contains(output, "platform=linkedin") {
		t.Errorf("expected 'platform=linkedin', got: %s", output)
	}
	if !strings.Contains(output, "region=Paris") {
		t.Errorf("expected 'region=Paris', got: %s", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, slog.LevelWarn)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("shown warn")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("expected DEBUG/INFO to be filtered, got: %s", output)
	}
	if !strings.Contains(output, "shown warn") {
		t.Errorf("expected WARN to pass, got: %s", output)
	}
}

func TestNoopLoggerWith(t *testing.T) {
	logger := NewNoop()
	logger.Error("should not panic")

	if _, ok := logger.With("key", "value").(noopLogger); !ok {
		t.Error("expected With() on noopLogger to return noopLogger")
	}
}

func TestDefaultAndOr(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewText(&buf, slog.LevelDebug))

	Or(nil).Info("via default")
	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("Or(nil) should use the default logger, got: %s", buf.String())
	}

	explicit := NewNoop()
	if Or(explicit) != explicit {
		t.Error("Or should return a non-nil logger unchanged")
	}
}

func TestDefaultLoggerConcurrency(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				Default().Info("concurrent read")
			}
			done <- true
		}()
		go func() {
			for j := 0; j < 100; j++ {
				SetDefault(NewNoop())
			}
			done <- true
		}()
	}
	for i := 0; i < 20; i++ {
		<-done
	}
}
