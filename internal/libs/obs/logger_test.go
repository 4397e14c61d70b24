package obs

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{"info level", "info", zerolog.InfoLevel},
		{"debug level", "debug", zerolog.DebugLevel},
		{"warn level", "warn", zerolog.WarnLevel},
		{"empty defaults to info", "", zerolog.InfoLevel},
		{"invalid level defaults to info", "invalid", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitLogger(tt.level)
			if zerolog.GlobalLevel() != tt.expected {
				t.Errorf("expected level %v, got %v", tt.expected, zerolog.GlobalLevel())
			}
		})
	}
}

func TestLogger(t *testing.T) {
	logger := Logger("test-component")

	// Verify logger has the component field set
	ctx := logger.With().Logger().GetLevel()
	if ctx == zerolog.Disabled {
		t.Error("logger should not be disabled")
	}
}

func TestNewLogger(t *testing.T) {
	InitLogger("info")

	var buf bytes.Buffer
	logger := NewLogger(&buf, "cart")
	logger.Info().Int("items", 2).Msg("checkout built")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}

	if entry["component"] != "cart" {
		t.Errorf("expected component=cart, got %v", entry["component"])
	}
	if entry["message"] != "checkout built" {
		t.Errorf("unexpected message %v", entry["message"])
	}
}
