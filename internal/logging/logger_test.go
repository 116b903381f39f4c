package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := New(Config{Level: tt.level, Output: &bytes.Buffer{}})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var out bytes.Buffer
	logger := New(Config{Level: "warn", Output: &out})

	logger.Info().Msg("hidden")
	logger.Warn().Msg("visible")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "visible")
}

func TestNewWithComponent(t *testing.T) {
	var out bytes.Buffer
	logger := NewWithComponent(Config{Level: "info", Output: &out}, "api-prepare")

	logger.Info().Msg("ready")
	assert.Contains(t, out.String(), `"component":"api-prepare"`)
}
