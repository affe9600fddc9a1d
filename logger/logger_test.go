package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithWriterLevels(t *testing.T) {
	type testCase struct {
		name     string
		level    string
		expected []string
	}

	testCases := []testCase{
		{name: "error only", level: "error", expected: []string{"error message"}},
		{name: "warn", level: " WARN ", expected: []string{"warn message", "error message"}},
		{name: "unknown falls back to info", level: "loud", expected: []string{"info message", "warn message", "error message"}},
		{name: "debug", level: "debug", expected: []string{"debug message", "info message", "warn message", "error message"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)

			var out bytes.Buffer
			log := NewWithWriter(&out, testCase.level)
			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")
			log.Error("error message")

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			assert.Len(lines, len(testCase.expected))
			for i, message := range testCase.expected {
				assert.Contains(lines[i], `"msg":"`+message+`"`)
			}
		})
	}
}

func TestDiscard(t *testing.T) {
	require.NotPanics(t, func() {
		Discard().Error("dropped", "key", "value")
	})
}
