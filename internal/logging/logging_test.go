package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.Disabled, false},
		{"disabled", zerolog.Disabled, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer

	logger, closer, err := New("info", "", &buf)
	require.NoError(t, err)
	defer closer()

	logger.Debug().Msg("hidden")
	logger.Info().Str("command", "tz").Msg("executing")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "executing")
	assert.Contains(t, out, "command=tz")
}

func TestNew_DefaultIsSilent(t *testing.T) {
	var buf bytes.Buffer

	logger, closer, err := New("", "", &buf)
	require.NoError(t, err)
	defer closer()

	logger.Error().Msg("nobody hears this")
	assert.Empty(t, buf.String())
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "worldclock.log")

	logger, closer, err := New("debug", path, nil)
	require.NoError(t, err)
	logger.Debug().Msg("to file")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file"`)
	assert.Contains(t, string(data), `"level":"debug"`)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, closer, err := New("chatty", "", &bytes.Buffer{})
	require.NotNil(t, closer)
	assert.Error(t, err)
}
