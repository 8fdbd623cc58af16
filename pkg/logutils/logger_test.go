package logutils

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/or-haklay/hayotush/internal/core/logging"
)

func TestNew_writes_json_to_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "hayotush.log")

	logger, closer, err := New(Options{Level: "debug", File: path, Version: "v1.2.3"})
	require.NoError(t, err)

	ctx := logging.WithLanguage(context.Background(), "he")
	logger.Debug().Ctx(ctx).Msg("switched")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "switched", entry["message"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "v1.2.3", entry["ver"])
	assert.Equal(t, "he", entry["lang"])
	assert.Contains(t, entry, "time")
}

func TestNew_level_filters(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "WARN", Console: &buf})
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, `"message":"shown"`)
}

func TestNew_default_level_is_info(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Console: &buf})
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestNew_invalid_level(t *testing.T) {
	_, closer, err := New(Options{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"loud"`)
	assert.NoError(t, closer.Close())
}
