package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProductionEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "production")

	logger.Debug("hidden")
	logger.Info("search completed", "count", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "search completed", line["msg"])
	assert.Equal(t, "flightscout", line["service"])
	assert.EqualValues(t, 3, line["count"])
}

func TestNewLogger_DevelopmentEmitsText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "DEBUG", "development")

	logger.Debug("token refreshed")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `msg="token refreshed"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "WARN", parseLevel("warning").String())
	assert.Equal(t, "ERROR", parseLevel(" error ").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}
