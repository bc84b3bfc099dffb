package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDisabledByDefault(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, Logger().GetLevel())
	assert.False(t, Logger().Trace().Enabled())
}

func TestSetOutputAndLevel(t *testing.T) {
	defer Disable()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(zerolog.TraceLevel)
	Logger().Trace().Int("depth", 3).Msg("pass started")
	assert.Contains(t, buf.String(), "pass started")
	assert.Contains(t, buf.String(), "depth")

	Disable()
	buf.Reset()
	Logger().Trace().Msg("silent")
	assert.Empty(t, buf.String())
}
