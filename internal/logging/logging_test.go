package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "DEV", "", "prod", "production"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, l, mode)
	}
}

func TestNew_DevLevel(t *testing.T) {
	l, err := New(ModeDev)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_Off(t *testing.T) {
	l, err := New(ModeOff)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("verbose")
	assert.Error(t, err)
}
