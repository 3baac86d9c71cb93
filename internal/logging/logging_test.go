package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		wantErr       bool
		enabled       zapcore.Level
	}{
		{"info", "json", false, zapcore.InfoLevel},
		{"DEBUG", "console", false, zapcore.DebugLevel},
		{"warn", "", false, zapcore.WarnLevel},
		{"verbose", "json", true, 0},
		{"info", "xml", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			l, err := New(tt.level, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.enabled-1))
		})
	}
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l, err := New("info", "json")
	require.NoError(t, err)
	assert.Same(t, l, OrNop(l))
}
