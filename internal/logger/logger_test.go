package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetAndRestore(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := Set(zap.New(core).Sugar())

	Get().Infow("seeded", "count", 3)
	Get().Debugw("hidden")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "seeded", entry.Message)
	assert.EqualValues(t, 3, entry.ContextMap()["count"])

	restore()
	assert.NotNil(t, Get())
}

func TestInitLevels(t *testing.T) {
	restore := Set(nil)
	defer restore()

	Init("production", "warn")
	assert.False(t, Get().Desugar().Core().Enabled(zap.InfoLevel))
	assert.True(t, Get().Desugar().Core().Enabled(zap.WarnLevel))

	Init("development", "")
	assert.True(t, Get().Desugar().Core().Enabled(zap.DebugLevel))
}
