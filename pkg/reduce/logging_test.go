package reduce

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilSafe(t *testing.T) {
	ctx := context.Background()

	var l *Logger
	l.RunStarted(ctx, "run", 1, 10, DefaultConfig())
	l.LevelStarted(ctx, "run", 0, 1, 1)
	l.BatchExtracted(ctx, "run", 0, 0, 10, 0.5, time.Millisecond)
	l.ExtractFailed(ctx, "run", 0, 0, errors.New("x"))
	l.ItemSkipped(ctx, "run", 0, 3)
	l.ProgressPanicked(ctx, "run", StageExtracting, "boom")
	l.RunFailed(ctx, "run", 0, errors.New("x"))
	l.RunCompleted(ctx, "run", StatusCompleted, 0, 1, 0, time.Millisecond)
}

func TestLogger_NopWhenNil(t *testing.T) {
	l := NewLogger(nil)
	require.NotNil(t, l)
	l.RunStarted(context.Background(), "run", 1, 10, DefaultConfig())
}

func TestLogger_StructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLogger(zap.New(core))

	l.RunCompleted(context.Background(), "run_1", StatusTruncated, 2, 5, 1, 3*time.Second)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "run completed", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "run_1", fields["run_id"])
	assert.Equal(t, string(StatusTruncated), fields["status"])
	assert.Equal(t, int64(2), fields["levels"])
	assert.Equal(t, int64(5), fields["batches"])
	assert.Equal(t, int64(1), fields["extract_failures"])
}

func TestLogger_FailureLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLogger(zap.New(core))

	l.ExtractFailed(context.Background(), "run_1", 1, 2, errors.New("backend down"))
	l.RunFailed(context.Background(), "run_1", 1, errors.New("strict abort"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
