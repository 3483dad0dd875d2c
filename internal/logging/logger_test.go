package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultConfig(t *testing.T) {
	logger, err := New(DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Info("hello")
}

func TestNew_ConsoleFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "console"
	cfg.Level = "debug"
	logger, err := New(cfg)
	require.NoError(t, err)
	logger.Debug("visible at debug")
}

func TestNew_ConstantFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fields = map[string]string{"service": "condense"}
	logger, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestNew_InvalidLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "verbose"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNew_InvalidFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "xml"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestSync_NilLogger(t *testing.T) {
	assert.NoError(t, Sync(nil))
}

func TestSync_StderrTolerated(t *testing.T) {
	logger, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.NoError(t, Sync(logger))
}
