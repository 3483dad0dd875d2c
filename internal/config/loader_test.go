package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSettings struct {
	Engine struct {
		MaxContextChars int    `koanf:"max_context_chars"`
		Separator       string `koanf:"separator"`
	} `koanf:"engine"`
	Extract struct {
		Provider string `koanf:"provider"`
	} `koanf:"extract"`
	Telemetry struct {
		ExportInterval Duration `koanf:"export_interval"`
	} `koanf:"telemetry"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
engine:
  max_context_chars: 5000
  separator: "---"
extract:
  provider: noop
telemetry:
  export_interval: 30s
`)

	var cfg testSettings
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, 5000, cfg.Engine.MaxContextChars)
	assert.Equal(t, "---", cfg.Engine.Separator)
	assert.Equal(t, "noop", cfg.Extract.Provider)
	assert.Equal(t, 30*time.Second, cfg.Telemetry.ExportInterval.Duration())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
engine:
  max_context_chars: 5000
`)
	t.Setenv("CONDENSE_ENGINE_MAX_CONTEXT_CHARS", "9000")

	var cfg testSettings
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, 9000, cfg.Engine.MaxContextChars)
}

func TestLoad_MissingFileKeepsCallerDefaults(t *testing.T) {
	var cfg testSettings
	cfg.Engine.MaxContextChars = 16000

	err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &cfg)
	require.NoError(t, err)
	assert.Equal(t, 16000, cfg.Engine.MaxContextChars)
}

func TestLoad_RejectsWorldReadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  max_context_chars: 1\n"), 0644))

	var cfg testSettings
	err := Load(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permissions")
}

func TestLoad_RejectsOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	big := make([]byte, maxConfigFileSize+1)
	require.NoError(t, os.WriteFile(path, big, 0600))

	var cfg testSettings
	err := Load(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "engine: [not: valid")

	var cfg testSettings
	assert.Error(t, Load(path, &cfg))
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("2m30s")))
	assert.Equal(t, 150*time.Second, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("not-a-duration")))
}

func TestDuration_Marshal(t *testing.T) {
	d := Duration(15 * time.Second)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "15s", string(text))

	j, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"15s"`, string(j))
}
