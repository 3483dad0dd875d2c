// Package config loads condense configuration from YAML and environment.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// envPrefix namespaces condense environment variables.
	envPrefix = "CONDENSE_"
)

// DefaultPath returns the default config file location,
// ~/.config/condense/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "condense", "config.yaml"), nil
}

// Load populates cfg from a YAML file and environment variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (CONDENSE_ENGINE_MAX_CONTEXT_CHARS, ...)
//  2. YAML config file
//  3. Values already set on cfg by the caller
//
// If configPath is empty the default path is used; a missing file is not
// an error. An existing file must have 0600 or 0400 permissions and stay
// under 1MB.
//
// Environment variables map to config keys by stripping the CONDENSE_
// prefix and splitting on the first underscore:
//
//	CONDENSE_ENGINE_MAX_CONTEXT_CHARS -> engine.max_context_chars
//	CONDENSE_EXTRACT_PROVIDER         -> extract.provider
//	CONDENSE_LOGGING_LEVEL            -> logging.level
func Load(configPath string, cfg any) error {
	k := koanf.New(".")

	if configPath == "" {
		var err error
		configPath, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		// Open once and validate via the descriptor to avoid a TOCTOU race.
		f, err := os.Open(configPath)
		if err != nil {
			return fmt.Errorf("open config file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat config file: %w", err)
		}
		if err := validateFileProperties(info); err != nil {
			return fmt.Errorf("config file validation failed: %w", err)
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	}

	// CONDENSE_ENGINE_MAX_CONTEXT_CHARS -> engine.max_context_chars
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return fmt.Errorf("load environment variables: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// validateFileProperties checks permissions and size of an existing file.
func validateFileProperties(info os.FileInfo) error {
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return nil
}
