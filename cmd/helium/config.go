package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// cliConfig is the shape of a helium.yaml settings file.
type cliConfig struct {
	Color          string    `yaml:"color"`
	RecursionLimit int       `yaml:"recursion_limit"`
	Log            logConfig `yaml:"log"`
}

type logConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func defaultConfig() cliConfig {
	return cliConfig{Color: "auto", Log: logConfig{Level: "warn"}}
}

// loadConfig reads a YAML settings file on top of the defaults. Unknown
// keys are rejected.
func loadConfig(path string) (cliConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cliConfig{}, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cliConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c cliConfig) validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}
	if c.RecursionLimit < 0 {
		return fmt.Errorf("recursion limit must not be negative, got %d", c.RecursionLimit)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

func parseLevel(text string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(text)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", text)
	}
	return level, nil
}
