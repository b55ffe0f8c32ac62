package main

import (
	"encoding/json"
	"errors"
	"flag"
	"io"

	toml "github.com/pelletier/go-toml/v2"

	"agentdev/internal/config"
)

type ConfigCommand struct {
	stdout io.Writer
	stderr io.Writer
}

type configOutput struct {
	ConfigPath string                 `json:"config_path" toml:"config_path"`
	API        effectiveAPIConfig     `json:"api" toml:"api"`
	Logging    effectiveLoggingConfig `json:"logging" toml:"logging"`
	UI         effectiveUIConfig      `json:"ui" toml:"ui"`
}

type effectiveAPIConfig struct {
	Address        string `json:"address" toml:"address"`
	BaseURL        string `json:"base_url" toml:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds" toml:"timeout_seconds"`
	TokenSet       bool   `json:"token_set" toml:"token_set"`
}

type effectiveLoggingConfig struct {
	Level string `json:"level" toml:"level"`
	Path  string `json:"path" toml:"path"`
}

type effectiveUIConfig struct {
	DetailMode     string `json:"detail_mode" toml:"detail_mode"`
	RefreshSeconds int    `json:"refresh_seconds" toml:"refresh_seconds"`
}

func NewConfigCommand(stdout, stderr io.Writer) *ConfigCommand {
	return &ConfigCommand{
		stdout: stdout,
		stderr: stderr,
	}
}

func (c *ConfigCommand) Run(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	defaults := fs.Bool("default", false, "print default config values")
	format := fs.String("format", formatJSON, "output format: json|toml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	resolvedFormat, err := resolveFormat(*format, formatJSON, formatTOML)
	if err != nil {
		return errors.New("invalid format: must be json or toml")
	}

	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	if !*defaults {
		cfg, err = config.LoadFromPath(path)
		if err != nil {
			return err
		}
	}
	payload, err := buildConfigOutput(path, cfg)
	if err != nil {
		return err
	}
	return writeConfigOutput(c.stdout, resolvedFormat, payload)
}

func buildConfigOutput(path string, cfg config.Config) (configOutput, error) {
	logPath, err := cfg.LogFilePath()
	if err != nil {
		return configOutput{}, err
	}
	return configOutput{
		ConfigPath: path,
		API: effectiveAPIConfig{
			Address:        cfg.APIAddress(),
			BaseURL:        cfg.APIBaseURL(),
			TimeoutSeconds: int(cfg.RequestTimeout().Seconds()),
			TokenSet:       cfg.APIToken() != "",
		},
		Logging: effectiveLoggingConfig{
			Level: cfg.LogLevel(),
			Path:  logPath,
		},
		UI: effectiveUIConfig{
			DetailMode:     string(cfg.DetailMode()),
			RefreshSeconds: int(cfg.RefreshInterval().Seconds()),
		},
	}, nil
}

func writeConfigOutput(out io.Writer, format string, payload any) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case formatTOML:
		data, err := toml.Marshal(payload)
		if err != nil {
			return err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err = out.Write(data)
		return err
	default:
		return errors.New("unsupported format")
	}
}
