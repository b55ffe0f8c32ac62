package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"agentdev/internal/types"
)

const (
	defaultAPIAddress     = "127.0.0.1:3000"
	defaultTimeoutSeconds = 10
	defaultRefreshSeconds = 5
	defaultDetailMode     = types.DetailModeUserOnly
)

type Config struct {
	API     APIConfig     `toml:"api"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
}

type APIConfig struct {
	Address        string `toml:"address"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

type UIConfig struct {
	DetailMode     string `toml:"detail_mode"`
	RefreshSeconds int    `toml:"refresh_seconds"`
}

func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Address:        defaultAPIAddress,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			DetailMode:     string(defaultDetailMode),
			RefreshSeconds: defaultRefreshSeconds,
		},
	}
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFromPath(path)
}

func LoadFromPath(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) APIAddress() string {
	addr := strings.TrimSpace(c.API.Address)
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		return defaultAPIAddress
	}
	return addr
}

// APIBaseURL keeps an explicit https scheme and defaults to http.
func (c Config) APIBaseURL() string {
	raw := strings.TrimSpace(c.API.Address)
	if strings.HasPrefix(raw, "https://") {
		return "https://" + c.APIAddress()
	}
	return "http://" + c.APIAddress()
}

func (c Config) APIToken() string {
	return strings.TrimSpace(c.API.Token)
}

func (c Config) RequestTimeout() time.Duration {
	seconds := c.API.TimeoutSeconds
	if seconds <= 0 {
		seconds = defaultTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

// LogFilePath resolves the configured log path, defaulting under DataDir.
func (c Config) LogFilePath() (string, error) {
	path := strings.TrimSpace(c.Logging.Path)
	if path == "" {
		return LogPath()
	}
	return resolveConfigPath(path)
}

func (c Config) DetailMode() types.DetailMode {
	if mode, ok := types.ParseDetailMode(c.UI.DetailMode); ok {
		return mode
	}
	return defaultDetailMode
}

func (c Config) RefreshInterval() time.Duration {
	seconds := c.UI.RefreshSeconds
	if seconds <= 0 {
		seconds = defaultRefreshSeconds
	}
	return time.Duration(seconds) * time.Second
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

func resolveConfigPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("path is required")
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, path), nil
}
