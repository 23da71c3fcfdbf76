package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrNoDeviceAddress indicates no device address was supplied by flag,
// environment, or config file. No network call may happen before this
// check passes.
var ErrNoDeviceAddress = errors.New("device IP must be provided via --ip, PAPER_IP, or the config file")

// ErrNoAPIKey indicates no Stadia Maps API key could be resolved.
var ErrNoAPIKey = errors.New("Stadia Maps API key must be provided via --api-key, STADIA_API_KEY, or the config file")

// Config holds all configuration for the client
type Config struct {
	DeviceIP     string
	StadiaAPIKey string
	MapStyle     string
	LogLevel     string
}

// FileConfig is the optional YAML config file layout
// (~/.config/paperctl/config.yaml)
type FileConfig struct {
	DeviceIP     string `yaml:"device_ip"`
	StadiaAPIKey string `yaml:"stadia_api_key"`
	MapStyle     string `yaml:"map_style"`
}

// Load loads configuration from the environment and the optional YAML
// config file. Environment variables win over the file.
func Load() (*Config, error) {
	// Load .env file if it exists (optional)
	_ = godotenv.Load()

	fileCfg, err := loadFile(defaultConfigPath())
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DeviceIP:     getEnv("PAPER_IP", fileCfg.DeviceIP),
		StadiaAPIKey: getEnv("STADIA_API_KEY", fileCfg.StadiaAPIKey),
		MapStyle:     getEnv("PAPER_MAP_STYLE", fileCfg.MapStyle),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
	if cfg.MapStyle == "" {
		cfg.MapStyle = "stamen_toner"
	}

	return cfg, nil
}

// ResolveDeviceIP returns the first non-empty of the explicit flag value
// and the configured fallback.
func (c *Config) ResolveDeviceIP(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if c.DeviceIP != "" {
		return c.DeviceIP, nil
	}
	return "", ErrNoDeviceAddress
}

// ResolveAPIKey returns the first non-empty of the explicit flag value and
// the configured fallback.
func (c *Config) ResolveAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if c.StadiaAPIKey != "" {
		return c.StadiaAPIKey, nil
	}
	return "", ErrNoAPIKey
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "paperctl", "config.yaml")
	}
	return ""
}

// loadFile parses the YAML config file. A missing file is not an error.
func loadFile(path string) (*FileConfig, error) {
	var fileCfg FileConfig
	if path == "" {
		return &fileCfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileCfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, err
	}
	return &fileCfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
