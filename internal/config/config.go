package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"postboard/internal/eventbus"
	"postboard/internal/posts"
)

// FileName is the name of the config file inside the config directory
const FileName = "config.toml"

// Config represents the application configuration
type Config struct {
	Version      int        `toml:"version"`
	InitialPosts int        `toml:"initial_posts"`
	Seed         uint64     `toml:"seed"` // 0 picks a random seed per run
	LogFile      string     `toml:"log_file"`
	UISettings   UISettings `toml:"ui"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Title            string `toml:"title"`
	ShowBodies       bool   `toml:"show_bodies"`
	HighlightMatches bool   `toml:"highlight_matches"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service using the user config directory
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "postboard", FileName),
	}
}

// NewConfigServiceForPath creates a config service bound to an explicit file
func NewConfigServiceForPath(path string) ConfigService {
	return &configService{filePath: path}
}

// WithBus returns cs publishing config events on bus
func WithBus(cs ConfigService, bus eventbus.EventBus) ConfigService {
	if impl, ok := cs.(*configService); ok {
		impl.bus = bus
	}
	return cs
}

// Path returns the file the service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when the
// file does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:         cs.filePath,
			InitialPosts: cfg.InitialPosts,
		})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path. Missing keys keep
// their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that cannot be used as-is
func (c *Config) Validate() error {
	if c.InitialPosts < 0 {
		return fmt.Errorf("initial_posts must not be negative, got %d", c.InitialPosts)
	}
	return nil
}

// DefaultLogFile returns the log path under the user cache directory, or the
// temp directory when there is none
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "postboard", "postboard.log")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:      1,
		InitialPosts: posts.DefaultInitialCount,
		LogFile:      DefaultLogFile(),
		UISettings: UISettings{
			Title:            "postboard",
			ShowBodies:       true,
			HighlightMatches: true,
		},
	}
}
