package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"terragrip/internal/domain"
	"terragrip/internal/eventbus"
)

// Config represents the application configuration
type Config struct {
	Version int         `toml:"version"`
	Map     MapSettings `toml:"map"`
	Explore Explore     `toml:"explore"`
	DB      DBSettings  `toml:"db"`
	Log     LogSettings `toml:"log"`
}

// MapSettings tunes the map workspace
type MapSettings struct {
	RegionZoomCutoff  float64  `toml:"region_zoom_cutoff"`
	HoverThrottleMs   int      `toml:"hover_throttle_ms"`
	TooltipHideWaitMs int      `toml:"tooltip_hide_wait_ms"`
	ActiveLayers      []string `toml:"active_layers"` // empty means all category layers visible
}

// Explore holds explore-table preferences
type Explore struct {
	PageSize int                 `toml:"page_size"`
	Columns  map[string][]string `toml:"columns"` // entity kind -> visible column keys
}

// DBSettings points the explore data source at Postgres when DSN is set;
// an empty DSN keeps the seeded in-memory source.
type DBSettings struct {
	DSN string `toml:"dsn"`
}

// LogSettings configures the log sink
type LogSettings struct {
	File    string `toml:"file"`
	Verbose bool   `toml:"verbose"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a new config service
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

	appDir := filepath.Join(configDir, "terragrip")
	os.MkdirAll(appDir, 0755)

	return &configService{
		filePath: filepath.Join(appDir, "config.toml"),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from file
func (cs *configService) Load() (*Config, error) {
	// Return default config if file doesn't exist
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if cs.bus != nil {
			cs.bus.Publish(domain.ConfigLoadedEvent{Path: cs.filePath})
		}
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}
	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigSavedEvent{})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
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

// applyDefaults fills unset fields so partial config files stay valid
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Version == 0 {
		cfg.Version = def.Version
	}
	if cfg.Map.RegionZoomCutoff == 0 {
		cfg.Map.RegionZoomCutoff = def.Map.RegionZoomCutoff
	}
	if cfg.Map.HoverThrottleMs == 0 {
		cfg.Map.HoverThrottleMs = def.Map.HoverThrottleMs
	}
	if cfg.Map.TooltipHideWaitMs == 0 {
		cfg.Map.TooltipHideWaitMs = def.Map.TooltipHideWaitMs
	}
	if cfg.Explore.PageSize == 0 {
		cfg.Explore.PageSize = def.Explore.PageSize
	}
	if cfg.Explore.Columns == nil {
		cfg.Explore.Columns = make(map[string][]string)
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Map: MapSettings{
			RegionZoomCutoff:  6.0,
			HoverThrottleMs:   50,
			TooltipHideWaitMs: 80,
		},
		Explore: Explore{
			PageSize: 25,
			Columns:  make(map[string][]string),
		},
		Log: LogSettings{},
	}
}
