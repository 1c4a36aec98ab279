package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"bannerloop/internal/domain"
	"bannerloop/internal/eventbus"
	"bannerloop/internal/log"
	"bannerloop/internal/loop"
)

// DefaultFileName is the name of the config file inside the user config dir
const DefaultFileName = "bannerloop.toml"

var (
	// ErrUnsupportedFormat is returned for config files that are neither TOML nor YAML
	ErrUnsupportedFormat = errors.New("unsupported config format")
	// ErrInvalid wraps every validation failure
	ErrInvalid = errors.New("invalid config")
)

// Config represents the application configuration
type Config struct {
	Version  int            `toml:"version" yaml:"version"`
	Carousel CarouselConfig `toml:"carousel" yaml:"carousel"`
	Autoplay AutoplayConfig `toml:"autoplay" yaml:"autoplay"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Remote   RemoteConfig   `toml:"remote" yaml:"remote"`
	Items    []ItemConfig   `toml:"items" yaml:"items"`
}

// CarouselConfig holds layout and motion tuning. Widths are terminal cells.
type CarouselConfig struct {
	ItemWidth         int      `toml:"item_width" yaml:"item_width"` // 0 = fit the terminal
	Spacing           int      `toml:"spacing" yaml:"spacing"`
	Height            int      `toml:"height" yaml:"height"`
	SnapEpsilon       float64  `toml:"snap_epsilon" yaml:"snap_epsilon"`
	VelocityThreshold float64  `toml:"velocity_threshold" yaml:"velocity_threshold"`
	Debounce          Duration `toml:"debounce" yaml:"debounce"`
	NavDuration       Duration `toml:"nav_duration" yaml:"nav_duration"`
	SnapDuration      Duration `toml:"snap_duration" yaml:"snap_duration"`
}

// AutoplayConfig controls the autoplay timer
type AutoplayConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Interval Duration `toml:"interval" yaml:"interval"`
}

// LoggingConfig controls the debug log
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// RemoteConfig controls the websocket remote
type RemoteConfig struct {
	Listen string `toml:"listen" yaml:"listen"` // empty disables the remote
}

// ItemConfig is one banner
type ItemConfig struct {
	Title string `toml:"title" yaml:"title"`
	Body  string `toml:"body" yaml:"body"`
	Color string `toml:"color" yaml:"color"`
}

// Duration is a time.Duration written as a Go duration string ("3s", "250ms")
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

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
	bus      eventbus.Publisher
	filePath string
}

// NewConfigService creates a config service backed by path. An empty path
// means DefaultPath().
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path, bus: eventbus.Discard{}}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.Publisher) ConfigService {
	cs := NewConfigService(path).(*configService)
	if bus != nil {
		cs.bus = bus
	}
	return cs
}

// DefaultPath is <user config dir>/bannerloop/bannerloop.toml
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "bannerloop", DefaultFileName)
}

func (cs *configService) Path() string { return cs.filePath }

// Load reads the service's file, falling back to DefaultConfig when it does
// not exist yet.
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); errors.Is(err, os.ErrNotExist) {
		log.Debug("config file not found, using defaults", "path", cs.filePath)
		cfg := DefaultConfig()
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: "", Items: len(cfg.Items)})
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}
	cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath, Items: len(cfg.Items)})
	return cfg, nil
}

// Save writes config to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	return nil
}

// LoadFromPath loads configuration from a specific path. Missing fields keep
// their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Items = nil
	switch format {
	case formatYAML:
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Items == nil {
		cfg.Items = DefaultConfig().Items
	}

	log.Debug("config loaded", "path", path, "items", len(cfg.Items))
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	switch format {
	case formatYAML:
		data, err = yaml.Marshal(config)
	default:
		data, err = toml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

type fileFormat int

const (
	formatTOML fileFormat = iota
	formatYAML
)

func formatOf(path string) (fileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", "":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Carousel: CarouselConfig{
			Spacing:           2,
			Height:            9,
			SnapEpsilon:       loop.DefaultSnapEpsilon,
			VelocityThreshold: loop.DefaultVelocityThreshold,
			Debounce:          Duration(loop.DefaultDebounceInterval),
			NavDuration:       Duration(loop.DefaultNavigationDuration),
			SnapDuration:      Duration(loop.DefaultSnapDuration),
		},
		Autoplay: AutoplayConfig{
			Enabled:  true,
			Interval: Duration(loop.DefaultAutoplayInterval),
		},
		Logging: LoggingConfig{Level: "info"},
		Items: []ItemConfig{
			{
				Title: "Welcome",
				Body:  "Use **←** and **→** to move between banners.\n\nThe carousel wraps around in both directions.",
				Color: "99",
			},
			{
				Title: "Autoplay",
				Body:  "Banners advance every few seconds.\n\nPress `space` to pause, or drag with the mouse to take over.",
				Color: "205",
			},
			{
				Title: "Jump",
				Body:  "Press `1`-`9` to jump to a banner, or `/` to search by title.",
				Color: "42",
			},
			{
				Title: "Remote",
				Body:  "Start with `--listen :8080` and drive the carousel over a websocket at `/ws`.",
				Color: "214",
			},
		},
	}
}

// Validate reports every problem with the config at once
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	cc := c.Carousel
	if cc.ItemWidth < 0 {
		add("carousel.item_width %d must not be negative", cc.ItemWidth)
	}
	if cc.Spacing < 0 {
		add("carousel.spacing %d must not be negative", cc.Spacing)
	}
	if cc.Height < 0 {
		add("carousel.height %d must not be negative", cc.Height)
	}
	if cc.SnapEpsilon < 0 {
		add("carousel.snap_epsilon %v must not be negative", cc.SnapEpsilon)
	}
	if cc.VelocityThreshold < 0 {
		add("carousel.velocity_threshold %v must not be negative", cc.VelocityThreshold)
	}
	durations := []struct {
		name string
		d    Duration
	}{
		{"carousel.debounce", cc.Debounce},
		{"carousel.nav_duration", cc.NavDuration},
		{"carousel.snap_duration", cc.SnapDuration},
		{"autoplay.interval", c.Autoplay.Interval},
	}
	for _, f := range durations {
		if f.d < 0 {
			add("%s %s must not be negative", f.name, f.d.Std())
		}
	}
	for i, it := range c.Items {
		if strings.TrimSpace(it.Title) == "" {
			add("items[%d] has no title", i)
		}
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level: %v", err)
	}
	return errors.Join(errs...)
}

// DomainItems converts the configured banners
func (c *Config) DomainItems() []domain.Item {
	items := make([]domain.Item, len(c.Items))
	for i, it := range c.Items {
		items[i] = domain.Item{Title: it.Title, Body: it.Body, Color: it.Color}
	}
	return items
}

// Options converts the carousel settings into controller options. Zero
// values fall back to the controller defaults.
func (c *Config) Options() loop.Options {
	return loop.Options{
		AutoplayInterval:   c.Autoplay.Interval.Std(),
		DebounceInterval:   c.Carousel.Debounce.Std(),
		SnapEpsilon:        c.Carousel.SnapEpsilon,
		VelocityThreshold:  c.Carousel.VelocityThreshold,
		NavigationDuration: c.Carousel.NavDuration.Std(),
		SnapDuration:       c.Carousel.SnapDuration.Std(),
	}
}
