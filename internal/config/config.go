// Package config loads application settings from a YAML file and
// provides sensible defaults when no file is present.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Channels controls how extracted channels are displayed and merged
	Channels struct {
		// Colors are the false-color tints applied to channels 1..4
		// when building a composite, as hex strings
		Colors []string `yaml:"colors"`
	} `yaml:"channels"`

	// ScaleBar holds the defaults for the scale bar tool
	ScaleBar struct {
		// Length is the physical length of the bar in calibration units
		Length float64 `yaml:"length"`

		// Thickness is the bar height in pixels
		Thickness int `yaml:"thickness"`

		// Color is the bar and label color as a hex string
		Color string `yaml:"color"`

		// ShowLabel controls whether the physical length is printed
		// under the bar
		ShowLabel bool `yaml:"showLabel"`

		// Margin is the distance from the image border in pixels
		Margin int `yaml:"margin"`
	} `yaml:"scaleBar"`

	// Export holds the defaults for the AVI export tool
	Export struct {
		// Codec is the FOURCC handed to the video writer
		Codec string `yaml:"codec"`

		// FPS is used when the source carries no frame rate
		FPS float64 `yaml:"fps"`

		// Scale resizes frames before writing (1.0 = no resize)
		Scale float64 `yaml:"scale"`
	} `yaml:"export"`

	// Viewer holds display options
	Viewer struct {
		// InvertExtracted displays extracted channels with inverted
		// intensity (dark signal on light background)
		InvertExtracted bool `yaml:"invertExtracted"`
	} `yaml:"viewer"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Channels.Colors = []string{"#FF00FF", "#00FF00", "#00FFFF", "#FF0000"}

	cfg.ScaleBar.Length = 10.0
	cfg.ScaleBar.Thickness = 6
	cfg.ScaleBar.Color = "#FFFFFF"
	cfg.ScaleBar.ShowLabel = true
	cfg.ScaleBar.Margin = 20

	cfg.Export.Codec = "MJPG"
	cfg.Export.FPS = 7.0
	cfg.Export.Scale = 1.0

	cfg.Viewer.InvertExtracted = true

	return cfg
}

// Load loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file
func Save(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate checks the fields user input can break
func (cfg *Config) Validate() error {
	if len(cfg.Channels.Colors) == 0 || len(cfg.Channels.Colors) > 4 {
		return fmt.Errorf("channels.colors must list 1 to 4 colors, got %d", len(cfg.Channels.Colors))
	}
	for i, hex := range cfg.Channels.Colors {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("channels.colors[%d]: invalid color %q: %w", i, hex, err)
		}
	}
	if _, err := colorful.Hex(cfg.ScaleBar.Color); err != nil {
		return fmt.Errorf("scaleBar.color: invalid color %q: %w", cfg.ScaleBar.Color, err)
	}
	if cfg.ScaleBar.Length <= 0 {
		return fmt.Errorf("scaleBar.length must be positive, got %g", cfg.ScaleBar.Length)
	}
	if cfg.Export.FPS <= 0 {
		return fmt.Errorf("export.fps must be positive, got %g", cfg.Export.FPS)
	}
	if cfg.Export.Scale <= 0 {
		return fmt.Errorf("export.scale must be positive, got %g", cfg.Export.Scale)
	}
	return nil
}

// ChannelColor returns the configured tint for channel index ch (0-based).
// Channels beyond the configured list fall back to white.
func (cfg *Config) ChannelColor(ch int) colorful.Color {
	if ch < 0 || ch >= len(cfg.Channels.Colors) {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	c, err := colorful.Hex(cfg.Channels.Colors[ch])
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}
