package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Settings are the user-tunable options of rexyz.
type Settings struct {
	Canvas  CanvasSettings  `mapstructure:"canvas"`
	Export  ExportSettings  `mapstructure:"export"`
	Gallery GallerySettings `mapstructure:"gallery"`
	Assets  AssetSettings   `mapstructure:"assets"`
	Storage StorageSettings `mapstructure:"storage"`
	Log     LogSettings     `mapstructure:"log"`
}

type CanvasSettings struct {
	// Size is the edge length of the square canvas in CSS pixels
	Size int `mapstructure:"size"`

	// Color is the fill behind every layer, as #rrggbb
	Color string `mapstructure:"color"`
}

type ExportSettings struct {
	Dir        string  `mapstructure:"dir"`
	PixelRatio float64 `mapstructure:"pixel_ratio"`
}

type GallerySettings struct {
	PixelRatio float64 `mapstructure:"pixel_ratio"`
}

type AssetSettings struct {
	// Dir is the directory image references are resolved against
	Dir string `mapstructure:"dir"`

	// Catalog optionally replaces the built-in catalog with a YAML file
	Catalog string `mapstructure:"catalog"`

	// CacheMB bounds the decoded image cache
	CacheMB int64 `mapstructure:"cache_mb"`
}

type StorageSettings struct {
	Backend string `mapstructure:"backend"`
}

type LogSettings struct {
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

func setDefaults(v *viper.Viper, paths *Paths) {
	v.SetDefault("canvas.size", 512)
	v.SetDefault("canvas.color", "#0a0b1a")
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.pixel_ratio", 3.0)
	v.SetDefault("gallery.pixel_ratio", 2.0)
	v.SetDefault("assets.dir", paths.Root)
	v.SetDefault("assets.catalog", "")
	v.SetDefault("assets.cache_mb", 64)
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// LoadSettings reads settings from paths.Config when it exists and applies
// REXYZ_* environment overrides (e.g. REXYZ_EXPORT_DIR for export.dir).
func LoadSettings(paths *Paths) (*Settings, error) {
	v := viper.New()
	setDefaults(v, paths)

	v.SetEnvPrefix("REXYZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(paths.Config); err == nil {
		v.SetConfigFile(paths.Config)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects settings the renderer or storage cannot work with.
func (s *Settings) Validate() error {
	if s.Canvas.Size <= 0 {
		return fmt.Errorf("canvas.size must be positive, got %d", s.Canvas.Size)
	}
	if s.Export.PixelRatio <= 0 {
		return fmt.Errorf("export.pixel_ratio must be positive, got %v", s.Export.PixelRatio)
	}
	if s.Gallery.PixelRatio <= 0 {
		return fmt.Errorf("gallery.pixel_ratio must be positive, got %v", s.Gallery.PixelRatio)
	}
	switch s.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendFile, BackendSQLite, s.Storage.Backend)
	}
	return nil
}
