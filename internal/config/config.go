// Package config loads application settings from an optional YAML file,
// a .env file and PANELCUT_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
)

// EnvPrefix is prepended to every environment override, e.g. PANELCUT_SERVER_PORT.
const EnvPrefix = "PANELCUT"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release or test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address for the server port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

type CacheConfig struct {
	Size int `mapstructure:"size"` // layouts kept in the LRU, 0 disables caching
}

// DefaultsConfig holds the settings new projects start with.
type DefaultsConfig struct {
	UnitSystem    string  `mapstructure:"unit_system"`
	SawKerf       float64 `mapstructure:"saw_kerf"`
	EdgeMargin    float64 `mapstructure:"edge_margin"`
	AllowRotation bool    `mapstructure:"allow_rotation"`
}

// Apply overwrites the layout-relevant fields of s with the configured defaults.
func (d DefaultsConfig) Apply(s *model.ProjectSettings) {
	if u := model.UnitSystem(d.UnitSystem); u == model.UnitMetric || u == model.UnitImperial {
		s.UnitSystem = u
	}
	s.SawKerf = d.SawKerf
	s.EdgeMargin = d.EdgeMargin
	s.AllowRotation = d.AllowRotation
}

// Settings returns model.DefaultSettings with the configured defaults applied.
func (d DefaultsConfig) Settings() model.ProjectSettings {
	s := model.DefaultSettings()
	d.Apply(&s)
	return s
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("storage.data_dir", project.DefaultDataDir())

	v.SetDefault("cache.size", 128)

	d := model.DefaultSettings()
	v.SetDefault("defaults.unit_system", string(d.UnitSystem))
	v.SetDefault("defaults.saw_kerf", d.SawKerf)
	v.SetDefault("defaults.edge_margin", d.EdgeMargin)
	v.SetDefault("defaults.allow_rotation", d.AllowRotation)
}

// Load reads configuration. path names an explicit YAML file; when empty,
// config.yaml is looked up in . and ./configs and may be absent.
func Load(path string) (*Config, error) {
	// A missing .env file is not an error
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("invalid cache size %d", c.Cache.Size)
	}
	if c.Defaults.SawKerf < 0 || c.Defaults.EdgeMargin < 0 {
		return fmt.Errorf("default kerf and edge margin must not be negative")
	}
	return nil
}
