package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file base name looked up in the working directory.
const FileName = "respdoc"

// EnvPrefix prefixes environment overrides, e.g. RESPDOC_FORMAT=yaml.
const EnvPrefix = "RESPDOC"

// Config represents the respdoc CLI configuration.
type Config struct {
	Catalogs      []string      `mapstructure:"catalogs"`
	Output        string        `mapstructure:"output"`
	Format        string        `mapstructure:"format"`
	MaxDepth      int           `mapstructure:"max_depth"`
	EnvelopeField string        `mapstructure:"envelope_field"`
	Sanitize      bool          `mapstructure:"sanitize"`
	Strict        bool          `mapstructure:"strict"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
	Info          InfoConfig    `mapstructure:"info"`
	Serve         ServeConfig   `mapstructure:"serve"`
}

// InfoConfig holds the default document info.
type InfoConfig struct {
	Title   string `mapstructure:"title"`
	Version string `mapstructure:"version"`
}

// ServeConfig configures the serve command.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads respdoc.yaml from the working directory, or path when set, and
// applies RESPDOC_* environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file or env override exists.
func Default() *Config {
	return &Config{
		Catalogs:      []string{"respdoc.catalog.yaml"},
		Output:        "openapi.json",
		Format:        "json",
		MaxDepth:      32,
		EnvelopeField: "data",
		Sanitize:      true,
		HTTPTimeout:   10 * time.Second,
		Info:          InfoConfig{Title: "API", Version: "1.0.0"},
		Serve:         ServeConfig{Addr: ":8080"},
	}
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("catalogs", def.Catalogs)
	v.SetDefault("output", def.Output)
	v.SetDefault("format", def.Format)
	v.SetDefault("max_depth", def.MaxDepth)
	v.SetDefault("envelope_field", def.EnvelopeField)
	v.SetDefault("sanitize", def.Sanitize)
	v.SetDefault("strict", def.Strict)
	v.SetDefault("http_timeout", def.HTTPTimeout)
	v.SetDefault("info.title", def.Info.Title)
	v.SetDefault("info.version", def.Info.Version)
	v.SetDefault("serve.addr", def.Serve.Addr)
}

func validateConfig(cfg *Config) error {
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	switch cfg.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("config: format must be json or yaml, got: %q", cfg.Format)
	}
	if cfg.MaxDepth <= 0 {
		return fmt.Errorf("config: max_depth must be positive, got: %d", cfg.MaxDepth)
	}
	if len(cfg.Catalogs) == 0 {
		return errors.New("config: at least one catalog is required")
	}
	if cfg.HTTPTimeout < 0 {
		return fmt.Errorf("config: http_timeout must not be negative, got: %s", cfg.HTTPTimeout)
	}
	return nil
}
