package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SEEDLINK_API_URL.
const EnvPrefix = "SEEDLINK"

// Config holds runtime options for the CLI and the relay.
type Config struct {
	APIURL       string        `mapstructure:"api_url"`
	APIVersion   string        `mapstructure:"api_version"`
	LinkScheme   string        `mapstructure:"link_scheme"`
	LinkVersion  string        `mapstructure:"link_version"`
	AppName      string        `mapstructure:"app_name"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	LogLevel     string        `mapstructure:"log_level"`
	LogConsole   bool          `mapstructure:"log_console"`
	Home         string        `mapstructure:"home"` // owner device key directory, e.g. $HOME/.seedlink
	Listen       string        `mapstructure:"listen"`
}

// SetDefaults installs the built-in values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api_url", "https://api.censo.co")
	v.SetDefault("api_version", "v1")
	v.SetDefault("link_scheme", "censo-main")
	v.SetDefault("link_version", "v1")
	v.SetDefault("app_name", "UNKNOWN")
	v.SetDefault("poll_interval", 2*time.Second)
	v.SetDefault("session_ttl", 10*time.Minute)
	v.SetDefault("http_timeout", 180*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_console", true)
	v.SetDefault("home", "")
	v.SetDefault("listen", ":8080")
}

// LoadConfig resolves a Config from v. If file is not empty it must exist.
func LoadConfig(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		cfg.Home = filepath.Join(dir, ".seedlink")
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the session cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("api_url is required"))
	}
	if c.LinkScheme == "" {
		errs = append(errs, errors.New("link_scheme is required"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL))
	}
	return errors.Join(errs...)
}
