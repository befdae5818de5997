// Package config loads the owner's storefront settings and backend
// credentials from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "PAWTRADES"

type Config struct {
	Owner   Owner   `mapstructure:"owner"`
	Backend Backend `mapstructure:"backend"`
	Log     Log     `mapstructure:"log"`
}

// Owner describes the storefront shown to visitors.
type Owner struct {
	Brand    string `mapstructure:"brand"`
	Tagline  string `mapstructure:"tagline"`
	WhatsApp string `mapstructure:"whatsapp"`
	Location string `mapstructure:"location"`
	Currency string `mapstructure:"currency"`
	Locale   string `mapstructure:"locale"`
}

type Backend struct {
	URL     string `mapstructure:"url"`
	AnonKey string `mapstructure:"anon_key"`
	Table   string `mapstructure:"table"`
}

// Enabled reports whether both connection values are present. Without them
// the catalog runs on the built-in demo data.
func (b Backend) Enabled() bool {
	return strings.TrimSpace(b.URL) != "" && strings.TrimSpace(b.AnonKey) != ""
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads path (which may not exist) layered over the defaults, then
// applies environment overrides. An empty path uses DefaultConfigPath.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The backend values are also honored under the names Supabase documents.
	_ = v.BindEnv("backend.url", EnvPrefix+"_BACKEND_URL", "SUPABASE_URL")
	_ = v.BindEnv("backend.anon_key", EnvPrefix+"_BACKEND_ANON_KEY", "SUPABASE_ANON_KEY")

	if path == "" {
		path = DefaultConfigPath()
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	v.SetConfigFile(expanded)
	if ext := filepath.Ext(expanded); ext != ".yaml" && ext != ".yml" {
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !os.IsNotExist(err) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", expanded, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Backend.URL = strings.TrimSpace(cfg.Backend.URL)
	cfg.Backend.AnonKey = strings.TrimSpace(cfg.Backend.AnonKey)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("owner.brand", "Paws & Trades")
	v.SetDefault("owner.tagline", "Compra, venta e intercambio de pets (fan-site, no oficial)")
	v.SetDefault("owner.whatsapp", "+5491122880015")
	v.SetDefault("owner.location", "Buenos Aires, AR")
	v.SetDefault("owner.currency", "ARS")
	v.SetDefault("owner.locale", "es-AR")

	v.SetDefault("backend.url", "")
	v.SetDefault("backend.anon_key", "")
	v.SetDefault("backend.table", "items")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}
