package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is stripped from environment variables. The first underscore
// after it separates section from key: ROUTEGRID_DB_DRIVER -> db.driver.
const EnvPrefix = "ROUTEGRID_"

// DefaultConfigFile is read when present in the working directory.
const DefaultConfigFile = "routegrid.yaml"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	DB       DBConfig       `koanf:"db"`
	Cache    CacheConfig    `koanf:"cache"`
	Redis    RedisConfig    `koanf:"redis"`
	Auth     AuthConfig     `koanf:"auth"`
	Mutation MutationConfig `koanf:"mutation"`
}

type ServerConfig struct {
	Port           string   `koanf:"port"`
	Env            string   `koanf:"env"`
	AllowedOrigins []string `koanf:"allowed_origins"`
	SeedOnBoot     bool     `koanf:"seed_on_boot"`
}

type DBConfig struct {
	Driver     string `koanf:"driver"`
	DSN        string `koanf:"dsn"`
	MaxRetries int    `koanf:"max_retries"`
}

type CacheConfig struct {
	Backend   string        `koanf:"backend"`
	LayoutTTL time.Duration `koanf:"layout_ttl"`
	ViewTTL   time.Duration `koanf:"view_ttl"`
	StateTTL  time.Duration `koanf:"state_ttl"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type AuthConfig struct {
	EditSecret   string        `koanf:"edit_secret"`
	SigningKey   string        `koanf:"signing_key"`
	TokenTTL     time.Duration `koanf:"token_ttl"`
	SessionRate  float64       `koanf:"session_rate"`
	SessionBurst int           `koanf:"session_burst"`
}

type MutationConfig struct {
	Timeout          time.Duration `koanf:"timeout"`
	NotificationSize int           `koanf:"notification_size"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.port":                "8080",
		"server.env":                 "development",
		"server.allowed_origins":     []string{"*"},
		"server.seed_on_boot":        false,
		"db.driver":                  "postgres",
		"db.dsn":                     "",
		"db.max_retries":             5,
		"cache.backend":              "memory",
		"cache.layout_ttl":           "24h",
		"cache.view_ttl":             "30s",
		"cache.state_ttl":            "2h",
		"redis.addr":                 "localhost:6379",
		"redis.password":             "",
		"redis.db":                   0,
		"auth.edit_secret":           "",
		"auth.signing_key":           "",
		"auth.token_ttl":             "8h",
		"auth.session_rate":          0.2,
		"auth.session_burst":         5,
		"mutation.timeout":           "15s",
		"mutation.notification_size": 50,
	}
}

// Load reads configuration with precedence flags > env > yaml file > defaults.
// A .env file in the working directory is loaded into the environment first.
// cfgFile may be empty; flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps ROUTEGRID_CACHE_LAYOUT_TTL to cache.layout_ttl.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// flagKey maps --db-dsn to db.dsn and --cache-layout-ttl to cache.layout_ttl.
func flagKey(name string) string {
	key := strings.Replace(name, "-", ".", 1)
	return strings.ReplaceAll(key, "-", "_")
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported cache backend %q", c.Cache.Backend)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required")
	}
	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
