// Package config resolves the protostate command settings.
//
// Values are taken from flags, then PROTOSTATE_* environment variables, then an
// optional config file, then defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/aretw0/protostate/pkg/persistence/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "PROTOSTATE"

// StoreType selects the document store backend.
type StoreType string

const (
	StoreMemory StoreType = "memory"
	StoreFile   StoreType = "file"
	StoreRedis  StoreType = "redis"
)

// Config is the resolved configuration.
type Config struct {
	Addr          string      `mapstructure:"addr"`
	Store         StoreType   `mapstructure:"store"`
	Dir           string      `mapstructure:"dir"`
	Redis         RedisConfig `mapstructure:"redis"`
	EncryptionKey string      `mapstructure:"encryption_key"`
	LogLevel      string      `mapstructure:"log_level"`
}

// RedisConfig configures the Redis store and lock.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
	// Lock enables the distributed document lock.
	Lock bool `mapstructure:"lock"`
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"addr":           "addr",
	"store":          "store",
	"dir":            "dir",
	"redis-addr":     "redis.addr",
	"redis-password": "redis.password",
	"redis-db":       "redis.db",
	"redis-prefix":   "redis.prefix",
	"redis-lock":     "redis.lock",
	"encryption-key": "encryption_key",
	"log-level":      "log_level",
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Addr:  ":8080",
		Store: StoreMemory,
		Dir:   ".protostate/documents",
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "protostate:document:",
		},
		LogLevel: "info",
	}
}

// RegisterFlags adds the configuration flags to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Defaults()
	flags.String("addr", d.Addr, "HTTP listen address")
	flags.String("store", string(d.Store), "Document store: memory, file or redis")
	flags.String("dir", d.Dir, "Directory of the file store")
	flags.String("redis-addr", d.Redis.Addr, "Redis address")
	flags.String("redis-password", "", "Redis password")
	flags.Int("redis-db", 0, "Redis database")
	flags.String("redis-prefix", d.Redis.Prefix, "Prefix of Redis document keys")
	flags.Bool("redis-lock", false, "Serialize mutations across replicas with a Redis lock")
	flags.String("encryption-key", "", "Base64 AES-256 key used to encrypt stored documents")
	flags.String("log-level", d.LogLevel, "Log level: debug, info, warn or error")
}

// Load resolves the configuration. flags may be nil; configFile may be empty.
// A missing config file is not an error.
func Load(flags *pflag.FlagSet, configFile string) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("store", string(d.Store))
	v.SetDefault("dir", d.Dir)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", d.Redis.Prefix)
	v.SetDefault("redis.lock", false)
	v.SetDefault("encryption_key", "")
	v.SetDefault("log_level", d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %q: %w", name, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated values and the encryption key.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want memory, file or redis)", c.Store)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Key(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Key decodes EncryptionKey. It returns nil when encryption is disabled.
func (c Config) Key() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	key, err := middleware.ParseKey(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	return key, nil
}
