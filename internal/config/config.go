package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Ranking RankingConfig `yaml:"ranking"`
	Store   StoreConfig   `yaml:"store"`
	Chat    ChatConfig    `yaml:"chat"`
	Logging LoggingConfig `yaml:"logging"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type RankingConfig struct {
	Timezone           string        `yaml:"timezone"`
	FlushInterval      time.Duration `yaml:"flush_interval"`
	TopN               int           `yaml:"top_n"`
	RequeueFailedSaves bool          `yaml:"requeue_failed_saves"`
}

type StoreConfig struct {
	Backend       string `yaml:"backend"`
	DataDir       string `yaml:"data_dir"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	PostgresTable string `yaml:"postgres_table"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
}

type ChatConfig struct {
	CommandPrefix    string        `yaml:"command_prefix"`
	BridgeURL        string        `yaml:"bridge_url"`
	BridgeRetryDelay time.Duration `yaml:"bridge_retry_delay"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file at path from fsys and merges it over the
// defaults. An empty path or a missing file yields the defaults.
// Environment overrides are applied last.
func Load(fsys afero.Fs, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := afero.ReadFile(fsys, path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("RANKING_HTTP_ADDR", &c.HTTP.Addr)
	set("POSTGRES_DSN", &c.Store.PostgresDSN)
	set("REDIS_ADDR", &c.Store.RedisAddr)
	set("REDIS_PASSWORD", &c.Store.RedisPassword)
	set("RANKING_STORE_BACKEND", &c.Store.Backend)
	set("RANKING_DATA_DIR", &c.Store.DataDir)
	set("RANKING_BRIDGE_URL", &c.Chat.BridgeURL)
	set("LOG_LEVEL", &c.Logging.Level)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("http.shutdown_timeout must be positive"))
	}
	if _, err := time.LoadLocation(c.Ranking.Timezone); err != nil || c.Ranking.Timezone == "" {
		errs = append(errs, fmt.Errorf("ranking.timezone %q is not a valid IANA zone", c.Ranking.Timezone))
	}
	if c.Ranking.FlushInterval <= 0 {
		errs = append(errs, errors.New("ranking.flush_interval must be positive"))
	}
	if c.Ranking.TopN <= 0 {
		errs = append(errs, errors.New("ranking.top_n must be positive"))
	}

	switch c.Store.Backend {
	case BackendFile:
		if c.Store.DataDir == "" {
			errs = append(errs, errors.New("store.data_dir is required for the file backend"))
		}
	case BackendPostgres:
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("store.postgres_dsn (or POSTGRES_DSN) is required for the postgres backend"))
		}
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("store.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend %q must be one of file, postgres, redis", c.Store.Backend))
	}

	if strings.TrimSpace(c.Chat.CommandPrefix) == "" {
		errs = append(errs, errors.New("chat.command_prefix is required"))
	}
	if c.Chat.BridgeURL != "" && c.Chat.BridgeRetryDelay <= 0 {
		errs = append(errs, errors.New("chat.bridge_retry_delay must be positive"))
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}

	return errors.Join(errs...)
}
