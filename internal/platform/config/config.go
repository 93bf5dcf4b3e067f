package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	strutil "rigcheck/pkg/platform/strings"
)

// Config is the process configuration. Environment variables provide defaults; a YAML
// file named by RIGCHECK_CONFIG_FILE overrides any field it sets.
type Config struct {
	Server   Server         `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`
	Outbox   OutboxConfig   `yaml:"outbox"`
	LogLevel string         `yaml:"log_level"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string        `yaml:"addr"`
	JWTSigningKey string        `yaml:"jwt_signing_key"`
	JWTIssuer     string        `yaml:"jwt_issuer"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	TxTimeout     time.Duration `yaml:"tx_timeout"`
	OpsToken      string        `yaml:"ops_token"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig is optional; an empty URL disables the manifest cache.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	ManifestTTL  time.Duration `yaml:"manifest_ttl"`
}

// KafkaConfig is optional; with no brokers the outbox is drained into audit_events
// directly and no consumer runs.
type KafkaConfig struct {
	Brokers     []string `yaml:"brokers"`
	ClientID    string   `yaml:"client_id"`
	GroupID     string   `yaml:"group_id"`
	TopicPrefix string   `yaml:"topic_prefix"`
	Partitions  int32    `yaml:"partitions"`
	Replication int16    `yaml:"replication"`
}

func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type SweeperConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

type OutboxConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	BatchSize    int           `yaml:"batch_size"`
	Retention    time.Duration `yaml:"retention"`
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr: envString("RIGCHECK_ADDR", ":8080"),
			// Development default; override in every deployed environment.
			JWTSigningKey: envString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     envString("JWT_ISSUER", "rigcheck"),
			TokenTTL:      envDuration("JWT_TOKEN_TTL", 12*time.Hour),
			TxTimeout:     envDuration("RIGCHECK_TX_TIMEOUT", 5*time.Second),
			OpsToken:      os.Getenv("RIGCHECK_OPS_TOKEN"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			ManifestTTL:  envDuration("MANIFEST_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:     envList("KAFKA_BROKERS"),
			ClientID:    envString("KAFKA_CLIENT_ID", "rigcheck"),
			GroupID:     envString("KAFKA_GROUP_ID", "rigcheck-audit"),
			TopicPrefix: envString("KAFKA_TOPIC_PREFIX", "rigcheck.audit"),
			Partitions:  int32(envInt("KAFKA_TOPIC_PARTITIONS", 3)),
			Replication: int16(envInt("KAFKA_TOPIC_REPLICATION", 1)),
		},
		Sweeper: SweeperConfig{
			Enabled:  envString("SWEEPER_ENABLED", "true") == "true",
			Interval: envDuration("SWEEPER_INTERVAL", 5*time.Minute),
		},
		Outbox: OutboxConfig{
			PollInterval: envDuration("OUTBOX_POLL_INTERVAL", time.Second),
			BatchSize:    envInt("OUTBOX_BATCH_SIZE", 100),
			Retention:    envDuration("OUTBOX_RETENTION", 7*24*time.Hour),
		},
		LogLevel: envString("LOG_LEVEL", "info"),
	}
}

// Load reads the environment and applies the optional YAML overlay.
func Load() (Config, error) {
	cfg := FromEnv()
	path := os.Getenv("RIGCHECK_CONFIG_FILE")
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := Overlay(&cfg, raw); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Overlay decodes YAML over cfg. Keys absent from the document keep their current value.
func Overlay(cfg *Config, raw []byte) error {
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	cfg.Kafka.Brokers = strutil.DedupeAndTrim(cfg.Kafka.Brokers)
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string) []string {
	return strutil.SplitList(os.Getenv(key))
}
