package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/grand-thief-cash/focusboard/internal/logging"
)

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	GracefulTimeout time.Duration `yaml:"graceful_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

func (s ServerConfig) Address() string { return s.Host + ":" + strconv.Itoa(s.Port) }

type PostgresConfig struct {
	DSN            string        `yaml:"dsn"`
	MaxOpenConns   int           `yaml:"max_open_conns"`
	MaxIdleConns   int           `yaml:"max_idle_conns"`
	ConnMaxLife    time.Duration `yaml:"conn_max_lifetime"`
	PingOnStart    bool          `yaml:"ping_on_start"`
	MigrateEnabled bool          `yaml:"migrate_enabled"`
	MigrateDir     string        `yaml:"migrate_dir"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type AuthConfig struct {
	// JWTSecret verifies bearer tokens minted by the external identity
	// provider. CronSecret guards the global daily-reset endpoint.
	// Both are overridden by env when set.
	JWTSecret  string `yaml:"jwt_secret"`
	CronSecret string `yaml:"cron_secret"`
}

type SweepConfig struct {
	Enabled   bool   `yaml:"enabled"`
	ResetHour int    `yaml:"reset_hour"` // local hour of day, 0-23
	Timezone  string `yaml:"timezone"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Logging   logging.Config  `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Auth      AuthConfig      `yaml:"auth"`
	Sweep     SweepConfig     `yaml:"sweep"`
}

// Load reads the YAML config at path on top of defaults, then applies
// env overrides for secrets and the DSN. A missing file falls back to
// defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	b, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FOCUSBOARD_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("FOCUSBOARD_CRON_SECRET"); v != "" {
		cfg.Auth.CronSecret = v
	}
	if v := os.Getenv("FOCUSBOARD_POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("FOCUSBOARD_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			GracefulTimeout: 10 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Postgres: PostgresConfig{
			DSN:            "host=127.0.0.1 port=5432 user=focusboard password=focusboard dbname=focusboard sslmode=disable",
			MaxOpenConns:   50,
			MaxIdleConns:   10,
			ConnMaxLife:    60 * time.Minute,
			PingOnStart:    true,
			MigrateEnabled: true,
			MigrateDir:     "migrations",
		},
		Redis: RedisConfig{
			Enabled: true,
			Addr:    "127.0.0.1:6379",
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "focusboard",
		},
		Sweep: SweepConfig{
			Enabled:   true,
			ResetHour: 0,
			Timezone:  "UTC",
		},
	}
}
