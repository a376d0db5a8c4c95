package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrMissingAPIKey = errors.New("config: api_key is required")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is built once at startup and handed to every component that needs
// it. Nothing reads configuration from process globals after Load returns.
type Config struct {
	APIKey     string        `yaml:"api_key"`
	Model      string        `yaml:"model"`
	LLMTimeout time.Duration `yaml:"llm_timeout"`

	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Upload    UploadConfig    `yaml:"upload"`
	Session   SessionConfig   `yaml:"session"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// TrustedProxies may set X-Forwarded-For. Empty means the client
	// address is always the direct peer.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type UploadConfig struct {
	Dir           string        `yaml:"dir"`
	MaxSize       int64         `yaml:"max_size"`
	Retention     time.Duration `yaml:"retention"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type SessionConfig struct {
	Name   string `yaml:"name"`
	Secret string `yaml:"secret"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
}

type LogConfig struct {
	Level       string   `yaml:"level"`
	Encoding    string   `yaml:"encoding"`
	OutputPaths []string `yaml:"output_paths"`
}

func Default() *Config {
	return &Config{
		Model:      "gemini-1.5-flash",
		LLMTimeout: 60 * time.Second,
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "release",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    "resume_data.db",
		},
		Upload: UploadConfig{
			Dir:           "uploads",
			MaxSize:       10 << 20,
			Retention:     time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Session: SessionConfig{
			Name:   "resume_session",
			Secret: "supersecretkey",
		},
		RateLimit: RateLimitConfig{PerMinute: 10},
		Archive:   ArchiveConfig{Type: ArchiveNone},
		Log: LogConfig{
			Level:       "info",
			Encoding:    "json",
			OutputPaths: []string{"stdout", "logs/app.log"},
		},
	}
}

// Load reads path (JSON or YAML, both decode through yaml.v3), then .env,
// then the process environment, each layer overriding the previous one.
// A missing file is tolerated as long as the API key arrives some other way.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.APIKey, "GOOGLE_API_KEY")
	setString(&cfg.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Model, "GEMINI_MODEL")
	setDuration(&cfg.LLMTimeout, "LLM_TIMEOUT")

	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Mode, "GIN_MODE")
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		cfg.Server.TrustedProxies = strings.Split(v, ",")
	}

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.DSN, "DB_DSN")

	setString(&cfg.Upload.Dir, "UPLOAD_DIR")
	if v := os.Getenv("UPLOAD_MAX_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Upload.MaxSize = n
		}
	}
	setDuration(&cfg.Upload.Retention, "UPLOAD_RETENTION")

	setString(&cfg.Session.Secret, "SESSION_SECRET")
	setString(&cfg.Redis.URL, "REDIS_URL")
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.PerMinute = n
		}
	}
	setString(&cfg.Log.Level, "LOG_LEVEL")

	applyArchiveEnv(&cfg.Archive)
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("config: database dsn is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: unsupported server mode %q", c.Server.Mode)
	}
	if c.Upload.MaxSize <= 0 {
		return errors.New("config: upload max_size must be positive")
	}
	if c.Upload.SweepInterval <= 0 {
		return errors.New("config: upload sweep_interval must be positive")
	}
	return c.Archive.Validate()
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
