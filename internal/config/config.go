package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Matcher  MatcherConfig  `yaml:"matcher"`
	Scan     ScanConfig     `yaml:"scan"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
	// AuthHeader is the request header carrying the API key.
	AuthHeader string `yaml:"auth_header"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type MatcherConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
	// AcceptThreshold is the minimum confidence (exclusive, 0-100) for a
	// found verdict to be accepted.
	AcceptThreshold float64 `yaml:"accept_threshold"`
}

type ScanConfig struct {
	// SampleInterval is the timeline step between sampled frames of a
	// seekable video.
	SampleInterval time.Duration `yaml:"sample_interval"`
	// LiveDelay is the pause between match cycles on a live stream.
	LiveDelay   time.Duration `yaml:"live_delay"`
	SeekTimeout time.Duration `yaml:"seek_timeout"`
	FrameWidth  int           `yaml:"frame_width"`
	JPEGQuality int           `yaml:"jpeg_quality"`
	LogLimit    int           `yaml:"log_limit"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	SetDefaults(cfg)

	return cfg, nil
}

// SetDefaults fills zero-valued fields with working defaults.
func SetDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.AuthHeader == "" {
		cfg.Server.AuthHeader = "X-API-Key"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 20
	}
	if cfg.Matcher.Model == "" {
		cfg.Matcher.Model = "gemini-2.5-flash"
	}
	if cfg.Matcher.AcceptThreshold == 0 {
		cfg.Matcher.AcceptThreshold = 75
	}
	if cfg.Scan.SampleInterval == 0 {
		cfg.Scan.SampleInterval = 2 * time.Second
	}
	if cfg.Scan.LiveDelay == 0 {
		cfg.Scan.LiveDelay = 3 * time.Second
	}
	if cfg.Scan.SeekTimeout == 0 {
		cfg.Scan.SeekTimeout = 5 * time.Second
	}
	if cfg.Scan.FrameWidth == 0 {
		cfg.Scan.FrameWidth = 800
	}
	if cfg.Scan.JPEGQuality == 0 {
		cfg.Scan.JPEGQuality = 85
	}
	if cfg.Scan.LogLimit == 0 {
		cfg.Scan.LogLimit = 500
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOOKOUT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LOOKOUT_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("LOOKOUT_AUTH_HEADER"); v != "" {
		cfg.Server.AuthHeader = v
	}
	if v := os.Getenv("LOOKOUT_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("LOOKOUT_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("LOOKOUT_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("LOOKOUT_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("LOOKOUT_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("LOOKOUT_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("LOOKOUT_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("LOOKOUT_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("LOOKOUT_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("LOOKOUT_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("LOOKOUT_MATCHER_API_KEY"); v != "" {
		cfg.Matcher.APIKey = v
	}
	if v := os.Getenv("LOOKOUT_MATCHER_MODEL"); v != "" {
		cfg.Matcher.Model = v
	}
	if v := os.Getenv("LOOKOUT_ACCEPT_THRESHOLD"); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Matcher.AcceptThreshold = t
		}
	}
}
