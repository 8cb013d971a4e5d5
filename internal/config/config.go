package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultServerAddress = ":4000"
	defaultAPIBaseURL    = "http://localhost:8080/api/v1"
	defaultAPITimeout    = 10
	defaultPageSize      = 10
	defaultCenterLat     = 37.5665
	defaultCenterLng     = 126.978
	defaultRedisPrefix   = "auctionmap:"
	defaultSessionTable  = "session_tokens"
)

// Session storage backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendSQL   = "sql"
)

type Config struct {
	Server struct {
		Address        string   `yaml:"address"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	API struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`
	Session struct {
		Backend  string `yaml:"backend"`
		FilePath string `yaml:"file_path"`
	} `yaml:"session"`
	Redis struct {
		Addr       string `yaml:"addr"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		Prefix     string `yaml:"prefix"`
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"redis"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
		Table  string `yaml:"table"`
	} `yaml:"database"`
	Listing struct {
		PageSize int `yaml:"page_size"`
	} `yaml:"listing"`
	Map struct {
		AppKey    string  `yaml:"app_key"`
		CenterLat float64 `yaml:"center_lat"`
		CenterLng float64 `yaml:"center_lng"`
	} `yaml:"map"`
}

// APITimeout is the per-request deadline for backend calls.
func (c Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RedisTTL is zero when tokens should not expire in redis.
func (c Config) RedisTTL() time.Duration {
	return time.Duration(c.Redis.TTLMinutes) * time.Minute
}

func defaults() Config {
	var cfg Config
	cfg.Server.Address = defaultServerAddress
	cfg.Server.AllowedOrigins = []string{
		"http://localhost:3000",
		"http://localhost:3001",
		"http://localhost:5173",
		"http://localhost:5174",
	}
	cfg.API.BaseURL = defaultAPIBaseURL
	cfg.API.TimeoutSeconds = defaultAPITimeout
	cfg.Session.Backend = BackendFile
	cfg.Redis.Prefix = defaultRedisPrefix
	cfg.Database.Table = defaultSessionTable
	cfg.Listing.PageSize = defaultPageSize
	cfg.Map.CenterLat = defaultCenterLat
	cfg.Map.CenterLng = defaultCenterLng
	return cfg
}

// LoadConfig reads the YAML file at path if given, then applies environment
// overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config data: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	readString("SERVER_ADDRESS", &cfg.Server.Address)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	readString("API_BASE_URL", &cfg.API.BaseURL)
	readString("SESSION_BACKEND", &cfg.Session.Backend)
	readString("SESSION_FILE", &cfg.Session.FilePath)
	readString("REDIS_ADDR", &cfg.Redis.Addr)
	readString("REDIS_PASSWORD", &cfg.Redis.Password)
	readString("REDIS_PREFIX", &cfg.Redis.Prefix)
	readString("DB_DRIVER", &cfg.Database.Driver)
	readString("DATABASE_URL", &cfg.Database.URL)
	readString("KAKAO_MAP_JS_KEY", &cfg.Map.AppKey)

	ints := []struct {
		name string
		dst  *int
	}{
		{"API_TIMEOUT_SECONDS", &cfg.API.TimeoutSeconds},
		{"REDIS_DB", &cfg.Redis.DB},
		{"REDIS_TTL_MINUTES", &cfg.Redis.TTLMinutes},
		{"PAGE_SIZE", &cfg.Listing.PageSize},
	}
	for _, in := range ints {
		v, err := readIntEnv(in.name)
		if err != nil {
			return fmt.Errorf("parse %s: %w", in.name, err)
		}
		if v != nil {
			*in.dst = *v
		}
	}
	return nil
}

// Validate rejects settings the process cannot start with.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api base url is required")
	}
	if c.API.TimeoutSeconds <= 0 {
		return errors.New("API_TIMEOUT_SECONDS must be positive")
	}
	if c.Listing.PageSize <= 0 {
		return errors.New("PAGE_SIZE must be positive")
	}
	switch c.Session.Backend {
	case BackendFile:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR is required for the redis session backend")
		}
	case BackendSQL:
		if c.Database.Driver != "pgx" && c.Database.Driver != "mysql" {
			return fmt.Errorf("DB_DRIVER must be pgx or mysql, got %q", c.Database.Driver)
		}
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required for the sql session backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	return nil
}

func readString(name string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}

func readIntEnv(name string) (*int, error) {
	val := strings.TrimSpace(os.Getenv(name))
	if val == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
