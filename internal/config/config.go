package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAdminPassword is used when neither the file nor ADMIN_PASSWORD sets one.
const DefaultAdminPassword = "adminpassword123"

type Config struct {
	Env    string `yaml:"env"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL      string `yaml:"url"`
		MaxConns int32  `yaml:"maxConns"`
	} `yaml:"postgres"`
	Trivia struct {
		Timezone    string `yaml:"timezone"`
		TodayTTL    string `yaml:"todayTTL"`
		RecentLimit int    `yaml:"recentLimit"`
	} `yaml:"trivia"`
	Auth struct {
		SessionTTL   string `yaml:"sessionTTL"`
		CookieName   string `yaml:"cookieName"`
		SecureCookie bool   `yaml:"secureCookie"`
	} `yaml:"auth"`
	Admin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"admin"`
}

// Load reads YAML config from path, then applies environment overrides and
// defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Postgres.URL, "POSTGRES_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Admin.Email, "ADMIN_EMAIL")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")
	setString(&cfg.Admin.Name, "ADMIN_NAME")
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if db, err := strconv.Atoi(raw); err == nil {
			cfg.Redis.DB = db
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "trivia_session"
	}
	if cfg.Admin.Email == "" {
		cfg.Admin.Email = "admin@example.com"
	}
	if cfg.Admin.Password == "" {
		cfg.Admin.Password = DefaultAdminPassword
	}
	if cfg.Admin.Name == "" {
		cfg.Admin.Name = "Admin User"
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Location resolves the trivia timezone, falling back to the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Trivia.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Trivia.Timezone)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
