package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port                  string `yaml:"port"`
	AllowedOrigin         string `yaml:"allowed_origin"`
	DatabaseURL           string `yaml:"database_url"`
	RedisAddr             string `yaml:"redis_addr"`
	RedisPassword         string `yaml:"redis_password"`
	RedisDB               int    `yaml:"redis_db"`
	AuthSecret            string `yaml:"auth_secret"`
	AccessTokenTTLMinutes int    `yaml:"access_token_ttl_minutes"`
	LogLevel              string `yaml:"log_level"`
	LogMode               string `yaml:"log_mode"`
	LogFile               string `yaml:"log_file"`
	RollupSchedule        string `yaml:"rollup_schedule"`
}

func defaults() Config {
	return Config{
		Port:                  "8001",
		AllowedOrigin:         "*",
		AccessTokenTTLMinutes: 480,
		LogLevel:              "info",
		LogMode:               "development",
		RollupSchedule:        "5 0 * * *",
	}
}

// Load starts from the defaults, applies the YAML file named by
// POS_CONFIG_FILE when present, and lets environment variables win.
func Load() (Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("POS_CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.AllowedOrigin = getEnv("ALLOWED_ORIGIN", cfg.AllowedOrigin)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.AuthSecret = strings.TrimSpace(getEnv("AUTH_SECRET", cfg.AuthSecret))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogMode = getEnv("LOG_MODE", cfg.LogMode)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	if val, ok := os.LookupEnv("ROLLUP_SCHEDULE"); ok {
		// An explicitly empty schedule disables the rollup.
		cfg.RollupSchedule = strings.TrimSpace(val)
	}

	if redisDB, err := strconv.Atoi(getEnv("REDIS_DB", strconv.Itoa(cfg.RedisDB))); err == nil {
		cfg.RedisDB = redisDB
	}
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", strconv.Itoa(cfg.AccessTokenTTLMinutes)))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}
	cfg.AccessTokenTTLMinutes = tokenTTL

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
