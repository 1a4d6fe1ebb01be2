package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración del proceso.
// Se arma una sola vez en main y se pasa a cada constructor.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Log       LogConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Reminders RemindersConfig
	Timezone  string
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig: DSN vacío => repos in-memory (modo dev).
type DatabaseConfig struct {
	DSN string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type LogConfig struct {
	Level  string
	Format string
	App    string
}

// RedisConfig: Addr vacío => sin cache de tendencias.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TrendTTL time.Duration
}

// NATSConfig: URL vacía => los eventos de dominio se descartan.
type NATSConfig struct {
	URL string
}

type RemindersConfig struct {
	Enabled bool
	Cron    string
}

// Load lee variables de entorno (opcionalmente desde envFile) y valida.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// .env es opcional; en contenedores todo viene del entorno.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getenvWithDefault("APP_PORT", "8080"),
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN: os.Getenv("DB_DSN"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Log: LogConfig{
			Level:  os.Getenv("LOG_LEVEL"),
			Format: os.Getenv("LOG_FORMAT"),
			App:    getenvWithDefault("APP_NAME", "pet-care-backend"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		NATS: NATSConfig{
			URL: os.Getenv("NATS_URL"),
		},
		Reminders: RemindersConfig{
			Cron: getenvWithDefault("REMINDERS_CRON", "* * * * *"),
		},
		Timezone: getenvWithDefault("TIMEZONE", "UTC"),
	}

	var err error
	if cfg.Auth.TokenTTL, err = durationFromEnv("JWT_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Redis.TrendTTL, err = durationFromEnv("TREND_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = intFromEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.Reminders.Enabled, err = boolFromEnv("REMINDERS_ENABLED", true); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa los campos obligatorios.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET must be provided")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	if c.Reminders.Enabled && strings.TrimSpace(c.Reminders.Cron) == "" {
		return errors.New("REMINDERS_CRON must be provided when reminders are enabled")
	}
	return nil
}

// Location devuelve la zona configurada (UTC si falla).
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
