// Package config loads application settings from the environment and an
// optional .env file. Payroll rules are not settings; they live in the store.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Store     StoreConfig
	CORS      CORSConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	HTTP      HTTPConfig
	Alerts    AlertConfig
}

type StoreConfig struct {
	Driver     string
	DataDir    string
	SQLitePath string // blank means payroll.db inside DataDir
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// AlertConfig drives the periodic missing-punch check.
type AlertConfig struct {
	Enabled       bool
	CheckInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Env:  v.GetString("ENV"),
		Port: v.GetInt("PORT"),
	}

	cfg.Store = StoreConfig{
		Driver:     strings.ToLower(v.GetString("STORE_DRIVER")),
		DataDir:    v.GetString("DATA_DIR"),
		SQLitePath: v.GetString("SQLITE_PATH"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.RateLimit = RateLimitConfig{RequestsPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE")}

	cfg.HTTP = HTTPConfig{
		ReadTimeout:     parseDuration(v.GetString("READ_TIMEOUT"), 15*time.Second),
		WriteTimeout:    parseDuration(v.GetString("WRITE_TIMEOUT"), 15*time.Second),
		ShutdownTimeout: parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 30*time.Second),
	}

	cfg.Alerts = AlertConfig{
		Enabled:       v.GetBool("ALERTS_ENABLED"),
		CheckInterval: parseDuration(v.GetString("ALERT_CHECK_INTERVAL"), time.Hour),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("STORE_DRIVER", "csv")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("SQLITE_PATH", "")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 200)
	v.SetDefault("READ_TIMEOUT", "15s")
	v.SetDefault("WRITE_TIMEOUT", "15s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")
	v.SetDefault("ALERTS_ENABLED", true)
	v.SetDefault("ALERT_CHECK_INTERVAL", "1h")
}

// isMissingFile covers viper reporting an absent explicit config file as a
// plain open error rather than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
