// Package config loads runtime settings from an optional YAML file, a .env
// file and environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go-kintai/internal/shared/retry"
	"go-kintai/internal/timerules"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Rules    RulesConfig    `yaml:"rules"`
	Cache    CacheConfig    `yaml:"cache"`
	Retry    RetryConfig    `yaml:"retry"`
	Timezone string         `yaml:"timezone"`
}

type ServerConfig struct {
	Port          string        `yaml:"port"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	SecureCookies bool          `yaml:"secure_cookies"`
	GinMode       string        `yaml:"gin_mode"`
	CORSOrigins   []string      `yaml:"cors_origins"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type StoreConfig struct {
	Backend         string `yaml:"backend"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
	CredentialsJSON string `yaml:"credentials_json"`
	Workbook        string `yaml:"workbook"`
}

type DatabaseConfig struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"sslmode"`
	MaxRetries int    `yaml:"max_retries"`
}

// DSN is the keyword/value form accepted by gorm.io/driver/postgres.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	MaxRetries int    `yaml:"max_retries"`
}

type KafkaConfig struct {
	Broker string `yaml:"broker"`
}

type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret"`
	AccessTTL         time.Duration `yaml:"access_ttl"`
	AdminName         string        `yaml:"admin_name"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
}

type RulesConfig struct {
	FiscalYearPolicy string  `yaml:"fiscal_year_policy"`
	LunchBreakPolicy string  `yaml:"lunch_break_policy"`
	HoursPerDay      float64 `yaml:"hours_per_day"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "3000",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
			GinMode:      "release",
		},
		Log: LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Store: StoreConfig{
			Backend:  BackendSheets,
			Workbook: "kintai",
		},
		Database: DatabaseConfig{Host: "localhost", Port: "5432", SSLMode: "disable", MaxRetries: 5},
		Redis:    RedisConfig{MaxRetries: 5},
		Auth:     AuthConfig{AccessTTL: 12 * time.Hour, AdminName: "admin"},
		Rules: RulesConfig{
			FiscalYearPolicy: string(timerules.FiscalCalendar),
			LunchBreakPolicy: string(timerules.BreakSubtract),
			HoursPerDay:      timerules.DefaultHoursPerDay,
		},
		Cache: CacheConfig{TTL: 60 * time.Second},
		Retry: RetryConfig{
			MaxAttempts: retry.DefaultPolicy().MaxAttempts,
			BaseDelay:   retry.DefaultPolicy().BaseDelay,
			MaxDelay:    retry.DefaultPolicy().MaxDelay,
		},
		Timezone: "Asia/Tokyo",
	}
}

// Load reads configFile (or $KINTAI_CONFIG when empty) if it exists, then
// .env, then the process environment. A missing file is not an error.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	c := defaults()
	if configFile == "" {
		configFile = os.Getenv("KINTAI_CONFIG")
	}
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, fmt.Errorf("parse %s: %w", configFile, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read %s: %w", configFile, err)
		}
	}

	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	envOverride(&c.Server.Port, "PORT")
	envOverrideBool(&c.Server.SecureCookies, "SECURE_COOKIES")
	envOverride(&c.Server.GinMode, "GIN_MODE")
	envOverrideList(&c.Server.CORSOrigins, "CORS_ALLOWED_ORIGINS")

	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")

	envOverride(&c.Store.Backend, "STORE_BACKEND")
	envOverride(&c.Store.SpreadsheetID, "SPREADSHEET_ID")
	envOverride(&c.Store.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	envOverride(&c.Store.CredentialsJSON, "GOOGLE_CREDENTIALS_JSON")
	envOverride(&c.Store.Workbook, "STORE_WORKBOOK")

	envOverride(&c.Database.Host, "DB_HOST")
	envOverride(&c.Database.Port, "DB_PORT")
	envOverride(&c.Database.User, "DB_USER")
	envOverride(&c.Database.Password, "DB_PASSWORD")
	envOverride(&c.Database.Name, "DB_NAME")
	envOverride(&c.Database.SSLMode, "DB_SSLMODE")

	envOverride(&c.Redis.Addr, "REDIS_ADDR")
	envOverride(&c.Redis.Password, "REDIS_PASSWORD")
	envOverrideInt(&c.Redis.DB, "REDIS_DB")

	envOverride(&c.Kafka.Broker, "KAFKA_BROKER")

	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverrideDuration(&c.Auth.AccessTTL, "JWT_ACCESS_TTL")
	envOverride(&c.Auth.AdminName, "ADMIN_NAME")
	envOverride(&c.Auth.AdminPasswordHash, "ADMIN_PASSWORD_HASH")

	envOverride(&c.Rules.FiscalYearPolicy, "FISCAL_YEAR_POLICY")
	envOverride(&c.Rules.LunchBreakPolicy, "LUNCH_BREAK_POLICY")

	envOverrideDuration(&c.Cache.TTL, "CACHE_TTL")

	envOverrideInt(&c.Retry.MaxAttempts, "RETRY_MAX_ATTEMPTS")
	envOverrideDuration(&c.Retry.BaseDelay, "RETRY_BASE_DELAY")
	envOverrideDuration(&c.Retry.MaxDelay, "RETRY_MAX_DELAY")

	envOverride(&c.Timezone, "TZ_NAME")
}

// Validate checks settings that would otherwise fail late at request time.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSheets:
		if strings.TrimSpace(c.Store.SpreadsheetID) == "" {
			return fmt.Errorf("SPREADSHEET_ID is required for the sheets backend")
		}
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := c.TimeRules(); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// TimeRules builds the business rules from the named policies.
func (c *Config) TimeRules() (timerules.Rules, error) {
	rules := timerules.Default()
	fy, err := timerules.ParseFiscalYearPolicy(c.Rules.FiscalYearPolicy)
	if err != nil {
		return rules, err
	}
	br, err := timerules.ParseBreakPolicy(c.Rules.LunchBreakPolicy)
	if err != nil {
		return rules, err
	}
	rules.FiscalYear = fy
	rules.Break = br
	if c.Rules.HoursPerDay > 0 {
		rules.HoursPerDay = c.Rules.HoursPerDay
	}
	return rules, nil
}

func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.Retry.MaxAttempts,
		BaseDelay:   c.Retry.BaseDelay,
		MaxDelay:    c.Retry.MaxDelay,
	}
}

// Location falls back to UTC; Validate has already rejected bad names.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envOverrideDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// envOverrideList splits a comma-separated value, dropping blanks.
func envOverrideList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func envOverrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = parseBoolEnv(v)
	}
}

func parseBoolEnv(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
