package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Admin    AdminConfig
	Archives ArchivesConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AdminConfig identifies the single administrator key holder.
type AdminConfig struct {
	WalletAddress   string
	SignatureWindow time.Duration
}

// ArchivesConfig tunes semester archive behaviour.
type ArchivesConfig struct {
	ProjectSlots  int
	CacheEnabled  bool
	CacheTTL      time.Duration
	ListPageSize  int
	ExportEnabled bool
}

// IsProduction reports whether the production environment flag is set.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == EnvProduction
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

	cfg := &Config{}

	cfg.Env = strings.ToLower(strings.TrimSpace(v.GetString("ENV")))
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Admin = AdminConfig{
		WalletAddress:   strings.TrimSpace(v.GetString("ADMIN_WALLET_ADDRESS")),
		SignatureWindow: parseDuration(v.GetString("ADMIN_SIGNATURE_WINDOW"), 5*time.Minute),
	}
	if cfg.Admin.WalletAddress != "" && !common.IsHexAddress(cfg.Admin.WalletAddress) {
		return nil, fmt.Errorf("ADMIN_WALLET_ADDRESS %q is not a valid hex address", cfg.Admin.WalletAddress)
	}

	slots := v.GetInt("ARCHIVE_PROJECT_SLOTS")
	if slots <= 0 {
		slots = 4
	}
	pageSize := v.GetInt("ARCHIVE_LIST_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 20
	}
	cfg.Archives = ArchivesConfig{
		ProjectSlots:  slots,
		CacheEnabled:  v.GetBool("ENABLE_ARCHIVE_CACHE"),
		CacheTTL:      parseDuration(v.GetString("ARCHIVE_CACHE_TTL"), 5*time.Minute),
		ListPageSize:  pageSize,
		ExportEnabled: v.GetBool("ENABLE_ARCHIVE_EXPORT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "critcoin")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ADMIN_WALLET_ADDRESS", "")
	v.SetDefault("ADMIN_SIGNATURE_WINDOW", "5m")

	v.SetDefault("ARCHIVE_PROJECT_SLOTS", 4)
	v.SetDefault("ENABLE_ARCHIVE_CACHE", false)
	v.SetDefault("ARCHIVE_CACHE_TTL", "5m")
	v.SetDefault("ARCHIVE_LIST_PAGE_SIZE", 20)
	v.SetDefault("ENABLE_ARCHIVE_EXPORT", true)
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
