// config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTExpire time.Duration

	AllowedOrigins string
	ServiceToken   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StorageDriver string // "r2" or "local"
	UploadDir     string
	R2            R2Config

	RateLimitMax    int
	RateLimitWindow time.Duration

	LeaderboardWarmInterval time.Duration
	PremiumSweepInterval    time.Duration

	LogMode string
	LogFile string

	// DotEnvLoaded reports whether a .env file was found and read.
	DotEnvLoaded bool
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("JWT_EXPIRE", "168h")
	v.SetDefault("CLIENT_URL", "http://localhost:3000")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("LEADERBOARD_WARM_INTERVAL", "30s")
	v.SetDefault("PREMIUM_SWEEP_INTERVAL", "1m")
	v.SetDefault("LOG_MODE", "dev")
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	loaded := godotenv.Load() == nil

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	cfg.DotEnvLoaded = loaded
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                    v.GetString("PORT"),
		DatabaseURL:             v.GetString("DATABASE_URL"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		JWTExpire:               v.GetDuration("JWT_EXPIRE"),
		AllowedOrigins:          v.GetString("CLIENT_URL"),
		ServiceToken:            v.GetString("SERVICE_TOKEN"),
		RedisAddr:               v.GetString("REDIS_ADDR"),
		RedisPassword:           v.GetString("REDIS_PASSWORD"),
		RedisDB:                 v.GetInt("REDIS_DB"),
		StorageDriver:           strings.ToLower(v.GetString("STORAGE_DRIVER")),
		UploadDir:               v.GetString("UPLOAD_DIR"),
		RateLimitMax:            v.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow:         v.GetDuration("RATE_LIMIT_WINDOW"),
		LeaderboardWarmInterval: v.GetDuration("LEADERBOARD_WARM_INTERVAL"),
		PremiumSweepInterval:    v.GetDuration("PREMIUM_SWEEP_INTERVAL"),
		LogMode:                 v.GetString("LOG_MODE"),
		LogFile:                 v.GetString("LOG_FILE"),
		R2: R2Config{
			AccountID:       v.GetString("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     v.GetString("R2_ACCESS_KEY_ID"),
			AccessKeySecret: v.GetString("R2_ACCESS_KEY_SECRET"),
			Bucket:          v.GetString("R2_BUCKET_NAME"),
			CDNBaseURL:      v.GetString("CDN_BASE_URL"),
		},
	}

	// ALLOWED_ORIGINS wins over CLIENT_URL when both are set
	if origins := v.GetString("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = origins
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable not set")
	}
	if c.JWTExpire <= 0 {
		return fmt.Errorf("JWT_EXPIRE must be a positive duration")
	}
	switch c.StorageDriver {
	case "local":
	case "r2":
		if c.R2.AccountID == "" || c.R2.Bucket == "" {
			return fmt.Errorf("STORAGE_DRIVER=r2 requires CLOUDFLARE_ACCOUNT_ID and R2_BUCKET_NAME")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// Origins splits the comma-separated origin list and trims each entry.
func (c *Config) Origins() string {
	list := strings.Split(c.AllowedOrigins, ",")
	for i, origin := range list {
		list[i] = strings.TrimSpace(origin)
	}
	return strings.Join(list, ",")
}
