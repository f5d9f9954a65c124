package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddress string
	LogLevel    string
	LogFormat   string

	DatabaseURL string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	Issuer             string
	Audience           string
	PasswordPepper     string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	AllowedOrigins   []string
	AllowCredentials bool
	CookieDomain     string
	CookieSecure     bool

	RateLimitRPS   int
	RateLimitBurst int

	OTPTTL         time.Duration
	OTPMaxAttempts int
	OTPCooldown    time.Duration
	ResetTokenTTL  time.Duration

	UploadDir       string
	MaxUploadSizeMB int
	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
	S3UsePathStyle  bool

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

var required = []string{
	"DATABASE_URL",
	"ACCESS_TOKEN_SECRET",
	"REFRESH_TOKEN_SECRET",
	"PASSWORD_PEPPER",
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	for _, key := range required {
		if strings.TrimSpace(v.GetString(key)) == "" {
			return nil, fmt.Errorf("%s is not set", key)
		}
	}

	cfg := &Config{
		HTTPAddress: v.GetString("HTTP_ADDRESS"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		DatabaseURL: v.GetString("DATABASE_URL"),

		AccessTokenSecret:  v.GetString("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: v.GetString("REFRESH_TOKEN_SECRET"),
		Issuer:             v.GetString("JWT_ISSUER"),
		Audience:           v.GetString("JWT_AUDIENCE"),
		PasswordPepper:     v.GetString("PASSWORD_PEPPER"),

		RedisAddress:  v.GetString("REDIS_ADDRESS"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		AllowCredentials: v.GetBool("ALLOW_CREDENTIALS"),
		CookieDomain:     v.GetString("COOKIE_DOMAIN"),
		CookieSecure:     v.GetBool("COOKIE_SECURE"),

		RateLimitRPS:   v.GetInt("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),

		OTPMaxAttempts: v.GetInt("OTP_MAX_ATTEMPTS"),

		UploadDir:       v.GetString("UPLOAD_DIR"),
		MaxUploadSizeMB: v.GetInt("MAX_UPLOAD_SIZE_MB"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Region:        v.GetString("S3_REGION"),
		S3BaseEndpoint:  v.GetString("S3_BASE_ENDPOINT"),
		S3AccessKey:     v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:     v.GetString("S3_SECRET_KEY"),
		S3PublicBaseURL: v.GetString("S3_PUBLIC_BASE_URL"),
		S3UsePathStyle:  v.GetBool("S3_USE_PATH_STYLE"),

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetInt("SMTP_PORT"),
		SMTPUsername: v.GetString("SMTP_USERNAME"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		SMTPFrom:     v.GetString("SMTP_FROM"),
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"ACCESS_TOKEN_TTL", &cfg.AccessTokenTTL},
		{"REFRESH_TOKEN_TTL", &cfg.RefreshTokenTTL},
		{"OTP_TTL", &cfg.OTPTTL},
		{"OTP_COOLDOWN", &cfg.OTPCooldown},
		{"RESET_TOKEN_TTL", &cfg.ResetTokenTTL},
	}
	for _, d := range durations {
		val, err := time.ParseDuration(v.GetString(d.key))
		if err != nil || val <= 0 {
			return nil, fmt.Errorf("%s: invalid duration %q", d.key, v.GetString(d.key))
		}
		*d.dst = val
	}

	origins, err := parseOrigins(v.GetString("ALLOWED_ORIGINS"))
	if err != nil {
		return nil, err
	}
	cfg.AllowedOrigins = origins

	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUsername
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDRESS", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")
	v.SetDefault("JWT_ISSUER", "shop-service")
	v.SetDefault("JWT_AUDIENCE", "shop")
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("ALLOW_CREDENTIALS", true)
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("OTP_TTL", "10m")
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("OTP_COOLDOWN", "60s")
	v.SetDefault("RESET_TOKEN_TTL", "15m")
	v.SetDefault("UPLOAD_DIR", "./public/temp")
	v.SetDefault("MAX_UPLOAD_SIZE_MB", 8)
	v.SetDefault("S3_BUCKET", "shop-media")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_PATH_STYLE", true)
	v.SetDefault("SMTP_PORT", 465)
}

// parseOrigins accepts either a JSON array or a comma separated list.
func parseOrigins(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, fmt.Errorf("ALLOWED_ORIGINS: %w", err)
		}
		return out, nil
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out, nil
}
