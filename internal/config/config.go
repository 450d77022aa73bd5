package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddress string
	DatabaseURL string

	// SessionStore selects where refresh tokens live: "postgres" or "redis".
	SessionStore  string
	RedisAddress  string
	RedisPassword string
	RedisDB       int

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	Issuer            string
	Audience          string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration

	PasswordPepper string

	AllowedOrigins   []string
	AllowCredentials bool
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	keys := []string{
		"HTTP_ADDRESS", "DATABASE_URL",
		"SESSION_STORE", "REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB",
		"JWT_PRIVATE_KEY_PATH", "JWT_PUBLIC_KEY_PATH", "JWT_ISSUER", "JWT_AUDIENCE",
		"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "PASSWORD_PEPPER",
		"ALLOWED_ORIGINS", "ALLOW_CREDENTIALS",
	}
	for _, k := range keys {
		if err := viper.BindEnv(k); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("HTTP_ADDRESS", ":8080")
	viper.SetDefault("SESSION_STORE", "postgres")
	viper.SetDefault("ACCESS_TOKEN_TTL", "15m")
	viper.SetDefault("REFRESH_TOKEN_TTL", "168h")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		HTTPAddress:       viper.GetString("HTTP_ADDRESS"),
		DatabaseURL:       viper.GetString("DATABASE_URL"),
		SessionStore:      viper.GetString("SESSION_STORE"),
		RedisAddress:      viper.GetString("REDIS_ADDRESS"),
		RedisPassword:     viper.GetString("REDIS_PASSWORD"),
		RedisDB:           viper.GetInt("REDIS_DB"),
		JWTPrivateKeyPath: viper.GetString("JWT_PRIVATE_KEY_PATH"),
		JWTPublicKeyPath:  viper.GetString("JWT_PUBLIC_KEY_PATH"),
		Issuer:            viper.GetString("JWT_ISSUER"),
		Audience:          viper.GetString("JWT_AUDIENCE"),
		AccessTokenTTL:    viper.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:   viper.GetDuration("REFRESH_TOKEN_TTL"),
		PasswordPepper:    viper.GetString("PASSWORD_PEPPER"),
		AllowedOrigins:    viper.GetStringSlice("ALLOWED_ORIGINS"),
		AllowCredentials:  viper.GetBool("ALLOW_CREDENTIALS"),
	}

	required := map[string]string{
		"DATABASE_URL":         cfg.DatabaseURL,
		"JWT_PRIVATE_KEY_PATH": cfg.JWTPrivateKeyPath,
		"JWT_PUBLIC_KEY_PATH":  cfg.JWTPublicKeyPath,
		"JWT_ISSUER":           cfg.Issuer,
		"JWT_AUDIENCE":         cfg.Audience,
		"PASSWORD_PEPPER":      cfg.PasswordPepper,
	}
	for name, v := range required {
		if v == "" {
			return nil, fmt.Errorf("%s is not set", name)
		}
	}

	if cfg.SessionStore != "postgres" && cfg.SessionStore != "redis" {
		return nil, fmt.Errorf("SESSION_STORE must be postgres or redis, got %q", cfg.SessionStore)
	}
	if cfg.SessionStore == "redis" && cfg.RedisAddress == "" {
		return nil, fmt.Errorf("REDIS_ADDRESS is not set")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}

	return cfg, nil
}
