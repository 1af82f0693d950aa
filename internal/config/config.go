package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix            = "MURAT"
	defaultHTTPAddress   = "0.0.0.0:8080"
	defaultDatabasePath  = "murat.db"
	defaultLogLevel      = "info"
	defaultRedisURL      = "redis://localhost:6379/0"
	defaultOpenAIModel   = "gpt-3.5-turbo"
	defaultStreamBaseURL = "https://stream.kryptomurat.de/live/main.m3u8"
	defaultTokenTTL      = 30
	defaultStreamTTL     = 15
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress      string
	DatabasePath     string
	LogLevel         string
	SigningSecret    string
	TokenTTLMinutes  int
	RedisURL         string
	WalletVerifyURL  string
	OpenAIAPIKey     string
	OpenAIModel      string
	StreamBaseURL    string
	StreamSecret     string
	StreamTTLMinutes int
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("token.ttl_minutes", defaultTokenTTL)
	configViper.SetDefault("redis.url", defaultRedisURL)
	configViper.SetDefault("wallet.verify_url", "")
	configViper.SetDefault("openai.api_key", "")
	configViper.SetDefault("openai.model", defaultOpenAIModel)
	configViper.SetDefault("stream.base_url", defaultStreamBaseURL)
	configViper.SetDefault("stream.ttl_minutes", defaultStreamTTL)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:      configViper.GetString("http.address"),
		DatabasePath:     configViper.GetString("database.path"),
		LogLevel:         configViper.GetString("log.level"),
		SigningSecret:    configViper.GetString("auth.signing_secret"),
		TokenTTLMinutes:  configViper.GetInt("token.ttl_minutes"),
		RedisURL:         configViper.GetString("redis.url"),
		WalletVerifyURL:  configViper.GetString("wallet.verify_url"),
		OpenAIAPIKey:     configViper.GetString("openai.api_key"),
		OpenAIModel:      configViper.GetString("openai.model"),
		StreamBaseURL:    configViper.GetString("stream.base_url"),
		StreamSecret:     configViper.GetString("stream.signing_secret"),
		StreamTTLMinutes: configViper.GetInt("stream.ttl_minutes"),
	}

	if strings.TrimSpace(cfg.StreamSecret) == "" {
		cfg.StreamSecret = cfg.SigningSecret
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.SigningSecret) == "" {
		return fmt.Errorf("auth.signing_secret is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("token.ttl_minutes must be positive")
	}
	if strings.TrimSpace(c.RedisURL) == "" {
		return fmt.Errorf("redis.url is required")
	}
	return nil
}
