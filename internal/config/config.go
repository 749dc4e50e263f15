package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	return NewFromFile("")
}

// NewFromFile creates a configuration instance, reading the given file when
// path is not empty and searching the default locations otherwise
func NewFromFile(path string) (*Config, error) {
	// A missing .env is the common case outside development
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/inbox-labeler/")
		v.AddConfigPath("$HOME/.inbox-labeler")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func bindEnv(v *viper.Viper) {
	v.AutomaticEnv()
	v.SetEnvPrefix("INBOX_LABELER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// GOOGLE_API_KEY and OPENAI_API_KEY are what the provider SDKs document
	_ = v.BindEnv("gemini.api_key", "INBOX_LABELER_GEMINI_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv("openai.api_key", "INBOX_LABELER_OPENAI_API_KEY", "OPENAI_API_KEY")
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// LLM provider defaults
	v.SetDefault("llm.provider", "gemini")

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-2.5-flash")
	v.SetDefault("gemini.max_tokens", 1024)
	v.SetDefault("gemini.temperature", 0.2)
	v.SetDefault("gemini.top_p", 0.9)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 1024)
	v.SetDefault("openai.temperature", 0.2)
	v.SetDefault("openai.top_p", 0.9)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 1024)
	v.SetDefault("bedrock.temperature", 0.2)
	v.SetDefault("bedrock.top_p", 0.9)

	// Circuit breaker around model calls
	v.SetDefault("breaker.enabled", true)
	v.SetDefault("breaker.max_failures", 5)
	v.SetDefault("breaker.timeout", "30s")

	// Label store defaults
	v.SetDefault("store.type", "sqlite")
	v.SetDefault("store.sqlite_path", "./data/labels.db")
	v.SetDefault("store.mysql_dsn", "user:password@tcp(localhost:3306)/inbox_labeler")
	v.SetDefault("store.postgres_dsn", "postgres://localhost:5432/inbox_labeler?sslmode=disable")
	v.SetDefault("store.seed", true)

	// Classification defaults
	v.SetDefault("classifier.batch_size", 20)
	v.SetDefault("labeling.domain_window", 100)
	v.SetDefault("labeling.batch_size", 20)
	v.SetDefault("labeling.skip_categories", []string{"Personal"})
	v.SetDefault("labeling.ignored_domains", []string{})

	// Reply drafter defaults
	v.SetDefault("drafter.sender_filter", "@gmail.com")
	v.SetDefault("drafter.max_age", "24h")
	v.SetDefault("drafter.preview_length", 200)
	v.SetDefault("drafter.max_body_size", 4096)
	v.SetDefault("drafter.batch_size", 20)

	// Server defaults
	v.SetDefault("server.listen_address", "127.0.0.1:8080")

	// OAuth defaults
	v.SetDefault("oauth.client_secrets_file", "client_secret.json")
	v.SetDefault("oauth.token_file", "token.json")
	v.SetDefault("oauth.redirect_url", "http://localhost:8080/oauth2callback")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
