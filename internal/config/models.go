package config

import (
	"fmt"
	"time"
)

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BreakerConfig controls the circuit breaker wrapped around model calls
type BreakerConfig struct {
	Enabled     bool
	MaxFailures int
	Timeout     time.Duration
}

// StoreConfig represents the configuration for the domain label store
type StoreConfig struct {
	Type        string
	SQLitePath  string
	MySQLDSN    string
	PostgresDSN string
	Seed        bool
}

// ClassifierConfig represents the configuration for the entertainment classifier
type ClassifierConfig struct {
	BatchSize int
}

// LabelingConfig represents the configuration for batch inbox labeling
type LabelingConfig struct {
	DomainWindow   int
	BatchSize      int
	SkipCategories []string
	IgnoredDomains []string
}

// DrafterConfig represents the configuration for the reply drafter
type DrafterConfig struct {
	SenderFilter  string
	MaxAge        time.Duration
	PreviewLength int
	MaxBodySize   int
	BatchSize     int
}

// ServerConfig represents the configuration for the management HTTP server
type ServerConfig struct {
	ListenAddress string
}

// OAuthConfig represents the configuration for the Google OAuth flow
type OAuthConfig struct {
	ClientSecretsFile string
	TokenFile         string
	RedirectURL       string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetBreaker returns the circuit breaker configuration
func (c *Config) GetBreaker() (BreakerConfig, error) {
	timeout, err := c.GetDuration("breaker.timeout")
	if err != nil {
		return BreakerConfig{}, fmt.Errorf("invalid breaker timeout: %w", err)
	}
	return BreakerConfig{
		Enabled:     c.GetBool("breaker.enabled"),
		MaxFailures: c.GetInt("breaker.max_failures"),
		Timeout:     timeout,
	}, nil
}

// GetStore returns the label store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:        c.GetString("store.type"),
		SQLitePath:  c.GetString("store.sqlite_path"),
		MySQLDSN:    c.GetString("store.mysql_dsn"),
		PostgresDSN: c.GetString("store.postgres_dsn"),
		Seed:        c.GetBool("store.seed"),
	}
}

// GetClassifier returns the entertainment classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		BatchSize: c.GetInt("classifier.batch_size"),
	}
}

// GetLabeling returns the batch labeling configuration
func (c *Config) GetLabeling() LabelingConfig {
	return LabelingConfig{
		DomainWindow:   c.GetInt("labeling.domain_window"),
		BatchSize:      c.GetInt("labeling.batch_size"),
		SkipCategories: c.GetStringSlice("labeling.skip_categories"),
		IgnoredDomains: c.GetStringSlice("labeling.ignored_domains"),
	}
}

// GetDrafter returns the reply drafter configuration
func (c *Config) GetDrafter() (DrafterConfig, error) {
	maxAge, err := c.GetDuration("drafter.max_age")
	if err != nil {
		return DrafterConfig{}, fmt.Errorf("invalid drafter max age: %w", err)
	}
	return DrafterConfig{
		SenderFilter:  c.GetString("drafter.sender_filter"),
		MaxAge:        maxAge,
		PreviewLength: c.GetInt("drafter.preview_length"),
		MaxBodySize:   c.GetInt("drafter.max_body_size"),
		BatchSize:     c.GetInt("drafter.batch_size"),
	}, nil
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
	}
}

// GetOAuth returns the OAuth configuration
func (c *Config) GetOAuth() OAuthConfig {
	return OAuthConfig{
		ClientSecretsFile: c.GetString("oauth.client_secrets_file"),
		TokenFile:         c.GetString("oauth.token_file"),
		RedirectURL:       c.GetString("oauth.redirect_url"),
	}
}
