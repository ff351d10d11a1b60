package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	LLM        LLMConfig        `yaml:"llm"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	ListGen    ListGenConfig    `yaml:"listgen"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"300s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LLMConfig holds provider credentials and retry behaviour for the
// structured-generation client. A provider is available when its API key
// is set.
type LLMConfig struct {
	DefaultProvider string `yaml:"default_provider" env:"LLM_DEFAULT_PROVIDER" env-default:"anthropic"`

	AnthropicAPIKey string `yaml:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `yaml:"anthropic_model"   env:"LLM_ANTHROPIC_MODEL" env-default:"claude-sonnet-4-5-20250929"`

	DeepSeekAPIKey  string `yaml:"deepseek_api_key"  env:"DEEPSEEK_API_KEY"`
	DeepSeekBaseURL string `yaml:"deepseek_base_url" env:"LLM_DEEPSEEK_BASE_URL" env-default:"https://api.deepseek.com/v1"`
	DeepSeekModel   string `yaml:"deepseek_model"    env:"LLM_DEEPSEEK_MODEL"    env-default:"deepseek-chat"`

	MaxAttempts     int           `yaml:"max_attempts"     env:"LLM_MAX_ATTEMPTS"     env-default:"3"`
	RetryBaseDelay  time.Duration `yaml:"retry_base_delay" env:"LLM_RETRY_BASE_DELAY" env-default:"1s"`
	RetryMultiplier float64       `yaml:"retry_multiplier" env:"LLM_RETRY_MULTIPLIER" env-default:"2.0"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"LLM_REQUEST_TIMEOUT"  env-default:"120s"`
}

// EnrichmentConfig holds pipeline knobs.
type EnrichmentConfig struct {
	MaxChainsPerSense int     `yaml:"max_chains_per_sense" env:"ENRICH_MAX_CHAINS_PER_SENSE" env-default:"2"`
	CoreTemperature   float64 `yaml:"core_temperature"     env:"ENRICH_CORE_TEMPERATURE"     env-default:"0.3"`
	SenseTemperature  float64 `yaml:"sense_temperature"    env:"ENRICH_SENSE_TEMPERATURE"    env-default:"0.4"`
	ChainTemperature  float64 `yaml:"chain_temperature"    env:"ENRICH_CHAIN_TEMPERATURE"    env-default:"0.7"`
}

// ListGenConfig holds word-list generation settings.
type ListGenConfig struct {
	InstructionsDir string  `yaml:"instructions_dir" env:"LISTGEN_INSTRUCTIONS_DIR" env-default:"./instructions"`
	Temperature     float64 `yaml:"temperature"      env:"LISTGEN_TEMPERATURE"      env-default:"0.7"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// AvailableProviders returns the providers whose credentials are present.
func (c LLMConfig) AvailableProviders() []string {
	var providers []string
	if c.AnthropicAPIKey != "" {
		providers = append(providers, "anthropic")
	}
	if c.DeepSeekAPIKey != "" {
		providers = append(providers, "deepseek")
	}
	return providers
}
