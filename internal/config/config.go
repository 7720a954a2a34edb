package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Agents    AgentsConfig    `mapstructure:"agents"`
	Patterns  PatternsConfig  `mapstructure:"patterns"`
	Retention RetentionConfig `mapstructure:"retention"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Schema          string        `mapstructure:"schema"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&search_path=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.Schema,
	)
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	TLS       bool   `mapstructure:"tls"`

	PoolSize     int `mapstructure:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	Enabled    bool               `mapstructure:"enabled"`
	URL        string             `mapstructure:"url"`
	StreamName string             `mapstructure:"stream_name"`
	Subjects   NATSSubjectsConfig `mapstructure:"subjects"`
}

type NATSSubjectsConfig struct {
	AlertCreated string `mapstructure:"alert_created"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	RequestsPerHour   int  `mapstructure:"requests_per_hour"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// LLMConfig holds the narrative-refinement model configuration.
// When APIKey is empty the agents run on deterministic templates only.
type LLMConfig struct {
	Provider  string        `mapstructure:"provider"` // "claude" or "openai"
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type AgentsConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxInputChars int           `mapstructure:"max_input_chars"`
}

type PatternsConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	MaxMatches          int     `mapstructure:"max_matches"`
}

type RetentionConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Days          int           `mapstructure:"days"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/wisdomwealth")
	}

	// Environment variables
	v.SetEnvPrefix("WISDOMWEALTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.tls", "WISDOMWEALTH_REDIS_TLS")
	v.BindEnv("redis.host", "WISDOMWEALTH_REDIS_HOST")
	v.BindEnv("redis.port", "WISDOMWEALTH_REDIS_PORT")
	v.BindEnv("redis.password", "WISDOMWEALTH_REDIS_PASSWORD")
	v.BindEnv("database.host", "WISDOMWEALTH_DATABASE_HOST")
	v.BindEnv("database.port", "WISDOMWEALTH_DATABASE_PORT")
	v.BindEnv("database.user", "WISDOMWEALTH_DATABASE_USER")
	v.BindEnv("database.password", "WISDOMWEALTH_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "WISDOMWEALTH_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "WISDOMWEALTH_DATABASE_SSLMODE")
	v.BindEnv("nats.enabled", "WISDOMWEALTH_NATS_ENABLED")
	v.BindEnv("llm.provider", "WISDOMWEALTH_LLM_PROVIDER")
	v.BindEnv("llm.api_key", "WISDOMWEALTH_LLM_API_KEY")
	v.BindEnv("app.environment", "WISDOMWEALTH_APP_ENVIRONMENT")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func applyDefaults(cfg *Config) {
	if cfg.Agents.Timeout <= 0 {
		cfg.Agents.Timeout = 10 * time.Second
	}
	if cfg.Agents.MaxInputChars <= 0 {
		cfg.Agents.MaxInputChars = 3000
	}
	if cfg.Patterns.SimilarityThreshold <= 0 {
		cfg.Patterns.SimilarityThreshold = 0.7
	}
	if cfg.Patterns.MaxMatches <= 0 {
		cfg.Patterns.MaxMatches = 2
	}
	if cfg.Retention.Days <= 0 {
		cfg.Retention.Days = 90
	}
	if cfg.Retention.SweepInterval <= 0 {
		cfg.Retention.SweepInterval = 24 * time.Hour
	}
	if cfg.LLM.MaxTokens <= 0 {
		cfg.LLM.MaxTokens = 1024
	}
	if cfg.LLM.Timeout <= 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
}
