package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is the config file read when no path is given
const DefaultPath = "config.yaml"

// Config aggregates all application configuration
type Config struct {
	AI     AIConfig     `yaml:"ai"`
	Agent  AgentConfig  `yaml:"agent"`
	Market MarketConfig `yaml:"market"`
	Search SearchConfig `yaml:"search"`
	Cache  CacheConfig  `yaml:"cache"`
	Log    LogConfig    `yaml:"log"`
}

type AIConfig struct {
	Plugin string       `yaml:"plugin" env:"AI_PLUGIN" env-default:"groq"`
	Groq   GroqConfig   `yaml:"groq"`
	Gemini GeminiConfig `yaml:"gemini"`
	Ollama OllamaConfig `yaml:"ollama"`
}

type GroqConfig struct {
	APIKey  string `yaml:"api_key" env:"GROQ_API_KEY"`
	Model   string `yaml:"model" env:"GROQ_MODEL" env-default:"openai/gpt-oss-20b"`
	BaseURL string `yaml:"base_url" env:"GROQ_BASE_URL" env-default:"https://api.groq.com/openai/v1/"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"GEMINI_MODEL" env-default:"gemini-2.5-flash"`
}

type OllamaConfig struct {
	Model   string `yaml:"model" env:"OLLAMA_MODEL" env-default:"qwen3:4b"`
	BaseURL string `yaml:"base_url" env:"OLLAMA_BASE_URL" env-default:"http://localhost:11434"`
}

// AgentConfig controls how agents drive the model
type AgentConfig struct {
	MaxTurns      int  `yaml:"max_turns" env:"AGENT_MAX_TURNS" env-default:"10"`
	ShowToolCalls bool `yaml:"show_tool_calls" env:"AGENT_SHOW_TOOL_CALLS" env-default:"true"`
	Markdown      bool `yaml:"markdown" env:"AGENT_MARKDOWN" env-default:"true"`
}

// MarketConfig configures the Yahoo Finance client
type MarketConfig struct {
	BaseURL         string `yaml:"base_url" env:"MARKET_BASE_URL" env-default:"https://query1.finance.yahoo.com"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" env:"MARKET_TIMEOUT_SECONDS" env-default:"30"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds" env:"MARKET_CACHE_TTL_SECONDS" env-default:"300"`
	HolidaysURL     string `yaml:"holidays_url" env:"MARKET_HOLIDAYS_URL" env-default:"https://date.nager.at/api/v3"`
}

// SearchConfig selects and configures the web search provider
type SearchConfig struct {
	Provider       string `yaml:"provider" env:"SEARCH_PROVIDER" env-default:"duckduckgo"`
	TavilyAPIKey   string `yaml:"tavily_api_key" env:"TAVILY_API_KEY"`
	DuckDuckGoURL  string `yaml:"duckduckgo_url" env:"DUCKDUCKGO_URL" env-default:"https://html.duckduckgo.com/html/"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"SEARCH_TIMEOUT_SECONDS" env-default:"30"`
}

// CacheConfig selects the response cache backend: memory, sqlite or postgres
type CacheConfig struct {
	Driver string `yaml:"driver" env:"CACHE_DRIVER" env-default:"memory"`
	DSN    string `yaml:"dsn" env:"CACHE_DSN" env-default:"tickerdesk.db"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from the yaml file at path and environment variables.
// Priority: Env Vars > Config File > Defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.AI.Plugin {
	case "groq", "gemini", "ollama":
	default:
		return fmt.Errorf("unknown ai plugin %q (want groq, gemini or ollama)", c.AI.Plugin)
	}
	switch c.Search.Provider {
	case "duckduckgo", "tavily":
	default:
		return fmt.Errorf("unknown search provider %q (want duckduckgo or tavily)", c.Search.Provider)
	}
	switch c.Cache.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown cache driver %q (want memory, sqlite or postgres)", c.Cache.Driver)
	}
	if c.Agent.MaxTurns < 1 {
		return fmt.Errorf("agent.max_turns must be at least 1, got %d", c.Agent.MaxTurns)
	}
	return nil
}
