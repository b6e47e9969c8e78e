package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderHuggingFace LLMProvider = "huggingface"
	ProviderOpenAI      LLMProvider = "openai"
	ProviderYandex      LLMProvider = "yandex"
)

type HistoryBackend string

const (
	BackendFile   HistoryBackend = "file"
	BackendSQLite HistoryBackend = "sqlite"
	BackendMemory HistoryBackend = "memory"
)

type Config struct {
	// Relay
	RelayAddr    string        `env:"RELAY_ADDR" envDefault:":5000"`
	RelayURL     string        `env:"RELAY_URL" envDefault:"http://localhost:5000/generate-content"`
	RelayTimeout time.Duration `env:"RELAY_TIMEOUT" envDefault:"60s"`

	// LLM settings
	LLMProvider         LLMProvider `env:"LLM_PROVIDER" envDefault:"huggingface"`
	HuggingFaceAPIKey   string      `env:"HUGGING_FACE_API_KEY"`
	HuggingFaceModelURL string      `env:"HUGGING_FACE_MODEL_URL" envDefault:"https://api-inference.huggingface.co/models/EleutherAI/gpt-neo-2.7B"`
	OpenAIAPIKey        string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL       string      `env:"OPENAI_BASE_URL"`
	OpenAIModel         string      `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	YandexOAuthToken    string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID      string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// History storage
	HistoryBackend HistoryBackend `env:"HISTORY_BACKEND" envDefault:"file"`
	HistoryDir     string         `env:"HISTORY_DIR" envDefault:"data/history"`
	HistoryDBPath  string         `env:"HISTORY_DB_PATH" envDefault:"data/history.db"`
	HistorySlot    string         `env:"HISTORY_SLOT" envDefault:"contentHistory"`

	// Web UI
	WebAddr string `env:"WEB_ADDR" envDefault:":3000"`

	// Usage log and daily report
	UsageLogPath   string `env:"USAGE_LOG_PATH" envDefault:"logs/usage.jsonl"`
	ReportSchedule string `env:"REPORT_SCHEDULE" envDefault:"0 21 * * *"`

	// Telegram front-end
	TelegramBotToken  string  `env:"TELEGRAM_BOT_TOKEN"`
	AllowedUsers      []int64 `env:"ALLOWED_USERS" envSeparator:":"`
	AllowlistFilePath string  `env:"ALLOWLIST_FILE_PATH" envDefault:"data/allowlist.json"`
}

// Parse reads the configuration from the environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case ProviderHuggingFace, ProviderOpenAI, ProviderYandex:
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLMProvider)
	}
	switch c.HistoryBackend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown history backend: %s", c.HistoryBackend)
	}
	if c.HistorySlot == "" {
		return fmt.Errorf("history slot must not be empty")
	}
	if c.RelayTimeout < 0 {
		return fmt.Errorf("relay timeout must not be negative")
	}
	return nil
}
