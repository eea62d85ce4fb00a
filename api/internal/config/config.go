package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Store    StoreConfig    `mapstructure:"store"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Digest   DigestConfig   `mapstructure:"digest"`
	Log      LogConfig      `mapstructure:"log"`
	Timezone string         `mapstructure:"timezone"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// LLMConfig selects the engine by name ("gemini" or "gpt").
type LLMConfig struct {
	Engine string       `mapstructure:"engine"`
	Gemini GeminiConfig `mapstructure:"gemini"`
	OpenAI OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type ExtractConfig struct {
	PromptFile string `mapstructure:"prompt_file"`

	// Timeout bounds one extraction; zero means no deadline.
	Timeout time.Duration `mapstructure:"timeout"`
}

type StoreConfig struct {
	Driver      string      `mapstructure:"driver"`
	Path        string      `mapstructure:"path"`
	SQLitePath  string      `mapstructure:"sqlite_path"`
	DatabaseURL string      `mapstructure:"database_url"`
	Redis       RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`

	// WebhookURL switches the bot from long polling to webhooks.
	WebhookURL string `mapstructure:"webhook_url"`
}

type DigestConfig struct {
	Cron   string `mapstructure:"cron"`
	ChatID int64  `mapstructure:"chat_id"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var Drivers = []string{"file", "sqlite", "postgres", "redis"}

// Load reads defaults, then an optional config file, then the environment.
// An empty path looks for config.yaml in ./config and the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8000")

	v.SetDefault("llm.engine", "gemini")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", "gemini-2.0-flash")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.base_url", "https://api.openai.com/v1")

	v.SetDefault("extract.prompt_file", "")
	v.SetDefault("extract.timeout", "0s")

	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", "timetable.json")
	v.SetDefault("store.sqlite_path", "timetable.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.key", "timetable_data")

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.webhook_url", "")

	v.SetDefault("digest.cron", "")
	v.SetDefault("digest.chat_id", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("timezone", "Local")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TIMETABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// conventional names used by the hosting platforms and SDKs
	for key, names := range map[string][]string{
		"server.port":          {"TIMETABLE_SERVER_PORT", "PORT"},
		"llm.gemini.api_key":   {"TIMETABLE_LLM_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"llm.openai.api_key":   {"TIMETABLE_LLM_OPENAI_API_KEY", "OPENAI_API_KEY"},
		"telegram.token":       {"TIMETABLE_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"},
		"store.database_url":   {"TIMETABLE_STORE_DATABASE_URL", "DATABASE_URL"},
		"telegram.webhook_url": {"TIMETABLE_TELEGRAM_WEBHOOK_URL", "WEBHOOK_URL"},
	} {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if !slices.Contains(Drivers, c.Store.Driver) {
		return fmt.Errorf("config: unknown store.driver %q (want one of %s)", c.Store.Driver, strings.Join(Drivers, ", "))
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		return errors.New("config: store.database_url is required for the postgres driver")
	}
	switch strings.ToLower(c.LLM.Engine) {
	case "gemini", "gpt", "openai":
	default:
		return fmt.Errorf("config: unknown llm.engine %q", c.LLM.Engine)
	}
	if c.Extract.Timeout < 0 {
		return errors.New("config: extract.timeout must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// RequireLLM checks that the selected engine has credentials.
func (c *Config) RequireLLM() error {
	switch strings.ToLower(c.LLM.Engine) {
	case "gpt", "openai":
		if c.LLM.OpenAI.APIKey == "" {
			return errors.New("config: OPENAI_API_KEY is required for llm.engine=gpt")
		}
	default:
		if c.LLM.Gemini.APIKey == "" {
			return errors.New("config: GEMINI_API_KEY is required for llm.engine=gemini")
		}
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
