package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Alert struct {
		Secret           string `yaml:"secret"`
		DefaultTimeframe string `yaml:"default_timeframe"`
	} `yaml:"alert"`
	Telegram struct {
		Token       string        `yaml:"token"`
		ChatID      int64         `yaml:"chat_id"`
		Timeout     time.Duration `yaml:"timeout"`
		Polling     bool          `yaml:"polling"`
		PollTimeout time.Duration `yaml:"poll_timeout"`
	} `yaml:"telegram"`
	OpenAI struct {
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model"`
		BaseURL     string        `yaml:"base_url"`
		Timeout     time.Duration `yaml:"timeout"`
		Temperature float64       `yaml:"temperature"`
	} `yaml:"openai"`
	Providers struct {
		Timeout       time.Duration `yaml:"timeout"`
		VolumeTTL     time.Duration `yaml:"volume_ttl"`
		RatePerSecond float64       `yaml:"rate_per_second"`
		RateBurst     float64       `yaml:"rate_burst"`
		CoinGecko     struct {
			BaseURL string `yaml:"base_url"`
		} `yaml:"coingecko"`
		Binance struct {
			BaseURL string `yaml:"base_url"`
		} `yaml:"binance"`
		Bybit struct {
			BaseURL string `yaml:"base_url"`
		} `yaml:"bybit"`
	} `yaml:"providers"`
	IDCache struct {
		Backend string `yaml:"backend"` // memory or redis
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"id_cache"`
	Events struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"events"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// Legacy variable names from the original deployment (TELEGRAM_TOKEN, CHAT_ID,
// ALERT_SECRET, OPENAI_API_KEY, PORT) are honoured alongside WINGMAN_* names.
func LoadWithEnv(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// env-only deployments run without a config file
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	c.applyDefaults()

	if v := envFirst("WINGMAN_TELEGRAM_TOKEN", "TELEGRAM_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := envFirst("WINGMAN_CHAT_ID", "CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid CHAT_ID %q: %w", v, err)
		}
		c.Telegram.ChatID = id
	}
	if v := envFirst("WINGMAN_ALERT_SECRET", "ALERT_SECRET"); v != "" {
		c.Alert.Secret = v
	}
	if v := envFirst("WINGMAN_OPENAI_API_KEY", "OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := envFirst("WINGMAN_OPENAI_MODEL", "OPENAI_MODEL"); v != "" {
		c.OpenAI.Model = v
	}
	if v := envFirst("WINGMAN_PORT", "PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = p
	}
	if v := os.Getenv("WINGMAN_EVENT_BROKERS"); v != "" {
		c.Events.Brokers = strings.Split(v, ",")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func envFirst(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Alert.DefaultTimeframe == "" {
		c.Alert.DefaultTimeframe = "240"
	}
	if c.Telegram.Timeout == 0 {
		c.Telegram.Timeout = 10 * time.Second
	}
	if c.Telegram.PollTimeout == 0 {
		c.Telegram.PollTimeout = 30 * time.Second
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = 60 * time.Second
	}
	if c.OpenAI.Temperature == 0 {
		c.OpenAI.Temperature = 0.2
	}
	if c.Providers.Timeout == 0 {
		c.Providers.Timeout = 6 * time.Second
	}
	if c.Providers.VolumeTTL == 0 {
		c.Providers.VolumeTTL = 300 * time.Second
	}
	if c.Providers.RatePerSecond == 0 {
		c.Providers.RatePerSecond = 1
	}
	if c.Providers.RateBurst == 0 {
		c.Providers.RateBurst = 5
	}
	if c.Providers.CoinGecko.BaseURL == "" {
		c.Providers.CoinGecko.BaseURL = "https://api.coingecko.com"
	}
	if c.Providers.Binance.BaseURL == "" {
		c.Providers.Binance.BaseURL = "https://api.binance.com"
	}
	if c.Providers.Bybit.BaseURL == "" {
		c.Providers.Bybit.BaseURL = "https://api.bybit.com"
	}
	if c.IDCache.Backend == "" {
		c.IDCache.Backend = "memory"
	}
	if c.IDCache.Redis.Host == "" {
		c.IDCache.Redis.Host = "localhost"
	}
	if c.IDCache.Redis.Port == 0 {
		c.IDCache.Redis.Port = 6379
	}
	if c.Events.Topic == "" {
		c.Events.Topic = "wingman.alerts.processed"
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Alert.Secret == "" {
		return fmt.Errorf("alert.secret is required")
	}
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.IDCache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("id_cache.backend must be memory or redis, got %q", c.IDCache.Backend)
	}
	return nil
}

// EventsEnabled reports whether the Kafka event publisher is configured.
func (c *Config) EventsEnabled() bool {
	return len(c.Events.Brokers) > 0
}
