package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

const (
	defaultAPIURL       = "https://colintalkscrypto.com/cbbi/data/latest.json"
	defaultPollInterval = 4 * time.Hour
)

type Config struct {
	APIURL           string
	DiscordBotToken  string
	TelegramBotToken string

	PollInterval     time.Duration
	FetchTimeoutSecs int

	HTTPEnabled bool
	HTTPAddr    string
	HTTPAPIKey  string

	Log LogConfig
}

type LogConfig struct {
	Level      string
	Format     string
	OutputFile string
}

func Load() *Config {
	cfg := &Config{
		APIURL:           strings.TrimSpace(os.Getenv("API_URL")),
		DiscordBotToken:  strings.TrimSpace(os.Getenv("DISCORD_BOT_API_TOKEN")),
		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
	}

	if cfg.APIURL == "" {
		log.Printf("Warning: API_URL not set, defaulting to %s", defaultAPIURL)
		cfg.APIURL = defaultAPIURL
	}
	if cfg.DiscordBotToken == "" {
		log.Println("Warning: DISCORD_BOT_API_TOKEN not set")
	}

	cfg.PollInterval = defaultPollInterval
	if v := strings.TrimSpace(os.Getenv("POLL_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.PollInterval = d
		} else {
			log.Printf("Warning: invalid POLL_INTERVAL=%q, defaulting to %s", v, defaultPollInterval)
		}
	}

	cfg.FetchTimeoutSecs = 30
	if v := strings.TrimSpace(os.Getenv("FETCH_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FetchTimeoutSecs = n
		}
	}

	cfg.HTTPEnabled = !strings.EqualFold(strings.TrimSpace(os.Getenv("HTTP_ENABLED")), "false")

	cfg.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.HTTPAPIKey = strings.TrimSpace(os.Getenv("HTTP_API_KEY"))

	cfg.Log.Level = "info"
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))); v != "" {
		if _, err := zapcore.ParseLevel(v); err == nil {
			cfg.Log.Level = v
		} else {
			log.Printf("Warning: invalid LOG_LEVEL=%q, defaulting to info", v)
		}
	}

	cfg.Log.Format = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		cfg.Log.Format = "json"
	}

	cfg.Log.OutputFile = strings.TrimSpace(os.Getenv("LOG_FILE"))

	return cfg
}
