package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	TokenStoreFile     = "file"
	TokenStorePostgres = "postgres"
)

type Config struct {
	// Breezeway API
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPTimeout  time.Duration

	// Telegram sink
	TelegramBaseURL  string
	TelegramBotToken string
	TelegramChatID   string

	// token cache
	TokenStore  string
	TokenFile   string
	TokenSecret string
	TokenTTL    time.Duration
	DatabaseURL string

	// report
	Location          *time.Location
	LookbackDays      int
	PageLimit         int
	DetailConcurrency int

	LogLevel    string
	LogEncoding string
}

// FromEnv reads the environment, after loading .env from the working
// directory when present.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		BaseURL:          getenv("BREEZEWAY_BASE_URL", "https://api.breezeway.io"),
		ClientID:         strings.TrimSpace(os.Getenv("CLIENT_ID")),
		ClientSecret:     strings.TrimSpace(os.Getenv("CLIENT_SECRET")),
		TelegramBaseURL:  getenv("TELEGRAM_BASE_URL", "https://api.telegram.org"),
		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TelegramChatID:   strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")),
		TokenStore:       strings.ToLower(getenv("TOKEN_STORE", TokenStoreFile)),
		TokenFile:        getenv("TOKEN_FILE", "breezeway_token.json"),
		TokenSecret:      os.Getenv("TOKEN_CACHE_SECRET"),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogEncoding:      getenv("LOG_ENCODING", "console"),
	}

	var err error
	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 23*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.LookbackDays, err = getPositiveInt("CHECKOUT_LOOKBACK_DAYS", 90); err != nil {
		return Config{}, err
	}
	if cfg.PageLimit, err = getPositiveInt("PAGE_LIMIT", 100); err != nil {
		return Config{}, err
	}
	if cfg.DetailConcurrency, err = getPositiveInt("DETAIL_CONCURRENCY", 4); err != nil {
		return Config{}, err
	}

	tz := getenv("REPORT_TIMEZONE", "Local")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return Config{}, fmt.Errorf("invalid REPORT_TIMEZONE: %w", err)
	}

	switch cfg.TokenStore {
	case TokenStoreFile:
	case TokenStorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when TOKEN_STORE=postgres")
		}
	default:
		return Config{}, fmt.Errorf("invalid TOKEN_STORE %q (want file or postgres)", cfg.TokenStore)
	}
	return cfg, nil
}

// RequireAPI checks the settings needed to talk to the Breezeway API.
func (c Config) RequireAPI() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("CLIENT_ID and CLIENT_SECRET are required")
	}
	return nil
}

// RequireTelegram checks the settings needed to deliver the report.
func (c Config) RequireTelegram() error {
	if c.TelegramBotToken == "" || c.TelegramChatID == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required")
	}
	return nil
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func getPositiveInt(k string, def int) (int, error) {
	v := getenv(k, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s", k)
	}
	return n, nil
}

// getDuration accepts Go durations ("45s") or a bare number of seconds.
func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := getenv(k, "")
	if v == "" {
		return def, nil
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d, nil
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid %s", k)
}
