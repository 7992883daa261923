package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables,
// once at startup.
type Config struct {
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	// TelegramChatIDs is a comma-separated list of chat identifiers;
	// each target is sent to independently.
	TelegramChatIDs string `mapstructure:"TELEGRAM_CHAT_IDS"`

	BadgerDBPath string `mapstructure:"BADGERDB_PATH"`

	// Affiliate conversion API (generic tracking-link path).
	AffiliateAPIURL string `mapstructure:"AFFILIATE_API_URL"`
	AffiliateAPIKey string `mapstructure:"AFFILIATE_API_KEY"`

	// Hepsiburada uses its own share-link API instead of the generic path.
	HepsiburadaShareAPIURL string `mapstructure:"HEPSIBURADA_SHARE_API_URL"`
	HepsiburadaCampaignID  string `mapstructure:"HEPSIBURADA_CAMPAIGN_ID"`

	WhatsAppURL string `mapstructure:"WHATSAPP_URL"`
	// IdleChannel is the parking channel the monitor focuses when no unread
	// channels remain, so an arbitrary channel is not left marked as read.
	IdleChannel string `mapstructure:"IDLE_CHANNEL"`

	PollIntervalSeconds   int `mapstructure:"POLL_INTERVAL_SECONDS"`
	MessageWindow         int `mapstructure:"MESSAGE_WINDOW"`
	MaxRowRetries         int `mapstructure:"MAX_ROW_RETRIES"`
	SessionTimeoutSeconds int `mapstructure:"SESSION_TIMEOUT_SECONDS"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// ChatIDs splits the configured comma-separated chat id list.
func (c Config) ChatIDs() []string {
	var ids []string
	for _, id := range strings.Split(c.TelegramChatIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c Config) SessionTimeout() time.Duration {
	return time.Duration(c.SessionTimeoutSeconds) * time.Second
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Allow reading from environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err = viper.ReadInConfig()
	if err != nil {
		// Config file not found is fine as long as env vars cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// --- Validation & Defaults ---
	if config.TelegramBotToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if len(config.ChatIDs()) == 0 {
		return Config{}, fmt.Errorf("TELEGRAM_CHAT_IDS is not set")
	}
	if config.BadgerDBPath == "" {
		config.BadgerDBPath = "./badger_data"
	}
	if config.WhatsAppURL == "" {
		config.WhatsAppURL = "https://web.whatsapp.com"
	}
	if config.PollIntervalSeconds <= 0 {
		config.PollIntervalSeconds = 5
	}
	if config.MessageWindow <= 0 {
		config.MessageWindow = 3
	}
	if config.MaxRowRetries <= 0 {
		config.MaxRowRetries = 2
	}
	if config.SessionTimeoutSeconds <= 0 {
		config.SessionTimeoutSeconds = 60
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	return config, nil
}
