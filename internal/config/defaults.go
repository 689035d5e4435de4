package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 7860
	}
	if cfg.Data.SourcePath == "" {
		cfg.Data.SourcePath = "./UniqueLaptopsConverted.csv"
	}
	if cfg.Data.Table == "" {
		cfg.Data.Table = "laptops"
	}
	if cfg.Chat.DefaultLimit == 0 {
		cfg.Chat.DefaultLimit = 5
	}
	if cfg.Chat.MarketplaceDomain == "" {
		cfg.Chat.MarketplaceDomain = "amazon.com"
	}
	if cfg.Chat.SearchURL == "" {
		cfg.Chat.SearchURL = "https://www.amazon.com/s?k="
	}
	if cfg.Chat.SessionTTL == 0 {
		cfg.Chat.SessionTTL = 24 * time.Hour
	}
}
