// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Site    SiteConfig    `mapstructure:"site"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                  int `mapstructure:"port"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
}

// SiteConfig identifies the origin site being crawled.
type SiteConfig struct {
	Origin     string `mapstructure:"origin"`
	CutoffYear int    `mapstructure:"cutoff_year"`
}

// CrawlerConfig governs crawl fan-out behavior.
type CrawlerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// HTTPConfig configures the outbound HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// FeedConfig holds the channel-level metadata published in the feed.
type FeedConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	Language    string `mapstructure:"language"`
	Copyright   string `mapstructure:"copyright"`
	OwnerName   string `mapstructure:"owner_name"`
	OwnerEmail  string `mapstructure:"owner_email"`
	Category    string `mapstructure:"category"`
	ArtworkURL  string `mapstructure:"artwork_url"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ARCHIVECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_seconds", 120)
	v.SetDefault("site.origin", "https://www.amroutes.org")
	v.SetDefault("site.cutoff_year", 2024)
	v.SetDefault("crawler.concurrency", 8)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.user_agent", "archivecast/1.0")
	v.SetDefault("feed.base_url", "http://localhost:8080")
	v.SetDefault("feed.title", "American Routes")
	v.SetDefault("feed.description", "Weekly two-hour public radio program, republished from the amroutes.org episode archive.")
	v.SetDefault("feed.language", "en-us")
	v.SetDefault("feed.copyright", "American Routes")
	v.SetDefault("feed.owner_name", "American Routes")
	v.SetDefault("feed.owner_email", "radio@amroutes.org")
	v.SetDefault("feed.category", "Music")
	v.SetDefault("feed.artwork_url", "https://www.amroutes.org/assets/artwork.jpg")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Site.Origin == "" {
		return fmt.Errorf("site.origin must be set")
	}
	if c.Site.CutoffYear <= 0 {
		return fmt.Errorf("site.cutoff_year must be > 0")
	}
	if c.Crawler.Concurrency <= 0 {
		return fmt.Errorf("crawler.concurrency must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Feed.BaseURL == "" {
		return fmt.Errorf("feed.base_url must be set")
	}
	return nil
}

// FetchTimeout converts the HTTP timeout config into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// RequestTimeout converts the server timeout config into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}
