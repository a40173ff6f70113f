package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults()
	cfg.bindSecrets()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindSecrets pulls credentials from the process environment. Keeping them
// out of the YAML file keeps the file safe to commit.
func (c *Config) bindSecrets() {
	c.Brokerage.Token = envOr(c.Brokerage.Token, "BROKERAGE_TOKEN")
	c.News.SearchAPIKey = envOr(c.News.SearchAPIKey, "SERPAPI_API_KEY")
	c.News.VantageAPIKey = envOr(c.News.VantageAPIKey, "ALPHA_VANTAGE_API_KEY")
	c.Oracle.APIKey = envOr(c.Oracle.APIKey, "OPENAI_API_KEY")
	c.Notify.WebhookURL = envOr(c.Notify.WebhookURL, "NOTIFY_WEBHOOK_URL")
}

func envOr(current, key string) string {
	if strings.TrimSpace(current) != "" {
		return current
	}
	return strings.TrimSpace(os.Getenv(key))
}
