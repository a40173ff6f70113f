package config

import (
	"fmt"
	"strings"
)

func validate(c *Config) error {
	var missing []string
	if strings.TrimSpace(c.Brokerage.BaseURL) == "" {
		missing = append(missing, "brokerage.base_url")
	}
	if strings.TrimSpace(c.Oracle.APIKey) == "" {
		missing = append(missing, "oracle api key (OPENAI_API_KEY)")
	}
	if c.Translate.Enabled && strings.TrimSpace(c.Translate.Endpoint) == "" {
		missing = append(missing, "translate.endpoint")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config incomplete: %s", strings.Join(missing, ", "))
	}
	return nil
}
