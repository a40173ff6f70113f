package config

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.HTTPAddr == "" {
		c.App.HTTPAddr = ":8084"
	}
	if c.Brokerage.TimeoutSeconds <= 0 {
		c.Brokerage.TimeoutSeconds = 15
	}
	if c.News.SearchAPIURL == "" {
		c.News.SearchAPIURL = "https://www.searchapi.io/api/v1/search"
	}
	if c.News.SearchLimit <= 0 {
		c.News.SearchLimit = 5
	}
	if c.News.VantageAPIURL == "" {
		c.News.VantageAPIURL = "https://www.alphavantage.co/query"
	}
	if c.News.VantageLimit <= 0 {
		c.News.VantageLimit = 10
	}
	if c.News.TimeoutSeconds <= 0 {
		c.News.TimeoutSeconds = 10
	}
	if c.Sentiment.Endpoint == "" {
		c.Sentiment.Endpoint = "https://api.alternative.me/fng/?limit=1"
	}
	if c.Sentiment.TimeoutSeconds <= 0 {
		c.Sentiment.TimeoutSeconds = 5
	}
	if c.Methodology.TimeoutSeconds <= 0 {
		c.Methodology.TimeoutSeconds = 10
	}
	if c.Oracle.APIURL == "" {
		c.Oracle.APIURL = "https://api.openai.com/v1"
	}
	if c.Oracle.Model == "" {
		c.Oracle.Model = "gpt-4o-2024-08-06"
	}
	if c.Oracle.MaxTokens <= 0 {
		c.Oracle.MaxTokens = 4095
	}
	if c.Oracle.TimeoutSeconds <= 0 {
		c.Oracle.TimeoutSeconds = 120
	}
	if c.Translate.TargetLang == "" {
		c.Translate.TargetLang = "ko"
	}
	if c.Translate.TimeoutSeconds <= 0 {
		c.Translate.TimeoutSeconds = 10
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = "data/ai_stock_analysis_records.db"
	}
	if c.RunLog.Path == "" {
		c.RunLog.Path = "data/oracle_runlog.db"
	}
	if c.Notify.TimeoutSeconds <= 0 {
		c.Notify.TimeoutSeconds = 10
	}
}
