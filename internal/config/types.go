package config

// Config is the top-level configuration carrier. Secrets are bound from the
// environment in Load; everything else comes from the YAML file. Components
// never read the environment themselves.
type Config struct {
	App         AppConfig         `toml:"app"`
	Brokerage   BrokerageConfig   `toml:"brokerage"`
	News        NewsConfig        `toml:"news"`
	Sentiment   SentimentConfig   `toml:"sentiment"`
	Methodology MethodologyConfig `toml:"methodology"`
	Oracle      OracleConfig      `toml:"oracle"`
	Translate   TranslateConfig   `toml:"translate"`
	Ledger      LedgerConfig      `toml:"ledger"`
	RunLog      RunLogConfig      `toml:"run_log"`
	Notify      NotifyConfig      `toml:"notify"`
}

type AppConfig struct {
	Env           string `toml:"env"`
	LogLevel      string `toml:"log_level"`
	LogPath       string `toml:"log_path"`
	HTTPAddr      string `toml:"http_addr"`
	OracleLogPath string `toml:"oracle_log_path"`
	OracleDump    bool   `toml:"oracle_dump_payload"`
}

// BrokerageConfig describes the market-data provider. The session token is
// established out of band and injected via BROKERAGE_TOKEN.
type BrokerageConfig struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"-"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type NewsConfig struct {
	SearchAPIURL   string `toml:"search_api_url"`
	SearchAPIKey   string `toml:"-"`
	SearchLimit    int    `toml:"search_limit"`
	VantageAPIURL  string `toml:"vantage_api_url"`
	VantageAPIKey  string `toml:"-"`
	VantageLimit   int    `toml:"vantage_limit"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type SentimentConfig struct {
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// MethodologyConfig locates the fixed trading-methodology text injected into
// every oracle request. Either a local file or an URL; file wins when both
// are set.
type MethodologyConfig struct {
	Path           string `toml:"path"`
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type OracleConfig struct {
	APIURL         string `toml:"api_url"`
	APIKey         string `toml:"-"`
	Model          string `toml:"model"`
	MaxTokens      int    `toml:"max_tokens"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type TranslateConfig struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	TargetLang     string `toml:"target_lang"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LedgerConfig struct {
	Path string `toml:"path"`
}

type RunLogConfig struct {
	Path string `toml:"path"`
}

type NotifyConfig struct {
	WebhookURL     string `toml:"-"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}
