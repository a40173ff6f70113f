package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"minerva/internal/advisor"
	"minerva/internal/config"
	"minerva/internal/gateway/provider"
	"minerva/internal/logger"
	"minerva/internal/market"
	"minerva/internal/notify"
	"minerva/internal/signal"
	"minerva/internal/store/ledger"
	"minerva/internal/store/runlog"
	"minerva/internal/translate"
	httpapi "minerva/internal/transport/http"
)

func main() {
	var (
		configPath = flag.String("config", defaultConfigPath(), "path to the YAML config file")
		symbol     = flag.String("symbol", "", "run one analysis for this ticker and exit")
		serve      = flag.Bool("serve", false, "start the HTTP API instead of a one-shot run")
	)
	flag.Parse()

	if err := run(*configPath, *symbol, *serve); err != nil {
		logger.Errorf("fatal: %v", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("MINERVA_CONFIG"); p != "" {
		return p
	}
	return "configs/config.yaml"
}

func run(configPath, symbol string, serve bool) error {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	ledgerStore, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer ledgerStore.Close()

	runlogStore, err := runlog.Open(cfg.RunLog.Path)
	if err != nil {
		return err
	}
	defer runlogStore.Close()

	svc, err := buildService(cfg, ledgerStore, runlogStore)
	if err != nil {
		return err
	}

	if serve {
		server := httpapi.NewServer(svc, ledgerStore, cfg.App.Env)
		return server.Run(cfg.App.HTTPAddr)
	}

	if symbol == "" {
		return fmt.Errorf("either -symbol or -serve is required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	out, err := svc.Analyze(ctx, symbol)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s %d%%\nexpected next close: %.2f (diff %+.2f)\nreason: %s\n",
		out.Symbol, out.Record.Decision, out.Record.Percentage,
		out.Entry.ExpectedNextDayPrice, out.Entry.ExpectedPriceDifference, out.ReasonLocal)
	return nil
}

func buildService(cfg *config.Config, ledgerStore *ledger.Store, runlogStore *runlog.Store) (*advisor.Service, error) {
	source := market.NewBrokerageClient(cfg.Brokerage.BaseURL, cfg.Brokerage.Token,
		time.Duration(cfg.Brokerage.TimeoutSeconds)*time.Second)

	newsTimeout := time.Duration(cfg.News.TimeoutSeconds) * time.Second
	collector := signal.NewAggregator(
		signal.NewSearchNewsClient(cfg.News.SearchAPIURL, cfg.News.SearchAPIKey, cfg.News.SearchLimit, newsTimeout),
		signal.NewVantageNewsClient(cfg.News.VantageAPIURL, cfg.News.VantageAPIKey, cfg.News.VantageLimit, newsTimeout),
		signal.NewFearGreedClient(cfg.Sentiment.Endpoint, time.Duration(cfg.Sentiment.TimeoutSeconds)*time.Second),
		signal.NewMethodologyLoader(cfg.Methodology.Path, cfg.Methodology.URL,
			time.Duration(cfg.Methodology.TimeoutSeconds)*time.Second),
	)

	oracle := provider.NewOpenAIClient(cfg.Oracle.APIURL, cfg.Oracle.APIKey, cfg.Oracle.Model,
		cfg.Oracle.MaxTokens, time.Duration(cfg.Oracle.TimeoutSeconds)*time.Second)

	var translator translate.Translator = translate.Noop{}
	if cfg.Translate.Enabled {
		translator = translate.NewGoogleClient(cfg.Translate.Endpoint, cfg.Translate.TargetLang,
			time.Duration(cfg.Translate.TimeoutSeconds)*time.Second)
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notify.WebhookURL,
			time.Duration(cfg.Notify.TimeoutSeconds)*time.Second)
	}

	return advisor.NewService(advisor.Deps{
		Source:     source,
		Collector:  collector,
		Oracle:     oracle,
		Model:      cfg.Oracle.Model,
		Translator: translator,
		Ledger:     ledgerStore,
		RunLog:     runlogStore,
		Notifier:   notifier,
	})
}

func setupLogging(cfg *config.Config) error {
	logger.SetLevel(cfg.App.LogLevel)
	if cfg.App.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.App.LogPath), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.App.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, f))
	}
	if cfg.App.OracleLogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.App.OracleLogPath), 0o755); err != nil {
			return fmt.Errorf("create oracle log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.App.OracleLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open oracle log file: %w", err)
		}
		logger.SetOracleWriter(f)
		logger.EnableOracleDump(cfg.App.OracleDump)
	}
	return nil
}
