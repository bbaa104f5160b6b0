package di

import (
	"fmt"
	"io"
	"time"

	"wingman/internal/domain/repository"
	"wingman/internal/handler/api"
	"wingman/internal/service/alertcache"
	"wingman/internal/service/events"
	"wingman/internal/service/marketdata"
	"wingman/internal/service/openai"
	"wingman/internal/service/telegram"
	"wingman/internal/usecase"
	pkgcache "wingman/pkg/cache"
	"wingman/pkg/config"
	xhttp "wingman/pkg/http"
	pkgkafka "wingman/pkg/kafka"
	applogger "wingman/pkg/logger"
	"wingman/pkg/metrics"
	"wingman/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideIDCache creates the aggregator identifier cache, backed by Redis
// when configured and in-process memory otherwise.
func ProvideIDCache(cfg *config.Config) (pkgcache.Service, error) {
	if cfg.IDCache.Backend == "redis" {
		c, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.IDCache.Redis.Host),
			pkgcache.WithRedisPort(cfg.IDCache.Redis.Port),
			pkgcache.WithRedisPassword(cfg.IDCache.Redis.Password),
			pkgcache.WithRedisDB(cfg.IDCache.Redis.DB),
			pkgcache.WithRedisPrefix("wingman"),
		)
		if err != nil {
			return nil, fmt.Errorf("redis id cache: %w", err)
		}
		return c, nil
	}
	return pkgcache.NewMemoryCache(), nil
}

// ProvideProviderClient creates the HTTP client shared by market-data
// providers.
func ProvideProviderClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Providers.Timeout))
}

func providerOptions(cfg *config.Config) marketdata.Options {
	opts := marketdata.DefaultOptions()
	if cfg.Providers.VolumeTTL > 0 {
		opts.VolumeTTL = cfg.Providers.VolumeTTL
	}
	if cfg.Providers.RatePerSecond > 0 {
		opts.RatePerSec = cfg.Providers.RatePerSecond
	}
	if cfg.Providers.RateBurst > 0 {
		opts.RateBurst = cfg.Providers.RateBurst
	}
	return opts
}

// ProvideCoinGecko creates the aggregator provider.
func ProvideCoinGecko(cfg *config.Config, client *xhttp.Client, ids pkgcache.Service, l *applogger.Logger, m repository.Metrics) *marketdata.CoinGecko {
	return marketdata.NewCoinGecko(client, cfg.Providers.CoinGecko.BaseURL, ids, l, m, providerOptions(cfg))
}

// ProvideVenueRegistry creates the venue dispatch table.
func ProvideVenueRegistry(cfg *config.Config, client *xhttp.Client, l *applogger.Logger, m repository.Metrics) *marketdata.VenueRegistry {
	opts := providerOptions(cfg)
	reg := marketdata.NewVenueRegistry()
	reg.Register("BINANCE", marketdata.NewBinance(client, cfg.Providers.Binance.BaseURL, l, m, opts))
	reg.Register("BYBIT", marketdata.NewBybit(client, cfg.Providers.Bybit.BaseURL, l, m, opts))
	return reg
}

// ProvideVolumeChain creates the volume resolution chain.
func ProvideVolumeChain(cg *marketdata.CoinGecko, reg *marketdata.VenueRegistry, l *applogger.Logger) *usecase.VolumeChain {
	return usecase.NewVolumeChain(cg, reg, l)
}

// ProvideAlertCache creates the in-process technicals cache.
func ProvideAlertCache() *alertcache.Cache {
	return alertcache.New()
}

// ProvideTelegramClient creates the Bot API client. Its HTTP timeout must
// outlast a long-poll cycle.
func ProvideTelegramClient(cfg *config.Config, l *applogger.Logger, m repository.Metrics) *telegram.Client {
	timeout := cfg.Telegram.Timeout
	if cfg.Telegram.Polling && cfg.Telegram.PollTimeout+10*time.Second > timeout {
		timeout = cfg.Telegram.PollTimeout + 10*time.Second
	}
	hc := xhttp.NewClient(xhttp.WithTimeout(timeout))
	return telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.ChatID, hc, l, m)
}

// ProvideTradePlanner creates the LLM planner.
func ProvideTradePlanner(cfg *config.Config) repository.TradePlanner {
	hc := xhttp.NewClient(xhttp.WithTimeout(cfg.OpenAI.Timeout))
	return openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, cfg.OpenAI.Temperature, hc)
}

// ProvideEventPublisher creates the Kafka processed-alert publisher, or nil
// when no brokers are configured.
func ProvideEventPublisher(cfg *config.Config) (repository.EventPublisher, error) {
	if !cfg.EventsEnabled() {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return events.NewKafkaPublisher(producer, cfg.Events.Topic), nil
}

// ProvideAlertProcessor creates the webhook pipeline use case.
func ProvideAlertProcessor(
	cfg *config.Config,
	chain *usecase.VolumeChain,
	cg *marketdata.CoinGecko,
	cache *alertcache.Cache,
	notifier *telegram.Client,
	pub repository.EventPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.AlertProcessor {
	return usecase.NewAlertProcessor(cfg.Alert.Secret, chain, cg, cache, notifier, pub, m, l)
}

// ProvideAnalyzer creates the analyze use case.
func ProvideAnalyzer(cache *alertcache.Cache, planner repository.TradePlanner, m repository.Metrics, l *applogger.Logger) *usecase.Analyzer {
	return usecase.NewAnalyzer(cache, planner, m, l)
}

// ProvideBot creates the chat command router.
func ProvideBot(analyzer *usecase.Analyzer, notifier *telegram.Client, l *applogger.Logger) *usecase.Bot {
	return usecase.NewBot(analyzer, notifier, l)
}

// ProvidePoller creates the getUpdates poller when polling mode is enabled.
func ProvidePoller(cfg *config.Config, notifier *telegram.Client, bot *usecase.Bot, l *applogger.Logger) *telegram.Poller {
	if !cfg.Telegram.Polling {
		return nil
	}
	return telegram.NewPoller(notifier, bot, l, cfg.Telegram.PollTimeout)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(
	l *applogger.Logger,
	processor *usecase.AlertProcessor,
	analyzer *usecase.Analyzer,
	bot *usecase.Bot,
	notifier *telegram.Client,
	cg *marketdata.CoinGecko,
) xhttp.Handler {
	return api.NewAlertsEchoHandler(l, processor, analyzer, bot, notifier, cg)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h xhttp.Handler) *xhttp.Server {
	return xhttp.NewServer(l, h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	poller *telegram.Poller,
	ids pkgcache.Service,
	pub repository.EventPublisher,
) *server.App {
	closers := []io.Closer{ids}
	if c, ok := pub.(io.Closer); ok {
		closers = append(closers, c)
	}
	return server.New(cfg, l, httpServer, poller, closers...)
}
