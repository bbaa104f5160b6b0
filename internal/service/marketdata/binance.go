package marketdata

import (
	"context"
	"net/url"
	"strings"

	"wingman/internal/domain/models"
	domrepo "wingman/internal/domain/repository"
	icache "wingman/internal/service/cache"
	"wingman/internal/service/ratelimit"
	xhttp "wingman/pkg/http"
	applogger "wingman/pkg/logger"
	"wingman/pkg/util"
)

const binanceName = "Binance"

// Binance is a venue-specific volume client; resolves directly from the
// base+quote pair with no identifier-resolution step.
type Binance struct {
	http    *xhttp.Client
	baseURL string
	logger  *applogger.Logger
	metrics domrepo.Metrics

	volumes *icache.TTLCache[models.Volume]
	opts    Options
	limiter *ratelimit.Limiter
}

func NewBinance(client *xhttp.Client, baseURL string, l *applogger.Logger, m domrepo.Metrics, opts Options) *Binance {
	return &Binance{
		http:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  l,
		metrics: m,
		volumes: icache.NewTTLCache[models.Volume](),
		opts:    opts,
		limiter: ratelimit.New(),
	}
}

func (b *Binance) Name() string { return binanceName }

type binanceTicker struct {
	Symbol      string `json:"symbol"`
	QuoteVolume string `json:"quoteVolume"`
}

func (b *Binance) FetchVolume(ctx context.Context, base, quote string) (models.Volume, bool) {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if base == "" || quote == "" {
		return models.Volume{}, false
	}

	cacheKey := "binance:" + strings.ToLower(base)
	if v, ok := b.volumes.Get(cacheKey); ok {
		b.metrics.RecordVolumeCacheHit(binanceName)
		return v, true
	}

	if !b.limiter.Allow(binanceName, b.opts.RateBurst, b.opts.RatePerSec) {
		b.logger.Warn("binance: rate limited", applogger.String("base", base))
		return models.Volume{}, false
	}

	var ticker binanceTicker
	q := url.Values{}
	q.Set("symbol", base+quote)
	if err := b.http.GetJSON(ctx, b.baseURL+"/api/v3/ticker/24hr", q, &ticker); err != nil {
		b.metrics.RecordProviderRequest(binanceName, "error")
		b.logger.Warn("binance: ticker fetch failed", applogger.String("pair", base+quote), applogger.Error(err))
		return models.Volume{}, false
	}

	vol, ok := util.ToFloat(ticker.QuoteVolume)
	if !ok || vol <= 0 {
		b.metrics.RecordProviderRequest(binanceName, "empty")
		return models.Volume{}, false
	}

	v := models.Volume{Value: vol, Units: quote}
	b.volumes.Set(cacheKey, v, b.opts.VolumeTTL)
	b.metrics.RecordProviderRequest(binanceName, "ok")
	return v, true
}
