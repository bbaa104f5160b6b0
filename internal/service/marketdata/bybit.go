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

const bybitName = "Bybit"

// Bybit is a venue-specific volume client using the v5 spot tickers
// endpoint; turnover24h is the quote-currency volume.
type Bybit struct {
	http    *xhttp.Client
	baseURL string
	logger  *applogger.Logger
	metrics domrepo.Metrics

	volumes *icache.TTLCache[models.Volume]
	opts    Options
	limiter *ratelimit.Limiter
}

func NewBybit(client *xhttp.Client, baseURL string, l *applogger.Logger, m domrepo.Metrics, opts Options) *Bybit {
	return &Bybit{
		http:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  l,
		metrics: m,
		volumes: icache.NewTTLCache[models.Volume](),
		opts:    opts,
		limiter: ratelimit.New(),
	}
}

func (b *Bybit) Name() string { return bybitName }

type bybitTickers struct {
	RetCode int `json:"retCode"`
	Result  struct {
		List []struct {
			Symbol      string `json:"symbol"`
			Turnover24h string `json:"turnover24h"`
		} `json:"list"`
	} `json:"result"`
}

func (b *Bybit) FetchVolume(ctx context.Context, base, quote string) (models.Volume, bool) {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if base == "" || quote == "" {
		return models.Volume{}, false
	}

	cacheKey := "bybit:" + strings.ToLower(base)
	if v, ok := b.volumes.Get(cacheKey); ok {
		b.metrics.RecordVolumeCacheHit(bybitName)
		return v, true
	}

	if !b.limiter.Allow(bybitName, b.opts.RateBurst, b.opts.RatePerSec) {
		b.logger.Warn("bybit: rate limited", applogger.String("base", base))
		return models.Volume{}, false
	}

	var res bybitTickers
	q := url.Values{}
	q.Set("category", "spot")
	q.Set("symbol", base+quote)
	if err := b.http.GetJSON(ctx, b.baseURL+"/v5/market/tickers", q, &res); err != nil {
		b.metrics.RecordProviderRequest(bybitName, "error")
		b.logger.Warn("bybit: ticker fetch failed", applogger.String("pair", base+quote), applogger.Error(err))
		return models.Volume{}, false
	}
	if res.RetCode != 0 || len(res.Result.List) == 0 {
		b.metrics.RecordProviderRequest(bybitName, "empty")
		return models.Volume{}, false
	}

	vol, ok := util.ToFloat(res.Result.List[0].Turnover24h)
	if !ok || vol <= 0 {
		b.metrics.RecordProviderRequest(bybitName, "empty")
		return models.Volume{}, false
	}

	v := models.Volume{Value: vol, Units: quote}
	b.volumes.Set(cacheKey, v, b.opts.VolumeTTL)
	b.metrics.RecordProviderRequest(bybitName, "ok")
	return v, true
}
