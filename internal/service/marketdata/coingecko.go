package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"wingman/internal/domain/models"
	domrepo "wingman/internal/domain/repository"
	icache "wingman/internal/service/cache"
	"wingman/internal/service/ratelimit"
	pkgcache "wingman/pkg/cache"
	xhttp "wingman/pkg/http"
	applogger "wingman/pkg/logger"
)

const coinGeckoName = "CoinGecko"

// idCachePrefix namespaces symbol→coin-id entries in the shared cache
// backend.
const idCachePrefix = "cg-id"

// CoinGecko is the primary aggregator client. A free-text base asset is
// resolved to a CoinGecko coin id via the search endpoint (cached without
// expiry — id mappings rarely change), then the 24h USD volume is read from
// the coin endpoint.
type CoinGecko struct {
	http    *xhttp.Client
	baseURL string
	logger  *applogger.Logger
	metrics domrepo.Metrics

	ids     pkgcache.Service
	volumes *icache.TTLCache[models.Volume]
	opts    Options
	limiter *ratelimit.Limiter
}

func NewCoinGecko(client *xhttp.Client, baseURL string, ids pkgcache.Service, l *applogger.Logger, m domrepo.Metrics, opts Options) *CoinGecko {
	return &CoinGecko{
		http:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  l,
		metrics: m,
		ids:     ids,
		volumes: icache.NewTTLCache[models.Volume](),
		opts:    opts,
		limiter: ratelimit.New(),
	}
}

func (c *CoinGecko) Name() string { return coinGeckoName }

type cgSearchResponse struct {
	Coins []struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
	} `json:"coins"`
}

type cgCoinResponse struct {
	MarketData struct {
		TotalVolume map[string]float64 `json:"total_volume"`
	} `json:"market_data"`
}

type cgGlobalResponse struct {
	Data struct {
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
	} `json:"data"`
}

// FetchVolume returns the 24h USD volume for base. The quote argument is
// unused: the aggregator reports in USD regardless of the traded pair.
func (c *CoinGecko) FetchVolume(ctx context.Context, base, _ string) (models.Volume, bool) {
	key := strings.ToLower(strings.TrimSpace(base))
	if key == "" {
		return models.Volume{}, false
	}

	cacheKey := "coingecko:" + key
	if v, ok := c.volumes.Get(cacheKey); ok {
		c.metrics.RecordVolumeCacheHit(coinGeckoName)
		return v, true
	}

	if !c.limiter.Allow(coinGeckoName, c.opts.RateBurst, c.opts.RatePerSec) {
		c.logger.Warn("coingecko: rate limited", applogger.String("base", key))
		return models.Volume{}, false
	}

	id, err := c.resolveID(ctx, key)
	if err != nil {
		c.metrics.RecordProviderRequest(coinGeckoName, "error")
		c.logger.Warn("coingecko: id resolution failed", applogger.String("base", key), applogger.Error(err))
		return models.Volume{}, false
	}

	var coin cgCoinResponse
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("market_data", "true")
	q.Set("community_data", "false")
	q.Set("developer_data", "false")
	if err := c.http.GetJSON(ctx, c.baseURL+"/api/v3/coins/"+url.PathEscape(id), q, &coin); err != nil {
		c.metrics.RecordProviderRequest(coinGeckoName, "error")
		c.logger.Warn("coingecko: coin fetch failed", applogger.String("id", id), applogger.Error(err))
		return models.Volume{}, false
	}

	usd, ok := coin.MarketData.TotalVolume["usd"]
	if !ok || usd <= 0 {
		c.metrics.RecordProviderRequest(coinGeckoName, "empty")
		return models.Volume{}, false
	}

	v := models.Volume{Value: usd, Units: "USD"}
	c.volumes.Set(cacheKey, v, c.opts.VolumeTTL)
	c.metrics.RecordProviderRequest(coinGeckoName, "ok")
	return v, true
}

// resolveID maps a base asset symbol to a CoinGecko coin id, preferring an
// exact symbol match among search hits.
func (c *CoinGecko) resolveID(ctx context.Context, base string) (string, error) {
	idKey := pkgcache.GenerateKey(idCachePrefix, base)

	var id string
	if err := c.ids.Get(ctx, idKey, &id); err == nil && id != "" {
		return id, nil
	} else if err != nil && !errors.Is(err, pkgcache.ErrCacheMiss) {
		c.logger.Warn("coingecko: id cache read failed", applogger.Error(err))
	}

	var res cgSearchResponse
	q := url.Values{}
	q.Set("query", base)
	if err := c.http.GetJSON(ctx, c.baseURL+"/api/v3/search", q, &res); err != nil {
		return "", err
	}
	if len(res.Coins) == 0 {
		return "", fmt.Errorf("no search hits for %q", base)
	}

	id = res.Coins[0].ID
	for _, coin := range res.Coins {
		if strings.EqualFold(coin.Symbol, base) {
			id = coin.ID
			break
		}
	}

	// id mappings rarely change; no expiry
	if err := c.ids.Set(ctx, idKey, id, 0); err != nil {
		c.logger.Warn("coingecko: id cache write failed", applogger.Error(err))
	}
	return id, nil
}

// InvalidateID drops the cached coin id for a base asset symbol.
func (c *CoinGecko) InvalidateID(ctx context.Context, base string) error {
	key := strings.ToLower(strings.TrimSpace(base))
	return c.ids.Delete(ctx, pkgcache.GenerateKey(idCachePrefix, key))
}

// FetchGlobalDominance reads BTC dominance from the global endpoint;
// alt dominance is the remainder.
func (c *CoinGecko) FetchGlobalDominance(ctx context.Context) (models.Dominance, bool) {
	var res cgGlobalResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/api/v3/global", nil, &res); err != nil {
		c.metrics.RecordProviderRequest(coinGeckoName, "error")
		c.logger.Warn("coingecko: global fetch failed", applogger.Error(err))
		return models.Dominance{}, false
	}

	btc, ok := res.Data.MarketCapPercentage["btc"]
	if !ok {
		c.metrics.RecordProviderRequest(coinGeckoName, "empty")
		return models.Dominance{}, false
	}
	c.metrics.RecordProviderRequest(coinGeckoName, "ok")
	return models.Dominance{BTC: btc, Alt: 100 - btc}, true
}
