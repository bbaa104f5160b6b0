package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"wingman/internal/domain/models"
	domrepo "wingman/internal/domain/repository"
	"wingman/internal/service/alertcache"
	applogger "wingman/pkg/logger"
)

// ErrNoCachedData means no alert matching the request has been seen yet.
var ErrNoCachedData = errors.New("no cached alert for request")

// Analyzer turns cached technicals into an LLM trade plan.
type Analyzer struct {
	cache   *alertcache.Cache
	planner domrepo.TradePlanner
	metrics domrepo.Metrics
	logger  *applogger.Logger
}

func NewAnalyzer(cache *alertcache.Cache, planner domrepo.TradePlanner, m domrepo.Metrics, l *applogger.Logger) *Analyzer {
	return &Analyzer{cache: cache, planner: planner, metrics: m, logger: l}
}

// Analyze looks up the freshest cached alert for the request and asks the
// planner for a plan. Empty symbol falls back to the most recent alert
// overall; empty timeframe follows the cache's preference order.
func (a *Analyzer) Analyze(ctx context.Context, symbol, timeframe string) (*models.AnalyzeResponse, error) {
	start := time.Now()
	defer func() {
		a.metrics.RecordLatency("analyze", time.Since(start).Seconds())
	}()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if timeframe != "" {
		timeframe = domrepo.NormalizeTimeframe(timeframe)
	}

	payload := a.cache.Lookup(symbol, timeframe)
	if payload == nil {
		return nil, ErrNoCachedData
	}

	plan, err := a.planner.Plan(ctx, payload)
	if err != nil {
		a.logger.Error("trade plan generation failed",
			applogger.String("symbol", payload.Symbol),
			applogger.Error(err))
		return nil, err
	}

	return &models.AnalyzeResponse{
		Symbol:    payload.Symbol,
		Timeframe: payload.Timeframe,
		Plan:      plan,
	}, nil
}
