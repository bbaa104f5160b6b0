package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"wingman/internal/domain/models"
	domrepo "wingman/internal/domain/repository"
	"wingman/internal/service/alertcache"
	"wingman/internal/service/marketdata"
	"wingman/internal/service/render"
	applogger "wingman/pkg/logger"
)

var (
	// ErrBadSecret rejects alerts whose shared secret does not match.
	ErrBadSecret = errors.New("alert secret mismatch")
	// ErrBadPayload rejects bodies that cannot be parsed as JSON.
	ErrBadPayload = errors.New("unparseable alert payload")
)

// AlertProcessor runs the webhook pipeline: authenticate, decode, cache,
// enrich, render, deliver, publish.
type AlertProcessor struct {
	secret    string
	chain     *VolumeChain
	dominance domrepo.DominanceProvider
	cache     *alertcache.Cache
	notifier  domrepo.Notifier
	events    domrepo.EventPublisher
	metrics   domrepo.Metrics
	logger    *applogger.Logger
}

func NewAlertProcessor(
	secret string,
	chain *VolumeChain,
	dominance domrepo.DominanceProvider,
	cache *alertcache.Cache,
	notifier domrepo.Notifier,
	events domrepo.EventPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
) *AlertProcessor {
	return &AlertProcessor{
		secret:    secret,
		chain:     chain,
		dominance: dominance,
		cache:     cache,
		notifier:  notifier,
		events:    events,
		metrics:   m,
		logger:    l,
	}
}

// Process handles one raw webhook body. Secret and parse failures return
// errors; everything after authentication is best-effort and reported
// through the result instead.
func (a *AlertProcessor) Process(ctx context.Context, body []byte) (models.ProcessResult, error) {
	start := time.Now()
	defer func() {
		a.metrics.RecordLatency("process_alert", time.Since(start).Seconds())
	}()

	raw, err := models.ParseAlertBody(body)
	if err != nil {
		a.metrics.RecordAlert("bad_payload")
		return models.ProcessResult{}, ErrBadPayload
	}

	payload := models.DecodeAlert(raw)
	if subtle.ConstantTimeCompare([]byte(payload.Secret), []byte(a.secret)) != 1 {
		a.metrics.RecordAlert("bad_secret")
		return models.ProcessResult{}, ErrBadSecret
	}

	payload.Timeframe = domrepo.NormalizeTimeframe(payload.Timeframe)
	a.cache.Record(payload)

	sym := marketdata.ParseSymbol(payload.Symbol)
	volume, source := a.chain.Resolve(ctx, sym, payload)

	enrich := render.Enrichment{Volume: volume, VolumeSource: source}
	if payload.BTCDom == nil || payload.AltDom == nil {
		if d, ok := a.dominance.FetchGlobalDominance(ctx); ok {
			enrich.Dominance = &d
		}
	}

	text := render.Message(payload, enrich)
	result := models.ProcessResult{Processed: true, VolumeSource: source}

	if err := a.notifier.Send(ctx, text); err != nil {
		a.logger.Error("alert delivery failed",
			applogger.String("symbol", payload.Symbol),
			applogger.Error(err))
		a.metrics.RecordAlert("delivery_failed")
	} else {
		result.Delivered = true
		a.metrics.RecordAlert("delivered")
	}

	if a.events != nil {
		if err := a.events.PublishProcessed(ctx, payload, result); err != nil {
			a.logger.Warn("processed-alert event publish failed", applogger.Error(err))
		}
	}

	return result, nil
}
