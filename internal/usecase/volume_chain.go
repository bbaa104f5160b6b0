package usecase

import (
	"context"

	"wingman/internal/domain/models"
	domrepo "wingman/internal/domain/repository"
	"wingman/internal/service/marketdata"
	applogger "wingman/pkg/logger"
)

// SourceUnavailable labels the terminal state of the volume chain when no
// tier can produce a figure.
const SourceUnavailable = "unavailable"

// VolumeChain resolves 24h volume through a fixed priority order: the
// aggregator, then the alert's own venue, then figures embedded in the alert
// itself. The first hit wins; later tiers are never consulted.
type VolumeChain struct {
	aggregator domrepo.VolumeProvider
	venues     *marketdata.VenueRegistry
	logger     *applogger.Logger
}

func NewVolumeChain(aggregator domrepo.VolumeProvider, venues *marketdata.VenueRegistry, l *applogger.Logger) *VolumeChain {
	return &VolumeChain{aggregator: aggregator, venues: venues, logger: l}
}

// Resolve returns the volume and a provenance label naming the tier that
// produced it. A nil volume always pairs with SourceUnavailable.
func (c *VolumeChain) Resolve(ctx context.Context, sym models.ResolvedSymbol, p *models.AlertPayload) (*models.Volume, string) {
	if sym.Base != "" {
		if v, ok := c.aggregator.FetchVolume(ctx, sym.Base, sym.Quote); ok {
			return &v, c.aggregator.Name()
		}
		if provider, ok := c.venues.ForVenue(sym.Venue); ok {
			if v, ok := provider.FetchVolume(ctx, sym.Base, sym.Quote); ok {
				return &v, provider.Name() + " 24h"
			}
		}
	}

	if p.VolumeQuote24h != nil {
		return &models.Volume{Value: *p.VolumeQuote24h, Units: sym.Quote}, "TV quote vol"
	}
	if p.VolumeBase24h != nil {
		return &models.Volume{Value: *p.VolumeBase24h, Units: sym.Base}, "TV base vol"
	}
	if p.Volume != nil {
		return &models.Volume{Value: *p.Volume, Units: sym.Base}, "TV vol"
	}

	c.logger.Debug("volume unresolved", applogger.String("symbol", p.Symbol))
	return nil, SourceUnavailable
}
