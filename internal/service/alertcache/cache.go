package alertcache

import (
	"sync"

	"wingman/internal/domain/models"
	domrepo "wingman/internal/domain/repository"
)

// Cache keeps the most recent alert payload per (symbol, timeframe), plus
// the last payload overall. Writes are unconditional overwrites — for the
// same key, last write wins and concurrent writers are an accepted race.
// Entries live for the process lifetime; there is no eviction.
type Cache struct {
	mu sync.RWMutex
	// symbol -> timeframe -> latest payload
	bySymbol map[string]map[string]*models.AlertPayload
	// insertion order of timeframes per symbol, for deterministic fallback
	tfOrder map[string][]string
	last    *models.AlertPayload
}

func New() *Cache {
	return &Cache{
		bySymbol: make(map[string]map[string]*models.AlertPayload),
		tfOrder:  make(map[string][]string),
	}
}

// Record stores the payload under (symbol, timeframe) and updates the
// last-payload pointer.
func (c *Cache) Record(p *models.AlertPayload) {
	if p == nil || p.Symbol == "" {
		return
	}
	tf := domrepo.NormalizeTimeframe(p.Timeframe)

	c.mu.Lock()
	defer c.mu.Unlock()

	tfs, ok := c.bySymbol[p.Symbol]
	if !ok {
		tfs = make(map[string]*models.AlertPayload)
		c.bySymbol[p.Symbol] = tfs
	}
	if _, seen := tfs[tf]; !seen {
		c.tfOrder[p.Symbol] = append(c.tfOrder[p.Symbol], tf)
	}
	tfs[tf] = p
	c.last = p
}

// Lookup retrieves the most recent payload. With both symbol and timeframe
// it is a direct key lookup; with only a symbol the default timeframe is
// preferred, then the first-inserted one; with neither, the last payload
// overall.
func (c *Cache) Lookup(symbol, timeframe string) *models.AlertPayload {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if symbol == "" {
		return c.last
	}

	tfs, ok := c.bySymbol[symbol]
	if !ok {
		return nil
	}

	if timeframe != "" {
		return tfs[domrepo.NormalizeTimeframe(timeframe)]
	}

	if p, ok := tfs[domrepo.DefaultTimeframe]; ok {
		return p
	}
	if order := c.tfOrder[symbol]; len(order) > 0 {
		return tfs[order[0]]
	}
	return nil
}
