package marketdata

import "time"

// Options are shared provider-client settings.
type Options struct {
	VolumeTTL  time.Duration // freshness window for cached volumes
	RateBurst  float64       // token-bucket capacity per provider
	RatePerSec float64       // token-bucket refill per provider
}

// DefaultOptions mirror the production config defaults.
func DefaultOptions() Options {
	return Options{
		VolumeTTL:  300 * time.Second,
		RateBurst:  5,
		RatePerSec: 1,
	}
}
