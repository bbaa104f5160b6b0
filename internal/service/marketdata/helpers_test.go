package marketdata

import (
	xhttp "wingman/pkg/http"
	applogger "wingman/pkg/logger"

	"time"
)

type nopMetrics struct{}

func (nopMetrics) RecordAlert(string)                   {}
func (nopMetrics) RecordProviderRequest(string, string) {}
func (nopMetrics) RecordVolumeCacheHit(string)          {}
func (nopMetrics) RecordNotifierChunk(string)           {}
func (nopMetrics) RecordLatency(string, float64)        {}

func testClient() *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(2 * time.Second))
}

func testLogger() *applogger.Logger {
	return applogger.Nop()
}

func testOptions() Options {
	o := DefaultOptions()
	o.RateBurst = 100
	o.RatePerSec = 100
	return o
}
