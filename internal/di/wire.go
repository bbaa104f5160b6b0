//go:build wireinject
// +build wireinject

package di

import (
	"wingman/pkg/config"
	"wingman/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideIDCache,
		ProvideProviderClient,
		ProvideTelegramClient,
		ProvideEventPublisher,

		// Market data providers
		ProvideCoinGecko,
		ProvideVenueRegistry,

		// Use cases
		ProvideAlertCache,
		ProvideVolumeChain,
		ProvideTradePlanner,
		ProvideAlertProcessor,
		ProvideAnalyzer,
		ProvideBot,
		ProvidePoller,

		// HTTP surface and application
		ProvideHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}
