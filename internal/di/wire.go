//go:build wireinject
// +build wireinject

package di

import (
	"HashClock/pkg/config"
	"HashClock/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// The cleanup closes infrastructure clients and must run after App.Run returns.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideClickHouseClient,
		ProvideSignatureCache,

		// Repositories
		ProvideStorage,
		ProvidePublisher,

		// Domain services and use cases
		ProvideProviders,
		ProvideArchivePipeline,
		ProvideSignatureUseCase,
		ProvideReportUseCase,
		ProvideSkyHub,

		// Transport
		ProvideRateLimiter,
		ProvideSignatureHandler,
		ProvideHTTPServer,
		ProvideKafkaConsumer,

		ProvideApp,
	)
	return nil, nil, nil
}
