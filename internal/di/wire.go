//go:build wireinject
// +build wireinject

package di

import (
	"TickerPulse/pkg/config"
	"TickerPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideBarStore,
		ProvideTickStorage,
		ProvideTickPublisher,
		ProvideBarPublisher,
		ProvideReportPublisher,
		ProvideQuoteStream,
		ProvideQuoteProvider,

		// Use cases
		ProvideTickProcessor,
		ProvideTickCollector,
		ProvideKafkaBarsHandler,
		ProvideAnalysisUseCase,
		ProvideBarsUseCase,
		ProvideScanQueue,

		// HTTP
		ProvideAnalysisHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
