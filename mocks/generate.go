package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-screener/pkg/marketdata/provider Provider
//go:generate mockgen -destination=./mock_writer.go -package=mocks github.com/rxtech-lab/argo-screener/pkg/marketdata/writer MarketDataWriter
//go:generate mockgen -destination=./mock_indicator.go -package=mocks github.com/rxtech-lab/argo-screener/internal/indicator Indicator
