package marketdata

import (
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata/provider"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name             string `json:"name"`
	DisplayName      string `json:"displayName"`
	Description      string `json:"description"`
	RequiresAuth     bool   `json:"requiresAuth"`
	RequiresDataPath bool   `json:"requiresDataPath"`
}

// providerRegistry holds metadata about all supported providers.
var providerRegistry = map[provider.ProviderType]ProviderInfo{
	provider.ProviderYahoo: {
		Name:             string(provider.ProviderYahoo),
		DisplayName:      "Yahoo Finance",
		Description:      "Free delayed quotes for equities, FX pairs (EURUSD=X) and indices",
		RequiresAuth:     false,
		RequiresDataPath: false,
	},
	provider.ProviderPolygon: {
		Name:             string(provider.ProviderPolygon),
		DisplayName:      "Polygon.io",
		Description:      "US stock market data provider with real-time and historical OHLCV data",
		RequiresAuth:     true,
		RequiresDataPath: false,
	},
	provider.ProviderBinance: {
		Name:             string(provider.ProviderBinance),
		DisplayName:      "Binance",
		Description:      "Cryptocurrency exchange with extensive market data for crypto trading pairs",
		RequiresAuth:     false,
		RequiresDataPath: false,
	},
	provider.ProviderDuckDB: {
		Name:             string(provider.ProviderDuckDB),
		DisplayName:      "Parquet snapshot",
		Description:      "Replays a parquet snapshot written by an earlier run, resampled with DuckDB",
		RequiresAuth:     false,
		RequiresDataPath: true,
	},
	provider.ProviderCSV: {
		Name:             string(provider.ProviderCSV),
		DisplayName:      "CSV file",
		Description:      "Reads bars from a local CSV file",
		RequiresAuth:     false,
		RequiresDataPath: true,
	},
}

// GetSupportedProviders returns the names of all supported providers in a stable order.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(provider.ProviderTypes))
	for _, providerType := range provider.ProviderTypes {
		providers = append(providers, string(providerType))
	}

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[provider.ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}
