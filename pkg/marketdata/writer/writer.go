package writer

import (
	"github.com/rxtech-lab/argo-screener/internal/types"
)

// MarketDataWriter persists the bars of a run so later runs can replay them.
type MarketDataWriter interface {
	// Initialize prepares the destination. It must be called before Write.
	Initialize() error
	// Write stages one bar.
	Write(data types.MarketData) error
	// Finalize makes the staged bars visible at the output path and returns it.
	// Nothing is visible at the output path before Finalize succeeds.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}
